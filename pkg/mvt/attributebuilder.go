package mvt

// Attr is a v3 structured attribute value, the write-side mirror of the
// svXxx tags decodeStructuredValue reads (spec 4.5, attributes.go). Exactly
// one field should be set; List and Map entries recurse.
type Attr struct {
	Null   bool
	Bool   *bool
	Double *float64
	Float  *float32
	Int    *uint64
	String *string
	Sint   *int64

	List []Attr
	Map  []AttrField

	NumberList *NumberListAttr
}

// AttrField is one key/value pair inside an Attr.Map.
type AttrField struct {
	Key   string
	Value Attr
}

// NumberListAttr is a v3 number-list attribute: a shared scaling plus a
// sequence of optionally-null scaled integers.
type NumberListAttr struct {
	Scaling Scaling
	Values  []*int64 // nil entry means null
}

// AddAttribute appends a top-level v3 structured attribute under key,
// deduplicating the key against the layer's shared string table (spec 5.3,
// grounded on vtzero's structured-attribute builder).
func (fb *FeatureBuilder) AddAttribute(key string, value Attr) error {
	if fb.state != stateHasGeometry {
		return newGeometryError(0, 0, "AddAttribute must follow a geometry")
	}
	if fb.layer.version < 3 {
		return newFormatError(0, "structured attributes require layer version 3")
	}
	if len(fb.tagsBuf) > 0 {
		return newFormatError(0, "feature has both tags and attributes")
	}
	keyIdx := fb.layer.strings.add(key)
	fb.attrsBuf = putVarint(fb.attrsBuf, uint64(keyIdx))
	fb.attrsBuf = fb.encodeAttrValue(fb.attrsBuf, value)
	return nil
}

// AddGeometricAttribute attaches a per-vertex attribute stream to this
// feature's geometry: one optionally-null scaled value per vertex already
// emitted by a preceding Add*Geometry call (spec 4.3.4.5, 5.3). values must
// have exactly as many entries as the geometry has vertices.
func (fb *FeatureBuilder) AddGeometricAttribute(key string, scaling Scaling, values []*int64) error {
	if fb.state != stateHasGeometry {
		return newGeometryError(0, 0, "AddGeometricAttribute must follow a geometry")
	}
	if fb.layer.version < 3 {
		return newFormatError(0, "geometric attributes require layer version 3")
	}
	if len(values) != fb.vertexCount {
		return newGeometryError(0, 0, "geometric attribute value count must match vertex count")
	}

	keyIdx := fb.layer.strings.add(key)
	scaleIdx, _ := fb.layer.AddAttributeScaling(scaling)

	// Reuses the number-list grammar directly: a number-list-tagged word
	// carrying the vertex count, then the scaling index, then one raw word
	// per vertex (spec 4.3.4.5, vtzero detail/geometry.hpp
	// geometric_attribute_collection).
	fb.geomAttrBuf = putVarint(fb.geomAttrBuf, uint64(keyIdx))
	fb.geomAttrBuf = putVarint(fb.geomAttrBuf, (uint64(len(values))<<4)|svNumberList)
	fb.geomAttrBuf = putVarint(fb.geomAttrBuf, uint64(scaleIdx))
	fb.geomAttrBuf = encodeNumberListValues(fb.geomAttrBuf, values)
	fb.sawGeometryAttrs = true
	return nil
}

func (fb *FeatureBuilder) encodeAttrValue(buf []byte, v Attr) []byte {
	switch {
	case v.Null:
		return putVarint(buf, (0<<4)|svBoolOrNull)
	case v.Bool != nil:
		param := uint64(1)
		if *v.Bool {
			param = 2
		}
		return putVarint(buf, (param<<4)|svBoolOrNull)
	case v.Double != nil:
		idx := uint64(fb.layer.doubles.add(*v.Double))
		return putVarint(buf, (idx<<4)|svDouble)
	case v.Float != nil:
		idx := uint64(fb.layer.floats.add(*v.Float))
		return putVarint(buf, (idx<<4)|svFloat)
	case v.Int != nil:
		idx := uint64(fb.layer.ints.add(*v.Int))
		return putVarint(buf, (idx<<4)|svUint)
	case v.String != nil:
		idx := uint64(fb.layer.strings.add(*v.String))
		return putVarint(buf, (idx<<4)|svString)
	case v.Sint != nil:
		return putVarint(buf, (uint64(encodeZigZag64(*v.Sint))<<4)|svDirectSint)
	case v.List != nil:
		buf = putVarint(buf, (uint64(len(v.List))<<4)|svList)
		for _, elem := range v.List {
			buf = fb.encodeAttrValue(buf, elem)
		}
		return buf
	case v.Map != nil:
		buf = putVarint(buf, (uint64(len(v.Map))<<4)|svMap)
		for _, field := range v.Map {
			keyIdx := uint64(fb.layer.strings.add(field.Key))
			buf = putVarint(buf, keyIdx)
			buf = fb.encodeAttrValue(buf, field.Value)
		}
		return buf
	case v.NumberList != nil:
		nl := v.NumberList
		buf = putVarint(buf, (uint64(len(nl.Values))<<4)|svNumberList)
		scaleIdx, _ := fb.layer.AddAttributeScaling(nl.Scaling)
		buf = putVarint(buf, uint64(scaleIdx))
		buf = encodeNumberListValues(buf, nl.Values)
		return buf
	default:
		return putVarint(buf, (0<<4)|svBoolOrNull)
	}
}

// encodeNumberListValues appends one word per value to buf: 0 for null,
// otherwise zigzag_encode(value-cursor)+1 (spec 4.5.3, mirroring
// decodeNumberListValue's get_next_value grammar).
func encodeNumberListValues(buf []byte, values []*int64) []byte {
	var cursor int64
	for _, val := range values {
		if val == nil {
			buf = putVarint(buf, 0)
			continue
		}
		buf = putVarint(buf, uint64(encodeZigZag64(*val-cursor))+1)
		cursor = *val
	}
	return buf
}
