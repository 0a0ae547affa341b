package mvt

// builderState tracks what a FeatureBuilder may legally do next, mirroring
// vtzero's builder.hpp state machine (spec 5.3): an id is optional and must
// come first, exactly one geometry is required, and attributes (tags or
// structured) are optional and come last.
type builderState uint8

const (
	stateWantID builderState = iota
	stateWantGeometry
	stateHasGeometry
	stateCommitted
)

// FeatureBuilder assembles one feature within a LayerBuilder. Create one
// with LayerBuilder.NewFeature, drive it through SetIntID or SetStringID/geometry/attribute
// calls in order, and finish with Commit (or Rollback to discard it).
type FeatureBuilder struct {
	layer *LayerBuilder
	state builderState

	id FeatureID

	geomType GeomType
	geomBuf  []byte
	elevBuf  []byte
	knotsBuf []byte
	degree   uint32

	geomCursorX, geomCursorY, geomCursorZ int64
	vertexCount                          int

	tagsBuf     []byte
	attrsBuf    []byte
	geomAttrBuf []byte

	sawGeometryAttrs bool
}

// SetIntID sets the feature's integer id. Legal only before any geometry
// has been started.
func (fb *FeatureBuilder) SetIntID(id uint64) error {
	if fb.state != stateWantID {
		return newGeometryError(0, 0, "SetIntID must be called before geometry")
	}
	fb.id = FeatureID{HasInt: true, Int: id}
	return nil
}

// SetStringID sets the feature's string id (v3 only). Legal only before
// any geometry has been started.
func (fb *FeatureBuilder) SetStringID(id string) error {
	if fb.state != stateWantID {
		return newGeometryError(0, 0, "SetStringID must be called before geometry")
	}
	if fb.layer.version < 3 {
		return newFormatError(0, "string feature ids require layer version 3")
	}
	fb.id = FeatureID{HasString: true, String: id}
	return nil
}

// CopyID copies an id from a decoded feature, preserving whichever
// alternative (int/string/none) it carried (spec 5.2 copy_id).
func (fb *FeatureBuilder) CopyID(src Feature) error {
	if fb.state != stateWantID {
		return newGeometryError(0, 0, "CopyID must be called before geometry")
	}
	fb.id = src.ID()
	return nil
}

func (fb *FeatureBuilder) beginGeometry(t GeomType) error {
	if fb.state == stateHasGeometry || fb.state == stateCommitted {
		return newGeometryError(0, 0, "feature already has a geometry")
	}
	if t == GeomSpline && fb.layer.version < 3 {
		return newFormatError(0, "spline geometry requires layer version 3")
	}
	fb.geomType = t
	fb.state = stateHasGeometry
	return nil
}

// AddProperty appends a v1/v2 tag pair, deduplicating both the key and the
// value against the layer's shared tables.
func (fb *FeatureBuilder) AddProperty(key string, value PropertyValue) error {
	if fb.state != stateHasGeometry {
		return newGeometryError(0, 0, "AddProperty must follow a geometry")
	}
	if len(fb.attrsBuf) > 0 {
		return newFormatError(0, "feature has both tags and attributes")
	}
	keyIdx := fb.layer.keys.add(key)
	valIdx := fb.layer.values.add(value)
	fb.tagsBuf = putVarint(fb.tagsBuf, uint64(keyIdx))
	fb.tagsBuf = putVarint(fb.tagsBuf, uint64(valIdx))
	return nil
}

// AddPropertyWithoutDupCheck appends a v1/v2 tag pair using fresh key/value
// table slots even if an identical entry already exists, for callers that
// have already done their own deduplication and want to skip the scan
// (spec 5.2 add_*_without_dup_check).
func (fb *FeatureBuilder) AddPropertyWithoutDupCheck(key string, value PropertyValue) error {
	if fb.state != stateHasGeometry {
		return newGeometryError(0, 0, "AddPropertyWithoutDupCheck must follow a geometry")
	}
	keyIdx := uint32(len(fb.layer.keys.keys))
	fb.layer.keys.keys = append(fb.layer.keys.keys, key)
	valIdx := uint32(len(fb.layer.values.values))
	fb.layer.values.values = append(fb.layer.values.values, value)
	fb.layer.values.encoded = append(fb.layer.values.encoded, encodePropertyValue(value))
	fb.tagsBuf = putVarint(fb.tagsBuf, uint64(keyIdx))
	fb.tagsBuf = putVarint(fb.tagsBuf, uint64(valIdx))
	return nil
}

// CopyAttributes copies a decoded feature's raw tags/attributes payload
// verbatim, under the assumption that it shares this builder's layer's
// tables (spec 5.2 copy_attributes) — e.g. when rebuilding a layer from its
// own decoded features.
func (fb *FeatureBuilder) CopyAttributes(src Feature) error {
	if fb.state != stateHasGeometry {
		return newGeometryError(0, 0, "CopyAttributes must follow a geometry")
	}
	if len(src.tags) > 0 {
		fb.tagsBuf = append([]byte(nil), src.tags...)
	}
	if len(src.attributes) > 0 {
		fb.attrsBuf = append([]byte(nil), src.attributes...)
	}
	if len(src.geometricAttributes) > 0 {
		fb.geomAttrBuf = append([]byte(nil), src.geometricAttributes...)
		fb.sawGeometryAttrs = true
	}
	return nil
}

// Rollback discards this feature; it will not be added to its layer.
func (fb *FeatureBuilder) Rollback() { fb.state = stateCommitted }

// Commit finalizes the feature and appends it to its layer. A FeatureBuilder
// must not be used again after Commit or Rollback.
func (fb *FeatureBuilder) Commit() error {
	if fb.state == stateCommitted {
		return newGeometryError(0, 0, "feature already committed or rolled back")
	}
	if fb.state != stateHasGeometry {
		return newGeometryError(0, 0, "feature has no geometry")
	}
	if len(fb.tagsBuf) > 0 && len(fb.attrsBuf) > 0 {
		return newFormatError(0, "feature has both tags and attributes")
	}

	var buf []byte
	switch {
	case fb.id.HasInt:
		buf = putVarintField(buf, pbfFeatureID, fb.id.Int)
	case fb.id.HasString:
		buf = putBytesField(buf, pbfFeatureStringID, []byte(fb.id.String))
	}
	buf = putVarintField(buf, pbfFeatureType, uint64(fb.geomType))
	if len(fb.tagsBuf) > 0 {
		buf = putBytesField(buf, pbfFeatureTags, fb.tagsBuf)
	}
	buf = putBytesField(buf, pbfFeatureGeometry, fb.geomBuf)
	if len(fb.elevBuf) > 0 {
		buf = putBytesField(buf, pbfFeatureElevations, fb.elevBuf)
	}
	if len(fb.attrsBuf) > 0 {
		buf = putBytesField(buf, pbfFeatureAttributes, fb.attrsBuf)
	}
	if fb.sawGeometryAttrs {
		buf = putBytesField(buf, pbfFeatureGeometricAttributes, fb.geomAttrBuf)
	}
	if len(fb.knotsBuf) > 0 {
		buf = putBytesField(buf, pbfFeatureSplineKnots, fb.knotsBuf)
	}
	if fb.geomType == GeomSpline {
		buf = putVarintField(buf, pbfFeatureSplineDegree, uint64(fb.degree))
	}

	fb.layer.addFeatureBytes(buf)
	fb.state = stateCommitted
	return nil
}
