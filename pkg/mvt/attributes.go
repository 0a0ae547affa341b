package mvt

// Structured value type tags packed into the low 4 bits of each v3 attribute
// word, with the high bits carrying a type-specific parameter (spec 4.5.2).
// Types 11-15 are reserved for future types; a reader that doesn't recognize
// them must still be able to skip past them, so a structured value with a
// reserved tag is skipped as its one opaque word and nothing else is
// consumed (see DESIGN.md, open question "Structured-value tags 11-15").
const (
	svString     uint64 = 0
	svFloat      uint64 = 1
	svDouble     uint64 = 2
	svUint       uint64 = 3 // param is an index into the layer's int table, value used as-is
	svInt        uint64 = 4 // param is an index into the layer's int table, value zig-zag decoded
	svDirectUint uint64 = 5 // param is the value itself
	svDirectSint uint64 = 6 // param is the zig-zag encoded value
	svBoolOrNull uint64 = 7 // param 0=null, 1=false, 2=true
	svList       uint64 = 8
	svMap        uint64 = 9
	svNumberList uint64 = 10
)

func isReservedStructuredTag(tag uint64) bool { return tag >= 11 && tag <= 15 }

// DecodeAttributes invokes the handler's attribute callbacks over this
// feature's key/value pairs, dispatching to the v1/v2 tags grammar or the
// v3 structured-attribute grammar depending on which payload the feature
// carries (spec 4.4, 4.5).
func (f Feature) DecodeAttributes(h interface{}) error {
	switch {
	case f.HasTags():
		return decodeTags(&f, h)
	case f.HasAttributes():
		return decodeAttributes(&f, h)
	default:
		return nil
	}
}

// decodeTags walks the v1/v2 flat (key_index, value_index) varint pair
// stream (spec 4.1 "tags"), resolving each side against the layer's key and
// value tables.
func decodeTags(f *Feature, h interface{}) error {
	layer, layerNum, featureNum := f.layer, f.LayerNum(), f.Num()
	r := newFieldReader(f.tags)
	const depth = 0
	for !r.done() {
		kv, err := r.varint()
		if err != nil {
			return newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		if r.done() {
			return newFeatureFormatError(layerNum, featureNum, "tags array has odd length")
		}
		vv, err := r.varint()
		if err != nil {
			return newFeatureFormatError(layerNum, featureNum, err.Error())
		}

		keyIdx := newIndex(uint32(kv))
		if !callKeyIndex(h, keyIdx, depth) {
			return nil
		}
		key, err := layer.Key(uint32(kv))
		if err != nil {
			return err
		}
		if !callAttributeKey(h, key, depth) {
			return nil
		}

		valIdx := newIndex(uint32(vv))
		if !callValueIndex(h, valIdx, depth) {
			return nil
		}
		value, err := layer.Value(uint32(vv))
		if err != nil {
			return err
		}
		if !emitPropertyValue(h, value, depth) {
			return nil
		}
	}
	return nil
}

func emitPropertyValue(h interface{}, v PropertyValue, depth int) bool {
	switch v.Type() {
	case StringValue:
		s, _ := v.String()
		return callAttributeValueString(h, s, depth)
	case FloatValue:
		x, _ := v.Float()
		return callAttributeValueFloat(h, x, depth)
	case DoubleValue:
		x, _ := v.Double()
		return callAttributeValueDouble(h, x, depth)
	case IntValue:
		x, _ := v.Int()
		return callAttributeValueInt(h, x, depth)
	case SintValue:
		x, _ := v.Sint()
		return callAttributeValueInt(h, x, depth)
	case UintValue:
		x, _ := v.Uint()
		return callAttributeValueUint(h, x, depth)
	case BoolValue:
		x, _ := v.Bool()
		return callAttributeValueBool(h, x, depth)
	default:
		return true
	}
}

// decodeAttributes walks the v3 structured attribute stream: a top-level
// sequence of (key_index, structured_value) pairs (spec 4.5).
func decodeAttributes(f *Feature, h interface{}) error {
	layer, layerNum, featureNum := f.layer, f.LayerNum(), f.Num()
	r := newFieldReader(f.attributes)
	const depth = 0
	for !r.done() {
		kv, err := r.varint()
		if err != nil {
			return newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		keyIdx := newIndex(uint32(kv))
		if !callKeyIndex(h, keyIdx, depth) {
			return nil
		}
		key, err := layer.StringEntry(uint32(kv))
		if err != nil {
			return err
		}
		if !callAttributeKey(h, key, depth) {
			return nil
		}
		cont, err := decodeStructuredValue(r, layer, h, depth+1, layerNum, featureNum)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// decodeStructuredValue decodes one v3 structured value word (and whatever
// further words that type requires), dispatching the matching handler
// callback(s). It returns false if the handler asked to stop early.
func decodeStructuredValue(r *fieldReader, layer *Layer, h interface{}, depth, layerNum, featureNum int) (bool, error) {
	word, err := r.varint()
	if err != nil {
		return false, newFeatureFormatError(layerNum, featureNum, err.Error())
	}
	tag := word & 0xF
	param := word >> 4

	switch {
	case isReservedStructuredTag(tag):
		return true, nil

	case tag == svBoolOrNull:
		switch param {
		case 0:
			return callAttributeValueNull(h, depth), nil
		case 1:
			return callAttributeValueBool(h, false, depth), nil
		case 2:
			return callAttributeValueBool(h, true, depth), nil
		default:
			return false, newFeatureFormatError(layerNum, featureNum, "invalid value for bool/null structured value")
		}

	case tag == svDouble:
		idx := newIndex(uint32(param))
		if !callDoubleValueIndex(h, idx, depth) {
			return false, nil
		}
		v, err := layer.DoubleValue(uint32(param))
		if err != nil {
			return false, err
		}
		return callAttributeValueDouble(h, v, depth), nil

	case tag == svFloat:
		idx := newIndex(uint32(param))
		if !callFloatValueIndex(h, idx, depth) {
			return false, nil
		}
		v, err := layer.FloatValue(uint32(param))
		if err != nil {
			return false, err
		}
		return callAttributeValueFloat(h, v, depth), nil

	case tag == svUint:
		idx := newIndex(uint32(param))
		if !callIntValueIndex(h, idx, depth) {
			return false, nil
		}
		v, err := layer.IntValue(uint32(param))
		if err != nil {
			return false, err
		}
		return callAttributeValueUint(h, v, depth), nil

	case tag == svInt:
		idx := newIndex(uint32(param))
		if !callIntValueIndex(h, idx, depth) {
			return false, nil
		}
		v, err := layer.IntValue(uint32(param))
		if err != nil {
			return false, err
		}
		return callAttributeValueInt(h, decodeZigZag64(v), depth), nil

	case tag == svString:
		idx := newIndex(uint32(param))
		if !callStringValueIndex(h, idx, depth) {
			return false, nil
		}
		s, err := layer.StringEntry(uint32(param))
		if err != nil {
			return false, err
		}
		return callAttributeValueString(h, s, depth), nil

	case tag == svDirectSint:
		return callAttributeValueInt(h, decodeZigZag64(param), depth), nil

	case tag == svDirectUint:
		return callAttributeValueUint(h, param, depth), nil

	case tag == svList:
		return decodeListValue(r, layer, h, int(param), depth, layerNum, featureNum)

	case tag == svMap:
		return decodeMapValue(r, layer, h, int(param), depth, layerNum, featureNum)

	case tag == svNumberList:
		return decodeNumberListValue(r, layer, h, param, depth, layerNum, featureNum)

	default:
		return false, newFeatureFormatError(layerNum, featureNum, "unknown structured value type")
	}
}

func decodeListValue(r *fieldReader, layer *Layer, h interface{}, count, depth, layerNum, featureNum int) (bool, error) {
	if !callStartListAttribute(h, count, depth) {
		return false, nil
	}
	for i := 0; i < count; i++ {
		cont, err := decodeStructuredValue(r, layer, h, depth+1, layerNum, featureNum)
		if err != nil {
			return false, err
		}
		if !cont {
			return false, nil
		}
	}
	return callEndListAttribute(h, depth), nil
}

func decodeMapValue(r *fieldReader, layer *Layer, h interface{}, count, depth, layerNum, featureNum int) (bool, error) {
	if !callStartMapAttribute(h, count, depth) {
		return false, nil
	}
	for i := 0; i < count; i++ {
		kv, err := r.varint()
		if err != nil {
			return false, newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		keyIdx := newIndex(uint32(kv))
		if !callKeyIndex(h, keyIdx, depth+1) {
			return false, nil
		}
		key, err := layer.StringEntry(uint32(kv))
		if err != nil {
			return false, err
		}
		if !callAttributeKey(h, key, depth+1) {
			return false, nil
		}
		cont, err := decodeStructuredValue(r, layer, h, depth+2, layerNum, featureNum)
		if err != nil {
			return false, err
		}
		if !cont {
			return false, nil
		}
	}
	return callEndMapAttribute(h, depth), nil
}

// decodeNumberListValue decodes a v3 number-list: a scaling-table index
// followed by `count` values, each a single word where raw 0 means null and
// any other raw word means cursor += zigzag_decode(raw-1) (spec 4.5.3,
// vtzero detail/geometry.hpp geometric_attribute::get_next_value).
func decodeNumberListValue(r *fieldReader, layer *Layer, h interface{}, count uint64, depth, layerNum, featureNum int) (bool, error) {
	scaleIdx, err := r.varint()
	if err != nil {
		return false, newFeatureFormatError(layerNum, featureNum, err.Error())
	}
	scaling := newIndex(uint32(scaleIdx))
	if !callStartNumberList(h, int(count), scaling, depth) {
		return false, nil
	}
	var cursor int64
	for i := uint64(0); i < count; i++ {
		raw, err := r.varint()
		if err != nil {
			return false, newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		if raw == 0 {
			if !callNumberListNullValue(h, depth) {
				return false, nil
			}
			continue
		}
		cursor += decodeZigZag64(raw - 1)
		if !callNumberListValue(h, cursor, depth) {
			return false, nil
		}
	}
	return callEndNumberList(h, depth), nil
}
