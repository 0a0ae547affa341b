package mvt

// PropertyValueType identifies which alternative a v1/v2 Value table row,
// or a resolved v3 structured value, actually holds.
type PropertyValueType uint8

const (
	StringValue PropertyValueType = 1
	FloatValue  PropertyValueType = 2
	DoubleValue PropertyValueType = 3
	IntValue    PropertyValueType = 4
	UintValue   PropertyValueType = 5
	SintValue   PropertyValueType = 6
	BoolValue   PropertyValueType = 7
)

func (t PropertyValueType) String() string {
	switch t {
	case StringValue:
		return "string"
	case FloatValue:
		return "float"
	case DoubleValue:
		return "double"
	case IntValue:
		return "int"
	case UintValue:
		return "uint"
	case SintValue:
		return "sint"
	case BoolValue:
		return "bool"
	default:
		return "unknown"
	}
}

// Value field numbers inside a layer's "values" message (spec 4.1).
const (
	pbfValueString wireFieldNum = 1
	pbfValueFloat  wireFieldNum = 2
	pbfValueDouble wireFieldNum = 3
	pbfValueInt    wireFieldNum = 4
	pbfValueUint   wireFieldNum = 5
	pbfValueSint   wireFieldNum = 6
	pbfValueBool   wireFieldNum = 7
)

type wireFieldNum = uint32

// PropertyValue is a v1/v2 one-of scalar value: exactly one of its typed
// accessors is legal to call, selected by Type().
type PropertyValue struct {
	typ    PropertyValueType
	str    []byte
	f32    float32
	f64    float64
	i64    int64
	u64    uint64
	b      bool
}

// Type reports which alternative this value holds.
func (v PropertyValue) Type() PropertyValueType {
	return v.typ
}

// String returns the string alternative, or a *TypeError if the value holds
// another type. The other typed accessors below follow the same pattern.
func (v PropertyValue) String() (string, error) {
	if v.typ != StringValue {
		return "", &TypeError{Wanted: "string"}
	}
	return string(v.str), nil
}

func (v PropertyValue) Float() (float32, error) {
	if v.typ != FloatValue {
		return 0, &TypeError{Wanted: "float"}
	}
	return v.f32, nil
}

func (v PropertyValue) Double() (float64, error) {
	if v.typ != DoubleValue {
		return 0, &TypeError{Wanted: "double"}
	}
	return v.f64, nil
}

func (v PropertyValue) Int() (int64, error) {
	if v.typ != IntValue {
		return 0, &TypeError{Wanted: "int"}
	}
	return v.i64, nil
}

func (v PropertyValue) Uint() (uint64, error) {
	if v.typ != UintValue {
		return 0, &TypeError{Wanted: "uint"}
	}
	return v.u64, nil
}

func (v PropertyValue) Sint() (int64, error) {
	if v.typ != SintValue {
		return 0, &TypeError{Wanted: "sint"}
	}
	return v.i64, nil
}

func (v PropertyValue) Bool() (bool, error) {
	if v.typ != BoolValue {
		return false, &TypeError{Wanted: "bool"}
	}
	return v.b, nil
}

// Interface returns the value as a plain Go value (string, float32, float64,
// int64, uint64, or bool) for generic consumers such as dump handlers.
func (v PropertyValue) Interface() interface{} {
	switch v.typ {
	case StringValue:
		return string(v.str)
	case FloatValue:
		return v.f32
	case DoubleValue:
		return v.f64
	case IntValue, SintValue:
		return v.i64
	case UintValue:
		return v.u64
	case BoolValue:
		return v.b
	default:
		return nil
	}
}

func newStringPropertyValue(v []byte) PropertyValue  { return PropertyValue{typ: StringValue, str: v} }
func newFloatPropertyValue(v float32) PropertyValue   { return PropertyValue{typ: FloatValue, f32: v} }
func newDoublePropertyValue(v float64) PropertyValue  { return PropertyValue{typ: DoubleValue, f64: v} }
func newIntPropertyValue(v int64) PropertyValue       { return PropertyValue{typ: IntValue, i64: v} }
func newUintPropertyValue(v uint64) PropertyValue     { return PropertyValue{typ: UintValue, u64: v} }
func newSintPropertyValue(v int64) PropertyValue      { return PropertyValue{typ: SintValue, i64: v} }
func newBoolPropertyValue(v bool) PropertyValue       { return PropertyValue{typ: BoolValue, b: v} }

// decodePropertyValue parses a single "values" table row. Spec 3 requires
// exactly one typed inner tag; anything else is a format error.
func decodePropertyValue(data []byte, layerNum int) (PropertyValue, error) {
	r := newFieldReader(data)
	var (
		value PropertyValue
		found bool
	)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return PropertyValue{}, newFormatError(layerNum, "invalid value table row: "+err.Error())
		}
		if found && field >= pbfValueString && field <= pbfValueBool {
			return PropertyValue{}, newFormatError(layerNum, "value table row encodes more than one typed scalar")
		}
		switch field {
		case pbfValueString:
			if wt != wireBytes {
				return PropertyValue{}, newFormatError(layerNum, "string value has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
			value, found = newStringPropertyValue(b), true
		case pbfValueFloat:
			if wt != wireFixed32 {
				return PropertyValue{}, newFormatError(layerNum, "float value has wrong wire type")
			}
			f, err := r.float32v()
			if err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
			value, found = newFloatPropertyValue(f), true
		case pbfValueDouble:
			if wt != wireFixed64 {
				return PropertyValue{}, newFormatError(layerNum, "double value has wrong wire type")
			}
			f, err := r.float64v()
			if err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
			value, found = newDoublePropertyValue(f), true
		case pbfValueInt:
			if wt != wireVarint {
				return PropertyValue{}, newFormatError(layerNum, "int value has wrong wire type")
			}
			i, err := r.int64v()
			if err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
			value, found = newIntPropertyValue(i), true
		case pbfValueUint:
			if wt != wireVarint {
				return PropertyValue{}, newFormatError(layerNum, "uint value has wrong wire type")
			}
			u, err := r.varint()
			if err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
			value, found = newUintPropertyValue(u), true
		case pbfValueSint:
			if wt != wireVarint {
				return PropertyValue{}, newFormatError(layerNum, "sint value has wrong wire type")
			}
			i, err := r.sint64v()
			if err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
			value, found = newSintPropertyValue(i), true
		case pbfValueBool:
			if wt != wireVarint {
				return PropertyValue{}, newFormatError(layerNum, "bool value has wrong wire type")
			}
			b, err := r.boolv()
			if err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
			value, found = newBoolPropertyValue(b), true
		default:
			if err := r.skip(wt); err != nil {
				return PropertyValue{}, newFormatError(layerNum, err.Error())
			}
		}
	}
	if !found {
		return PropertyValue{}, newFormatError(layerNum, "value table row encodes no typed scalar")
	}
	return value, nil
}

// encodePropertyValue serializes a PropertyValue back into a values-table
// row, the write-side counterpart of decodePropertyValue.
func encodePropertyValue(v PropertyValue) []byte {
	var buf []byte
	switch v.typ {
	case StringValue:
		buf = putBytesField(buf, pbfValueString, v.str)
	case FloatValue:
		buf = putFloat32Field(buf, pbfValueFloat, v.f32)
	case DoubleValue:
		buf = putFloat64Field(buf, pbfValueDouble, v.f64)
	case IntValue:
		buf = putVarintField(buf, pbfValueInt, uint64(v.i64))
	case UintValue:
		buf = putVarintField(buf, pbfValueUint, v.u64)
	case SintValue:
		buf = putVarintField(buf, pbfValueSint, uint64(encodeZigZag64(v.i64)))
	case BoolValue:
		u := uint64(0)
		if v.b {
			u = 1
		}
		buf = putVarintField(buf, pbfValueBool, u)
	}
	return buf
}

// Scaling maps an encoded integer to a logical double value via
// base + multiplier * (value + offset), spec 3 and 4.4.2.5. The default
// scaling is the identity (0, 1.0, 0.0).
type Scaling struct {
	Offset     int64
	Multiplier float64
	Base       float64
}

// DefaultScaling is the implicit scaling used when a layer declares none.
var DefaultScaling = Scaling{Offset: 0, Multiplier: 1.0, Base: 0.0}

// Encode converts a logical value into its encoded integer form.
func (s Scaling) Encode(value float64) int64 {
	return int64((value-s.Base)/s.Multiplier) - s.Offset
}

// Decode converts an encoded integer into its logical value. The expression
// order matches the original C++ implementation exactly (base + multiplier
// * (value + offset), evaluated left to right) so that round trips on
// existing tiles stay bit-exact; see DESIGN.md.
func (s Scaling) Decode(value int64) float64 {
	return s.Base + s.Multiplier*float64(value+s.Offset)
}

func decodeScaling(data []byte, layerNum int) (Scaling, error) {
	s := DefaultScaling
	r := newFieldReader(data)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return Scaling{}, newFormatError(layerNum, "invalid scaling message: "+err.Error())
		}
		switch field {
		case 1: // offset
			if wt != wireVarint {
				return Scaling{}, newFormatError(layerNum, "scaling offset has wrong wire type")
			}
			v, err := r.int64v()
			if err != nil {
				return Scaling{}, newFormatError(layerNum, err.Error())
			}
			s.Offset = v
		case 2: // multiplier
			if wt != wireFixed64 {
				return Scaling{}, newFormatError(layerNum, "scaling multiplier has wrong wire type")
			}
			v, err := r.float64v()
			if err != nil {
				return Scaling{}, newFormatError(layerNum, err.Error())
			}
			s.Multiplier = v
		case 3: // base
			if wt != wireFixed64 {
				return Scaling{}, newFormatError(layerNum, "scaling base has wrong wire type")
			}
			v, err := r.float64v()
			if err != nil {
				return Scaling{}, newFormatError(layerNum, err.Error())
			}
			s.Base = v
		default:
			if err := r.skip(wt); err != nil {
				return Scaling{}, newFormatError(layerNum, err.Error())
			}
		}
	}
	return s, nil
}

func encodeScaling(s Scaling) []byte {
	var buf []byte
	if s.Offset != 0 {
		buf = putVarintField(buf, 1, uint64(s.Offset))
	}
	if s.Multiplier != 1.0 {
		buf = putFloat64Field(buf, 2, s.Multiplier)
	}
	if s.Base != 0.0 {
		buf = putFloat64Field(buf, 3, s.Base)
	}
	return buf
}
