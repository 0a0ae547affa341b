package mvt

// IndexValue is an index into one of a layer's tables. The zero value is
// invalid; Valid distinguishes "no index" from index 0, mirroring vtzero's
// index_value (types.hpp).
type IndexValue struct {
	value uint32
	valid bool
}

func newIndex(v uint32) IndexValue { return IndexValue{value: v, valid: true} }

// Valid reports whether this IndexValue actually refers to a table entry.
func (i IndexValue) Valid() bool { return i.valid }

// Value returns the raw index. Only meaningful when Valid() is true.
func (i IndexValue) Value() uint32 { return i.value }

// Point is a decoded vertex. Z is only meaningful for 3D geometries.
type Point struct {
	X, Y, Z int64
}

// RingType classifies a decoded polygon ring by the sign of its shoelace
// sum (spec 4.3.4.4).
type RingType uint8

const (
	RingOuter   RingType = 0
	RingInner   RingType = 1
	RingInvalid RingType = 2
)

func (t RingType) String() string {
	switch t {
	case RingOuter:
		return "outer"
	case RingInner:
		return "inner"
	default:
		return "invalid"
	}
}

// Handlers implement only the callback methods they care about; every
// method below is declared on its own tiny interface and the decoder
// type-asserts the caller-supplied handler against each one, calling it
// only if present and otherwise behaving as a no-op. This is the "capability
// set" alternative to C++ SFINAE dispatch that spec 9 calls out explicitly.
//
// Every callback returns a bool: false halts decoding early (spec 4.4).
// A handler that doesn't care about early exit can simply always return
// true; a method it does not implement is treated as returning true.

type dimensionHandler interface{ Dimensions() int }
type maxGeometricAttrsHandler interface{ MaxGeometricAttributes() int }

type pointsBeginHandler interface{ PointsBegin(count int) bool }
type pointsPointHandler interface{ PointsPoint(p Point) bool }
type pointsEndHandler interface{ PointsEnd() bool }

type linestringBeginHandler interface{ LinestringBegin(count int) bool }
type linestringPointHandler interface{ LinestringPoint(p Point) bool }
type linestringEndHandler interface{ LinestringEnd() bool }

type ringBeginHandler interface{ RingBegin(count int) bool }
type ringPointHandler interface{ RingPoint(p Point) bool }
type ringEndHandler interface{ RingEnd(kind RingType) bool }

type controlPointsBeginHandler interface{ ControlPointsBegin(count int) bool }
type controlPointsPointHandler interface{ ControlPointsPoint(p Point) bool }
type controlPointsEndHandler interface{ ControlPointsEnd() bool }

type knotsBeginHandler interface{ KnotsBegin(count int) bool }
type knotsValueHandler interface{ KnotsValue(v uint64) bool }
type knotsEndHandler interface{ KnotsEnd() bool }

type pointsAttrHandler interface {
	PointsAttr(key, scaling IndexValue, value int64) bool
}
type pointsNullAttrHandler interface{ PointsNullAttr(key IndexValue) bool }

type keyIndexHandler interface{ KeyIndex(idx IndexValue, depth int) bool }
type attributeKeyHandler interface{ AttributeKey(key string, depth int) bool }

type valueIndexHandler interface{ ValueIndex(idx IndexValue, depth int) bool }
type stringValueIndexHandler interface{ StringValueIndex(idx IndexValue, depth int) bool }
type doubleValueIndexHandler interface{ DoubleValueIndex(idx IndexValue, depth int) bool }
type floatValueIndexHandler interface{ FloatValueIndex(idx IndexValue, depth int) bool }
type intValueIndexHandler interface{ IntValueIndex(idx IndexValue, depth int) bool }

type attributeValueStringHandler interface{ AttributeValueString(v string, depth int) bool }
type attributeValueFloatHandler interface{ AttributeValueFloat(v float32, depth int) bool }
type attributeValueDoubleHandler interface{ AttributeValueDouble(v float64, depth int) bool }
type attributeValueIntHandler interface{ AttributeValueInt(v int64, depth int) bool }
type attributeValueUintHandler interface{ AttributeValueUint(v uint64, depth int) bool }
type attributeValueBoolHandler interface{ AttributeValueBool(v bool, depth int) bool }
type attributeValueNullHandler interface{ AttributeValueNull(depth int) bool }

type startListAttributeHandler interface{ StartListAttribute(count, depth int) bool }
type endListAttributeHandler interface{ EndListAttribute(depth int) bool }

type startMapAttributeHandler interface{ StartMapAttribute(count, depth int) bool }
type endMapAttributeHandler interface{ EndMapAttribute(depth int) bool }

type startNumberListHandler interface {
	StartNumberList(count int, scaling IndexValue, depth int) bool
}
type numberListValueHandler interface{ NumberListValue(v int64, depth int) bool }
type numberListNullValueHandler interface{ NumberListNullValue(depth int) bool }
type endNumberListHandler interface{ EndNumberList(depth int) bool }

// Resulter is implemented by handlers that expose a value assembled during
// decoding, e.g. a geometry builder assembling an in-memory shape.
// Feature.DecodeGeometry and Feature.DecodeAttributes return only an error;
// they do not call Result, so callers read it from the handler themselves.
type Resulter interface{ Result() interface{} }

func handlerDimensions(h interface{}) int {
	if d, ok := h.(dimensionHandler); ok {
		n := d.Dimensions()
		if n == 3 {
			return 3
		}
	}
	return 2
}

func handlerMaxGeometricAttrs(h interface{}) int {
	if d, ok := h.(maxGeometricAttrsHandler); ok {
		return d.MaxGeometricAttributes()
	}
	return 0
}

func callPointsBegin(h interface{}, count int) bool {
	if d, ok := h.(pointsBeginHandler); ok {
		return d.PointsBegin(count)
	}
	return true
}

func callPointsPoint(h interface{}, p Point) bool {
	if d, ok := h.(pointsPointHandler); ok {
		return d.PointsPoint(p)
	}
	return true
}

func callPointsEnd(h interface{}) bool {
	if d, ok := h.(pointsEndHandler); ok {
		return d.PointsEnd()
	}
	return true
}

func callLinestringBegin(h interface{}, count int) bool {
	if d, ok := h.(linestringBeginHandler); ok {
		return d.LinestringBegin(count)
	}
	return true
}

func callLinestringPoint(h interface{}, p Point) bool {
	if d, ok := h.(linestringPointHandler); ok {
		return d.LinestringPoint(p)
	}
	return true
}

func callLinestringEnd(h interface{}) bool {
	if d, ok := h.(linestringEndHandler); ok {
		return d.LinestringEnd()
	}
	return true
}

func callRingBegin(h interface{}, count int) bool {
	if d, ok := h.(ringBeginHandler); ok {
		return d.RingBegin(count)
	}
	return true
}

func callRingPoint(h interface{}, p Point) bool {
	if d, ok := h.(ringPointHandler); ok {
		return d.RingPoint(p)
	}
	return true
}

func callRingEnd(h interface{}, kind RingType) bool {
	if d, ok := h.(ringEndHandler); ok {
		return d.RingEnd(kind)
	}
	return true
}

func callControlPointsBegin(h interface{}, count int) bool {
	if d, ok := h.(controlPointsBeginHandler); ok {
		return d.ControlPointsBegin(count)
	}
	return true
}

func callControlPointsPoint(h interface{}, p Point) bool {
	if d, ok := h.(controlPointsPointHandler); ok {
		return d.ControlPointsPoint(p)
	}
	return true
}

func callControlPointsEnd(h interface{}) bool {
	if d, ok := h.(controlPointsEndHandler); ok {
		return d.ControlPointsEnd()
	}
	return true
}

func callKnotsBegin(h interface{}, count int) bool {
	if d, ok := h.(knotsBeginHandler); ok {
		return d.KnotsBegin(count)
	}
	return true
}

func callKnotsValue(h interface{}, v uint64) bool {
	if d, ok := h.(knotsValueHandler); ok {
		return d.KnotsValue(v)
	}
	return true
}

func callKnotsEnd(h interface{}) bool {
	if d, ok := h.(knotsEndHandler); ok {
		return d.KnotsEnd()
	}
	return true
}

func callPointsAttr(h interface{}, key, scaling IndexValue, value int64) bool {
	if d, ok := h.(pointsAttrHandler); ok {
		return d.PointsAttr(key, scaling, value)
	}
	return true
}

func callPointsNullAttr(h interface{}, key IndexValue) bool {
	if d, ok := h.(pointsNullAttrHandler); ok {
		return d.PointsNullAttr(key)
	}
	return true
}

func callKeyIndex(h interface{}, idx IndexValue, depth int) bool {
	if d, ok := h.(keyIndexHandler); ok {
		return d.KeyIndex(idx, depth)
	}
	return true
}

func callAttributeKey(h interface{}, key string, depth int) bool {
	if d, ok := h.(attributeKeyHandler); ok {
		return d.AttributeKey(key, depth)
	}
	return true
}

func callValueIndex(h interface{}, idx IndexValue, depth int) bool {
	if d, ok := h.(valueIndexHandler); ok {
		return d.ValueIndex(idx, depth)
	}
	return true
}

func callStringValueIndex(h interface{}, idx IndexValue, depth int) bool {
	if d, ok := h.(stringValueIndexHandler); ok {
		return d.StringValueIndex(idx, depth)
	}
	return true
}

func callDoubleValueIndex(h interface{}, idx IndexValue, depth int) bool {
	if d, ok := h.(doubleValueIndexHandler); ok {
		return d.DoubleValueIndex(idx, depth)
	}
	return true
}

func callFloatValueIndex(h interface{}, idx IndexValue, depth int) bool {
	if d, ok := h.(floatValueIndexHandler); ok {
		return d.FloatValueIndex(idx, depth)
	}
	return true
}

func callIntValueIndex(h interface{}, idx IndexValue, depth int) bool {
	if d, ok := h.(intValueIndexHandler); ok {
		return d.IntValueIndex(idx, depth)
	}
	return true
}

func callAttributeValueString(h interface{}, v string, depth int) bool {
	if d, ok := h.(attributeValueStringHandler); ok {
		return d.AttributeValueString(v, depth)
	}
	return true
}

func callAttributeValueFloat(h interface{}, v float32, depth int) bool {
	if d, ok := h.(attributeValueFloatHandler); ok {
		return d.AttributeValueFloat(v, depth)
	}
	return true
}

func callAttributeValueDouble(h interface{}, v float64, depth int) bool {
	if d, ok := h.(attributeValueDoubleHandler); ok {
		return d.AttributeValueDouble(v, depth)
	}
	return true
}

func callAttributeValueInt(h interface{}, v int64, depth int) bool {
	if d, ok := h.(attributeValueIntHandler); ok {
		return d.AttributeValueInt(v, depth)
	}
	return true
}

func callAttributeValueUint(h interface{}, v uint64, depth int) bool {
	if d, ok := h.(attributeValueUintHandler); ok {
		return d.AttributeValueUint(v, depth)
	}
	return true
}

func callAttributeValueBool(h interface{}, v bool, depth int) bool {
	if d, ok := h.(attributeValueBoolHandler); ok {
		return d.AttributeValueBool(v, depth)
	}
	return true
}

func callAttributeValueNull(h interface{}, depth int) bool {
	if d, ok := h.(attributeValueNullHandler); ok {
		return d.AttributeValueNull(depth)
	}
	return true
}

func callStartListAttribute(h interface{}, count, depth int) bool {
	if d, ok := h.(startListAttributeHandler); ok {
		return d.StartListAttribute(count, depth)
	}
	return true
}

func callEndListAttribute(h interface{}, depth int) bool {
	if d, ok := h.(endListAttributeHandler); ok {
		return d.EndListAttribute(depth)
	}
	return true
}

func callStartMapAttribute(h interface{}, count, depth int) bool {
	if d, ok := h.(startMapAttributeHandler); ok {
		return d.StartMapAttribute(count, depth)
	}
	return true
}

func callEndMapAttribute(h interface{}, depth int) bool {
	if d, ok := h.(endMapAttributeHandler); ok {
		return d.EndMapAttribute(depth)
	}
	return true
}

func callStartNumberList(h interface{}, count int, scaling IndexValue, depth int) bool {
	if d, ok := h.(startNumberListHandler); ok {
		return d.StartNumberList(count, scaling, depth)
	}
	return true
}

func callNumberListValue(h interface{}, v int64, depth int) bool {
	if d, ok := h.(numberListValueHandler); ok {
		return d.NumberListValue(v, depth)
	}
	return true
}

func callNumberListNullValue(h interface{}, depth int) bool {
	if d, ok := h.(numberListNullValueHandler); ok {
		return d.NumberListNullValue(depth)
	}
	return true
}

func callEndNumberList(h interface{}, depth int) bool {
	if d, ok := h.(endNumberListHandler); ok {
		return d.EndNumberList(depth)
	}
	return true
}

func resultOf(h interface{}) interface{} {
	if d, ok := h.(Resulter); ok {
		return d.Result()
	}
	return nil
}
