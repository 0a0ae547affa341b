package mvt

import "testing"

func TestPropertyValueRoundTrip(t *testing.T) {
	values := []PropertyValue{
		newStringPropertyValue([]byte("hello")),
		newFloatPropertyValue(1.5),
		newDoublePropertyValue(2.25),
		newIntPropertyValue(-42),
		newUintPropertyValue(42),
		newSintPropertyValue(-7),
		newBoolPropertyValue(true),
	}

	for _, v := range values {
		buf := encodePropertyValue(v)
		got, err := decodePropertyValue(buf, 0)
		if err != nil {
			t.Fatalf("decode %v: %v", v.Type(), err)
		}
		if got.Type() != v.Type() {
			t.Fatalf("type: got %v, want %v", got.Type(), v.Type())
		}
		if got.Interface() != v.Interface() {
			t.Errorf("value: got %v, want %v", got.Interface(), v.Interface())
		}
	}
}

func TestPropertyValueWrongAccessor(t *testing.T) {
	v := newStringPropertyValue([]byte("x"))
	if _, err := v.Double(); err == nil {
		t.Error("expected TypeError calling Double() on a string value")
	}
}

func TestPropertyValueEmptyRow(t *testing.T) {
	if _, err := decodePropertyValue(nil, 0); err == nil {
		t.Error("expected format error decoding an empty value row")
	}
}

func TestScalingIdentity(t *testing.T) {
	if got := DefaultScaling.Decode(5); got != 5 {
		t.Errorf("identity decode: got %v, want 5", got)
	}
	if got := DefaultScaling.Encode(5); got != 5 {
		t.Errorf("identity encode: got %v, want 5", got)
	}
}

func TestScalingRoundTrip(t *testing.T) {
	s := Scaling{Offset: 10, Multiplier: 0.5, Base: 100}
	buf := encodeScaling(s)
	got, err := decodeScaling(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Errorf("scaling round trip: got %+v, want %+v", got, s)
	}

	decoded := s.Decode(20)
	want := s.Base + s.Multiplier*float64(20+s.Offset)
	if decoded != want {
		t.Errorf("decode: got %v, want %v", decoded, want)
	}
}

func TestScalingDefaultOmitsFields(t *testing.T) {
	buf := encodeScaling(DefaultScaling)
	if len(buf) != 0 {
		t.Errorf("expected empty encoding for default scaling, got %d bytes", len(buf))
	}
}
