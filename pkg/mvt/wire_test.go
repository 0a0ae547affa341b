package mvt

import "testing"

func TestZigZagRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 2, -2, 1 << 20, -(1 << 20), 1 << 40, -(1 << 40)}
	for _, v := range cases {
		got := decodeZigZag64(encodeZigZag64(v))
		if got != v {
			t.Errorf("zigzag64 round trip: got %d, want %d", got, v)
		}
	}

	cases32 := []int32{0, 1, -1, 2, -2, 1 << 20, -(1 << 20)}
	for _, v := range cases32 {
		got := decodeZigZag32(encodeZigZag32(v))
		if got != v {
			t.Errorf("zigzag32 round trip: got %d, want %d", got, v)
		}
	}
}

func TestFieldReaderVarint(t *testing.T) {
	var buf []byte
	buf = putVarint(buf, 0)
	buf = putVarint(buf, 127)
	buf = putVarint(buf, 128)
	buf = putVarint(buf, 300)
	buf = putVarint(buf, 1<<40)

	want := []uint64{0, 127, 128, 300, 1 << 40}
	r := newFieldReader(buf)
	for i, w := range want {
		got, err := r.varint()
		if err != nil {
			t.Fatalf("varint %d: %v", i, err)
		}
		if got != w {
			t.Errorf("varint %d: got %d, want %d", i, got, w)
		}
	}
	if !r.done() {
		t.Error("expected reader to be exhausted")
	}
}

func TestFieldReaderTruncated(t *testing.T) {
	r := newFieldReader([]byte{0x80, 0x80})
	if _, err := r.varint(); err != errTruncatedVarint {
		t.Errorf("got %v, want errTruncatedVarint", err)
	}
}

func TestFieldReaderTagAndSkip(t *testing.T) {
	var buf []byte
	buf = putVarintField(buf, 1, 42)
	buf = putBytesField(buf, 2, []byte("hello"))
	buf = putFixed32Field(buf, 3, 7)
	buf = putFixed64Field(buf, 4, 9)

	r := newFieldReader(buf)

	field, wt, err := r.next()
	if err != nil || field != 1 || wt != wireVarint {
		t.Fatalf("tag 1: field=%d wt=%d err=%v", field, wt, err)
	}
	v, err := r.varint()
	if err != nil || v != 42 {
		t.Fatalf("value 1: got %d, err %v", v, err)
	}

	field, wt, err = r.next()
	if err != nil || field != 2 || wt != wireBytes {
		t.Fatalf("tag 2: field=%d wt=%d err=%v", field, wt, err)
	}
	b, err := r.bytesv()
	if err != nil || string(b) != "hello" {
		t.Fatalf("value 2: got %q, err %v", b, err)
	}

	field, wt, err = r.next()
	if err != nil || field != 3 || wt != wireFixed32 {
		t.Fatalf("tag 3: field=%d wt=%d err=%v", field, wt, err)
	}
	if err := r.skip(wt); err != nil {
		t.Fatalf("skip fixed32: %v", err)
	}

	field, wt, err = r.next()
	if err != nil || field != 4 || wt != wireFixed64 {
		t.Fatalf("tag 4: field=%d wt=%d err=%v", field, wt, err)
	}
	if err := r.skip(wt); err != nil {
		t.Fatalf("skip fixed64: %v", err)
	}

	if !r.done() {
		t.Error("expected reader to be exhausted")
	}
}

func TestFloatRoundTrip(t *testing.T) {
	var buf []byte
	buf = putFloat32Field(buf, 1, 3.5)
	buf = putFloat64Field(buf, 2, 2.718281828)

	r := newFieldReader(buf)
	if _, _, err := r.next(); err != nil {
		t.Fatal(err)
	}
	f32, err := r.float32v()
	if err != nil || f32 != 3.5 {
		t.Errorf("float32: got %v, err %v", f32, err)
	}
	if _, _, err := r.next(); err != nil {
		t.Fatal(err)
	}
	f64, err := r.float64v()
	if err != nil || f64 != 2.718281828 {
		t.Errorf("float64: got %v, err %v", f64, err)
	}
}
