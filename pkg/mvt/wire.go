// Package mvt decodes and encodes Mapbox Vector Tiles (MVT), a compact
// binary representation of geographic data organized into named layers of
// features with typed attributes and delta-encoded geometries. Wire format
// versions 1, 2 and 3 are supported.
package mvt

import (
	"encoding/binary"
	"math"
)

// wireType is a protobuf wire type as carried in the low 3 bits of a tag.
type wireType uint8

const (
	wireVarint  wireType = 0
	wireFixed64 wireType = 1
	wireBytes   wireType = 2
	wireFixed32 wireType = 5
)

// fieldReader is a minimal, allocation-free forward scanner over a
// length-delimited protobuf message. It hands back (field number, wire
// type) pairs and lets the caller pull the matching typed value; there is
// no reflection, no generated code, and no dependency on a general-purpose
// protobuf library; this is the byte-level primitive layer spec 4.1 asks
// the library itself to provide.
type fieldReader struct {
	data []byte
	pos  int
}

func newFieldReader(data []byte) *fieldReader {
	return &fieldReader{data: data}
}

// done reports whether every byte has been consumed.
func (r *fieldReader) done() bool {
	return r.pos >= len(r.data)
}

// next reads the next tag, returning the field number and wire type. It
// returns field 0, wire type 0 and a nil error when the reader is exhausted.
func (r *fieldReader) next() (field uint32, wt wireType, err error) {
	if r.done() {
		return 0, 0, nil
	}
	v, err := r.varint()
	if err != nil {
		return 0, 0, err
	}
	return uint32(v >> 3), wireType(v & 0x7), nil
}

// varint reads a base-128 varint and advances the cursor.
func (r *fieldReader) varint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		if r.pos >= len(r.data) {
			return 0, errTruncatedVarint
		}
		b := r.data[r.pos]
		r.pos++
		result |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, errVarintTooLong
		}
	}
}

func (r *fieldReader) uint32v() (uint32, error) {
	v, err := r.varint()
	return uint32(v), err
}

func (r *fieldReader) int32v() (int32, error) {
	v, err := r.varint()
	return int32(v), err
}

func (r *fieldReader) int64v() (int64, error) {
	v, err := r.varint()
	return int64(v), err
}

func (r *fieldReader) sint32v() (int32, error) {
	v, err := r.varint()
	return decodeZigZag32(uint32(v)), err
}

func (r *fieldReader) sint64v() (int64, error) {
	v, err := r.varint()
	return decodeZigZag64(v), err
}

func (r *fieldReader) boolv() (bool, error) {
	v, err := r.varint()
	return v != 0, err
}

func (r *fieldReader) fixed32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, errTruncatedFixed
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *fieldReader) fixed64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errTruncatedFixed
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *fieldReader) float32v() (float32, error) {
	v, err := r.fixed32()
	return math.Float32frombits(v), err
}

func (r *fieldReader) float64v() (float64, error) {
	v, err := r.fixed64()
	return math.Float64frombits(v), err
}

// bytesv reads a length-delimited field and returns a view (no copy) into
// the backing buffer.
func (r *fieldReader) bytesv() ([]byte, error) {
	n, err := r.varint()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.data) || n > (1<<32) {
		return nil, errTruncatedBytes
	}
	start := r.pos
	r.pos += int(n)
	return r.data[start:r.pos], nil
}

// skip advances past a value of the given wire type without interpreting it.
func (r *fieldReader) skip(wt wireType) error {
	switch wt {
	case wireVarint:
		_, err := r.varint()
		return err
	case wireFixed64:
		_, err := r.fixed64()
		return err
	case wireBytes:
		_, err := r.bytesv()
		return err
	case wireFixed32:
		_, err := r.fixed32()
		return err
	default:
		return errUnknownWireType
	}
}

// zigzag encodes a signed integer as an unsigned one so small-magnitude
// negative values stay compact when varint-encoded.
func encodeZigZag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

func encodeZigZag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func decodeZigZag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

func decodeZigZag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

func putVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func putFixed32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func putFixed64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func putTag(buf []byte, field uint32, wt wireType) []byte {
	return putVarint(buf, uint64(field)<<3|uint64(wt))
}

func putBytesField(buf []byte, field uint32, v []byte) []byte {
	buf = putTag(buf, field, wireBytes)
	buf = putVarint(buf, uint64(len(v)))
	return append(buf, v...)
}

func putVarintField(buf []byte, field uint32, v uint64) []byte {
	buf = putTag(buf, field, wireVarint)
	return putVarint(buf, v)
}

func putFixed32Field(buf []byte, field uint32, v uint32) []byte {
	buf = putTag(buf, field, wireFixed32)
	return putFixed32(buf, v)
}

func putFixed64Field(buf []byte, field uint32, v uint64) []byte {
	buf = putTag(buf, field, wireFixed64)
	return putFixed64(buf, v)
}

func putFloat32Field(buf []byte, field uint32, v float32) []byte {
	return putFixed32Field(buf, field, math.Float32bits(v))
}

func putFloat64Field(buf []byte, field uint32, v float64) []byte {
	return putFixed64Field(buf, field, math.Float64bits(v))
}
