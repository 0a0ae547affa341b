package mvt

// linearScanThreshold is the table size below which a new dedup lookup is
// done by linear scan rather than via the hash index; small tables make the
// hash bookkeeping not worth its overhead (spec 5.2, grounded on vtzero's
// index.hpp key_index/value_index crossover).
const linearScanThreshold = 20

// keyIndex deduplicates the key table of a layer being built: repeated
// calls with the same string return the same index.
type keyIndex struct {
	keys  []string
	byKey map[string]uint32
}

func newKeyIndex() *keyIndex {
	return &keyIndex{}
}

func (k *keyIndex) add(key string) uint32 {
	if k.byKey != nil {
		if idx, ok := k.byKey[key]; ok {
			return idx
		}
	} else if len(k.keys) < linearScanThreshold {
		for i, existing := range k.keys {
			if existing == key {
				return uint32(i)
			}
		}
	}

	idx := uint32(len(k.keys))
	k.keys = append(k.keys, key)

	if k.byKey == nil && len(k.keys) >= linearScanThreshold {
		k.byKey = make(map[string]uint32, len(k.keys)*2)
		for i, existing := range k.keys {
			k.byKey[existing] = uint32(i)
		}
	} else if k.byKey != nil {
		k.byKey[key] = idx
	}

	return idx
}

func (k *keyIndex) table() []string { return k.keys }

// valueIndex deduplicates the v1/v2 value table of a layer being built. The
// dedup key is the encoded wire bytes of the value, so two PropertyValues
// that serialize identically share a slot even if constructed separately.
type valueIndex struct {
	values  []PropertyValue
	encoded [][]byte
	byWire  map[string]uint32
}

func newValueIndex() *valueIndex {
	return &valueIndex{}
}

func (v *valueIndex) add(value PropertyValue) uint32 {
	wire := encodePropertyValue(value)
	key := string(wire)

	if v.byWire != nil {
		if idx, ok := v.byWire[key]; ok {
			return idx
		}
	} else if len(v.values) < linearScanThreshold {
		for i, enc := range v.encoded {
			if string(enc) == key {
				return uint32(i)
			}
		}
	}

	idx := uint32(len(v.values))
	v.values = append(v.values, value)
	v.encoded = append(v.encoded, wire)

	if v.byWire == nil && len(v.values) >= linearScanThreshold {
		v.byWire = make(map[string]uint32, len(v.values)*2)
		for i, enc := range v.encoded {
			v.byWire[string(enc)] = uint32(i)
		}
	} else if v.byWire != nil {
		v.byWire[key] = idx
	}

	return idx
}

func (v *valueIndex) table() []PropertyValue { return v.values }

// stringIndex deduplicates the v3 shared string table (used by string
// attribute values, string feature ids, and map/list keys).
type stringIndex struct {
	strings []string
	byValue map[string]uint32
}

func newStringIndex() *stringIndex {
	return &stringIndex{}
}

func (s *stringIndex) add(value string) uint32 {
	if s.byValue != nil {
		if idx, ok := s.byValue[value]; ok {
			return idx
		}
	} else if len(s.strings) < linearScanThreshold {
		for i, existing := range s.strings {
			if existing == value {
				return uint32(i)
			}
		}
	}

	idx := uint32(len(s.strings))
	s.strings = append(s.strings, value)

	if s.byValue == nil && len(s.strings) >= linearScanThreshold {
		s.byValue = make(map[string]uint32, len(s.strings)*2)
		for i, existing := range s.strings {
			s.byValue[existing] = uint32(i)
		}
	} else if s.byValue != nil {
		s.byValue[value] = idx
	}

	return idx
}

func (s *stringIndex) table() []string { return s.strings }
