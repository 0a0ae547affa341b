package mvt

import (
	"fmt"
	"testing"
)

func TestKeyIndexDedup(t *testing.T) {
	k := newKeyIndex()
	a := k.add("alpha")
	b := k.add("beta")
	a2 := k.add("alpha")
	if a != a2 {
		t.Errorf("repeated key should reuse index: got %d and %d", a, a2)
	}
	if a == b {
		t.Errorf("distinct keys should get distinct indices")
	}
	if len(k.table()) != 2 {
		t.Errorf("got table size %d, want 2", len(k.table()))
	}
}

func TestKeyIndexCrossesHashThreshold(t *testing.T) {
	k := newKeyIndex()
	for i := 0; i < linearScanThreshold+5; i++ {
		k.add(fmt.Sprintf("key-%d", i))
	}
	if k.byKey == nil {
		t.Fatal("expected hash index to be built once past the linear scan threshold")
	}
	// every previously added key must still resolve to its original index
	for i := 0; i < linearScanThreshold+5; i++ {
		key := fmt.Sprintf("key-%d", i)
		if idx := k.add(key); int(idx) != i {
			t.Errorf("key %q: got index %d, want %d", key, idx, i)
		}
	}
	if len(k.table()) != linearScanThreshold+5 {
		t.Errorf("got table size %d, want %d", len(k.table()), linearScanThreshold+5)
	}
}

func TestValueIndexDedupByWireEncoding(t *testing.T) {
	v := newValueIndex()
	a := v.add(newIntPropertyValue(5))
	b := v.add(newStringPropertyValue([]byte("x")))
	a2 := v.add(newIntPropertyValue(5))
	if a != a2 {
		t.Errorf("identical values should dedup: got %d and %d", a, a2)
	}
	if a == b {
		t.Error("distinct values should get distinct indices")
	}
}

func TestStringIndexDedup(t *testing.T) {
	s := newStringIndex()
	a := s.add("hello")
	a2 := s.add("hello")
	b := s.add("world")
	if a != a2 {
		t.Errorf("repeated string should reuse index: got %d and %d", a, a2)
	}
	if a == b {
		t.Error("distinct strings should get distinct indices")
	}
}
