package mvt

import "math"

// numberTable deduplicates a v3 fixed-width value table (double/float/int),
// appended to in wire order; unlike keyIndex/valueIndex these stay small
// enough in practice that a linear scan is never upgraded to a hash map.
type numberTable[T comparable] struct {
	values []T
}

func (t *numberTable[T]) add(v T) uint32 {
	for i, existing := range t.values {
		if existing == v {
			return uint32(i)
		}
	}
	idx := uint32(len(t.values))
	t.values = append(t.values, v)
	return idx
}

// LayerBuilder accumulates features for a single output layer. Call
// TileBuilder.NewLayer to create one, add features through NewFeature, and
// finish with the TileBuilder's Encode.
type LayerBuilder struct {
	name    string
	version uint32
	extent  uint32

	hasTile bool
	tile    TileAddress

	keys   *keyIndex
	values *valueIndex

	strings *stringIndex
	doubles numberTable[float64]
	floats  numberTable[float32]
	ints    numberTable[uint64]

	elevationScaling  Scaling
	attributeScalings []Scaling

	features [][]byte
}

// NewLayerBuilder starts a new layer. version must be 1, 2, or 3.
func NewLayerBuilder(name string, version uint32) *LayerBuilder {
	return &LayerBuilder{
		name:             name,
		version:          version,
		extent:           defaultExtent,
		keys:             newKeyIndex(),
		values:           newValueIndex(),
		strings:          newStringIndex(),
		elevationScaling: DefaultScaling,
	}
}

// SetExtent overrides the default 4096 coordinate grid size.
func (lb *LayerBuilder) SetExtent(extent uint32) { lb.extent = extent }

// SetTile records the v3 tile address (x, y, zoom); version must be 3.
func (lb *LayerBuilder) SetTile(addr TileAddress) error {
	if lb.version < 3 {
		return newFormatError(0, "tile address requires layer version 3")
	}
	if addr.Zoom >= maxZoom {
		return newFormatError(0, "zoom level >= 32 (spec 3)")
	}
	limit := uint32(1) << addr.Zoom
	if addr.X >= limit || addr.Y >= limit {
		return newFormatError(0, "tile x/y out of range for zoom")
	}
	lb.tile, lb.hasTile = addr, true
	return nil
}

// SetElevationScaling records the v3 elevation scaling triple.
func (lb *LayerBuilder) SetElevationScaling(s Scaling) error {
	if lb.version < 3 {
		return newFormatError(0, "elevation scaling requires layer version 3")
	}
	lb.elevationScaling = s
	return nil
}

// AddAttributeScaling appends a scaling entry for v3 number-list/geometric
// attributes to reference by index, returning that index.
func (lb *LayerBuilder) AddAttributeScaling(s Scaling) (uint32, error) {
	if lb.version < 3 {
		return 0, newFormatError(0, "attribute scalings require layer version 3")
	}
	idx := uint32(len(lb.attributeScalings))
	lb.attributeScalings = append(lb.attributeScalings, s)
	return idx, nil
}

// NewFeature starts building a new feature belonging to this layer.
func (lb *LayerBuilder) NewFeature() *FeatureBuilder {
	return &FeatureBuilder{layer: lb, state: stateWantID, geomType: GeomUnknown}
}

// addFeatureBytes is called by FeatureBuilder.Commit to append the encoded
// feature message to the layer's feature list.
func (lb *LayerBuilder) addFeatureBytes(b []byte) { lb.features = append(lb.features, b) }

// encode serializes this layer as a single length-delimited layer message,
// matching the field layout newLayer expects to parse (spec 4.1).
func (lb *LayerBuilder) encode() []byte {
	var buf []byte
	buf = putVarintField(buf, pbfLayerVersion, uint64(lb.version))
	buf = putBytesField(buf, pbfLayerName, []byte(lb.name))
	for _, f := range lb.features {
		buf = putBytesField(buf, pbfLayerFeatures, f)
	}
	for _, k := range lb.keys.table() {
		buf = putBytesField(buf, pbfLayerKeys, []byte(k))
	}
	for _, v := range lb.values.table() {
		buf = putBytesField(buf, pbfLayerValues, encodePropertyValue(v))
	}
	if lb.extent != defaultExtent {
		buf = putVarintField(buf, pbfLayerExtent, uint64(lb.extent))
	}

	if lb.version >= 3 {
		for _, s := range lb.strings.table() {
			buf = putBytesField(buf, pbfLayerStringValues, []byte(s))
		}
		if len(lb.doubles.values) > 0 {
			buf = putBytesField(buf, pbfLayerDoubleValues, encodeDoubleTable(lb.doubles.values))
		}
		if len(lb.floats.values) > 0 {
			buf = putBytesField(buf, pbfLayerFloatValues, encodeFloatTable(lb.floats.values))
		}
		if len(lb.ints.values) > 0 {
			buf = putBytesField(buf, pbfLayerIntValues, encodeIntTable(lb.ints.values))
		}
		if lb.elevationScaling != DefaultScaling {
			buf = putBytesField(buf, pbfLayerElevationScaling, encodeScaling(lb.elevationScaling))
		}
		for _, s := range lb.attributeScalings {
			buf = putBytesField(buf, pbfLayerAttributeScaling, encodeScaling(s))
		}
		if lb.hasTile {
			buf = putVarintField(buf, pbfLayerTileX, uint64(lb.tile.X))
			buf = putVarintField(buf, pbfLayerTileY, uint64(lb.tile.Y))
			buf = putVarintField(buf, pbfLayerTileZoom, uint64(lb.tile.Zoom))
		}
	}

	return buf
}

func encodeDoubleTable(values []float64) []byte {
	var buf []byte
	for _, v := range values {
		buf = putFixed64(buf, math.Float64bits(v))
	}
	return buf
}

func encodeFloatTable(values []float32) []byte {
	var buf []byte
	for _, v := range values {
		buf = putFixed32(buf, math.Float32bits(v))
	}
	return buf
}

func encodeIntTable(values []uint64) []byte {
	var buf []byte
	for _, v := range values {
		buf = putVarint(buf, v)
	}
	return buf
}
