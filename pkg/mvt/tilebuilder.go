package mvt

// TileBuilder assembles a tile from one or more LayerBuilders and
// serializes it to MVT wire bytes, the write-side counterpart of Tile
// (spec 5.1, grounded on vtzero's tile_builder.hpp).
type TileBuilder struct {
	layers []*LayerBuilder
}

// NewTileBuilder starts an empty tile.
func NewTileBuilder() *TileBuilder {
	return &TileBuilder{}
}

// NewLayer creates and registers a new layer in this tile, in append order.
func (tb *TileBuilder) NewLayer(name string, version uint32) *LayerBuilder {
	lb := NewLayerBuilder(name, version)
	tb.layers = append(tb.layers, lb)
	return lb
}

// NewLayerFromExisting creates a new layer pre-populated with the same
// name, version, extent, and tile address as an existing decoded layer,
// for the common "copy a layer and only change its features" pattern
// (spec 5.2's copy path, grounded on vtzero's existing-layer builder
// constructor).
func (tb *TileBuilder) NewLayerFromExisting(src Layer) *LayerBuilder {
	lb := tb.NewLayer(src.Name(), src.Version())
	lb.SetExtent(src.Extent())
	if addr, ok := src.Tile(); ok {
		_ = lb.SetTile(addr)
	}
	lb.elevationScaling = src.ElevationScaling()
	return lb
}

// NumLayers returns the number of layers added so far.
func (tb *TileBuilder) NumLayers() int { return len(tb.layers) }

// Empty reports whether every layer in the tile has zero features. Spec
// 5.1 calls for tiles with only empty layers to still serialize validly,
// but callers commonly want to skip writing them out entirely.
func (tb *TileBuilder) Empty() bool {
	for _, lb := range tb.layers {
		if len(lb.features) > 0 {
			return false
		}
	}
	return true
}

// Encode serializes the tile to MVT wire bytes.
func (tb *TileBuilder) Encode() []byte {
	var buf []byte
	for _, lb := range tb.layers {
		buf = putBytesField(buf, pbfTileLayers, lb.encode())
	}
	return buf
}
