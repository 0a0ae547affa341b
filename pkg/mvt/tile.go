package mvt

// Tile field numbers (spec 4.1).
const pbfTileLayers wireFieldNum = 3

// Tile is a lazy, forward-only view over the layers of a vector tile. No
// decoding beyond field boundaries happens until the caller inspects a
// layer; the backing buffer must outlive the Tile and anything derived
// from it.
type Tile struct {
	data []byte
}

// NewTile wraps raw MVT bytes. The byte slice is not copied; the caller
// must keep it alive and unmodified for the lifetime of the Tile.
func NewTile(data []byte) Tile {
	return Tile{data: data}
}

// layerViews walks the tile once, yielding the raw bytes of each layers
// field in order. Any non-layer top-level field is skipped.
func (t Tile) layerViews(yield func(data []byte) bool) error {
	r := newFieldReader(t.data)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return newFormatError(0, "invalid tile: "+err.Error())
		}
		if field == pbfTileLayers {
			if wt != wireBytes {
				return newFormatError(0, "tile layers field has wrong wire type")
			}
			v, err := r.bytesv()
			if err != nil {
				return newFormatError(0, err.Error())
			}
			if !yield(v) {
				return nil
			}
			continue
		}
		if err := r.skip(wt); err != nil {
			return newFormatError(0, err.Error())
		}
	}
	return nil
}

// CountLayers returns the number of layers in the tile. Complexity: a
// single linear scan of the top-level fields.
func (t Tile) CountLayers() (int, error) {
	n := 0
	err := t.layerViews(func([]byte) bool {
		n++
		return true
	})
	return n, err
}

// LayerAt returns the layer at the given zero-based index. It returns a
// zero-value, invalid Layer (Layer.Valid() == false) if index is out of
// range, matching vtzero's non-throwing "layer_at".
func (t Tile) LayerAt(index int) (Layer, error) {
	var (
		found []byte
		i     int
		ok    bool
	)
	err := t.layerViews(func(data []byte) bool {
		if i == index {
			found = data
			ok = true
			return false
		}
		i++
		return true
	})
	if err != nil {
		return Layer{}, err
	}
	if !ok {
		return Layer{}, nil
	}
	return newLayer(found, index)
}

// LayerByName scans the tile for a layer with the given name and returns
// it, or a zero-value Layer if none matches. A layer encountered during the
// scan that has no name raises a format error (spec 4.2).
func (t Tile) LayerByName(name string) (Layer, error) {
	var (
		found   []byte
		foundAt int
		ok      bool
		num     int
		scanErr error
	)
	err := t.layerViews(func(data []byte) bool {
		n, nameErr := peekLayerName(data)
		if nameErr != nil {
			scanErr = nameErr
			return false
		}
		if n == name {
			found, foundAt, ok = data, num, true
			return false
		}
		num++
		return true
	})
	if err != nil {
		return Layer{}, err
	}
	if scanErr != nil {
		return Layer{}, scanErr
	}
	if !ok {
		return Layer{}, nil
	}
	return newLayer(found, foundAt)
}

// Layers returns every layer in the tile, in wire order.
func (t Tile) Layers() ([]Layer, error) {
	var (
		layers []Layer
		num    int
		outer  error
	)
	err := t.layerViews(func(data []byte) bool {
		l, lerr := newLayer(data, num)
		if lerr != nil {
			outer = lerr
			return false
		}
		layers = append(layers, l)
		num++
		return true
	})
	if err != nil {
		return nil, err
	}
	if outer != nil {
		return nil, outer
	}
	return layers, nil
}

// peekLayerName extracts only the name field from a layer's raw bytes,
// without validating the rest of the layer, for LayerByName's linear scan.
func peekLayerName(data []byte) (string, error) {
	r := newFieldReader(data)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return "", err
		}
		if field == pbfLayerName && wt == wireBytes {
			b, err := r.bytesv()
			if err != nil {
				return "", err
			}
			return string(b), nil
		}
		if err := r.skip(wt); err != nil {
			return "", err
		}
	}
	return "", newFormatError(0, "missing name in layer (spec 4.1)")
}
