package mvt

// Layer field numbers (spec 4.1).
const (
	pbfLayerName              wireFieldNum = 1
	pbfLayerFeatures          wireFieldNum = 2
	pbfLayerKeys              wireFieldNum = 3
	pbfLayerValues            wireFieldNum = 4
	pbfLayerExtent            wireFieldNum = 5
	pbfLayerStringValues      wireFieldNum = 6
	pbfLayerDoubleValues      wireFieldNum = 7
	pbfLayerFloatValues       wireFieldNum = 8
	pbfLayerIntValues         wireFieldNum = 9
	pbfLayerElevationScaling  wireFieldNum = 10
	pbfLayerAttributeScaling wireFieldNum = 11
	pbfLayerTileX             wireFieldNum = 12
	pbfLayerTileY             wireFieldNum = 13
	pbfLayerTileZoom          wireFieldNum = 14
	pbfLayerVersion           wireFieldNum = 15
)

const defaultExtent = 4096

// maxZoom bounds the v3 tile address: zoom < 32 (spec 3).
const maxZoom = 32

// TileAddress is the optional (x, y, zoom) tile address a v3 layer may
// carry (spec 3).
type TileAddress struct {
	X, Y, Zoom uint32
}

// Layer is a named, versioned unit parsed from a Tile. Constructing a
// Layer eagerly parses top-level fields to extract metadata and to count
// features/keys/values; the v3 double/float/int tables are decoded during
// this pass, and all other payload bytes remain unparsed views until the
// caller asks for a specific feature or table entry (spec 4.3).
type Layer struct {
	data []byte
	num  int

	name    string
	version uint32
	extent  uint32

	hasTile bool
	tile    TileAddress

	numFeatures int

	keyTableSize    int
	valueTableSize  int
	stringTableSize int

	doubleTable []float64
	floatTable  []float32
	intTable    []uint64

	elevationScaling   Scaling
	attributeScalings  []Scaling

	// lazily materialized on first access
	keyTable    []string
	valueTable  []PropertyValue
	stringTable []string
	tablesBuilt bool
}

// Valid reports whether this Layer was constructed from real data, as
// opposed to the zero value returned for an out-of-range LayerAt/LayerByName
// lookup.
func (l Layer) Valid() bool {
	return l.data != nil
}

// Num returns the zero-based index of this layer within its tile.
func (l Layer) Num() int { return l.num }

// Name returns the layer's name.
func (l Layer) Name() string { return l.name }

// Version returns the layer's declared wire-format version (1, 2, or 3).
func (l Layer) Version() uint32 { return l.version }

// Extent returns the coordinate grid size (spec 3), default 4096.
func (l Layer) Extent() uint32 { return l.extent }

// Tile returns the optional v3 tile address and whether it was present.
func (l Layer) Tile() (TileAddress, bool) { return l.tile, l.hasTile }

// NumFeatures returns the number of features in the layer. Constant time:
// counted during construction.
func (l Layer) NumFeatures() int { return l.numFeatures }

// Empty reports whether the layer contains no features.
func (l Layer) Empty() bool { return l.numFeatures == 0 }

// ElevationScaling returns the v3 elevation scaling triple, or the default
// identity scaling for v1/v2 layers and v3 layers that declare none.
func (l Layer) ElevationScaling() Scaling { return l.elevationScaling }

// AttributeScaling returns the scaling at the given index, used by v3
// number-list attributes and geometric attributes.
func (l Layer) AttributeScaling(idx uint32) (Scaling, error) {
	if int(idx) >= len(l.attributeScalings) {
		return Scaling{}, &OutOfRangeError{Index: idx, LayerNum: l.num}
	}
	return l.attributeScalings[idx], nil
}

func newLayer(data []byte, num int) (Layer, error) {
	l := Layer{data: data, num: num, extent: defaultExtent, elevationScaling: DefaultScaling}

	r := newFieldReader(data)
	var (
		x, y, zoom uint32
		hasXYZoom  bool
		sawDouble  bool
		sawFloat   bool
		sawInt     bool
	)

	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return Layer{}, newFormatError(num, "invalid layer: "+err.Error())
		}
		switch field {
		case pbfLayerVersion:
			if wt != wireVarint {
				return Layer{}, newFormatError(num, "layer version has wrong wire type")
			}
			v, err := r.uint32v()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			l.version = v
		case pbfLayerName:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer name has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			l.name = string(b)
		case pbfLayerFeatures:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer features have wrong wire type")
			}
			if err := r.skip(wt); err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			l.numFeatures++
		case pbfLayerKeys:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer keys have wrong wire type")
			}
			if err := r.skip(wt); err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			l.keyTableSize++
		case pbfLayerValues:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer values have wrong wire type")
			}
			if err := r.skip(wt); err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			l.valueTableSize++
		case pbfLayerExtent:
			if wt != wireVarint {
				return Layer{}, newFormatError(num, "layer extent has wrong wire type")
			}
			v, err := r.uint32v()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			l.extent = v
		case pbfLayerStringValues:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer string_values have wrong wire type")
			}
			if err := r.skip(wt); err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			l.stringTableSize++
		case pbfLayerDoubleValues:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer double_values have wrong wire type")
			}
			if sawDouble {
				return Layer{}, newFormatError(num, "more than one double table in layer")
			}
			sawDouble = true
			b, err := r.bytesv()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			table, err := decodeDoubleTable(b, num)
			if err != nil {
				return Layer{}, err
			}
			l.doubleTable = table
		case pbfLayerFloatValues:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer float_values have wrong wire type")
			}
			if sawFloat {
				return Layer{}, newFormatError(num, "more than one float table in layer")
			}
			sawFloat = true
			b, err := r.bytesv()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			table, err := decodeFloatTable(b, num)
			if err != nil {
				return Layer{}, err
			}
			l.floatTable = table
		case pbfLayerIntValues:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer int_values have wrong wire type")
			}
			if sawInt {
				return Layer{}, newFormatError(num, "more than one int table in layer")
			}
			sawInt = true
			b, err := r.bytesv()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			table, err := decodeIntTable(b, num)
			if err != nil {
				return Layer{}, err
			}
			l.intTable = table
		case pbfLayerElevationScaling:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer elevation_scaling has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			s, err := decodeScaling(b, num)
			if err != nil {
				return Layer{}, err
			}
			l.elevationScaling = s
		case pbfLayerAttributeScaling:
			if wt != wireBytes {
				return Layer{}, newFormatError(num, "layer attribute_scalings have wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			s, err := decodeScaling(b, num)
			if err != nil {
				return Layer{}, err
			}
			l.attributeScalings = append(l.attributeScalings, s)
		case pbfLayerTileX:
			if wt != wireVarint {
				return Layer{}, newFormatError(num, "layer tile_x has wrong wire type")
			}
			v, err := r.uint32v()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			x, hasXYZoom = v, true
		case pbfLayerTileY:
			if wt != wireVarint {
				return Layer{}, newFormatError(num, "layer tile_y has wrong wire type")
			}
			v, err := r.uint32v()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			y, hasXYZoom = v, true
		case pbfLayerTileZoom:
			if wt != wireVarint {
				return Layer{}, newFormatError(num, "layer tile_zoom has wrong wire type")
			}
			v, err := r.uint32v()
			if err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
			if v >= maxZoom {
				return Layer{}, newFormatError(num, "zoom level in layer >= 32 (spec 3)")
			}
			zoom, hasXYZoom = v, true
		default:
			if err := r.skip(wt); err != nil {
				return Layer{}, newFormatError(num, err.Error())
			}
		}
	}

	if l.version < 1 || l.version > 3 {
		return Layer{}, &VersionError{Version: l.version, LayerNum: num}
	}

	if l.version <= 2 {
		if l.stringTableSize > 0 {
			return Layer{}, newFormatError(num, "string table in layer with version <= 2")
		}
		if len(l.doubleTable) > 0 {
			return Layer{}, newFormatError(num, "double table in layer with version <= 2")
		}
		if len(l.floatTable) > 0 {
			return Layer{}, newFormatError(num, "float table in layer with version <= 2")
		}
		if len(l.intTable) > 0 {
			return Layer{}, newFormatError(num, "int table in layer with version <= 2")
		}
		if l.elevationScaling != DefaultScaling {
			return Layer{}, newFormatError(num, "elevation scaling message in layer with version <= 2")
		}
		if len(l.attributeScalings) > 0 {
			return Layer{}, newFormatError(num, "attribute scaling message in layer with version <= 2")
		}
	}

	if l.name == "" {
		return Layer{}, newFormatError(num, "missing name in layer (spec 4.1)")
	}

	if hasXYZoom {
		limit := uint32(1) << zoom
		if x >= limit || y >= limit {
			return Layer{}, newFormatError(num, "tile x/y out of range for zoom (spec 4.1)")
		}
		l.tile = TileAddress{X: x, Y: y, Zoom: zoom}
		l.hasTile = true
	}

	return l, nil
}

func decodeDoubleTable(data []byte, layerNum int) ([]float64, error) {
	r := newFieldReader(data)
	var out []float64
	for !r.done() {
		v, err := r.float64v()
		if err != nil {
			return nil, newFormatError(layerNum, "invalid double table: "+err.Error())
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeFloatTable(data []byte, layerNum int) ([]float32, error) {
	r := newFieldReader(data)
	var out []float32
	for !r.done() {
		v, err := r.float32v()
		if err != nil {
			return nil, newFormatError(layerNum, "invalid float table: "+err.Error())
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeIntTable(data []byte, layerNum int) ([]uint64, error) {
	r := newFieldReader(data)
	var out []uint64
	for !r.done() {
		v, err := r.varint()
		if err != nil {
			return nil, newFormatError(layerNum, "invalid int table: "+err.Error())
		}
		out = append(out, v)
	}
	return out, nil
}

// initializeTables materializes the key/value/string table caches on first
// access. Subsequent calls are no-ops; the cache never changes observed
// values once built (spec 3 "Ownership").
func (l *Layer) initializeTables() error {
	if l.tablesBuilt {
		return nil
	}
	keys := make([]string, 0, l.keyTableSize)
	values := make([]PropertyValue, 0, l.valueTableSize)
	strings := make([]string, 0, l.stringTableSize)

	r := newFieldReader(l.data)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return newFormatError(l.num, err.Error())
		}
		switch field {
		case pbfLayerKeys:
			b, err := r.bytesv()
			if err != nil {
				return newFormatError(l.num, err.Error())
			}
			keys = append(keys, string(b))
		case pbfLayerValues:
			b, err := r.bytesv()
			if err != nil {
				return newFormatError(l.num, err.Error())
			}
			v, err := decodePropertyValue(b, l.num)
			if err != nil {
				return err
			}
			values = append(values, v)
		case pbfLayerStringValues:
			b, err := r.bytesv()
			if err != nil {
				return newFormatError(l.num, err.Error())
			}
			strings = append(strings, string(b))
		default:
			if err := r.skip(wt); err != nil {
				return newFormatError(l.num, err.Error())
			}
		}
	}

	l.keyTable = keys
	l.valueTable = values
	l.stringTable = strings
	l.tablesBuilt = true
	return nil
}

// KeyTable returns the ordered key table, materializing it on first call.
func (l *Layer) KeyTable() ([]string, error) {
	if err := l.initializeTables(); err != nil {
		return nil, err
	}
	return l.keyTable, nil
}

// ValueTable returns the ordered v1/v2 value table, materializing it on
// first call.
func (l *Layer) ValueTable() ([]PropertyValue, error) {
	if err := l.initializeTables(); err != nil {
		return nil, err
	}
	return l.valueTable, nil
}

// StringTable returns the ordered v3 string table, materializing it on
// first call.
func (l *Layer) StringTable() ([]string, error) {
	if err := l.initializeTables(); err != nil {
		return nil, err
	}
	return l.stringTable, nil
}

// Key looks up a key-table entry by index.
func (l *Layer) Key(i uint32) (string, error) {
	keys, err := l.KeyTable()
	if err != nil {
		return "", err
	}
	if int(i) >= len(keys) {
		return "", &OutOfRangeError{Index: i, LayerNum: l.num}
	}
	return keys[i], nil
}

// Value looks up a v1/v2 value-table entry by index.
func (l *Layer) Value(i uint32) (PropertyValue, error) {
	values, err := l.ValueTable()
	if err != nil {
		return PropertyValue{}, err
	}
	if int(i) >= len(values) {
		return PropertyValue{}, &OutOfRangeError{Index: i, LayerNum: l.num}
	}
	return values[i], nil
}

// StringEntry looks up a v3 string-table entry by index.
func (l *Layer) StringEntry(i uint32) (string, error) {
	strings, err := l.StringTable()
	if err != nil {
		return "", err
	}
	if int(i) >= len(strings) {
		return "", &OutOfRangeError{Index: i, LayerNum: l.num}
	}
	return strings[i], nil
}

// DoubleValue looks up a v3 double-table entry by index.
func (l *Layer) DoubleValue(i uint32) (float64, error) {
	if int(i) >= len(l.doubleTable) {
		return 0, &OutOfRangeError{Index: i, LayerNum: l.num}
	}
	return l.doubleTable[i], nil
}

// FloatValue looks up a v3 float-table entry by index.
func (l *Layer) FloatValue(i uint32) (float32, error) {
	if int(i) >= len(l.floatTable) {
		return 0, &OutOfRangeError{Index: i, LayerNum: l.num}
	}
	return l.floatTable[i], nil
}

// IntValue looks up a v3 int-table entry by index, returned raw (the
// zig-zag-decoded signed form is produced by decodeStructuredValue's sint
// handling, which calls this and decodes).
func (l *Layer) IntValue(i uint32) (uint64, error) {
	if int(i) >= len(l.intTable) {
		return 0, &OutOfRangeError{Index: i, LayerNum: l.num}
	}
	return l.intTable[i], nil
}

// FeatureAt returns the feature at the given zero-based index within this
// layer by performing a linear scan over the features field.
func (l *Layer) FeatureAt(index int) (Feature, error) {
	var (
		found bool
		data  []byte
	)
	i := 0
	r := newFieldReader(l.data)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return Feature{}, newFormatError(l.num, err.Error())
		}
		if field != pbfLayerFeatures {
			if err := r.skip(wt); err != nil {
				return Feature{}, newFormatError(l.num, err.Error())
			}
			continue
		}
		b, err := r.bytesv()
		if err != nil {
			return Feature{}, newFormatError(l.num, err.Error())
		}
		if i == index {
			data, found = b, true
			break
		}
		i++
	}
	if !found {
		return Feature{}, nil
	}
	return newFeature(data, l, index)
}

// Features returns every feature in the layer, in wire order.
func (l *Layer) Features() ([]Feature, error) {
	features := make([]Feature, 0, l.numFeatures)
	i := 0
	r := newFieldReader(l.data)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return nil, newFormatError(l.num, err.Error())
		}
		if field != pbfLayerFeatures {
			if err := r.skip(wt); err != nil {
				return nil, newFormatError(l.num, err.Error())
			}
			continue
		}
		b, err := r.bytesv()
		if err != nil {
			return nil, newFormatError(l.num, err.Error())
		}
		f, err := newFeature(b, l, i)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
		i++
	}
	return features, nil
}
