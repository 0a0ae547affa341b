package mvt

// Geometry commands packed into each command integer (spec 4.3.4).
const (
	cmdMoveTo    uint32 = 1
	cmdLineTo    uint32 = 2
	cmdClosePath uint32 = 7
)

const maxCommandCount = 1 << 29

// decodeCommand splits a command integer into its id and repeat count.
func decodeCommand(v uint32) (id, count uint32) {
	return v & 0x7, v >> 3
}

// det is the exact cross-product term used by vtzero's ring classifier:
// det(p0, p1) = x0*y1 - x1*y0. Kept as int64 arithmetic so ring orientation
// matches the original implementation bit-for-bit (spec 4.3.4.4).
func det(x0, y0, x1, y1 int64) int64 {
	return x0*y1 - x1*y0
}

// classifyRing turns a shoelace sum into outer/inner/invalid (spec 4.3.4.4).
// A positive sum is an outer ring, negative is inner, zero is degenerate.
func classifyRing(sum int64) RingType {
	switch {
	case sum > 0:
		return RingOuter
	case sum < 0:
		return RingInner
	default:
		return RingInvalid
	}
}

// elevationCursor reads the optional v3 per-vertex elevation stream, zig-zag
// delta encoded against a running cursor (spec 4.3.4.2). It yields the raw
// encoded integer; the layer's elevation scaling is not applied here
// (Layer.ElevationScaling().Decode converts it to a logical value).
type elevationCursor struct {
	r       *fieldReader
	scaling Scaling
	cursor  int64
	active  bool
}

func newElevationCursor(data []byte, scaling Scaling) elevationCursor {
	if len(data) == 0 {
		return elevationCursor{}
	}
	return elevationCursor{r: newFieldReader(data), scaling: scaling, active: true}
}

func (c *elevationCursor) next() (int64, error) {
	if !c.active {
		return 0, nil
	}
	if c.r.done() {
		return 0, newGeometryError(0, noFeature, "elevation stream shorter than point count")
	}
	v, err := c.r.varint()
	if err != nil {
		return 0, err
	}
	c.cursor += decodeZigZag64(v)
	return c.cursor, nil
}

// geometricAttrStream decodes the v3 per-vertex geometric attribute stream
// (spec 4.3.4.5). It is a sequence of (key_index, number-list) pairs: each
// number-list-tagged word carries the vertex count in its parameter bits,
// followed by a scaling index and then one raw word per vertex — the exact
// grammar decodeNumberListValue uses for top-level number-list attributes
// (vtzero detail/geometry.hpp::geometric_attribute_collection).
type geometricAttrStream struct {
	data       []byte
	layerNum   int
	featureNum int
	maxAttrs   int
}

type geomAttrEntry struct {
	key     IndexValue
	scaling IndexValue
	r       *fieldReader
	remain  int
	cursor  int64
}

func (g geometricAttrStream) entries() ([]*geomAttrEntry, error) {
	if len(g.data) == 0 {
		return nil, nil
	}
	var out []*geomAttrEntry
	r := newFieldReader(g.data)
	for !r.done() {
		keyIdx, err := r.varint()
		if err != nil {
			return nil, newFeatureFormatError(g.layerNum, g.featureNum, err.Error())
		}
		word, err := r.varint()
		if err != nil {
			return nil, newFeatureFormatError(g.layerNum, g.featureNum, err.Error())
		}
		if word&0xF != svNumberList {
			return nil, newFeatureFormatError(g.layerNum, g.featureNum, "geometric attributes must be of type number-list")
		}
		count := int(word >> 4)
		scaleIdx, err := r.varint()
		if err != nil {
			return nil, newFeatureFormatError(g.layerNum, g.featureNum, err.Error())
		}
		valuesStart := r.pos
		for i := 0; i < count; i++ {
			if _, err := r.varint(); err != nil {
				return nil, newFeatureFormatError(g.layerNum, g.featureNum, err.Error())
			}
		}
		out = append(out, &geomAttrEntry{
			key:     newIndex(uint32(keyIdx)),
			scaling: newIndex(uint32(scaleIdx)),
			r:       newFieldReader(r.data[valuesStart:r.pos]),
			remain:  count,
		})
		if g.maxAttrs > 0 && len(out) > g.maxAttrs {
			return nil, newFeatureFormatError(g.layerNum, g.featureNum, "geometric attribute count exceeds handler maximum")
		}
	}
	return out, nil
}

// emitVertexAttrs is called once per emitted vertex, in lockstep with point
// decoding, and reports each geometric attribute's value (or null) for that
// vertex to the handler.
func emitVertexAttrs(h interface{}, entries []*geomAttrEntry, layerNum, featureNum int) (bool, error) {
	for _, e := range entries {
		if e.remain == 0 {
			if !callPointsNullAttr(h, e.key) {
				return false, nil
			}
			continue
		}
		if e.r.done() {
			return false, newFeatureFormatError(layerNum, featureNum, "geometric attribute stream shorter than vertex count")
		}
		raw, err := e.r.varint()
		if err != nil {
			return false, newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		e.remain--
		if raw == 0 {
			if !callPointsNullAttr(h, e.key) {
				return false, nil
			}
			continue
		}
		e.cursor += decodeZigZag64(raw - 1)
		if !callPointsAttr(h, e.key, e.scaling, e.cursor) {
			return false, nil
		}
	}
	return true, nil
}

// decodeGeometry walks a feature's geometry command stream, reconstructing
// absolute coordinates from zig-zag delta parameters and dispatching the
// appropriate handler callbacks (points/linestring/ring/spline-control-point
// triples), mirroring vtzero's detail/geometry.hpp decoder.
func decodeGeometry(f *Feature, h interface{}) error {
	layerNum, featureNum := f.LayerNum(), f.Num()
	r := newFieldReader(f.geometry)

	dims := handlerDimensions(h)
	var elev elevationCursor
	if dims == 3 {
		elev = newElevationCursor(f.elevations, f.layer.ElevationScaling())
	}

	attrStream := geometricAttrStream{
		data:       f.geometricAttributes,
		layerNum:   layerNum,
		featureNum: featureNum,
		maxAttrs:   handlerMaxGeometricAttrs(h),
	}
	attrs, err := attrStream.entries()
	if err != nil {
		return err
	}

	var cx, cy int64

	nextPoint := func() (Point, bool, error) {
		dxv, err := r.varint()
		if err != nil {
			return Point{}, false, newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		dyv, err := r.varint()
		if err != nil {
			return Point{}, false, newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		cx += decodeZigZag64(dxv)
		cy += decodeZigZag64(dyv)
		p := Point{X: cx, Y: cy}
		if dims == 3 {
			z, err := elev.next()
			if err != nil {
				return Point{}, false, newFeatureFormatError(layerNum, featureNum, err.Error())
			}
			p.Z = z
		}
		ok, err := emitVertexAttrs(h, attrs, layerNum, featureNum)
		if err != nil {
			return Point{}, false, err
		}
		return p, ok, nil
	}

	readCommand := func() (id, count uint32, more bool, err error) {
		if r.done() {
			return 0, 0, false, nil
		}
		v, err := r.varint()
		if err != nil {
			return 0, 0, false, newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		id, count = decodeCommand(uint32(v))
		if count == 0 || count >= maxCommandCount {
			return 0, 0, false, newGeometryError(layerNum, featureNum, "command count out of range")
		}
		return id, count, true, nil
	}

	switch f.geomType {
	case GeomPoint:
		return decodePointGeometry(h, readCommand, nextPoint, layerNum, featureNum)
	case GeomLineString:
		return decodeLineStringGeometry(h, readCommand, nextPoint, layerNum, featureNum)
	case GeomPolygon:
		return decodePolygonGeometry(h, readCommand, nextPoint, layerNum, featureNum)
	case GeomSpline:
		return decodeSplineGeometry(f, h, readCommand, nextPoint, layerNum, featureNum)
	default:
		return newFeatureFormatError(layerNum, featureNum, "unknown geometry type")
	}
}

type commandReader func() (id, count uint32, more bool, err error)
type pointReader func() (Point, bool, error)

func decodePointGeometry(h interface{}, readCommand commandReader, nextPoint pointReader, layerNum, featureNum int) error {
	id, count, more, err := readCommand()
	if err != nil {
		return err
	}
	if !more || id != cmdMoveTo {
		return newGeometryError(layerNum, featureNum, "point geometry must start with MoveTo")
	}
	if !callPointsBegin(h, int(count)) {
		return nil
	}
	for i := uint32(0); i < count; i++ {
		p, cont, err := nextPoint()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		if !callPointsPoint(h, p) {
			return nil
		}
	}
	callPointsEnd(h)
	if _, _, more, err := readCommand(); err != nil {
		return err
	} else if more {
		return newGeometryError(layerNum, featureNum, "point geometry has trailing commands")
	}
	return nil
}

func decodeLineStringGeometry(h interface{}, readCommand commandReader, nextPoint pointReader, layerNum, featureNum int) error {
	for {
		id, count, more, err := readCommand()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if id != cmdMoveTo || count != 1 {
			return newGeometryError(layerNum, featureNum, "linestring must start with MoveTo(1)")
		}
		start, cont, err := nextPoint()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}

		lid, lcount, more, err := readCommand()
		if err != nil {
			return err
		}
		if !more || lid != cmdLineTo || lcount < 1 {
			return newGeometryError(layerNum, featureNum, "MoveTo must be followed by LineTo(n>=1)")
		}

		if !callLinestringBegin(h, int(lcount)+1) {
			return nil
		}
		if !callLinestringPoint(h, start) {
			return nil
		}
		for i := uint32(0); i < lcount; i++ {
			p, cont, err := nextPoint()
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
			if !callLinestringPoint(h, p) {
				return nil
			}
		}
		if !callLinestringEnd(h) {
			return nil
		}
	}
}

func decodePolygonGeometry(h interface{}, readCommand commandReader, nextPoint pointReader, layerNum, featureNum int) error {
	for {
		id, count, more, err := readCommand()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if id != cmdMoveTo || count != 1 {
			return newGeometryError(layerNum, featureNum, "ring must start with MoveTo(1)")
		}
		start, cont, err := nextPoint()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}

		lid, lcount, more, err := readCommand()
		if err != nil {
			return err
		}
		if !more || lid != cmdLineTo || lcount < 2 {
			return newGeometryError(layerNum, featureNum, "ring MoveTo must be followed by LineTo(n>=2)")
		}

		points := make([]Point, 0, lcount+1)
		points = append(points, start)
		for i := uint32(0); i < lcount; i++ {
			p, cont, err := nextPoint()
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
			points = append(points, p)
		}

		cid, ccount, more, err := readCommand()
		if err != nil {
			return err
		}
		if !more || cid != cmdClosePath || ccount != 1 {
			return newGeometryError(layerNum, featureNum, "ring must end with ClosePath(1)")
		}

		var sum int64
		for i := 0; i < len(points); i++ {
			p0 := points[i]
			p1 := points[(i+1)%len(points)]
			sum += det(p0.X, p0.Y, p1.X, p1.Y)
		}
		kind := classifyRing(sum)

		if !callRingBegin(h, len(points)) {
			return nil
		}
		for _, p := range points {
			if !callRingPoint(h, p) {
				return nil
			}
		}
		if !callRingEnd(h, kind) {
			return nil
		}
	}
}

func decodeSplineGeometry(f *Feature, h interface{}, readCommand commandReader, nextPoint pointReader, layerNum, featureNum int) error {
	var controlPoints int
	for {
		id, count, more, err := readCommand()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if id != cmdMoveTo || count != 1 {
			return newGeometryError(layerNum, featureNum, "spline must start with MoveTo(1)")
		}
		start, cont, err := nextPoint()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}

		lid, lcount, more, err := readCommand()
		if err != nil {
			return err
		}
		if !more || lid != cmdLineTo || lcount < 1 {
			return newGeometryError(layerNum, featureNum, "spline MoveTo must be followed by LineTo(n>=1)")
		}
		controlPoints += int(lcount) + 1

		if !callControlPointsBegin(h, int(lcount)+1) {
			return nil
		}
		if !callControlPointsPoint(h, start) {
			return nil
		}
		for i := uint32(0); i < lcount; i++ {
			p, cont, err := nextPoint()
			if err != nil {
				return err
			}
			if !cont {
				return nil
			}
			if !callControlPointsPoint(h, p) {
				return nil
			}
		}
		if !callControlPointsEnd(h) {
			return nil
		}
	}

	return decodeSplineKnots(f, h, controlPoints, layerNum, featureNum)
}

// decodeSplineKnots parses the feature's separate spline_knots field: a
// number-list header (count, scaling index) followed by one delta-encoded
// word per knot, none of which may be null (spec 4.3.4.3, vtzero
// detail/geometry.hpp::decode_spline). The decoded count must equal
// control_points + degree + 1.
func decodeSplineKnots(f *Feature, h interface{}, controlPoints, layerNum, featureNum int) error {
	if len(f.knots) == 0 {
		return nil
	}
	r := newFieldReader(f.knots)
	word, err := r.varint()
	if err != nil {
		return newFeatureFormatError(layerNum, featureNum, err.Error())
	}
	if word&0xF != svNumberList {
		return newGeometryError(layerNum, featureNum, "knots must be of type number-list")
	}
	count := int(word >> 4)
	if expected := controlPoints + int(f.degree) + 1; count != expected {
		return newGeometryError(layerNum, featureNum, "wrong number of knots")
	}

	scaleIdx, err := r.varint()
	if err != nil {
		return newFeatureFormatError(layerNum, featureNum, err.Error())
	}
	_ = scaleIdx

	if !callKnotsBegin(h, count) {
		return nil
	}
	var cursor int64
	for i := 0; i < count; i++ {
		raw, err := r.varint()
		if err != nil {
			return newFeatureFormatError(layerNum, featureNum, err.Error())
		}
		if raw == 0 {
			return newGeometryError(layerNum, featureNum, "null value in knots not allowed")
		}
		cursor += decodeZigZag64(raw - 1)
		if !callKnotsValue(h, uint64(cursor)) {
			return nil
		}
	}
	callKnotsEnd(h)
	return nil
}

// decodeGeometryOf is the entry point behind Feature.DecodeGeometry that
// runs a handler over a feature's full geometry (spec 4.4).
func decodeGeometryOf(f Feature, h interface{}) error {
	return decodeGeometry(&f, h)
}
