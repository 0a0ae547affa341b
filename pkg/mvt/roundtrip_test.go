package mvt

import "testing"

func TestEmptyTile(t *testing.T) {
	tb := NewTileBuilder()
	if !tb.Empty() {
		t.Fatal("freshly built tile should be empty")
	}
	data := tb.Encode()

	tile := NewTile(data)
	n, err := tile.CountLayers()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("got %d layers, want 0", n)
	}
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	if len(layers) != 0 {
		t.Errorf("got %d layers, want 0", len(layers))
	}
}

type pointRecorder struct {
	dims   int
	begin  int
	points []Point
	ended  bool
}

func (r *pointRecorder) Dimensions() int { return r.dims }
func (r *pointRecorder) PointsBegin(count int) bool {
	r.begin = count
	return true
}
func (r *pointRecorder) PointsPoint(p Point) bool {
	r.points = append(r.points, p)
	return true
}
func (r *pointRecorder) PointsEnd() bool { r.ended = true; return true }

type tagRecorder struct {
	keys   []string
	values []PropertyValue
}

func (r *tagRecorder) AttributeKey(key string, depth int) bool {
	r.keys = append(r.keys, key)
	return true
}
func (r *tagRecorder) AttributeValueString(v string, depth int) bool {
	r.values = append(r.values, newStringPropertyValue([]byte(v)))
	return true
}
func (r *tagRecorder) AttributeValueInt(v int64, depth int) bool {
	r.values = append(r.values, newIntPropertyValue(v))
	return true
}

func buildV2PointTile(t *testing.T) []byte {
	t.Helper()
	tb := NewTileBuilder()
	lb := tb.NewLayer("places", 2)
	lb.SetExtent(4096)

	fb := lb.NewFeature()
	if err := fb.SetIntID(7); err != nil {
		t.Fatal(err)
	}
	if err := fb.AddPointGeometry([]Point{{X: 10, Y: 20}}); err != nil {
		t.Fatal(err)
	}
	if err := fb.AddProperty("name", newStringPropertyValue([]byte("Springfield"))); err != nil {
		t.Fatal(err)
	}
	if err := fb.AddProperty("pop", newIntPropertyValue(1234)); err != nil {
		t.Fatal(err)
	}
	if err := fb.Commit(); err != nil {
		t.Fatal(err)
	}
	return tb.Encode()
}

func TestPointFeatureV2RoundTrip(t *testing.T) {
	data := buildV2PointTile(t)

	tile := NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	if len(layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(layers))
	}
	layer := layers[0]
	if layer.Name() != "places" || layer.Version() != 2 || layer.Extent() != 4096 {
		t.Fatalf("layer metadata mismatch: %+v", layer)
	}
	if layer.NumFeatures() != 1 {
		t.Fatalf("got %d features, want 1", layer.NumFeatures())
	}

	features, err := layer.Features()
	if err != nil {
		t.Fatal(err)
	}
	f := features[0]
	if f.GeomType() != GeomPoint {
		t.Fatalf("got geom type %v, want point", f.GeomType())
	}
	id := f.ID()
	if !id.HasInt || id.Int != 7 {
		t.Fatalf("got id %+v, want int 7", id)
	}

	pr := &pointRecorder{dims: 2}
	if err := f.DecodeGeometry(pr); err != nil {
		t.Fatal(err)
	}
	if pr.begin != 1 || len(pr.points) != 1 || pr.points[0] != (Point{X: 10, Y: 20}) || !pr.ended {
		t.Fatalf("unexpected point decode: %+v", pr)
	}

	tr := &tagRecorder{}
	if err := f.DecodeAttributes(tr); err != nil {
		t.Fatal(err)
	}
	if len(tr.keys) != 2 || tr.keys[0] != "name" || tr.keys[1] != "pop" {
		t.Fatalf("unexpected keys: %v", tr.keys)
	}
	name, _ := tr.values[0].String()
	if name != "Springfield" {
		t.Errorf("got name %q, want Springfield", name)
	}
	pop, _ := tr.values[1].Int()
	if pop != 1234 {
		t.Errorf("got pop %d, want 1234", pop)
	}
}

type ringRecorder struct {
	rings []struct {
		points []Point
		kind   RingType
	}
	current []Point
}

func (r *ringRecorder) RingBegin(count int) bool { r.current = nil; return true }
func (r *ringRecorder) RingPoint(p Point) bool {
	r.current = append(r.current, p)
	return true
}
func (r *ringRecorder) RingEnd(kind RingType) bool {
	r.rings = append(r.rings, struct {
		points []Point
		kind   RingType
	}{points: r.current, kind: kind})
	return true
}

func TestPolygonWithHoleRoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.NewLayer("buildings", 2)

	outer := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	inner := []Point{{X: 2, Y: 2}, {X: 2, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 2}}

	fb := lb.NewFeature()
	if err := fb.AddPolygonGeometry([][]Point{outer, inner}); err != nil {
		t.Fatal(err)
	}
	if err := fb.Commit(); err != nil {
		t.Fatal(err)
	}
	data := tb.Encode()

	tile := NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	features, err := layers[0].Features()
	if err != nil {
		t.Fatal(err)
	}
	f := features[0]
	if f.GeomType() != GeomPolygon {
		t.Fatalf("got geom type %v, want polygon", f.GeomType())
	}

	rr := &ringRecorder{}
	if err := f.DecodeGeometry(rr); err != nil {
		t.Fatal(err)
	}
	if len(rr.rings) != 2 {
		t.Fatalf("got %d rings, want 2", len(rr.rings))
	}
	if rr.rings[0].kind != RingOuter {
		t.Errorf("got outer ring kind %v, want outer", rr.rings[0].kind)
	}
	if rr.rings[1].kind != RingInner {
		t.Errorf("got inner ring kind %v, want inner", rr.rings[1].kind)
	}
}

type elevationRecorder struct {
	points []Point
}

func (r *elevationRecorder) Dimensions() int { return 3 }
func (r *elevationRecorder) PointsPoint(p Point) bool {
	r.points = append(r.points, p)
	return true
}

func TestPoint3DWithElevationScaling(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.NewLayer("peaks", 3)
	scaling := Scaling{Offset: 0, Multiplier: 1.0, Base: 0.0}
	if err := lb.SetElevationScaling(scaling); err != nil {
		t.Fatal(err)
	}

	fb := lb.NewFeature()
	if err := fb.AddPointGeometry([]Point{{X: 1, Y: 2, Z: 100}, {X: 3, Y: 4, Z: 150}}); err != nil {
		t.Fatal(err)
	}
	if err := fb.Commit(); err != nil {
		t.Fatal(err)
	}
	data := tb.Encode()

	tile := NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	features, err := layers[0].Features()
	if err != nil {
		t.Fatal(err)
	}

	er := &elevationRecorder{}
	if err := features[0].DecodeGeometry(er); err != nil {
		t.Fatal(err)
	}
	if len(er.points) != 2 {
		t.Fatalf("got %d points, want 2", len(er.points))
	}
	if er.points[0].Z != 100 || er.points[1].Z != 150 {
		t.Fatalf("got elevations %d, %d; want 100, 150", er.points[0].Z, er.points[1].Z)
	}
}

type splineRecorder struct {
	controlPoints []Point
	knots         []uint64
}

func (r *splineRecorder) ControlPointsPoint(p Point) bool {
	r.controlPoints = append(r.controlPoints, p)
	return true
}
func (r *splineRecorder) KnotsValue(v uint64) bool {
	r.knots = append(r.knots, v)
	return true
}

func TestSplineRoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.NewLayer("roads", 3)

	fb := lb.NewFeature()
	controlPoints := []Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
	knots := []uint64{0, 0, 0, 1, 1, 1}
	if err := fb.AddSplineGeometry(controlPoints, knots, 2); err != nil {
		t.Fatal(err)
	}
	if err := fb.Commit(); err != nil {
		t.Fatal(err)
	}
	data := tb.Encode()

	tile := NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	features, err := layers[0].Features()
	if err != nil {
		t.Fatal(err)
	}
	f := features[0]
	if f.GeomType() != GeomSpline || f.SplineDegree() != 2 {
		t.Fatalf("got type %v degree %d, want spline degree 2", f.GeomType(), f.SplineDegree())
	}

	sr := &splineRecorder{}
	if err := f.DecodeGeometry(sr); err != nil {
		t.Fatal(err)
	}
	if len(sr.controlPoints) != 3 {
		t.Fatalf("got %d control points, want 3", len(sr.controlPoints))
	}
	if len(sr.knots) != len(knots) {
		t.Fatalf("got %d knots, want %d", len(sr.knots), len(knots))
	}
	for i, k := range knots {
		if sr.knots[i] != k {
			t.Errorf("knot %d: got %d, want %d", i, sr.knots[i], k)
		}
	}
}

type structuredAttrRecorder struct {
	keys       []string
	strings    []string
	mapStarts  []int
	listStarts []int
}

func (r *structuredAttrRecorder) AttributeKey(key string, depth int) bool {
	r.keys = append(r.keys, key)
	return true
}
func (r *structuredAttrRecorder) AttributeValueString(v string, depth int) bool {
	r.strings = append(r.strings, v)
	return true
}
func (r *structuredAttrRecorder) StartMapAttribute(count, depth int) bool {
	r.mapStarts = append(r.mapStarts, count)
	return true
}
func (r *structuredAttrRecorder) StartListAttribute(count, depth int) bool {
	r.listStarts = append(r.listStarts, count)
	return true
}

func TestStructuredMapAttributeRoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.NewLayer("poi", 3)

	fb := lb.NewFeature()
	if err := fb.AddPointGeometry([]Point{{X: 1, Y: 1}}); err != nil {
		t.Fatal(err)
	}
	addr := "123 Main St"
	city := "Springfield"
	value := Attr{Map: []AttrField{
		{Key: "address", Value: Attr{String: &addr}},
		{Key: "city", Value: Attr{String: &city}},
	}}
	if err := fb.AddAttribute("location", value); err != nil {
		t.Fatal(err)
	}
	if err := fb.Commit(); err != nil {
		t.Fatal(err)
	}
	data := tb.Encode()

	tile := NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	features, err := layers[0].Features()
	if err != nil {
		t.Fatal(err)
	}
	f := features[0]
	if !f.HasAttributes() {
		t.Fatal("expected feature to carry v3 attributes")
	}

	sr := &structuredAttrRecorder{}
	if err := f.DecodeAttributes(sr); err != nil {
		t.Fatal(err)
	}
	if len(sr.mapStarts) != 1 || sr.mapStarts[0] != 2 {
		t.Fatalf("got map starts %v, want [2]", sr.mapStarts)
	}
	if len(sr.keys) != 3 || sr.keys[0] != "location" || sr.keys[1] != "address" || sr.keys[2] != "city" {
		t.Fatalf("got keys %v", sr.keys)
	}
	if len(sr.strings) != 2 || sr.strings[0] != addr || sr.strings[1] != city {
		t.Fatalf("got strings %v", sr.strings)
	}
}

type numberListRecorder struct {
	count   int
	scaling IndexValue
	values  []int64
	nulls   int
}

func (r *numberListRecorder) StartNumberList(count int, scaling IndexValue, depth int) bool {
	r.count = count
	r.scaling = scaling
	return true
}
func (r *numberListRecorder) NumberListValue(v int64, depth int) bool {
	r.values = append(r.values, v)
	return true
}
func (r *numberListRecorder) NumberListNullValue(depth int) bool {
	r.nulls++
	return true
}

func TestNumberListAttributeRoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.NewLayer("contours", 3)

	fb := lb.NewFeature()
	if err := fb.AddPointGeometry([]Point{{X: 1, Y: 1}}); err != nil {
		t.Fatal(err)
	}
	ten, minusFive := int64(10), int64(-5)
	values := []*int64{&ten, nil, &minusFive}
	if err := fb.AddAttribute("levels", Attr{NumberList: &NumberListAttr{Scaling: DefaultScaling, Values: values}}); err != nil {
		t.Fatal(err)
	}
	if err := fb.Commit(); err != nil {
		t.Fatal(err)
	}
	data := tb.Encode()

	tile := NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	features, err := layers[0].Features()
	if err != nil {
		t.Fatal(err)
	}
	f := features[0]

	nr := &numberListRecorder{}
	if err := f.DecodeAttributes(nr); err != nil {
		t.Fatal(err)
	}
	if nr.count != 3 {
		t.Fatalf("got count %d, want 3", nr.count)
	}
	if nr.nulls != 1 {
		t.Fatalf("got %d nulls, want 1", nr.nulls)
	}
	if len(nr.values) != 2 || nr.values[0] != 10 || nr.values[1] != -5 {
		t.Fatalf("got values %v, want [10 -5]", nr.values)
	}
}

type geomAttrRecorder struct {
	dims   int
	points []Point
	attrs  []int64
	nulls  int
}

func (r *geomAttrRecorder) Dimensions() int { return r.dims }
func (r *geomAttrRecorder) PointsBegin(count int) bool { return true }
func (r *geomAttrRecorder) PointsPoint(p Point) bool {
	r.points = append(r.points, p)
	return true
}
func (r *geomAttrRecorder) PointsEnd() bool { return true }
func (r *geomAttrRecorder) PointsAttr(key, scaling IndexValue, value int64) bool {
	r.attrs = append(r.attrs, value)
	return true
}
func (r *geomAttrRecorder) PointsNullAttr(key IndexValue) bool {
	r.nulls++
	return true
}

func TestGeometricAttributeRoundTrip(t *testing.T) {
	tb := NewTileBuilder()
	lb := tb.NewLayer("sensors", 3)

	fb := lb.NewFeature()
	points := []Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if err := fb.AddPointGeometry(points); err != nil {
		t.Fatal(err)
	}
	a, c := int64(100), int64(50)
	if err := fb.AddGeometricAttribute("temperature", DefaultScaling, []*int64{&a, nil, &c}); err != nil {
		t.Fatal(err)
	}
	if err := fb.Commit(); err != nil {
		t.Fatal(err)
	}
	data := tb.Encode()

	tile := NewTile(data)
	layers, err := tile.Layers()
	if err != nil {
		t.Fatal(err)
	}
	features, err := layers[0].Features()
	if err != nil {
		t.Fatal(err)
	}
	f := features[0]

	gr := &geomAttrRecorder{}
	if err := f.DecodeGeometry(gr); err != nil {
		t.Fatal(err)
	}
	if len(gr.points) != 3 {
		t.Fatalf("got %d points, want 3", len(gr.points))
	}
	if gr.nulls != 1 {
		t.Fatalf("got %d null attrs, want 1", gr.nulls)
	}
	if len(gr.attrs) != 2 || gr.attrs[0] != 100 || gr.attrs[1] != 50 {
		t.Fatalf("got attrs %v, want [100 50]", gr.attrs)
	}
}

// TestStructuredValueWireBytes hand-builds v3 structured-value words
// directly, independent of this package's own encoder, to check the decoder
// against the tag table itself (spec 4.5.2 / vtzero detail/attributes.hpp)
// rather than only against round trips through its own encoder.
type structuredValueRecorder struct {
	bools []bool
	nulls int
	ints  []int64
}

func (r *structuredValueRecorder) AttributeValueBool(v bool, depth int) bool {
	r.bools = append(r.bools, v)
	return true
}
func (r *structuredValueRecorder) AttributeValueNull(depth int) bool {
	r.nulls++
	return true
}
func (r *structuredValueRecorder) AttributeValueInt(v int64, depth int) bool {
	r.ints = append(r.ints, v)
	return true
}

func TestStructuredValueWireBytes(t *testing.T) {
	rec := &structuredValueRecorder{}

	// tag 7 (bool/null), param 2 -> true
	r := newFieldReader(putVarint(nil, (2<<4)|7))
	if cont, err := decodeStructuredValue(r, nil, rec, 0, 0, 0); err != nil || !cont {
		t.Fatalf("decode true: err=%v cont=%v", err, cont)
	}

	// tag 7, param 1 -> false
	r = newFieldReader(putVarint(nil, (1<<4)|7))
	if cont, err := decodeStructuredValue(r, nil, rec, 0, 0, 0); err != nil || !cont {
		t.Fatalf("decode false: err=%v cont=%v", err, cont)
	}

	// tag 7, param 0 -> null
	r = newFieldReader(putVarint(nil, (0<<4)|7))
	if cont, err := decodeStructuredValue(r, nil, rec, 0, 0, 0); err != nil || !cont {
		t.Fatalf("decode null: err=%v cont=%v", err, cont)
	}

	if len(rec.bools) != 2 || rec.bools[0] != true || rec.bools[1] != false {
		t.Fatalf("got bools %v, want [true false]", rec.bools)
	}
	if rec.nulls != 1 {
		t.Fatalf("got %d nulls, want 1", rec.nulls)
	}

	// tag 7, param 3 is invalid
	r = newFieldReader(putVarint(nil, (3<<4)|7))
	if _, err := decodeStructuredValue(r, nil, rec, 0, 0, 0); err == nil {
		t.Fatal("expected format error for bool/null param > 2")
	}

	// tag 6 (inline-sint): param carries zigzag_encode(-1) = 1
	r = newFieldReader(putVarint(nil, (1<<4)|6))
	if _, err := decodeStructuredValue(r, nil, rec, 0, 0, 0); err != nil {
		t.Fatal(err)
	}
	if len(rec.ints) != 1 || rec.ints[0] != -1 {
		t.Fatalf("got ints %v, want [-1]", rec.ints)
	}

	// tag 0 (string) must NOT decode as null: exercised via the full
	// structured-map round trip in TestStructuredMapAttributeRoundTrip,
	// which resolves tag 0 through the layer's string table.
}

func TestAddPointGeometryRejectsEmpty(t *testing.T) {
	lb := NewLayerBuilder("l", 2)
	fb := lb.NewFeature()
	if err := fb.AddPointGeometry(nil); err == nil {
		t.Fatal("expected error adding a point geometry with zero points")
	}
}

func TestAddLineStringRejectsConsecutiveDuplicates(t *testing.T) {
	lb := NewLayerBuilder("l", 2)
	fb := lb.NewFeature()
	err := fb.AddLineStringGeometry([][]Point{{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}}})
	if err == nil {
		t.Fatal("expected error for consecutive identical points")
	}
}

func TestAddPolygonRejectsRepeatedClosingPoint(t *testing.T) {
	lb := NewLayerBuilder("l", 2)
	fb := lb.NewFeature()
	ring := []Point{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 0, Y: 0}}
	if err := fb.AddPolygonGeometry([][]Point{ring}); err == nil {
		t.Fatal("expected error for ring repeating its closing point")
	}
}

func TestSetStringIDRequiresV3(t *testing.T) {
	lb := NewLayerBuilder("l", 2)
	fb := lb.NewFeature()
	if err := fb.SetStringID("abc"); err == nil {
		t.Fatal("expected error setting a string id on a v2 layer")
	}
}

func TestAddSplineGeometryRejectsBadDegree(t *testing.T) {
	lb := NewLayerBuilder("l", 3)
	fb := lb.NewFeature()
	err := fb.AddSplineGeometry([]Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, []uint64{0, 1}, 4)
	if err == nil {
		t.Fatal("expected error for invalid spline degree")
	}
}

func TestLayerBuilderSetTileRequiresV3(t *testing.T) {
	lb := NewLayerBuilder("l", 2)
	if err := lb.SetTile(TileAddress{X: 0, Y: 0, Zoom: 0}); err == nil {
		t.Fatal("expected error setting tile address on a v2 layer")
	}
}

func TestDecodeRejectsBadVersion(t *testing.T) {
	var buf []byte
	buf = putVarintField(buf, pbfLayerVersion, 9)
	buf = putBytesField(buf, pbfLayerName, []byte("bad"))

	var tile []byte
	tile = putBytesField(tile, pbfTileLayers, buf)

	_, err := NewTile(tile).Layers()
	if err == nil {
		t.Fatal("expected VersionError for an unsupported layer version")
	}
	if _, ok := err.(*VersionError); !ok {
		t.Fatalf("got %T, want *VersionError", err)
	}
}
