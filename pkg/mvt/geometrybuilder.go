package mvt

// This file holds FeatureBuilder's geometry-encoding methods: translating
// Point lists back into command-packed, zig-zag delta-encoded geometry
// bytes, the write-side counterpart of geometry.go's decoder (spec 5.3,
// grounded on vtzero's builder.hpp point/linestring/polygon/spline
// encoders).

// CopyGeometry copies a decoded feature's raw geometry (and, if present,
// its elevation/spline-knot streams) verbatim into this builder without
// re-deriving deltas (spec 5.2 copy_geometry).
func (fb *FeatureBuilder) CopyGeometry(src Feature) error {
	if err := fb.beginGeometry(src.GeomType()); err != nil {
		return err
	}
	fb.geomBuf = append([]byte(nil), src.geometry...)
	if len(src.elevations) > 0 {
		fb.elevBuf = append([]byte(nil), src.elevations...)
	}
	if len(src.knots) > 0 {
		fb.knotsBuf = append([]byte(nil), src.knots...)
	}
	fb.degree = src.degree
	return nil
}

// AddPointGeometry emits a GeomPoint feature from one or more points (a
// single point, or a multipoint when len(points) > 1).
func (fb *FeatureBuilder) AddPointGeometry(points []Point) error {
	if err := fb.beginGeometry(GeomPoint); err != nil {
		return err
	}
	if err := checkCount(len(points)); err != nil {
		return err
	}
	fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdMoveTo, uint32(len(points)))))
	for _, p := range points {
		fb.appendDelta(p)
	}
	return nil
}

// AddLineStringGeometry emits a GeomLineString feature made of one or more
// independent lines, each with at least two points.
func (fb *FeatureBuilder) AddLineStringGeometry(lines [][]Point) error {
	if err := fb.beginGeometry(GeomLineString); err != nil {
		return err
	}
	if len(lines) == 0 {
		return newGeometryError(0, 0, "linestring geometry needs at least one line")
	}
	for _, line := range lines {
		if len(line) < 2 {
			return newGeometryError(0, 0, "each linestring needs at least two points")
		}
		if err := checkNoConsecutiveDuplicates(line); err != nil {
			return err
		}
		fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdMoveTo, 1)))
		fb.appendDelta(line[0])
		fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdLineTo, uint32(len(line)-1))))
		for _, p := range line[1:] {
			fb.appendDelta(p)
		}
	}
	return nil
}

// AddPolygonGeometry emits a GeomPolygon feature made of one or more rings.
// Each ring is given as an open list of distinct points (do not repeat the
// first point at the end; ClosePath implies the closing edge).
func (fb *FeatureBuilder) AddPolygonGeometry(rings [][]Point) error {
	if err := fb.beginGeometry(GeomPolygon); err != nil {
		return err
	}
	if len(rings) == 0 {
		return newGeometryError(0, 0, "polygon geometry needs at least one ring")
	}
	for _, ring := range rings {
		if len(ring) < 3 {
			return newGeometryError(0, 0, "each ring needs at least three points")
		}
		if ring[0] == ring[len(ring)-1] {
			return newGeometryError(0, 0, "ring must not repeat its closing point; ClosePath implies it")
		}
		if err := checkNoConsecutiveDuplicates(ring); err != nil {
			return err
		}
		fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdMoveTo, 1)))
		fb.appendDelta(ring[0])
		fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdLineTo, uint32(len(ring)-1))))
		for _, p := range ring[1:] {
			fb.appendDelta(p)
		}
		fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdClosePath, 1)))
	}
	return nil
}

// AddSplineGeometry emits a GeomSpline feature (v3 only): a polyline of
// control points plus a separately stored, non-decreasing knot sequence.
func (fb *FeatureBuilder) AddSplineGeometry(controlPoints []Point, knots []uint64, degree uint32) error {
	if err := fb.beginGeometry(GeomSpline); err != nil {
		return err
	}
	if degree != 2 && degree != 3 {
		return newGeometryError(0, 0, "spline degree must be 2 or 3")
	}
	if len(controlPoints) < 2 {
		return newGeometryError(0, 0, "spline needs at least two control points")
	}
	if expected := len(controlPoints) + int(degree) + 1; len(knots) != expected {
		return newGeometryError(0, 0, "spline knot count must equal control_points + degree + 1")
	}
	var prev uint64
	for i, k := range knots {
		if i > 0 && k < prev {
			return newGeometryError(0, 0, "spline knot sequence must be non-decreasing")
		}
		prev = k
	}

	fb.degree = degree
	fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdMoveTo, 1)))
	fb.appendDelta(controlPoints[0])
	fb.geomBuf = putVarint(fb.geomBuf, uint64(pack(cmdLineTo, uint32(len(controlPoints)-1))))
	for _, p := range controlPoints[1:] {
		fb.appendDelta(p)
	}

	// Knots are stored as their own number-list: a header carrying the count
	// and a scaling index, then one delta-encoded word per knot (spec 4.3.4.3,
	// vtzero detail/geometry.hpp::decode_spline / builder.hpp::add_spline).
	scaleIdx, _ := fb.layer.AddAttributeScaling(DefaultScaling)
	fb.knotsBuf = putVarint(fb.knotsBuf, (uint64(len(knots))<<4)|svNumberList)
	fb.knotsBuf = putVarint(fb.knotsBuf, uint64(scaleIdx))
	values := make([]*int64, len(knots))
	for i, k := range knots {
		v := int64(k)
		values[i] = &v
	}
	fb.knotsBuf = encodeNumberListValues(fb.knotsBuf, values)
	return nil
}

func (fb *FeatureBuilder) appendDelta(p Point) {
	fb.vertexCount++
	dx := p.X - fb.geomCursorX
	dy := p.Y - fb.geomCursorY
	fb.geomCursorX, fb.geomCursorY = p.X, p.Y
	fb.geomBuf = putVarint(fb.geomBuf, uint64(encodeZigZag64(dx)))
	fb.geomBuf = putVarint(fb.geomBuf, uint64(encodeZigZag64(dy)))
	if fb.layer.version >= 3 {
		dz := p.Z - fb.geomCursorZ
		fb.geomCursorZ = p.Z
		fb.elevBuf = putVarint(fb.elevBuf, uint64(encodeZigZag64(dz)))
	}
}

func pack(id, count uint32) uint32 { return id | (count << 3) }

func checkCount(n int) error {
	if n < 1 {
		return newGeometryError(0, 0, "geometry must have at least one point")
	}
	if n >= maxCommandCount {
		return newGeometryError(0, 0, "geometry command count too large")
	}
	return nil
}

func checkNoConsecutiveDuplicates(points []Point) error {
	for i := 1; i < len(points); i++ {
		if points[i] == points[i-1] {
			return newGeometryError(0, 0, "consecutive identical points are not allowed")
		}
	}
	return nil
}
