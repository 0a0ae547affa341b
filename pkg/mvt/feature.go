package mvt

// Feature field numbers (spec 4.1).
const (
	pbfFeatureID                 wireFieldNum = 1
	pbfFeatureTags                wireFieldNum = 2
	pbfFeatureType                wireFieldNum = 3
	pbfFeatureGeometry             wireFieldNum = 4
	pbfFeatureElevations            wireFieldNum = 5
	pbfFeatureAttributes             wireFieldNum = 6
	pbfFeatureGeometricAttributes     wireFieldNum = 7
	pbfFeatureSplineKnots              wireFieldNum = 8
	pbfFeatureSplineDegree               wireFieldNum = 9
	pbfFeatureStringID                     wireFieldNum = 10
)

// GeomType is the feature's geometry kind (spec 3).
type GeomType uint8

const (
	GeomUnknown    GeomType = 0
	GeomPoint      GeomType = 1
	GeomLineString GeomType = 2
	GeomPolygon    GeomType = 3
	GeomSpline     GeomType = 4 // v3 only
)

func (t GeomType) String() string {
	switch t {
	case GeomPoint:
		return "point"
	case GeomLineString:
		return "linestring"
	case GeomPolygon:
		return "polygon"
	case GeomSpline:
		return "spline"
	default:
		return "unknown"
	}
}

// FeatureID is the feature's absent/integer/string identifier (spec 3, v3
// adds the string alternative). Exactly one of HasInt/HasString may be
// true; both false means the feature carries no id.
type FeatureID struct {
	HasInt    bool
	Int       uint64
	HasString bool
	String    string
}

// Feature is a single record within a Layer. Constructing a Feature parses
// header fields, enforces at-most-one-geometry/id/attrs semantics, and
// retains byte views for geometry/elevations/knots/attributes without
// decoding them (spec 4.4).
type Feature struct {
	layer *Layer
	num   int

	id FeatureID

	geomType GeomType
	geometry []byte

	elevations []byte
	knots      []byte
	degree     uint32

	tags                []byte
	attributes           []byte
	geometricAttributes []byte
}

// LayerNum returns the index of this feature's layer within its tile.
func (f Feature) LayerNum() int { return f.layer.Num() }

// Num returns the zero-based index of this feature within its layer.
func (f Feature) Num() int { return f.num }

// ID returns the feature's identifier, if any.
func (f Feature) ID() FeatureID { return f.id }

// GeomType returns the feature's geometry kind.
func (f Feature) GeomType() GeomType { return f.geomType }

// SplineDegree returns the v3 spline degree (2 or 3); only meaningful when
// GeomType() == GeomSpline.
func (f Feature) SplineDegree() uint32 { return f.degree }

// Layer returns the layer this feature belongs to.
func (f Feature) Layer() *Layer { return f.layer }

// HasTags reports whether this feature carries a v1/v2 tags payload.
func (f Feature) HasTags() bool { return len(f.tags) > 0 }

// HasAttributes reports whether this feature carries a v3 attributes
// payload.
func (f Feature) HasAttributes() bool { return len(f.attributes) > 0 }

// HasGeometricAttributes reports whether this feature carries a v3
// geometric-attributes payload.
func (f Feature) HasGeometricAttributes() bool { return len(f.geometricAttributes) > 0 }

// DecodeGeometry walks this feature's geometry command stream, invoking
// whichever capability methods h implements (spec 4.4). Decoding stops
// early, without error, if a callback returns false.
func (f Feature) DecodeGeometry(h interface{}) error {
	return decodeGeometryOf(f, h)
}

func newFeature(data []byte, layer *Layer, num int) (Feature, error) {
	f := Feature{layer: layer, num: num}

	var (
		sawID          bool
		sawStringID    bool
		sawGeometry    bool
		sawTags        bool
		sawAttributes  bool
		sawType        bool
	)

	r := newFieldReader(data)
	for !r.done() {
		field, wt, err := r.next()
		if err != nil {
			return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
		}
		switch field {
		case pbfFeatureID:
			if wt != wireVarint {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature id has wrong wire type")
			}
			v, err := r.varint()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if sawID || sawStringID {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has more than one id")
			}
			f.id = FeatureID{HasInt: true, Int: v}
			sawID = true
		case pbfFeatureStringID:
			if wt != wireBytes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature string_id has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if layer.Version() < 3 {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "string_id in v1/v2 layer")
			}
			if sawID || sawStringID {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has more than one id")
			}
			f.id = FeatureID{HasString: true, String: string(b)}
			sawStringID = true
		case pbfFeatureType:
			if wt != wireVarint {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature type has wrong wire type")
			}
			v, err := r.uint32v()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if v > uint32(GeomSpline) || (v == uint32(GeomSpline) && layer.Version() < 3) {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "unknown geometry type")
			}
			f.geomType = GeomType(v)
			sawType = true
		case pbfFeatureGeometry:
			if wt != wireBytes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature geometry has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if sawGeometry {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has more than one geometry")
			}
			f.geometry = b
			sawGeometry = true
		case pbfFeatureElevations:
			if wt != wireBytes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature elevations has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if layer.Version() < 3 {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "elevations in v1/v2 layer")
			}
			f.elevations = b
		case pbfFeatureTags:
			if wt != wireBytes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature tags has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if sawAttributes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has both tags and attributes")
			}
			if sawTags {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has more than one tags field")
			}
			f.tags = b
			sawTags = true
		case pbfFeatureAttributes:
			if wt != wireBytes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature attributes has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if layer.Version() < 3 {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "attributes in v1/v2 layer")
			}
			if sawTags {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has both tags and attributes")
			}
			if sawAttributes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has more than one attributes field")
			}
			f.attributes = b
			sawAttributes = true
		case pbfFeatureGeometricAttributes:
			if wt != wireBytes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature geometric_attributes has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if layer.Version() < 3 {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "geometric_attributes in v1/v2 layer")
			}
			f.geometricAttributes = b
		case pbfFeatureSplineKnots:
			if wt != wireBytes {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature spline_knots has wrong wire type")
			}
			b, err := r.bytesv()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if layer.Version() < 3 {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "spline_knots in v1/v2 layer")
			}
			f.knots = b
		case pbfFeatureSplineDegree:
			if wt != wireVarint {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "feature spline_degree has wrong wire type")
			}
			v, err := r.uint32v()
			if err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
			if layer.Version() < 3 {
				return Feature{}, newFeatureFormatError(layer.Num(), num, "spline_degree in v1/v2 layer")
			}
			f.degree = v
		default:
			if err := r.skip(wt); err != nil {
				return Feature{}, newFeatureFormatError(layer.Num(), num, err.Error())
			}
		}
	}

	if !sawType {
		f.geomType = GeomUnknown
	}
	if f.geomType == GeomUnknown {
		return Feature{}, newFeatureFormatError(layer.Num(), num, "unknown geometry type")
	}
	if !sawGeometry {
		return Feature{}, newFeatureFormatError(layer.Num(), num, "feature has no geometry")
	}
	if f.geomType == GeomSpline && (f.degree != 2 && f.degree != 3) {
		return Feature{}, newFeatureFormatError(layer.Num(), num, "spline degree must be 2 or 3")
	}

	return f, nil
}
