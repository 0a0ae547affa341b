package mvt

import (
	"math"

	"github.com/paulmach/orb"
)

// ToLonLat converts a tile-local point (as emitted by DecodeGeometry, in
// the layer's extent-scaled coordinate space) into a geographic
// longitude/latitude pair, given the layer's tile address. This is the one
// place the library leans on an external geometry type rather than its own
// Point (spec 9 "external collaborators"); callers that only need raw tile
// coordinates never need to touch orb at all.
func ToLonLat(p Point, extent uint32, addr TileAddress) orb.Point {
	n := math.Exp2(float64(addr.Zoom))
	ext := float64(extent)

	relX := (float64(addr.X) + float64(p.X)/ext) / n
	relY := (float64(addr.Y) + float64(p.Y)/ext) / n

	lon := relX*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*relY)))
	lat := latRad * 180.0 / math.Pi

	return orb.Point{lon, lat}
}

// FromLonLat is the write-side inverse of ToLonLat: it maps a geographic
// point into the tile-local integer coordinate space at the given extent
// and tile address, for encoders building geometry from real-world data.
func FromLonLat(pt orb.Point, extent uint32, addr TileAddress) Point {
	n := math.Exp2(float64(addr.Zoom))
	ext := float64(extent)

	lon, lat := pt[0], pt[1]
	latRad := lat * math.Pi / 180.0

	relX := (lon + 180.0) / 360.0
	relY := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2

	x := (relX*n - float64(addr.X)) * ext
	y := (relY*n - float64(addr.Y)) * ext

	return Point{X: int64(math.Round(x)), Y: int64(math.Round(y))}
}
