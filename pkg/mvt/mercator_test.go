package mvt

import (
	"math"
	"testing"
)

func TestMercatorRoundTrip(t *testing.T) {
	addr := TileAddress{X: 3, Y: 5, Zoom: 4}
	extent := uint32(4096)

	p := Point{X: 1024, Y: 2048}
	geo := ToLonLat(p, extent, addr)
	back := FromLonLat(geo, extent, addr)

	if math.Abs(float64(back.X-p.X)) > 1 {
		t.Errorf("X round trip: got %d, want ~%d", back.X, p.X)
	}
	if math.Abs(float64(back.Y-p.Y)) > 1 {
		t.Errorf("Y round trip: got %d, want ~%d", back.Y, p.Y)
	}
}

func TestMercatorOriginTile(t *testing.T) {
	addr := TileAddress{X: 0, Y: 0, Zoom: 0}
	geo := ToLonLat(Point{X: 0, Y: 0}, 4096, addr)
	if geo[0] != -180 {
		t.Errorf("got lon %v, want -180 at tile origin", geo[0])
	}
}
