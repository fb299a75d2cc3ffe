package placement

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
)

const tol = 1e-9

func assertCoord(t *testing.T, want, got model3d.Coord3D) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

// writeBinarySTL stores a two-triangle sheet spanning min..max.
func writeBinarySTL(t *testing.T, path string, min, max [3]float32) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	tris := [][3][3]float32{
		{{min[0], min[1], min[2]}, {max[0], min[1], min[2]}, {max[0], max[1], max[2]}},
		{{min[0], min[1], min[2]}, {max[0], max[1], max[2]}, {min[0], max[1], max[2]}},
	}
	var header [80]byte
	require.NoError(t, binary.Write(f, binary.LittleEndian, header))
	require.NoError(t, binary.Write(f, binary.LittleEndian, uint32(len(tris))))
	for _, tri := range tris {
		var normal [3]float32
		require.NoError(t, binary.Write(f, binary.LittleEndian, normal))
		require.NoError(t, binary.Write(f, binary.LittleEndian, tri))
		require.NoError(t, binary.Write(f, binary.LittleEndian, uint16(0)))
	}
}

func TestNormalize(t *testing.T) {
	b := Bounds{Min: model3d.XYZ(0, 0, 0), Max: model3d.XYZ(10, 20, 5)}
	n := Normalize(b, 150, ModelLocation)

	assert.InDelta(t, 7.5, n.Scale, tol)
	assertCoord(t, model3d.XYZ(5, 10, 2.5), n.Center)

	local := n.Local(b)
	assertCoord(t, model3d.XYZ(-37.5, -75, -18.75), local.Min)
	assertCoord(t, model3d.XYZ(37.5, 75, 18.75), local.Max)
	assert.InDelta(t, 150, local.Largest(), tol)
}

func TestNormalizeDegenerate(t *testing.T) {
	p := model3d.XYZ(3, 3, 3)
	n := Normalize(Bounds{Min: p, Max: p}, 150, ModelLocation)
	assert.Equal(t, 1.0, n.Scale)
}

func TestPlaneNormal(t *testing.T) {
	assertCoord(t, model3d.XYZ(0, -1, 0), PlaneNormal(90))
	assertCoord(t, model3d.XYZ(0, 0, 1), PlaneNormal(0))
}

func TestOrient(t *testing.T) {
	x := model3d.XYZ(1, 0, 0)
	assertCoord(t, model3d.XYZ(0, 0, -1), Orient(90, 0).MulColumn(x))
	assertCoord(t, model3d.XYZ(0, 1, 0), Orient(0, 90).MulColumn(x))
	// Y first, then Z.
	assertCoord(t, model3d.XYZ(0, 0, -1), Orient(90, 90).MulColumn(x))
	assertCoord(t, x, Orient(0, 0).MulColumn(x))
}

func TestPlaceOnPlane(t *testing.T) {
	unit := Bounds{Min: model3d.XYZ(-1, -1, -1), Max: model3d.XYZ(1, 1, 1)}
	var corners []model3d.Coord3D
	for _, c := range unit.Corners() {
		corners = append(corners, ModelLocation.Add(c))
	}

	shift := PlaceOnPlane(corners, PlaneLocation, PlaneNormal(90), PlaneGap)
	assertCoord(t, model3d.XYZ(0, 298.9, 0), shift)

	assert.Equal(t, model3d.Coord3D{}, PlaceOnPlane(nil, PlaneLocation, PlaneNormal(90), PlaneGap))
}

func TestViewsRestAgainstPlane(t *testing.T) {
	local := Bounds{Min: model3d.XYZ(-75, -10, -20), Max: model3d.XYZ(75, 10, 20)}
	views := Views(local, ModelLocation, []float64{0, 90}, []float64{0, 45})
	require.Len(t, views, 4)

	for _, v := range views {
		// The plane faces -Y at y=300, so every view ends with its far side
		// PlaneGap in front of it.
		assert.InDelta(t, PlaneLocation.Y-PlaneGap, v.Bounds.Max.Y, 1e-6, "view y=%v z=%v", v.YDeg, v.ZDeg)
	}
	assert.Equal(t, 0.0, views[0].YDeg)
	assert.Equal(t, 45.0, views[1].ZDeg)
}

func TestLoadSTLAndInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.stl")
	writeBinarySTL(t, path, [3]float32{0, 0, 0}, [3]float32{2, 4, 1})

	m, err := LoadSTL(path)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Triangles)
	assertCoord(t, model3d.XYZ(0, 0, 0), m.Bounds.Min)
	assertCoord(t, model3d.XYZ(2, 4, 1), m.Bounds.Max)

	cfg := config.Default()
	cfg.Advanced.RotationAngles = config.Angles{0, 45}
	r, err := Inspect(path, &cfg)
	require.NoError(t, err)
	assert.InDelta(t, 37.5, r.Normalization.Scale, tol)
	assert.Len(t, r.Views, 2)
	assert.Empty(t, r.Clipped)

	cfg.Camera.ClipEnd = 20
	r, err = Inspect(path, &cfg)
	require.NoError(t, err)
	assert.Len(t, r.Clipped, 2)
}

func TestLoadSTLMissing(t *testing.T) {
	_, err := LoadSTL(filepath.Join(t.TempDir(), "missing.stl"))
	assert.Error(t, err)
}

func TestCorners(t *testing.T) {
	b := Bounds{Min: model3d.XYZ(0, 0, 0), Max: model3d.XYZ(1, 2, 3)}
	corners := b.Corners()
	require.Len(t, corners, 8)
	sum := model3d.Coord3D{}
	for _, c := range corners {
		sum = sum.Add(c)
	}
	assertCoord(t, b.Center().Scale(8), sum)
	assert.False(t, math.IsInf(b.Largest(), 0))
}
