// Package placement reproduces the geometric part of the scene recipe outside
// of Blender: centering and scaling an imported model, orienting it for a
// view and resting it against the reference plane.
package placement

import (
	"fmt"
	"math"
	"os"

	"github.com/unixpickle/model3d/model3d"
)

const (
	// PlaneGap keeps models slightly in front of the reference plane (cm).
	PlaneGap = 0.1

	minDimension = 1e-7
)

// Scene datum positions in centimeters.
var (
	ModelLocation  = model3d.XYZ(60, 0, 0)
	PlaneLocation  = model3d.XYZ(100, 300, 0)
	PlaneRotationX = 90.0
)

type Bounds struct {
	Min, Max model3d.Coord3D
}

func (b Bounds) Size() model3d.Coord3D { return b.Max.Sub(b.Min) }

func (b Bounds) Center() model3d.Coord3D { return b.Min.Add(b.Max).Scale(0.5) }

func (b Bounds) Largest() float64 {
	s := b.Size()
	return math.Max(s.X, math.Max(s.Y, s.Z))
}

func (b Bounds) Corners() []model3d.Coord3D {
	res := make([]model3d.Coord3D, 0, 8)
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{b.Min.Z, b.Max.Z} {
				res = append(res, model3d.XYZ(x, y, z))
			}
		}
	}
	return res
}

type Model struct {
	Path      string
	Triangles int
	Bounds    Bounds
}

func LoadSTL(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tris, err := model3d.ReadSTL(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("read %s: no triangles", path)
	}
	mesh := model3d.NewMeshTriangles(tris)
	return &Model{
		Path:      path,
		Triangles: len(tris),
		Bounds:    Bounds{Min: mesh.Min(), Max: mesh.Max()},
	}, nil
}

// Normalization maps model coordinates into the scene: the bounding box center
// goes to Location and the largest dimension becomes the target size.
type Normalization struct {
	Center   model3d.Coord3D
	Scale    float64
	Location model3d.Coord3D
}

func Normalize(b Bounds, targetSize float64, location model3d.Coord3D) Normalization {
	scale := 1.0
	if largest := b.Largest(); largest > minDimension {
		scale = targetSize / largest
	}
	return Normalization{Center: b.Center(), Scale: scale, Location: location}
}

// Local returns the centered, scaled bounds relative to the model root.
func (n Normalization) Local(b Bounds) Bounds {
	return Bounds{
		Min: b.Min.Sub(n.Center).Scale(n.Scale),
		Max: b.Max.Sub(n.Center).Scale(n.Scale),
	}
}

// Orient is the world rotation applied to a model for one view: first about Y,
// then about Z.
func Orient(yDeg, zDeg float64) *model3d.Matrix3 {
	return rotZ(zDeg).Mul(rotY(yDeg))
}

func rotX(deg float64) *model3d.Matrix3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return &model3d.Matrix3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

func rotY(deg float64) *model3d.Matrix3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return &model3d.Matrix3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

func rotZ(deg float64) *model3d.Matrix3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return &model3d.Matrix3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// PlaneNormal is the world normal of a plane rotated about X by deg degrees.
func PlaneNormal(deg float64) model3d.Coord3D {
	return rotX(deg).MulColumn(model3d.XYZ(0, 0, 1)).Normalize()
}

// PlaceOnPlane returns the translation along normal that rests the lowest
// corner gap units in front of the plane through point.
func PlaceOnPlane(corners []model3d.Coord3D, point, normal model3d.Coord3D, gap float64) model3d.Coord3D {
	if len(corners) == 0 {
		return model3d.Coord3D{}
	}
	minProj := math.Inf(1)
	for _, c := range corners {
		minProj = math.Min(minProj, c.Dot(normal))
	}
	return normal.Scale(point.Dot(normal) - minProj + gap)
}

// View is the world placement of a model for one orientation.
type View struct {
	YDeg, ZDeg float64
	Shift      model3d.Coord3D
	Bounds     Bounds
}

// Views computes where a normalized model ends up for every orientation,
// mirroring the render loop.
func Views(local Bounds, location model3d.Coord3D, yAngles, zAngles []float64) []View {
	normal := PlaneNormal(PlaneRotationX)
	var res []View
	for _, y := range yAngles {
		for _, z := range zAngles {
			rot := Orient(y, z)
			var corners []model3d.Coord3D
			for _, c := range local.Corners() {
				corners = append(corners, location.Add(rot.MulColumn(c)))
			}
			shift := PlaceOnPlane(corners, PlaneLocation, normal, PlaneGap)
			res = append(res, View{YDeg: y, ZDeg: z, Shift: shift, Bounds: boundsOf(corners, shift)})
		}
	}
	return res
}

func boundsOf(corners []model3d.Coord3D, shift model3d.Coord3D) Bounds {
	inf := math.Inf(1)
	b := Bounds{Min: model3d.XYZ(inf, inf, inf), Max: model3d.XYZ(-inf, -inf, -inf)}
	for _, c := range corners {
		c = c.Add(shift)
		b.Min = b.Min.Min(c)
		b.Max = b.Max.Max(c)
	}
	return b
}
