package placement

import (
	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/unixpickle/model3d/model3d"
)

type Report struct {
	Model         *Model
	Normalization Normalization
	Views         []View
	// Views whose model center falls outside the camera clip range.
	Clipped []View
}

// Inspect loads the model at path and predicts its placement for every view
// configured in cfg.
func Inspect(path string, cfg *config.Config) (*Report, error) {
	m, err := LoadSTL(path)
	if err != nil {
		return nil, err
	}
	norm := Normalize(m.Bounds, cfg.Advanced.STLMaxSize, ModelLocation)
	views := Views(norm.Local(m.Bounds), ModelLocation, cfg.Advanced.RotationAngles, cfg.Advanced.ZRotationAngles)

	cam := cfg.Camera.Position
	camPos := model3d.XYZ(cam[0], cam[1], cam[2])
	r := &Report{Model: m, Normalization: norm, Views: views}
	for _, v := range views {
		d := v.Bounds.Center().Dist(camPos)
		if d < cfg.Camera.ClipStart || d > cfg.Camera.ClipEnd {
			r.Clipped = append(r.Clipped, v)
		}
	}
	return r, nil
}
