package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidPath  = errors.New("invalid path")
	ErrInvalidValue = errors.New("invalid value")
)

const (
	EngineCycles = "Cycles"
	EngineEEVEE  = "EEVEE"
)

// Validate reports every problem that must be fixed before Blender is
// launched. Problems are joined into one error; path problems wrap
// ErrInvalidPath and numeric ones wrap ErrInvalidValue.
func Validate(c *Config) error {
	var errs []error
	pathErr := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidPath}, args...)...))
	}
	valueErr := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidValue}, args...)...))
	}

	requireDir := func(name, p string) {
		if p == "" {
			pathErr("%s is empty", name)
			return
		}
		info, err := os.Stat(p)
		switch {
		case os.IsNotExist(err):
			pathErr("%s does not exist: %s", name, p)
		case err != nil:
			pathErr("%s: %v", name, err)
		case !info.IsDir():
			pathErr("%s is not a directory: %s", name, p)
		}
	}

	requireDir("paths.stl_folder", c.Paths.STLFolder)
	requireDir("paths.pattern_folder", c.Paths.PatternFolder)

	if c.Paths.OutputFolder == "" {
		pathErr("paths.output_folder is empty")
	} else if info, err := os.Stat(c.Paths.OutputFolder); err == nil && !info.IsDir() {
		pathErr("paths.output_folder is not a directory: %s", c.Paths.OutputFolder)
	}

	if c.Paths.HDRIPath != "" {
		if _, err := os.Stat(c.Paths.HDRIPath); err != nil {
			pathErr("paths.hdri_path does not exist: %s", c.Paths.HDRIPath)
		}
	}

	if p := c.Advanced.ScriptPath; p != "" {
		info, err := os.Stat(p)
		switch {
		case err != nil:
			pathErr("advanced.script_path does not exist: %s", p)
		case info.IsDir():
			pathErr("advanced.script_path is a directory: %s", p)
		case !strings.EqualFold(filepath.Ext(p), ".py"):
			pathErr("advanced.script_path is not a python file: %s", p)
		}
	}

	cam := c.Camera
	if cam.FocalLength <= 0 {
		valueErr("camera.focal_length must be positive, got %g", cam.FocalLength)
	}
	if cam.ClipStart <= 0 || cam.ClipEnd <= cam.ClipStart {
		valueErr("camera clip range must satisfy 0 < clip_start < clip_end, got %g..%g", cam.ClipStart, cam.ClipEnd)
	}

	proj := c.Projector
	if proj.Power < 0 || proj.PowerDrift < 0 {
		valueErr("projector power and power_drift must be non-negative")
	}
	if proj.UseDiscretePower && len(proj.PowerLevels) == 0 {
		valueErr("projector.use_discrete_power needs at least one power level")
	}
	for _, lvl := range proj.PowerLevels {
		if lvl < 0 {
			valueErr("projector.power_levels must be non-negative, got %g", lvl)
		}
	}
	if proj.FOV <= 0 || proj.FOV >= 180 {
		valueErr("projector.fov must be in (0, 180), got %g", proj.FOV)
	}

	r := c.Render
	if r.Resolution[0] <= 0 || r.Resolution[1] <= 0 {
		valueErr("render.resolution must be positive, got %dx%d", r.Resolution[0], r.Resolution[1])
	}
	if r.Samples <= 0 {
		valueErr("render.samples must be positive, got %d", r.Samples)
	}
	if r.AmbientBase < 0 || r.AmbientVariation < 0 {
		valueErr("render ambient_base and ambient_variation must be non-negative")
	}
	if !strings.EqualFold(r.Engine, EngineCycles) && !strings.EqualFold(r.Engine, EngineEEVEE) {
		valueErr("render.engine must be %s or %s, got %q", EngineCycles, EngineEEVEE, r.Engine)
	}

	if c.Advanced.STLMaxSize <= 0 {
		valueErr("advanced.stl_max_size must be positive, got %g", c.Advanced.STLMaxSize)
	}
	if len(c.Advanced.RotationAngles) == 0 || len(c.Advanced.ZRotationAngles) == 0 {
		valueErr("advanced rotation angle lists must not be empty")
	}

	return errors.Join(errs...)
}
