// Package config holds the dataset generation settings: the nested
// paths/camera/projector/render/advanced record, its defaults, layered
// loading, validation and the flat key mapping handed to the scene script.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "config.json"

type Vec3 [3]float64

type Config struct {
	Paths     Paths     `json:"paths" mapstructure:"paths"`
	Camera    Camera    `json:"camera" mapstructure:"camera"`
	Projector Projector `json:"projector" mapstructure:"projector"`
	Render    Render    `json:"render" mapstructure:"render"`
	Advanced  Advanced  `json:"advanced" mapstructure:"advanced"`
}

type Paths struct {
	STLFolder     string `json:"stl_folder" mapstructure:"stl_folder"`
	PatternFolder string `json:"pattern_folder" mapstructure:"pattern_folder"`
	OutputFolder  string `json:"output_folder" mapstructure:"output_folder"`
	HDRIPath      string `json:"hdri_path" mapstructure:"hdri_path"`
}

// Camera lengths are centimeters, rotations are XYZ euler degrees.
type Camera struct {
	Position    Vec3    `json:"position" mapstructure:"position"`
	Rotation    Vec3    `json:"rotation" mapstructure:"rotation"`
	FocalLength float64 `json:"focal_length" mapstructure:"focal_length"`
	ClipStart   float64 `json:"clip_start" mapstructure:"clip_start"`
	ClipEnd     float64 `json:"clip_end" mapstructure:"clip_end"`
}

type Projector struct {
	Position         Vec3      `json:"position" mapstructure:"position"`
	Rotation         Vec3      `json:"rotation" mapstructure:"rotation"`
	Power            float64   `json:"power" mapstructure:"power"`
	PowerDrift       float64   `json:"power_drift" mapstructure:"power_drift"`
	UseDiscretePower bool      `json:"use_discrete_power" mapstructure:"use_discrete_power"`
	PowerLevels      []float64 `json:"power_levels" mapstructure:"power_levels"`
	FOV              float64   `json:"fov" mapstructure:"fov"`
	TextureScaleX    float64   `json:"texture_scale_x" mapstructure:"texture_scale_x"`
	PatternRotationZ float64   `json:"pattern_rotation_z" mapstructure:"pattern_rotation_z"`
}

type Render struct {
	Resolution       [2]int  `json:"resolution" mapstructure:"resolution"`
	Engine           string  `json:"engine" mapstructure:"engine"`
	Samples          int     `json:"samples" mapstructure:"samples"`
	AmbientBase      float64 `json:"ambient_base" mapstructure:"ambient_base"`
	AmbientVariation float64 `json:"ambient_variation" mapstructure:"ambient_variation"`
}

type Advanced struct {
	STLMaxSize      float64 `json:"stl_max_size" mapstructure:"stl_max_size"`
	RotationAngles  Angles  `json:"rotation_angles" mapstructure:"rotation_angles"`
	ZRotationAngles Angles  `json:"z_rotation_angles" mapstructure:"z_rotation_angles"`
	BlenderPath     string  `json:"blender_path" mapstructure:"blender_path"`
	ScriptPath      string  `json:"script_path" mapstructure:"script_path"`
	// Seed 0 draws a fresh random seed per run.
	Seed            int32   `json:"seed" mapstructure:"seed"`
}

// Default returns the built-in settings of the structured light rig.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputFolder: "./out",
		},
		Camera: Camera{
			Position:    Vec3{-100, -300, 0},
			Rotation:    Vec3{90, 0, -17},
			FocalLength: 50.0,
			ClipStart:   10.0,
			ClipEnd:     1500.0,
		},
		Projector: Projector{
			Position:      Vec3{100, -300, 0},
			Rotation:      Vec3{90, 0, 2},
			Power:         4.5,
			PowerDrift:    0.5,
			PowerLevels:   []float64{5.0, 8.0, 10.0},
			FOV:           60.0,
			TextureScaleX: 0.7,
		},
		Render: Render{
			Resolution:       [2]int{640, 640},
			Engine:           EngineCycles,
			Samples:          512,
			AmbientBase:      0.5,
			AmbientVariation: 0.1,
		},
		Advanced: Advanced{
			STLMaxSize:      150.0,
			RotationAngles:  DefaultRotationAngles(),
			ZRotationAngles: Angles{0},
			BlenderPath:     "blender",
		},
	}
}

// Views is the number of orientations rendered per model.
func (c *Config) Views() int {
	return len(c.Advanced.RotationAngles) * len(c.Advanced.ZRotationAngles)
}

// Save writes c as indented JSON, creating parent directories. Nil lists
// are written as [] so that loading the file does not bring back defaults.
func Save(c *Config, path string) error {
	out := *c
	if out.Projector.PowerLevels == nil {
		out.Projector.PowerLevels = []float64{}
	}
	if out.Advanced.RotationAngles == nil {
		out.Advanced.RotationAngles = Angles{}
	}
	if out.Advanced.ZRotationAngles == nil {
		out.Advanced.ZRotationAngles = Angles{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
