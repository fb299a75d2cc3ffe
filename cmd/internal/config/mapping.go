package config

import (
	"encoding/json"
	"strings"
)

// MapKeys flattens c into the document handed to the scene script. The nested
// sections are kept as they are and the flat aliases the script reads are added
// next to them, e.g. paths.stl_folder is also exposed as stl_model_path.
func MapKeys(c *Config) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	m["stl_model_path"] = c.Paths.STLFolder
	m["pattern_path"] = c.Paths.PatternFolder
	m["output_path"] = c.Paths.OutputFolder
	m["hdri_path"] = c.Paths.HDRIPath

	m["camera_x"], m["camera_y"], m["camera_z"] = c.Camera.Position[0], c.Camera.Position[1], c.Camera.Position[2]
	m["camera_rot_x"], m["camera_rot_y"], m["camera_rot_z"] = c.Camera.Rotation[0], c.Camera.Rotation[1], c.Camera.Rotation[2]
	m["focal_length"] = c.Camera.FocalLength
	m["clip_start"] = c.Camera.ClipStart
	m["clip_end"] = c.Camera.ClipEnd

	m["proj_x"], m["proj_y"], m["proj_z"] = c.Projector.Position[0], c.Projector.Position[1], c.Projector.Position[2]
	m["projector_energy"] = c.Projector.Power
	m["proj_power_drift"] = c.Projector.PowerDrift
	m["use_discrete_power"] = c.Projector.UseDiscretePower
	m["fov"] = c.Projector.FOV

	m["resolution_x"] = c.Render.Resolution[0]
	m["resolution_y"] = c.Render.Resolution[1]
	m["render_engine"] = c.Render.Engine
	m["render_samples"] = c.Render.Samples
	m["use_cycles"] = strings.EqualFold(c.Render.Engine, EngineCycles)
	m["ambient_base"] = c.Render.AmbientBase
	m["ambient_variation"] = c.Render.AmbientVariation

	m["stl_max_size"] = c.Advanced.STLMaxSize
	m["rotation_angles"] = []float64(c.Advanced.RotationAngles)
	m["blender_path"] = c.Advanced.BlenderPath
	m["script_path"] = c.Advanced.ScriptPath

	return m, nil
}
