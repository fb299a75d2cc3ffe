package launcher

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

type Mode string

const (
	// ModeGenerate renders the whole dataset.
	ModeGenerate Mode = "generate"
	// ModeRig only builds the scene, for interactive preview.
	ModeRig Mode = "rig"
)

// Bootstrap exit codes, besides 0 and the generic 1.
const (
	ExitImport  = 2
	ExitMissing = 3
)

type BootstrapParams struct {
	ConfigPath string
	ScriptPath string
	Mode       Mode
}

//go:embed bootstrap.py.tmpl
var bootstrapSrc string

var bootstrapTmpl = template.Must(template.New("bootstrap").Funcs(template.FuncMap{
	"py": pyString,
}).Parse(bootstrapSrc))

// pyString renders s as a python string literal. JSON string syntax is a
// subset of python's, so non-ASCII and Windows paths survive intact.
func pyString(s any) (string, error) {
	b, err := json.Marshal(fmt.Sprint(s))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BuildScript renders the bootstrap that Blender runs with --python. It loads
// the config, imports the generation module by file stem and calls its entry
// point.
func BuildScript(p BootstrapParams) (string, error) {
	if p.ConfigPath == "" || p.ScriptPath == "" {
		return "", fmt.Errorf("bootstrap needs both a config path and a script path")
	}
	if p.Mode == "" {
		p.Mode = ModeGenerate
	}
	var sb strings.Builder
	if err := bootstrapTmpl.Execute(&sb, p); err != nil {
		return "", err
	}
	return sb.String(), nil
}
