// Package dataset inventories the inputs of a generation run and predicts the
// artifacts it should produce.
package dataset

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Rapid-Vision/slgen/cmd/internal/config"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var patternExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}

// ParametersFile is the calibration record written next to the images.
const ParametersFile = "scene_parameters.json"

type Pattern struct {
	Path   string
	Format string
	Width  int
	Height int
}

type Rejected struct {
	Path   string
	Reason string
}

type Inventory struct {
	Models   []string
	Patterns []Pattern
	Rejected []Rejected
}

// Counts of files a run is expected to leave behind.
type Counts struct {
	Pattern    int
	Depth      int
	Ambient    int
	Parameters int
}

func (c Counts) Total() int {
	return c.Pattern + c.Depth + c.Ambient + c.Parameters
}

// Scan lists the STL models and pattern images of the two folders, sorted by
// name. Pattern files whose content is not a decodable image are moved to
// Rejected instead of failing the scan.
func Scan(stlFolder, patternFolder string) (*Inventory, error) {
	models, err := listByExt(stlFolder, []string{".stl"})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	candidates, err := listByExt(patternFolder, patternExts)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}

	inv := &Inventory{Models: models}
	for _, p := range candidates {
		pat, reason := inspectPattern(p)
		if reason != "" {
			inv.Rejected = append(inv.Rejected, Rejected{Path: p, Reason: reason})
			continue
		}
		inv.Patterns = append(inv.Patterns, pat)
	}
	return inv, nil
}

// Expected predicts artifact counts for cfg: every view renders each pattern
// with a depth map plus one ambient image, and the run adds a reference plane
// depth map and the parameters file.
func (inv *Inventory) Expected(cfg *config.Config) Counts {
	views := len(inv.Models) * cfg.Views()
	patterns := views * len(inv.Patterns)
	return Counts{
		Pattern:    patterns,
		Depth:      patterns + 1,
		Ambient:    views,
		Parameters: 1,
	}
}

// SizeMismatches returns patterns whose dimensions differ from the render
// resolution. The projector stretches them, so this is only worth a warning.
func (inv *Inventory) SizeMismatches(width, height int) []Pattern {
	var res []Pattern
	for _, p := range inv.Patterns {
		if p.Width != width || p.Height != height {
			res = append(res, p)
		}
	}
	return res
}

// Count tallies what a finished run left in runDir, using the same layout
// the scene script writes: pattern/, depth/, ambient/ and the parameters file.
func Count(runDir string) (Counts, error) {
	var c Counts
	var err error
	if c.Pattern, err = countExt(filepath.Join(runDir, "pattern"), ".png"); err != nil {
		return c, err
	}
	if c.Depth, err = countExt(filepath.Join(runDir, "depth"), ".exr"); err != nil {
		return c, err
	}
	if c.Ambient, err = countExt(filepath.Join(runDir, "ambient"), ".png"); err != nil {
		return c, err
	}
	if _, err := os.Stat(filepath.Join(runDir, ParametersFile)); err == nil {
		c.Parameters = 1
	}
	return c, nil
}

func countExt(dir, ext string) (int, error) {
	files, err := listByExt(dir, []string{ext})
	if os.IsNotExist(err) {
		return 0, nil
	}
	return len(files), err
}

func inspectPattern(path string) (Pattern, string) {
	kind, err := filetype.MatchFile(path)
	if err != nil {
		return Pattern{}, err.Error()
	}
	if kind == filetype.Unknown || kind.MIME.Type != "image" {
		return Pattern{}, "content is not an image"
	}

	f, err := os.Open(path)
	if err != nil {
		return Pattern{}, err.Error()
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Pattern{}, fmt.Sprintf("undecodable %s image: %v", kind.Extension, err)
	}
	return Pattern{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, ""
}

func listByExt(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(e.Name()))) {
			res = append(res, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(res)
	return res, nil
}
