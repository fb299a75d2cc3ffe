// Package scenelib carries the Blender-side python library that builds the
// structured light rig and renders the dataset.
package scenelib

import (
	"bytes"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed scenelib/*
var embeddedLib embed.FS

// Unpack writes the embedded library into targetDir. Files already holding the
// same content are left untouched.
func Unpack(targetDir string) error {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return err
	}

	return fs.WalkDir(embeddedLib, "scenelib", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := embeddedLib.ReadFile(path)
		if err != nil {
			return err
		}

		relPath, _ := filepath.Rel("scenelib", path)
		outPath := filepath.Join(targetDir, relPath)
		if existing, err := os.ReadFile(outPath); err == nil && bytes.Equal(existing, data) {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return err
		}
		return os.WriteFile(outPath, data, 0644)
	})
}

// Files lists the embedded library files relative to its root.
func Files() ([]string, error) {
	var res []string
	err := fs.WalkDir(embeddedLib, "scenelib", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel("scenelib", path)
		res = append(res, filepath.ToSlash(rel))
		return nil
	})
	return res, err
}
