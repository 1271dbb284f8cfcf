package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	appLog "eventboard/internal/log"
)

const (
	// FileName is the manifest written into the images directory.
	FileName = "manifest.json"
	// ProgramImage is the board screenshot, which is not a slide.
	ProgramImage = "program.png"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".svg"}

// Manifest lists the slide images in display order.
type Manifest struct {
	Images []string `json:"images"`
}

func isSlideImage(name string) bool {
	lower := strings.ToLower(name)
	if lower == ProgramImage {
		return false
	}
	return slices.Contains(imageExtensions, filepath.Ext(lower))
}

// Collect lists the slide images in dir, sorted naturally: numbers compare
// by value and case is ignored.
func Collect(dir string) (Manifest, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Manifest{}, fmt.Errorf("manifest: missing images directory at %s", dir)
		}
		return Manifest{}, err
	}
	if !info.IsDir() {
		return Manifest{}, fmt.Errorf("manifest: %s exists but is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Manifest{}, fmt.Errorf("manifest: read %s: %w", dir, err)
	}

	slides := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !isSlideImage(e.Name()) {
			continue
		}
		slides = append(slides, e.Name())
	}

	c := collate.New(language.Und, collate.Numeric, collate.Loose)
	slices.SortStableFunc(slides, c.CompareString)

	return Manifest{Images: slides}, nil
}

// Write collects the slides of dir and writes dir/manifest.json.
func Write(dir string) (Manifest, error) {
	m, err := Collect(dir)
	if err != nil {
		return Manifest{}, err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return Manifest{}, err
	}
	data = append(data, '\n')

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Manifest{}, fmt.Errorf("manifest: write %s: %w", path, err)
	}

	appLog.Info("manifest generated", "path", path, "slides", len(m.Images))
	return m, nil
}
