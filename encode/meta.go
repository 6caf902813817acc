package encode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
)

// Meta describes how an image was rendered. It is written next to the image
// as a JSON sidecar.
type Meta struct {
	Image         string     `json:"image"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	TopLeft       [2]float64 `json:"top_left"`
	BottomRight   [2]float64 `json:"bottom_right"`
	MaxIterations uint16     `json:"max_iterations"`
	Workers       int        `json:"workers"`
	Palette       string     `json:"palette"`
	Supersample   int        `json:"supersample"`
	ElapsedMS     float64    `json:"elapsed_ms"`
}

// MetaPath swaps the extension of imagePath for .json.
func MetaPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".json"
}

func WriteMeta(path string, meta Meta) error {
	data, err := sonic.ConfigStd.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("could not write metadata %q: %w", path, err)
	}
	return nil
}

func ReadMeta(path string) (Meta, error) {
	var meta Meta
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, fmt.Errorf("could not read metadata %q: %w", path, err)
	}
	if err := sonic.ConfigStd.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("could not decode metadata %q: %w", path, err)
	}
	return meta, nil
}
