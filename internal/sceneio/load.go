package sceneio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"city-viewer/internal/archive"
	"city-viewer/internal/download"
)

// Read loads and decodes the scene at src: an http(s) URL (fetched into
// downloadDir first), a .zip bundle, or a .json/.yaml file.
func Read(ctx context.Context, src, downloadDir string) (*Description, error) {
	if download.IsURL(src) {
		p, err := download.Download(ctx, src, downloadDir)
		if err != nil {
			return nil, err
		}
		src = p
	}
	return ReadFile(src)
}

// ReadFile loads and decodes a local scene file or zip bundle.
func ReadFile(path string) (*Description, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		name, data, err := archive.ReadScene(path)
		if err != nil {
			return nil, err
		}
		d, err := Decode(data, FormatFromPath(name))
		if err != nil {
			return nil, fmt.Errorf("%s!%s: %w", path, name, err)
		}
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
