// Package catalog finds scene files on disk by name.
package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"city-viewer/internal/download"
)

// Exts are the file extensions considered scenes.
var Exts = []string{".json", ".yaml", ".yml", ".zip"}

// ErrNotFound is returned by Find when no scene matches.
var ErrNotFound = errors.New("no matching scene")

// BaseDirs returns the directories searched for scenes, relative to the working directory.
func BaseDirs() []string {
	return []string{"scenes", download.DefaultDir}
}

// Entry is a scene file found under a base directory.
type Entry struct {
	Rel  string // relative to the base, forward slashes
	Path string // joined with the base
}

// ScanDir returns the scene files under dir, sorted by relative path. A missing dir is empty.
func ScanDir(dir string) ([]Entry, error) {
	var out []Entry
	dir = filepath.Clean(dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isScene(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, Entry{Rel: filepath.ToSlash(rel), Path: path})
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out, err
}

func isScene(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan lists the scenes under every base dir.
func Scan(bases []string) []Entry {
	var all []Entry
	for _, base := range bases {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		all = append(all, list...)
	}
	return all
}

// normalize lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalize(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// Resolve returns src unchanged when it names an existing file, and otherwise
// the best match for it under bases: an exact base name (without extension)
// wins over a substring match, then JSON over other formats.
func Resolve(src string, bases []string) (string, error) {
	if _, err := os.Stat(src); err == nil {
		return src, nil
	}
	want := normalize(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
	if want == "" {
		return "", ErrNotFound
	}
	var best Entry
	bestScore := 0
	for _, e := range Scan(bases) {
		name := normalize(strings.TrimSuffix(filepath.Base(e.Rel), filepath.Ext(e.Rel)))
		score := 0
		switch {
		case name == want:
			score = 4
		case strings.Contains(normalize(e.Rel), want):
			score = 2
		default:
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Rel), ".json") {
			score++
		}
		if score > bestScore {
			best, bestScore = e, score
		}
	}
	if bestScore == 0 {
		return "", ErrNotFound
	}
	return best.Path, nil
}
