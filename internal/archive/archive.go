package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNoScene is returned when a zip holds no scene document.
var ErrNoScene = errors.New("no scene file in archive")

// maxSceneSize caps how much of one zip entry is read into memory.
const maxSceneSize = 512 << 20

// SceneExts are the extensions recognized as scene documents, in preference order.
var SceneExts = []string{".json", ".yaml", ".yml"}

// ReadScene returns the name and contents of the scene document inside the
// zip at zipPath. A .json entry wins over .yaml/.yml; within one extension
// the first entry in archive order wins. Directories, hidden files and
// entries whose names escape the archive root are skipped.
func ReadScene(zipPath string) (name string, data []byte, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return "", nil, fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()

	f := pickScene(r.File)
	if f == nil {
		return "", nil, fmt.Errorf("unzip %s: %w", zipPath, ErrNoScene)
	}
	rc, err := f.Open()
	if err != nil {
		return "", nil, fmt.Errorf("unzip: %w", err)
	}
	defer rc.Close()
	data, err = io.ReadAll(io.LimitReader(rc, maxSceneSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("unzip: %w", err)
	}
	if len(data) > maxSceneSize {
		return "", nil, fmt.Errorf("unzip: %s is larger than %d bytes", f.Name, maxSceneSize)
	}
	return f.Name, data, nil
}

func pickScene(files []*zip.File) *zip.File {
	for _, ext := range SceneExts {
		for _, f := range files {
			if f.FileInfo().IsDir() || !safeName(f.Name) {
				continue
			}
			if strings.HasPrefix(path.Base(f.Name), ".") {
				continue // e.g. __MACOSX/._scene.json
			}
			if strings.EqualFold(path.Ext(f.Name), ext) {
				return f
			}
		}
	}
	return nil
}

// safeName rejects absolute names and names that climb out of the archive root.
func safeName(name string) bool {
	clean := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	return !path.IsAbs(clean) && clean != ".." && !strings.HasPrefix(clean, "../")
}
