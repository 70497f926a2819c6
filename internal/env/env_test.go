package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nCITYVIEW_SCENE = scenes/nyc.json\nCITYVIEW_LOG='logs/x.txt'\nbroken line\n=nokey\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(SceneVar, "")
	t.Setenv(LogVar, "")
	t.Setenv(ConfigVar, "")

	require.NoError(t, Load(path))
	o := ReadOverrides()
	assert.Equal(t, "scenes/nyc.json", o.ScenePath)
	assert.Equal(t, "logs/x.txt", o.LogPath)
	assert.Empty(t, o.ConfigPath)
}

func TestLoadMissing(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "missing.env")))
}

func TestOr(t *testing.T) {
	assert.Equal(t, "a", Or("a", "b"))
	assert.Equal(t, "b", Or("", "b"))
}

func TestLoadKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CITYVIEW_CONFIG=from-file.json\n"), 0644))
	t.Setenv(ConfigVar, "from-env.json")
	require.NoError(t, Load(path))
	assert.Equal(t, "from-env.json", ReadOverrides().ConfigPath)
}
