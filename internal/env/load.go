package env

import (
	"bufio"
	"os"
	"strings"
)

// Load reads the given file (e.g. ".env") and sets an environment variable for
// each KEY=VALUE line. Variables already set to a non-empty value win over the
// file. Empty lines and lines starting with # are skipped. A missing file is
// not an error.
func Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if cur, set := os.LookupEnv(key); set && cur != "" {
			continue
		}
		_ = os.Setenv(key, value)
	}
	return scanner.Err()
}

func parseLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' && value[len(value)-1] == '"' || value[0] == '\'' && value[len(value)-1] == '\'') {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

// Environment variables that override configuration.
const (
	SceneVar  = "CITYVIEW_SCENE"
	ConfigVar = "CITYVIEW_CONFIG"
	LogVar    = "CITYVIEW_LOG"
)

// Overrides are the paths taken from the environment. Empty fields are unset.
type Overrides struct {
	ScenePath  string
	ConfigPath string
	LogPath    string
}

// ReadOverrides returns the CITYVIEW_* variables from the current environment.
func ReadOverrides() Overrides {
	return Overrides{
		ScenePath:  strings.TrimSpace(os.Getenv(SceneVar)),
		ConfigPath: strings.TrimSpace(os.Getenv(ConfigVar)),
		LogPath:    strings.TrimSpace(os.Getenv(LogVar)),
	}
}

// Or returns v when set, otherwise fallback.
func Or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
