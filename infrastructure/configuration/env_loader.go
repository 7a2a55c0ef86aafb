package configuration

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// LoadEnvFromFile seeds the process environment from dotenv-style files
// before viper reads its config. Missing files are skipped; values already
// present in the environment always win over file contents.
func LoadEnvFromFile(paths ...string) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		applyEnvPairs(f)
		_ = f.Close()
	}
}

// applyEnvPairs parses KEY=VALUE lines, tolerating comments, blank lines and
// single- or double-quoted values.
func applyEnvPairs(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		_ = os.Setenv(key, value)
	}
}
