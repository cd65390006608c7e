package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var envVarPatterns = struct {
	withDefault *regexp.Regexp
	braced      *regexp.Regexp
}{
	withDefault: regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*):-(.*?)\}`),
	braced:      regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`),
}

// ExpandEnv replaces ${VAR} with the value of VAR and ${VAR:-default} with
// the value of VAR, or default when VAR is unset or empty.
func ExpandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}

	s = envVarPatterns.withDefault.ReplaceAllStringFunc(s, func(match string) string {
		parts := envVarPatterns.withDefault.FindStringSubmatch(match)
		if val := os.Getenv(parts[1]); val != "" {
			return val
		}
		return parts[2]
	})

	return envVarPatterns.braced.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPatterns.braced.FindStringSubmatch(match)[1])
	})
}

// expandNode expands every scalar below n in place. An expanded scalar loses
// its tag and quoting so the result is resolved again ("${R:-1.5}" → 1.5).
func expandNode(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode {
		if v := ExpandEnv(n.Value); v != n.Value {
			n.Value = v
			n.Tag = ""
			n.Style = 0
		}
		return
	}
	for _, c := range n.Content {
		expandNode(c)
	}
}

// LoadEnvFiles loads the given files, then .env.local and .env from the
// working directory. Missing files are skipped; variables already set in the
// environment are never overwritten.
func LoadEnvFiles(paths ...string) error {
	files := append(append([]string(nil), paths...), ".env.local", ".env")

	for _, file := range files {
		if file == "" {
			continue
		}
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: failed to load %s: %w", file, err)
		}
	}

	return nil
}
