package datadir

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvFileEnvVar allows overriding the .env file path entirely.
const EnvFileEnvVar = "FRAUDLENS_ENV_FILE"

// LoadEnv loads KEY=VALUE .env files in priority order. Later files never
// override values set by earlier files, and existing environment variables
// are never overridden.
//
// Search order:
//  1. FRAUDLENS_ENV_FILE (if set, only that file is loaded)
//  2. {datadir}/.env
//  3. Project-level .env (current working directory)
func LoadEnv(dataRoot string) error {
	paths := findEnvPaths(dataRoot)
	seen := make(map[string]bool)

	for _, p := range paths {
		if err := loadEnvFile(p, seen); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

func findEnvPaths(dataRoot string) []string {
	if override := os.Getenv(EnvFileEnvVar); override != "" {
		if fileExists(override) {
			return []string{override}
		}
		return nil
	}

	var paths []string
	if dataRoot != "" {
		paths = append(paths, filepath.Join(dataRoot, ".env"))
	}
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	var existing []string
	for _, p := range paths {
		if fileExists(p) {
			existing = append(existing, p)
		}
	}
	return existing
}

func loadEnvFile(path string, seen map[string]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)

		if key == "" || seen[key] {
			continue
		}
		// Never clobber the real environment.
		if _, exists := os.LookupEnv(key); exists {
			seen[key] = true
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
		seen[key] = true
	}
	return scanner.Err()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
