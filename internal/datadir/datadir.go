// Package datadir resolves the client's data directory and loads optional
// .env files into the process environment.
package datadir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default data directory name under $HOME.
	DefaultDirName = ".fraudlens"

	// EnvVar is the environment variable that overrides the data directory.
	EnvVar = "FRAUDLENS_DATA_DIR"

	databaseSubdir = "data"
	configSubdir   = "config"
)

// DataDir is the single source of truth for data-directory paths.
type DataDir struct {
	root string
}

// New returns a DataDir rooted at the resolved data directory. It does not
// create anything; call EnsureDirs for that.
//
// Resolution priority:
//  1. FRAUDLENS_DATA_DIR environment variable
//  2. configValue argument (from the config file's data_dir field)
//  3. ~/.fraudlens/
func New(configValue string) (*DataDir, error) {
	root, err := resolveRoot(configValue)
	if err != nil {
		return nil, err
	}
	return &DataDir{root: root}, nil
}

// Root returns the base data directory path.
func (d *DataDir) Root() string { return d.root }

// DatabaseDir returns {root}/data/.
func (d *DataDir) DatabaseDir() string { return filepath.Join(d.root, databaseSubdir) }

// ConfigDir returns {root}/config/.
func (d *DataDir) ConfigDir() string { return filepath.Join(d.root, configSubdir) }

// DatabasePath returns the default sqlite database location.
func (d *DataDir) DatabasePath() string {
	return filepath.Join(d.DatabaseDir(), "fraudlens.db")
}

// ConfigPath returns the default config file location.
func (d *DataDir) ConfigPath() string {
	return filepath.Join(d.ConfigDir(), "config.json")
}

// EnsureDirs creates the directory tree.
func (d *DataDir) EnsureDirs() error {
	for _, dir := range []string{d.root, d.DatabaseDir(), d.ConfigDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func resolveRoot(configValue string) (string, error) {
	if v := os.Getenv(EnvVar); v != "" {
		return v, nil
	}
	if configValue != "" {
		return configValue, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}
