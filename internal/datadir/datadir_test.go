package datadir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveRootPriority(t *testing.T) {
	t.Setenv(EnvVar, "")
	os.Unsetenv(EnvVar)

	// Config value wins over the home default.
	d, err := New("/tmp/from-config")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if d.Root() != "/tmp/from-config" {
		t.Errorf("Expected config value, got %q", d.Root())
	}

	// Env var wins over everything.
	t.Setenv(EnvVar, "/tmp/from-env")
	d, err = New("/tmp/from-config")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if d.Root() != "/tmp/from-env" {
		t.Errorf("Expected env value, got %q", d.Root())
	}
}

func TestDefaultRootUnderHome(t *testing.T) {
	t.Setenv(EnvVar, "")
	os.Unsetenv(EnvVar)

	home := t.TempDir()
	t.Setenv("HOME", home)

	d, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	want := filepath.Join(home, DefaultDirName)
	if d.Root() != want {
		t.Errorf("Expected %q, got %q", want, d.Root())
	}
}

func TestEnsureDirs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fraudlens-data")
	t.Setenv(EnvVar, root)

	d, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := d.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}

	for _, dir := range []string{d.Root(), d.DatabaseDir(), d.ConfigDir()} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s to exist", dir)
		}
	}

	if filepath.Dir(d.DatabasePath()) != d.DatabaseDir() {
		t.Errorf("Database path should live in the database dir: %s", d.DatabasePath())
	}
}

func TestLoadEnvFirstWriteWins(t *testing.T) {
	root := t.TempDir()

	envFile := filepath.Join(root, ".env")
	content := "FRAUDLENS_TEST_KEY=from-datadir\n# comment line\nFRAUDLENS_TEST_OTHER=\"quoted\"\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	t.Setenv("FRAUDLENS_TEST_KEY", "")
	os.Unsetenv("FRAUDLENS_TEST_KEY")
	t.Setenv("FRAUDLENS_TEST_OTHER", "")
	os.Unsetenv("FRAUDLENS_TEST_OTHER")

	if err := LoadEnv(root); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if got := os.Getenv("FRAUDLENS_TEST_KEY"); got != "from-datadir" {
		t.Errorf("Expected from-datadir, got %q", got)
	}
	if got := os.Getenv("FRAUDLENS_TEST_OTHER"); got != "quoted" {
		t.Errorf("Expected quotes stripped, got %q", got)
	}
}

func TestLoadEnvNeverOverridesEnvironment(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, ".env"), []byte("FRAUDLENS_TEST_SET=file-value\n"), 0o644)

	t.Setenv("FRAUDLENS_TEST_SET", "real-env")

	if err := LoadEnv(root); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if got := os.Getenv("FRAUDLENS_TEST_SET"); got != "real-env" {
		t.Errorf("Existing environment must win, got %q", got)
	}
}

func TestLoadEnvExplicitFile(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "custom.env")
	os.WriteFile(explicit, []byte("FRAUDLENS_TEST_EXPLICIT=yes\n"), 0o644)

	t.Setenv(EnvFileEnvVar, explicit)
	t.Setenv("FRAUDLENS_TEST_EXPLICIT", "")
	os.Unsetenv("FRAUDLENS_TEST_EXPLICIT")

	if err := LoadEnv(""); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if got := os.Getenv("FRAUDLENS_TEST_EXPLICIT"); got != "yes" {
		t.Errorf("Expected explicit env file to load, got %q", got)
	}
}
