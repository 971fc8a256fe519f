// pkg/testutil/environment.go
// DEPENDENCIES: paths, config
// PURPOSE: Orchestrate isolated real-filesystem test environments

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/paths"
)

// TestEnvironment is a temp dotfiles repository plus a temp home directory
type TestEnvironment struct {
	Root         string
	DotfilesRoot string
	HomeDir      string
	StateDir     string
	ConfigDir    string

	Paths paths.Paths

	t *testing.T
}

// NewTestEnvironment creates an isolated environment and points HOME,
// DOTFILES_ROOT and the XDG variables at it.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}

	env := &TestEnvironment{
		t:            t,
		Root:         root,
		DotfilesRoot: filepath.Join(root, "dotfiles"),
		HomeDir:      filepath.Join(root, "home"),
		StateDir:     filepath.Join(root, "state"),
		ConfigDir:    filepath.Join(root, "config"),
	}

	for _, dir := range []string{env.DotfilesRoot, env.HomeDir, env.StateDir, env.ConfigDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	t.Setenv(paths.EnvDotfilesRoot, env.DotfilesRoot)
	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv(paths.EnvTarget, "")
	t.Setenv("XDG_STATE_HOME", env.StateDir)
	t.Setenv("XDG_CONFIG_HOME", env.ConfigDir)
	t.Setenv("NO_COLOR", "1")

	p, err := paths.New(env.DotfilesRoot, env.HomeDir)
	if err != nil {
		t.Fatalf("failed to create paths: %v", err)
	}
	env.Paths = p

	return env
}

// OSName is the platform package name for the OS running the tests
func OSName() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "windows":
		return "windows"
	default:
		return "linux"
	}
}

// Config returns the default configuration with the native link backend,
// so tests never depend on GNU Stow being installed.
func (env *TestEnvironment) Config() *config.Config {
	env.t.Helper()
	cfg, err := config.Load(config.Sources{
		Overrides: map[string]interface{}{"link.backend": config.BackendNative},
	})
	if err != nil {
		env.t.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// CreatePackages creates empty directories for the packages active on the
// test OS (common plus the OS package).
func (env *TestEnvironment) CreatePackages() {
	env.t.Helper()
	for _, name := range []string{"common", OSName()} {
		env.mkdir(filepath.Join(env.DotfilesRoot, name))
	}
}

// PackagePath returns the absolute path of rel inside package pkg
func (env *TestEnvironment) PackagePath(pkg, rel string) string {
	return filepath.Join(env.DotfilesRoot, pkg, filepath.FromSlash(rel))
}

// HomePath returns the absolute path of rel inside the home directory
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, filepath.FromSlash(rel))
}

// AddPackageFile writes a file inside a package and returns its path
func (env *TestEnvironment) AddPackageFile(pkg, rel, content string) string {
	env.t.Helper()
	path := env.PackagePath(pkg, rel)
	env.writeFile(path, content)
	return path
}

// AddHomeFile writes a real file under the home directory
func (env *TestEnvironment) AddHomeFile(rel, content string) string {
	env.t.Helper()
	path := env.HomePath(rel)
	env.writeFile(path, content)
	return path
}

// AddHomeSymlink creates a symlink under the home directory pointing at dest
func (env *TestEnvironment) AddHomeSymlink(rel, dest string) string {
	env.t.Helper()
	path := env.HomePath(rel)
	env.mkdir(filepath.Dir(path))
	if err := os.Symlink(dest, path); err != nil {
		env.t.Fatalf("failed to symlink %s -> %s: %v", path, dest, err)
	}
	return path
}

// WriteRepoConfig writes dotstow.toml at the dotfiles root
func (env *TestEnvironment) WriteRepoConfig(content string) string {
	env.t.Helper()
	path := filepath.Join(env.DotfilesRoot, "dotstow.toml")
	env.writeFile(path, content)
	return path
}

func (env *TestEnvironment) writeFile(path, content string) {
	env.mkdir(filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("failed to write %s: %v", path, err)
	}
}

func (env *TestEnvironment) mkdir(path string) {
	if err := os.MkdirAll(path, 0755); err != nil {
		env.t.Fatalf("failed to create %s: %v", path, err)
	}
}
