// pkg/config/loader_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: temp files, environment overrides
// PURPOSE: Test config layering, env mapping, validation and TOML generation

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

func TestDefaults(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)

	assert.Equal(t, BackendAuto, cfg.Link.Backend)
	assert.Contains(t, cfg.Link.NoFold, ".config")
	assert.Equal(t, []string{"common", "macos"}, cfg.ActivePackages("macos"))
	assert.Equal(t, []string{"common", "linux"}, cfg.ActivePackages("linux"))
	assert.Equal(t, []string{"brew"}, cfg.ManagerPriority("macos"))
	assert.Equal(t, []string{"apt", "pacman", "dnf", "zypper", "brew"}, cfg.ManagerPriority("linux"))

	alacritty, err := cfg.App("alacritty")
	require.NoError(t, err)
	assert.Equal(t, []string{"macos/.alacritty.toml", "common/.config/alacritty"}, alacritty.Paths)

	group, err := cfg.Group("mcp")
	require.NoError(t, err)
	for _, name := range group {
		tool, err := cfg.Tool(name)
		require.NoError(t, err)
		assert.Equal(t, "npm", tool.Manager)
	}
	assert.True(t, cfg.History.Enabled)
}

func TestLayering(t *testing.T) {
	dir := t.TempDir()
	userFile := filepath.Join(dir, "config.toml")
	repoFile := filepath.Join(dir, "dotstow.toml")

	require.NoError(t, os.WriteFile(userFile, []byte(`
[link]
backend = "stow"

[backup]
prefix = "user-backup-"
`), 0644))
	require.NoError(t, os.WriteFile(repoFile, []byte(`
[link]
backend = "native"

[packages]
linux = ["common", "linux", "work"]

[apps.tmux]
paths = ["common/.tmux.conf"]
binaries = ["tmux"]
`), 0644))

	cfg, err := Load(Sources{UserFile: userFile, RepoFile: repoFile})
	require.NoError(t, err)

	assert.Equal(t, BackendNative, cfg.Link.Backend, "repo file wins over user file")
	assert.Equal(t, "user-backup-", cfg.Backup.Prefix)
	assert.Equal(t, []string{"common", "linux", "work"}, cfg.ActivePackages("linux"))
	assert.Contains(t, cfg.AppNames(), "tmux")
	assert.Contains(t, cfg.AppNames(), "nvim", "defaults are kept next to added apps")
}

func TestEnvAndOverrides(t *testing.T) {
	t.Setenv("DOTSTOW_LINK_BACKEND", "native")
	t.Setenv("DOTSTOW_LINK_NO_FOLD", ".config,.local")

	cfg, err := Load(Sources{})
	require.NoError(t, err)
	assert.Equal(t, BackendNative, cfg.Link.Backend)
	assert.Equal(t, []string{".config", ".local"}, cfg.Link.NoFold)

	cfg, err = Load(Sources{Overrides: map[string]interface{}{"link.backend": "stow"}})
	require.NoError(t, err)
	assert.Equal(t, BackendStow, cfg.Link.Backend, "overrides win over env")
}

func TestMissingFilesAreSkipped(t *testing.T) {
	cfg, err := Load(Sources{UserFile: "/nonexistent/config.toml", RepoFile: "/nonexistent/dotstow.toml"})
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestParseError(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "dotstow.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[link\nbackend="), 0644))

	_, err := Load(Sources{RepoFile: bad})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad backend", func(c *Config) { c.Link.Backend = "rsync" }},
		{"app without paths", func(c *Config) { c.Apps["empty"] = App{} }},
		{"app path without package", func(c *Config) { c.Apps["x"] = App{Paths: []string{".vimrc"}} }},
		{"app path is container", func(c *Config) { c.Apps["x"] = App{Paths: []string{"common/.config"}} }},
		{"tool without probe", func(c *Config) { c.Tools["ghost"] = Tool{} }},
		{"group with unknown tool", func(c *Config) { c.Groups["broken"] = []string{"nope"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Defaults()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		})
	}
}

func TestLookupErrors(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)

	_, err = cfg.App("emacs")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAppNotFound))
	_, err = cfg.Tool("emacs")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	_, err = cfg.Group("games")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestPackageFor(t *testing.T) {
	tool := Tool{Packages: map[string]string{"apt": "fd-find", "winget": "-"}}

	name, ok := tool.PackageFor("apt", "fd")
	assert.True(t, ok)
	assert.Equal(t, "fd-find", name)

	name, ok = tool.PackageFor("brew", "fd")
	assert.True(t, ok)
	assert.Equal(t, "fd", name)

	_, ok = tool.PackageFor("winget", "fd")
	assert.False(t, ok)
}

func TestToTOMLRoundTripsThroughLoad(t *testing.T) {
	cfg, err := Defaults()
	require.NoError(t, err)
	cfg.Link.Backend = BackendNative

	data, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "# dotstow configuration")

	var generic map[string]interface{}
	require.NoError(t, toml.Unmarshal(data, &generic))

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	loaded, err := Load(Sources{UserFile: path})
	require.NoError(t, err)
	assert.Equal(t, BackendNative, loaded.Link.Backend)
	assert.Equal(t, cfg.AppNames(), loaded.AppNames())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "link.backend", envKey("DOTSTOW_LINK_BACKEND"))
	assert.Equal(t, "cleanup.scan_dirs", envKey("DOTSTOW_CLEANUP_SCAN_DIRS"))
	assert.Equal(t, "target", envKey("DOTSTOW_TARGET"))
}
