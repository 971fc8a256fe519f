// pkg/packages/packages_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Test link unit enumeration, conflicts and app resolution

package packages_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/packages"
)

var link = config.Link{
	NoFold: []string{".config", ".local", ".local/bin"},
	Ignore: []string{".DS_Store", "README*"},
}

func memRepo(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/dot/common", 0755))
	require.NoError(t, fs.MkdirAll("/dot/linux", 0755))
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/dot", f), []byte(f), 0644))
	}
	return fs
}

func rels(units []packages.Unit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.Package+":"+u.Rel)
	}
	return out
}

func TestLoadEnumeratesUnits(t *testing.T) {
	fs := memRepo(t,
		"common/.gitconfig",
		"common/.config/nvim/init.lua",
		"common/.config/nvim/lua/plugins.lua",
		"common/.config/fish/config.fish",
		"common/.local/bin/tool",
		"common/README.md",
		"common/.DS_Store",
		"linux/.config/hypr/hyprland.conf",
	)

	l, err := packages.Load(fs, "/dot", "/home", []string{"common", "linux"}, link)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"common:.config/fish",
		"common:.config/nvim",
		"common:.gitconfig",
		"common:.local/bin/tool",
		"linux:.config/hypr",
	}, rels(l.Units))

	nvim, ok := l.UnitForTarget("/home/.config/nvim")
	require.True(t, ok)
	assert.True(t, nvim.IsDir)
	assert.Equal(t, "/dot/common/.config/nvim", nvim.Source)

	assert.Equal(t, []string{"common", "linux"}, l.PackageNames())
	assert.Len(t, l.PackageUnits("linux"), 1)
	assert.True(t, l.IsContainer(".config"))
	assert.False(t, l.IsContainer(".config/nvim"))
}

func TestEveryFileCoveredByExactlyOneUnit(t *testing.T) {
	files := []string{
		"common/.zshrc",
		"common/.config/a/x",
		"common/.config/a/y/z",
		"common/.local/share/thing",
		"common/.local/bin/b",
	}
	fs := memRepo(t, files...)
	l, err := packages.Load(fs, "/dot", "/home", []string{"common"}, link)
	require.NoError(t, err)

	for _, f := range files {
		src := filepath.Join("/dot", f)
		covering := 0
		for _, u := range l.Units {
			if src == u.Source || (u.IsDir && strings.HasPrefix(src, u.Source+"/")) {
				covering++
			}
		}
		assert.Equal(t, 1, covering, f)
	}
}

func TestMissingPackageIsFatal(t *testing.T) {
	fs := memRepo(t)
	_, err := packages.Load(fs, "/dot", "/home", []string{"common", "macos"}, link)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageNotFound))
	assert.True(t, errors.IsFatal(err))
}

func TestDuplicateTargetsConflict(t *testing.T) {
	fs := memRepo(t, "common/.gitconfig", "linux/.gitconfig")
	_, err := packages.Load(fs, "/dot", "/home", []string{"common", "linux"}, link)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLinkConflict))
}

func TestResolveApp(t *testing.T) {
	fs := memRepo(t,
		"common/.config/alacritty/alacritty.toml",
		"linux/.config/Code/User/settings.json",
	)
	l, err := packages.Load(fs, "/dot", "/home", []string{"common", "linux"}, link)
	require.NoError(t, err)

	alacritty := l.ResolveApp("alacritty", config.App{
		Paths: []string{"macos/.alacritty.toml", "common/.config/alacritty"},
	})
	assert.True(t, alacritty.Present())
	assert.Equal(t, []string{"common:.config/alacritty"}, rels(alacritty.Units))
	assert.Empty(t, alacritty.Missing, "inactive packages are not missing")

	vscode := l.ResolveApp("vscode", config.App{Paths: []string{"linux/.config/Code/User"}})
	assert.Equal(t, []string{"linux:.config/Code"}, rels(vscode.Units), "nested paths resolve to their unit")

	helix := l.ResolveApp("helix", config.App{Paths: []string{"common/.config/helix"}})
	assert.False(t, helix.Present())
	assert.Equal(t, []string{"common/.config/helix"}, helix.Missing)
}

func TestResolveApps(t *testing.T) {
	fs := memRepo(t, "common/.config/nvim/init.lua")
	l, err := packages.Load(fs, "/dot", "/home", []string{"common", "linux"}, link)
	require.NoError(t, err)

	cfg := &config.Config{Apps: map[string]config.App{
		"zed":  {Paths: []string{"common/.config/zed"}},
		"nvim": {Paths: []string{"common/.config/nvim"}},
	}}
	apps := l.ResolveApps(cfg)
	require.Len(t, apps, 2)
	assert.Equal(t, "nvim", apps[0].Name)
	assert.True(t, apps[0].Present())
	assert.False(t, apps[1].Present())
}
