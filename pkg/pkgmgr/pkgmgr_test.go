// pkg/pkgmgr/pkgmgr_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: FakeRunner, MockProbe
// PURPOSE: Test manager selection, install invocations and outcome taxonomy

package pkgmgr_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/pkgmgr"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/testutil"
)

func newInstaller(t *testing.T, osName platform.OS, r *testutil.FakeRunner, p *testutil.MockProbe) *pkgmgr.Installer {
	t.Helper()
	cfg, err := config.Defaults()
	require.NoError(t, err)
	return pkgmgr.New(pkgmgr.Deps{Runner: r, Probe: p, OS: osName, Config: cfg})
}

func TestAlreadyPresentRunsNothing(t *testing.T) {
	r := testutil.NewFakeRunner("apt-get")
	p := (&testutil.MockProbe{}).Present("jq", "1.7.1")

	out, err := newInstaller(t, platform.Linux, r, p).EnsureTool(context.Background(), "jq")
	require.NoError(t, err)
	assert.Equal(t, pkgmgr.AlreadyPresent, out.Kind)
	assert.Equal(t, "1.7.1", out.Version)
	assert.Empty(t, r.Calls)
	p.AssertExpectations(t)
}

func TestInstallUsesPriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		os       platform.OS
		binaries []string
		tool     string
		want     string
	}{
		{"apt first on linux", platform.Linux, []string{"apt-get", "pacman"}, "fd", "sudo apt-get install -y fd-find"},
		{"pacman when apt missing", platform.Linux, []string{"pacman", "brew"}, "fd", "sudo pacman -S --noconfirm --needed fd"},
		{"skip manager without package", platform.Linux, []string{"apt-get", "brew"}, "zellij", "brew install zellij"},
		{"brew on macos", platform.MacOS, []string{"brew"}, "ripgrep", "brew install ripgrep"},
		{"winget id", platform.Windows, []string{"winget"}, "jq",
			"winget install --exact --accept-source-agreements --accept-package-agreements --id jqlang.jq"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutil.NewFakeRunner(tt.binaries...)
			p := (&testutil.MockProbe{}).Absent(tt.tool)

			out, err := newInstaller(t, tt.os, r, p).EnsureTool(context.Background(), tt.tool)
			require.NoError(t, err)
			assert.Equal(t, pkgmgr.Installed, out.Kind)
			assert.Equal(t, []string{tt.want}, r.Calls)
		})
	}
}

func TestFontInstallsCask(t *testing.T) {
	r := testutil.NewFakeRunner("brew")
	p := &testutil.MockProbe{}
	p.On("Font", "JetBrainsMono Nerd Font").Return(false, nil)

	out, err := newInstaller(t, platform.MacOS, r, p).EnsureTool(context.Background(), "jetbrains-mono-nerd")
	require.NoError(t, err)
	assert.Equal(t, pkgmgr.Installed, out.Kind)
	assert.True(t, r.Called("brew install --cask font-jetbrains-mono-nerd-font"), "calls: %v", r.Calls)
}

func TestNoPackageManagerIsFatal(t *testing.T) {
	r := testutil.NewFakeRunner()
	p := (&testutil.MockProbe{}).Absent("stow")

	out, err := newInstaller(t, platform.Linux, r, p).EnsureTool(context.Background(), "stow")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoPackageManager))
	assert.True(t, errors.IsFatal(err))
	assert.Equal(t, pkgmgr.Failed, out.Kind)
}

func TestPinnedManagerMissingIsRecoverable(t *testing.T) {
	r := testutil.NewFakeRunner("brew")
	p := (&testutil.MockProbe{}).Absent("mcp-filesystem")

	_, err := newInstaller(t, platform.MacOS, r, p).EnsureTool(context.Background(), "mcp-filesystem")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyMissing))
	assert.False(t, errors.IsFatal(err))
	assert.Empty(t, r.Calls)
}

func TestPinnedManagerDoesNotUseSudo(t *testing.T) {
	r := testutil.NewFakeRunner("npm", "apt-get")
	p := (&testutil.MockProbe{}).Absent("mcp-memory")

	_, err := newInstaller(t, platform.Linux, r, p).EnsureTool(context.Background(), "mcp-memory")
	require.NoError(t, err)
	assert.Equal(t, []string{"npm install -g @modelcontextprotocol/server-memory"}, r.Calls)
}

func TestInstallFailureContinuesGroup(t *testing.T) {
	r := testutil.NewFakeRunner("apt-get")
	r.Failures["apt-get install -y jq"] = errors.New(errors.ErrStepFailed, "exit status 100")
	p := (&testutil.MockProbe{}).Absent("jq").Present("fzf", "0.44.1")

	summary := &errors.Summary{}
	outcomes, err := newInstaller(t, platform.Linux, r, p).EnsureTools(context.Background(), []string{"jq", "fzf"}, summary)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, pkgmgr.Failed, outcomes[0].Kind)
	assert.Equal(t, pkgmgr.AlreadyPresent, outcomes[1].Kind)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "tool jq", summary.Failures[0].Step)
	assert.Contains(t, summary.Failures[0].Err, "TOOL_INSTALL")
}

func TestSimulateReportsWouldInstall(t *testing.T) {
	r := testutil.NewFakeRunner("apt-get")
	r.Simulate = true
	p := (&testutil.MockProbe{}).Absent("jq")

	out, err := newInstaller(t, platform.Linux, r, p).EnsureTool(context.Background(), "jq")
	require.NoError(t, err)
	assert.Equal(t, pkgmgr.WouldInstall, out.Kind)
	assert.Equal(t, "apt", out.Manager)
	assert.Equal(t, []string{"simulate sudo apt-get install -y jq"}, r.Calls)
}

func TestProgressWrapsInstall(t *testing.T) {
	r := testutil.NewFakeRunner("brew")
	p := (&testutil.MockProbe{}).Absent("jq")
	cfg, err := config.Defaults()
	require.NoError(t, err)

	var started []string
	var finished int
	inst := pkgmgr.New(pkgmgr.Deps{Runner: r, Probe: p, OS: platform.MacOS, Config: cfg,
		Progress: func(msg string) func(error) {
			started = append(started, msg)
			return func(err error) {
				assert.NoError(t, err)
				finished++
			}
		},
	})

	_, err = inst.EnsureTool(context.Background(), "jq")
	require.NoError(t, err)
	assert.Equal(t, []string{"Installing jq with brew"}, started)
	assert.Equal(t, 1, finished)
}

func TestEnsureGroupUnknown(t *testing.T) {
	_, err := newInstaller(t, platform.Linux, testutil.NewFakeRunner(), &testutil.MockProbe{}).
		EnsureGroup(context.Background(), "games", &errors.Summary{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestManagerCommand(t *testing.T) {
	apt, ok := pkgmgr.Lookup("apt")
	require.True(t, ok)
	assert.Equal(t, "sudo apt-get install -y stow", apt.Command("stow"))

	brew, ok := pkgmgr.Lookup("brew")
	require.True(t, ok)
	assert.Equal(t, "brew install --cask kitty", brew.Command("cask:kitty"))
	assert.False(t, brew.NeedsSudo())

	for _, name := range pkgmgr.Names() {
		_, ok := pkgmgr.Lookup(name)
		assert.True(t, ok, name)
	}
}
