package testutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/testutil"
)

func TestNewTestEnvironment(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	assert.Equal(t, env.HomeDir, os.Getenv("HOME"))
	assert.Equal(t, env.DotfilesRoot, os.Getenv("DOTFILES_ROOT"))
	assert.Equal(t, env.DotfilesRoot, env.Paths.DotfilesRoot())
	assert.Equal(t, env.HomeDir, env.Paths.TargetDir())

	src := env.AddPackageFile("common", ".gitconfig", "[user]")
	link := env.AddHomeSymlink(".gitconfig", src)
	testutil.AssertSymlink(t, link, src)
	testutil.AssertFileContent(t, src, "[user]")
	testutil.AssertNotExists(t, env.HomePath(".zshrc"))

	cfg := env.Config()
	assert.Equal(t, "native", cfg.Link.Backend)
}

func TestSnapshot(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.AddHomeFile(".bashrc", "x")
	before := testutil.Snapshot(t, env.HomeDir)

	require.NoError(t, os.WriteFile(filepath.Join(env.HomeDir, ".bashrc"), []byte("y"), 0644))
	after := testutil.Snapshot(t, env.HomeDir)
	assert.NotEqual(t, before, after)
}

func TestFakeRunner(t *testing.T) {
	f := testutil.NewFakeRunner("brew")
	f.Outputs["brew --version"] = "Homebrew 4.2.0\n"

	_, err := f.LookPath("brew")
	require.NoError(t, err)
	_, err = f.LookPath("apt-get")
	assert.Error(t, err)

	out, err := f.Output(context.Background(), "brew", "--version")
	require.NoError(t, err)
	assert.Equal(t, "Homebrew 4.2.0\n", out)

	require.NoError(t, f.RunSudo(context.Background(), "apt-get", "install", "-y", "stow"))
	assert.True(t, f.Called("sudo apt-get install -y stow"))
}
