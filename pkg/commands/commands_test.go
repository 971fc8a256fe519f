// pkg/commands/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: isolated real filesystem, bbolt journal, FakeRunner, MockProbe
// PURPOSE: Test the install/uninstall workflows end to end

package commands_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/commands"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/filesystem"
	"github.com/arthur-debert/dotstow/pkg/history"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/status"
	"github.com/arthur-debert/dotstow/pkg/testutil"
)

var fixed = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

type fixture struct {
	env     *testutil.TestEnvironment
	runner  *testutil.FakeRunner
	probe   *testutil.MockProbe
	journal *history.Store
	trace   []linker.Decision
	cmdEnv  *commands.Env
}

func newFixture(t *testing.T) *fixture {
	env := testutil.NewTestEnvironment(t)
	env.CreatePackages()
	env.AddPackageFile("common", ".gitconfig", "[user]\n")
	env.AddPackageFile("common", ".config/nvim/init.lua", "-- nvim\n")

	journal, err := history.Open(filepath.Join(env.StateDir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })

	f := &fixture{
		env:     env,
		runner:  testutil.NewFakeRunner(),
		probe:   &testutil.MockProbe{},
		journal: journal,
	}
	f.cmdEnv = &commands.Env{
		FS:       filesystem.NewOS(),
		Paths:    env.Paths,
		Config:   env.Config(),
		Platform: platform.Info{OS: platform.OS(testutil.OSName()), Arch: platform.X64},
		Runner:   f.runner,
		Probe:    f.probe,
		Observer: func(d linker.Decision) { f.trace = append(f.trace, d) },
		Journal:  journal,
		Now:      func() time.Time { return fixed },
	}
	return f
}

func (f *fixture) run(t *testing.T, cmd commands.CommandType, opts commands.Options) (*commands.Result, error) {
	t.Helper()
	f.trace = nil
	return commands.Dispatch(context.Background(), f.cmdEnv, cmd, opts)
}

func (f *fixture) entries(t *testing.T) []history.Entry {
	t.Helper()
	entries, err := f.journal.List(0)
	require.NoError(t, err)
	return entries
}

func TestInstallBacksUpAndLinks(t *testing.T) {
	f := newFixture(t)
	f.env.AddHomeFile(".gitconfig", "mine\n")

	result, err := f.run(t, commands.CommandInstall, commands.Options{Args: []string{"install"}})
	require.NoError(t, err)
	assert.True(t, result.Summary.Empty())

	testutil.AssertSymlink(t, f.env.HomePath(".gitconfig"), f.env.PackagePath("common", ".gitconfig"))
	testutil.AssertSymlink(t, f.env.HomePath(".config/nvim"), f.env.PackagePath("common", ".config/nvim"))

	record := result.Backup()
	require.NotNil(t, record)
	assert.Equal(t, f.env.HomePath("dotfiles-backup-20260314-150926"), record.Root)
	assert.Equal(t, 1, record.Files())
	testutil.AssertFileContent(t, filepath.Join(record.Root, ".gitconfig"), "mine\n")
	testutil.AssertNotExists(t, filepath.Join(record.Root, ".config"))

	assert.Equal(t, map[string]int{"backup": 1, "replace": 1, "link": 1}, result.Counts())

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, "install", entries[0].Command)
	assert.Equal(t, record.Root, entries[0].Backup)
	assert.True(t, entries[0].OK())
}

func TestSimulatedInstallChangesNothing(t *testing.T) {
	f := newFixture(t)
	f.env.AddHomeFile(".gitconfig", "mine\n")
	before := testutil.Snapshot(t, f.env.HomeDir)

	result, err := f.run(t, commands.CommandInstall, commands.Options{Simulate: true})
	require.NoError(t, err)
	assert.True(t, result.Simulated)
	assert.Equal(t, before, testutil.Snapshot(t, f.env.HomeDir))
	assert.Len(t, f.trace, 3)
	assert.Empty(t, f.entries(t), "simulated runs are not journaled")
}

func TestInstallWithoutBackupFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.env.AddHomeFile(".gitconfig", "mine\n")

	_, err := f.run(t, commands.CommandInstall, commands.Options{NoBackup: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrLinkConflict))
	assert.True(t, errors.IsFatal(err))
	testutil.AssertFileContent(t, f.env.HomePath(".gitconfig"), "mine\n")
	testutil.AssertNotExists(t, f.env.HomePath(".config/nvim"))

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Fatal)
}

func TestInteractiveDeclineCancels(t *testing.T) {
	f := newFixture(t)
	var asked string
	f.cmdEnv.Confirm = func(q string) error {
		asked = q
		return errors.New(errors.ErrCancelled, "declined")
	}

	_, err := f.run(t, commands.CommandInstall, commands.Options{Interactive: true})
	assert.True(t, errors.IsCancelled(err))
	assert.Contains(t, asked, "common")
	testutil.AssertNotExists(t, f.env.HomePath(".gitconfig"))
	assert.Empty(t, f.entries(t))
}

func TestInteractiveSimulateDoesNotAsk(t *testing.T) {
	f := newFixture(t)
	f.cmdEnv.Confirm = func(string) error {
		t.Fatal("simulate must not prompt")
		return nil
	}
	_, err := f.run(t, commands.CommandInstall, commands.Options{Interactive: true, Simulate: true})
	assert.NoError(t, err)
}

func TestMissingPackageIsFatal(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(f.env.DotfilesRoot, testutil.OSName())))

	_, err := f.run(t, commands.CommandInstall, commands.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrPackageNotFound))
}

func TestUninstallRemovesOnlyOwnLinks(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, commands.CommandInstall, commands.Options{})
	require.NoError(t, err)
	f.env.AddHomeFile("notes.txt", "keep\n")

	result, err := f.run(t, commands.CommandUninstall, commands.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Counts()["unlink"])
	testutil.AssertNotExists(t, f.env.HomePath(".gitconfig"))
	testutil.AssertNotExists(t, f.env.HomePath(".config/nvim"))
	testutil.AssertFileContent(t, f.env.HomePath("notes.txt"), "keep\n")
	assert.Len(t, f.entries(t), 2)
}

func TestAppRoundTrip(t *testing.T) {
	f := newFixture(t)
	before := testutil.Snapshot(t, f.env.HomeDir)

	_, err := f.run(t, commands.CommandStowApp, commands.Options{App: "git"})
	require.NoError(t, err)
	testutil.AssertSymlink(t, f.env.HomePath(".gitconfig"), f.env.PackagePath("common", ".gitconfig"))
	testutil.AssertNotExists(t, f.env.HomePath(".config/nvim"))

	_, err = f.run(t, commands.CommandUninstall, commands.Options{App: "git"})
	require.NoError(t, err)
	assert.Equal(t, before, testutil.Snapshot(t, f.env.HomeDir))
}

func TestAdoptMovesRealFileIntoPackage(t *testing.T) {
	f := newFixture(t)
	f.env.AddHomeFile(".gitconfig", "local edits\n")

	_, err := f.run(t, commands.CommandAdopt, commands.Options{App: "git"})
	require.NoError(t, err)
	testutil.AssertFileContent(t, f.env.PackagePath("common", ".gitconfig"), "local edits\n")
	testutil.AssertSymlink(t, f.env.HomePath(".gitconfig"), f.env.PackagePath("common", ".gitconfig"))
}

func TestAppCommandsNeedAName(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, commands.CommandStowApp, commands.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRestowRepairsForeignLink(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, commands.CommandInstall, commands.Options{})
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.env.HomePath(".gitconfig")))
	f.env.AddHomeSymlink(".gitconfig", filepath.Join(f.env.Root, "elsewhere"))

	result, err := f.run(t, commands.CommandRestow, commands.Options{})
	require.NoError(t, err)
	require.Len(t, result.Links, 2)
	testutil.AssertSymlink(t, f.env.HomePath(".gitconfig"), f.env.PackagePath("common", ".gitconfig"))
	assert.Nil(t, result.Backup())
}

func TestBackupCommandOnlyCopies(t *testing.T) {
	f := newFixture(t)
	f.env.AddHomeFile(".gitconfig", "mine\n")

	result, err := f.run(t, commands.CommandBackup, commands.Options{})
	require.NoError(t, err)
	require.NotNil(t, result.Backup())
	testutil.AssertFileContent(t, f.env.HomePath(".gitconfig"), "mine\n")
	testutil.AssertNotExists(t, f.env.HomePath(".config/nvim"))
}

func TestCleanupRemovesBrokenLinks(t *testing.T) {
	f := newFixture(t)
	f.env.AddHomeSymlink(".zshrc", f.env.PackagePath("common", ".zshrc"))

	result, err := f.run(t, commands.CommandCleanup, commands.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts()["unlink"])
	testutil.AssertNotExists(t, f.env.HomePath(".zshrc"))
}

func TestToolFailureIsRecoverable(t *testing.T) {
	f := newFixture(t)
	f.cmdEnv.Platform.OS = platform.Linux
	f.runner.AddBinary("apt-get")
	f.runner.Failures["apt-get install -y fish"] = errors.New(errors.ErrStepFailed, "exit status 100")
	f.probe.Absent("fish")

	result, err := f.run(t, commands.CommandFish, commands.Options{})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, "failed", string(result.Outcomes[0].Kind))
	require.Len(t, result.Summary.Failures, 1)
	assert.Equal(t, "tool fish", result.Summary.Failures[0].Step)
	assert.True(t, f.runner.Called("sudo apt-get install -y fish"))
}

func TestNoPackageManagerIsFatal(t *testing.T) {
	f := newFixture(t)
	f.cmdEnv.Platform.OS = platform.Linux
	f.probe.Absent("zellij")

	_, err := f.run(t, commands.CommandZellij, commands.Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoPackageManager))
}

func TestSubmodules(t *testing.T) {
	f := newFixture(t)
	f.runner.AddBinary("git")

	result, err := f.run(t, commands.CommandSubmodules, commands.Options{Remote: true})
	require.NoError(t, err)
	assert.True(t, result.Summary.Empty())
	assert.True(t, f.runner.Called("git -C "+f.env.DotfilesRoot+" submodule update --init --recursive --remote"))
}

func TestSubmodulesWithoutGit(t *testing.T) {
	f := newFixture(t)
	result, err := f.run(t, commands.CommandSubmodules, commands.Options{})
	require.NoError(t, err)
	require.Len(t, result.Summary.Failures, 1)
	assert.Contains(t, result.Summary.Failures[0].Err, "git is not installed")
}

type brokenJournal struct{}

func (brokenJournal) Record(history.Entry) error { return stderrors.New("disk full") }

func TestJournalFailureIsOnlyAWarning(t *testing.T) {
	f := newFixture(t)
	f.cmdEnv.Journal = brokenJournal{}
	_, err := f.run(t, commands.CommandInstall, commands.Options{})
	assert.NoError(t, err)
}

func TestStatusAfterInstall(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, commands.CommandInstall, commands.Options{})
	require.NoError(t, err)

	report, err := commands.Status(context.Background(), f.cmdEnv, status.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Counts.Broken)
	assert.Equal(t, report.Counts.Apps, report.Counts.Valid)
}
