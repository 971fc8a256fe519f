// pkg/ui/display/display_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test how results are laid out into tables and notes

package display_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/backup"
	"github.com/arthur-debert/dotstow/pkg/commands"
	"github.com/arthur-debert/dotstow/pkg/desktop"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/history"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/pkgmgr"
	"github.com/arthur-debert/dotstow/pkg/status"
	"github.com/arthur-debert/dotstow/pkg/style"
	"github.com/arthur-debert/dotstow/pkg/ui/display"
)

func TestFormatCounts(t *testing.T) {
	assert.Equal(t, "1 backup, 2 link", display.FormatCounts(map[string]int{"link": 2, "backup": 1, "skip": 0}))
	assert.Equal(t, "", display.FormatCounts(nil))
}

func TestCommandResultNotes(t *testing.T) {
	result := &commands.Result{
		Command: commands.CommandInstall,
		Links: []*linker.Report{{
			Plan: &linker.Plan{Decisions: []linker.Decision{
				{Op: linker.OpBackup, Target: "/h/.zshrc"},
				{Op: linker.OpReplace, Target: "/h/.zshrc"},
				{Op: linker.OpLink, Target: "/h/.vimrc"},
			}},
			Backup: &backup.Record{Root: "/h/dotfiles-backup-x", Entries: []backup.Entry{{Files: 1}}},
		}},
		Outcomes: []pkgmgr.Outcome{{Tool: "fish", Kind: pkgmgr.Failed, Reason: "apt-get failed"}},
	}
	result.Summary.Record("tool fish", errors.New(errors.ErrToolInstall, "apt-get failed"))

	doc := display.CommandResult(result)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "Tools", doc.Tables[0].Title)
	assert.Equal(t, style.StatusError, doc.Tables[0].Rows[0].Status)
	assert.Equal(t, "failed", doc.Tables[0].Rows[0].Label)

	require.Len(t, doc.Notes, 3)
	assert.Equal(t, "Done install: 1 backup, 1 link, 1 replace", doc.Notes[0])
	assert.Contains(t, style.Strip(doc.Notes[1]), "Backed up 1 files to /h/dotfiles-backup-x")
	assert.Contains(t, style.Strip(doc.Notes[2]), "failed tool fish: [TOOL_INSTALL] apt-get failed")
}

func TestSimulatedEmptyResult(t *testing.T) {
	doc := display.CommandResult(&commands.Result{Command: commands.CommandCleanup, Simulated: true})
	assert.Empty(t, doc.Tables)
	assert.Equal(t, []string{"Simulated cleanup: nothing to do"}, doc.Notes)
}

func TestStatusReportStates(t *testing.T) {
	report := &status.Report{
		Apps: []status.App{
			{Name: "nvim", State: status.AppLinked, Links: []status.Link{{Correct: true}, {Correct: true}}},
			{Name: "tmux", State: status.AppUnmanaged, MissingDeps: []string{"tmux"}},
			{Name: "sway", State: status.AppAbsent},
		},
		Git: &status.Git{Repo: true, Branch: "main", Changes: 3},
	}

	doc := display.StatusReport(report)
	require.Len(t, doc.Tables, 2)

	apps := doc.Tables[0]
	assert.Equal(t, []string{"nvim", "2/2", ""}, apps.Rows[0].Cells)
	assert.Equal(t, style.StatusSuccess, apps.Rows[0].Status)
	assert.Equal(t, style.StatusAlert, apps.Rows[1].Status)
	assert.Equal(t, "needs tmux", apps.Rows[1].Cells[2])
	assert.Equal(t, style.StatusIgnored, apps.Rows[2].Status)
	assert.Equal(t, 9, apps.LabelWidth())

	git := doc.Tables[1]
	assert.Equal(t, "dirty", git.Rows[0].Label)
	assert.Equal(t, "main, 3 changes", git.Rows[0].Cells[1])
}

func TestChecksNoteOnFailure(t *testing.T) {
	doc := display.Checks([]status.Check{
		{Name: "git", Level: status.Pass},
		{Name: "target", Level: status.Fail, Message: "not writable"},
	})
	assert.Equal(t, style.StatusError, doc.Tables[0].Rows[1].Status)
	assert.Equal(t, []string{"Some prerequisites are missing"}, doc.Notes)

	doc = display.Checks([]status.Check{{Name: "git", Level: status.Warn}})
	assert.Empty(t, doc.Notes)
}

func TestHistoryLabels(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	doc := display.History([]history.Entry{
		{Time: now, Command: "install", Counts: map[string]int{"link": 3}},
		{Time: now, Command: "tools", Failures: []string{"tool fish: boom"}},
		{Time: now, Command: "install", Args: []string{"--no-backup"}, Fatal: "conflict"},
	})

	rows := doc.Tables[0].Rows
	assert.Equal(t, "ok", rows[0].Label)
	assert.Equal(t, "3 link", rows[0].Cells[2])
	assert.Equal(t, "1 failed", rows[1].Label)
	assert.Equal(t, "fatal", rows[2].Label)
	assert.Equal(t, "install --no-backup", rows[2].Cells[1])
	assert.Empty(t, doc.Notes)

	assert.Equal(t, []string{"No runs recorded yet"}, display.History(nil).Notes)
}

func TestWMRows(t *testing.T) {
	doc := display.WM(&desktop.WMStatus{Compositor: desktop.Hyprland, Workspace: "2", Windows: 3, Swww: false})
	rows := doc.Tables[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "2 (3 windows)", rows[1].Cells[1])
	assert.Equal(t, "stopped", rows[2].Label)

	doc = display.WM(&desktop.WMStatus{Compositor: desktop.None, Swww: true})
	assert.Equal(t, style.StatusIgnored, doc.Tables[0].Rows[0].Status)
}

func TestBuild(t *testing.T) {
	_, ok := display.Build("just a string")
	assert.False(t, ok)

	doc, ok := display.Build([]pkgmgr.Outcome{})
	assert.True(t, ok)
	assert.Empty(t, doc.Tables)

	table := display.Table{Header: []string{"A", "B"}, Rows: []display.Row{{Label: "x", Cells: []string{"y"}}}}
	assert.Equal(t, [][]string{{"A", "B"}, {"<x>", "y"}}, table.Data(func(r display.Row) string { return "<" + r.Label + ">" }))
}
