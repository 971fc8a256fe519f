// Package display turns command results into a format neutral document of
// tables and notes. The terminal and text renderers only differ in how they
// draw it.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/dotstow/pkg/commands"
	"github.com/arthur-debert/dotstow/pkg/desktop"
	"github.com/arthur-debert/dotstow/pkg/history"
	"github.com/arthur-debert/dotstow/pkg/paths"
	"github.com/arthur-debert/dotstow/pkg/pkgmgr"
	"github.com/arthur-debert/dotstow/pkg/status"
	"github.com/arthur-debert/dotstow/pkg/style"
)

// Row is one table row. Label is drawn in the first column, as a badge when
// the output is styled.
type Row struct {
	Status style.Status
	Label  string
	Cells  []string
}

// Table is a titled table. Header includes the label column.
type Table struct {
	Title  string
	Header []string
	Rows   []Row
}

// Data returns the header and rows as plain cells
func (t Table) Data(label func(Row) string) [][]string {
	data := [][]string{t.Header}
	for _, row := range t.Rows {
		data = append(data, append([]string{label(row)}, row.Cells...))
	}
	return data
}

// LabelWidth is the width of the widest label
func (t Table) LabelWidth() int {
	width := 0
	for _, row := range t.Rows {
		if len(row.Label) > width {
			width = len(row.Label)
		}
	}
	return width
}

// Document is what a renderer draws: tables first, then notes. Notes may
// carry style markup.
type Document struct {
	Tables []Table
	Notes  []string
}

func (d *Document) note(format string, args ...interface{}) {
	d.Notes = append(d.Notes, fmt.Sprintf(format, args...))
}

// Build lays out a known result type. ok is false for anything else.
func Build(v interface{}) (doc *Document, ok bool) {
	switch r := v.(type) {
	case *commands.Result:
		return CommandResult(r), true
	case *status.Report:
		return StatusReport(r), true
	case []status.Check:
		return Checks(r), true
	case []history.Entry:
		return History(r), true
	case *desktop.WMStatus:
		return WM(r), true
	case []pkgmgr.Outcome:
		doc := &Document{}
		if len(r) > 0 {
			doc.Tables = append(doc.Tables, Outcomes(r))
		}
		return doc, true
	default:
		return nil, false
	}
}

// AppStatus maps an app state to its display category
func AppStatus(state status.AppState) style.Status {
	switch state {
	case status.AppLinked:
		return style.StatusSuccess
	case status.AppBroken:
		return style.StatusError
	case status.AppNotLinked, status.AppPartial:
		return style.StatusQueue
	case status.AppForeign, status.AppUnmanaged:
		return style.StatusAlert
	default:
		return style.StatusIgnored
	}
}

// LevelStatus maps a doctor level to its display category
func LevelStatus(level status.Level) style.Status {
	switch level {
	case status.Pass:
		return style.StatusSuccess
	case status.Warn:
		return style.StatusAlert
	default:
		return style.StatusError
	}
}

// OutcomeStatus maps a tool outcome to its display category
func OutcomeStatus(kind pkgmgr.OutcomeKind) style.Status {
	switch kind {
	case pkgmgr.AlreadyPresent, pkgmgr.Installed:
		return style.StatusSuccess
	case pkgmgr.WouldInstall:
		return style.StatusQueue
	default:
		return style.StatusError
	}
}

// StatusReport lays out the per-app table, the totals and the optional
// font and git sections
func StatusReport(r *status.Report) *Document {
	doc := &Document{}

	apps := Table{Title: "Apps", Header: []string{"STATE", "APP", "LINKS", "NOTES"}}
	for _, app := range r.Apps {
		apps.Rows = append(apps.Rows, Row{
			Status: AppStatus(app.State),
			Label:  string(app.State),
			Cells:  []string{app.Name, linkSummary(app), appNotes(app)},
		})
	}
	doc.Tables = append(doc.Tables, apps)

	if len(r.Fonts) > 0 {
		fonts := Table{Title: "Fonts", Header: []string{"STATE", "FAMILY", "NOTES"}}
		for _, f := range r.Fonts {
			row := Row{Status: style.StatusSuccess, Label: "installed", Cells: []string{f.Family, f.Error}}
			if !f.Installed {
				row.Status, row.Label = style.StatusQueue, "missing"
			}
			fonts.Rows = append(fonts.Rows, row)
		}
		doc.Tables = append(doc.Tables, fonts)
	}

	if r.Git != nil {
		doc.Tables = append(doc.Tables, gitTable(r.Git))
	}

	c := r.Counts
	doc.note("%d apps: [link]%d valid[/link], %d broken, %d foreign, %d unmanaged, %d not linked",
		c.Apps, c.Valid, c.Broken, c.Foreign, c.Unmanaged, c.NotLinked)
	doc.note("%d symlinks: %d valid, %d broken, %d foreign",
		c.Symlinks, c.ValidLinks, c.BrokenLinks, c.ForeignLinks)
	doc.note("%s -> %s (%s)", paths.Tilde(r.DotfilesRoot), paths.Tilde(r.Target), strings.Join(r.Packages, ", "))
	return doc
}

func linkSummary(app status.App) string {
	correct := 0
	for _, l := range app.Links {
		if l.Correct {
			correct++
		}
	}
	return fmt.Sprintf("%d/%d", correct, len(app.Links))
}

func appNotes(app status.App) string {
	var notes []string
	if len(app.MissingPaths) > 0 {
		notes = append(notes, "missing "+strings.Join(app.MissingPaths, ", "))
	}
	if len(app.MissingDeps) > 0 {
		notes = append(notes, "needs "+strings.Join(app.MissingDeps, ", "))
	}
	if len(notes) == 0 {
		return app.Description
	}
	return strings.Join(notes, "; ")
}

func gitTable(g *status.Git) Table {
	t := Table{Title: "Git", Header: []string{"STATE", "PATH", "DETAIL"}}
	switch {
	case !g.Repo:
		t.Rows = append(t.Rows, Row{Status: style.StatusIgnored, Label: "none", Cells: []string{".", "not a git repository"}})
		return t
	case g.Error != "":
		t.Rows = append(t.Rows, Row{Status: style.StatusError, Label: "error", Cells: []string{".", g.Error}})
	case g.Changes > 0:
		t.Rows = append(t.Rows, Row{Status: style.StatusAlert, Label: "dirty", Cells: []string{".", fmt.Sprintf("%s, %d changes", g.Branch, g.Changes)}})
	default:
		t.Rows = append(t.Rows, Row{Status: style.StatusSuccess, Label: "clean", Cells: []string{".", g.Branch}})
	}
	for _, s := range g.Submodules {
		row := Row{Status: style.StatusSuccess, Label: s.State, Cells: []string{s.Path, s.Commit}}
		if s.Drifted() {
			row.Status = style.StatusAlert
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Checks lays out the doctor report
func Checks(checks []status.Check) *Document {
	t := Table{Title: "Doctor", Header: []string{"LEVEL", "CHECK", "MESSAGE"}}
	for _, c := range checks {
		t.Rows = append(t.Rows, Row{Status: LevelStatus(c.Level), Label: string(c.Level), Cells: []string{c.Name, c.Message}})
	}
	doc := &Document{Tables: []Table{t}}
	if status.Failed(checks) {
		doc.note("Some prerequisites are missing")
	}
	return doc
}

// Outcomes lays out the dependency installer results
func Outcomes(outcomes []pkgmgr.Outcome) Table {
	t := Table{Title: "Tools", Header: []string{"OUTCOME", "TOOL", "DETAIL"}}
	for _, o := range outcomes {
		detail := o.Version
		switch o.Kind {
		case pkgmgr.Installed, pkgmgr.WouldInstall:
			detail = o.Manager + " " + o.Package
		case pkgmgr.Failed:
			detail = o.Reason
		}
		t.Rows = append(t.Rows, Row{
			Status: OutcomeStatus(o.Kind),
			Label:  strings.ReplaceAll(string(o.Kind), "_", " "),
			Cells:  []string{o.Tool, strings.TrimSpace(detail)},
		})
	}
	return t
}

// CommandResult lays out the tool outcomes, the totals, the backup location
// and the failure summary of a workflow
func CommandResult(r *commands.Result) *Document {
	doc := &Document{}
	if len(r.Outcomes) > 0 {
		doc.Tables = append(doc.Tables, Outcomes(r.Outcomes))
	}

	verb := "Done"
	if r.Simulated {
		verb = "Simulated"
	}
	if counts := FormatCounts(r.Counts()); counts != "" {
		doc.note("%s %s: %s", verb, r.Command, counts)
	} else {
		doc.note("%s %s: nothing to do", verb, r.Command)
	}
	if record := r.Backup(); record != nil && record.Files() > 0 {
		doc.note("[backup]Backed up %d files[/backup] to %s", record.Files(), paths.Tilde(record.Root))
	}
	for _, f := range r.Summary.Failures {
		doc.note("[error]failed[/error] %s: %s", f.Step, f.Err)
	}
	return doc
}

// FormatCounts renders op counts sorted by op, skipping zeros
func FormatCounts(counts map[string]int) string {
	ops := make([]string, 0, len(counts))
	for op, n := range counts {
		if n > 0 {
			ops = append(ops, op)
		}
	}
	sort.Strings(ops)
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%d %s", counts[op], op)
	}
	return strings.Join(parts, ", ")
}

// History lays out journal entries, newest first as returned by the store
func History(entries []history.Entry) *Document {
	t := Table{Title: "History", Header: []string{"RESULT", "TIME", "COMMAND", "CHANGES"}}
	for _, e := range entries {
		row := Row{Status: style.StatusSuccess, Label: "ok"}
		switch {
		case e.Fatal != "":
			row.Status, row.Label = style.StatusError, "fatal"
		case !e.OK():
			row.Status, row.Label = style.StatusAlert, fmt.Sprintf("%d failed", len(e.Failures))
		}
		command := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
		row.Cells = []string{e.Time.Local().Format("2006-01-02 15:04:05"), command, FormatCounts(e.Counts)}
		t.Rows = append(t.Rows, row)
	}
	doc := &Document{Tables: []Table{t}}
	if len(entries) == 0 {
		doc.note("No runs recorded yet")
	}
	return doc
}

// WM lays out the compositor status
func WM(s *desktop.WMStatus) *Document {
	t := Table{Title: "Desktop", Header: []string{"STATE", "ITEM", "VALUE"}}
	compositor := Row{Status: style.StatusSuccess, Label: "running", Cells: []string{"compositor", s.Compositor}}
	if s.Compositor == desktop.None {
		compositor.Status, compositor.Label = style.StatusIgnored, "none"
	}
	t.Rows = append(t.Rows, compositor)
	if s.Workspace != "" {
		t.Rows = append(t.Rows, Row{Status: style.StatusSuccess, Label: "focused", Cells: []string{"workspace", fmt.Sprintf("%s (%d windows)", s.Workspace, s.Windows)}})
	}
	if s.Output != "" {
		t.Rows = append(t.Rows, Row{Status: style.StatusSuccess, Label: "focused", Cells: []string{"output", s.Output}})
	}
	swww := Row{Status: style.StatusSuccess, Label: "running", Cells: []string{"swww", "daemon answering"}}
	if !s.Swww {
		swww.Status, swww.Label, swww.Cells[1] = style.StatusAlert, "stopped", "daemon not answering"
	}
	t.Rows = append(t.Rows, swww)
	return &Document{Tables: []Table{t}}
}
