package commands

import (
	"time"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/backup"
	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/filesystem"
	"github.com/arthur-debert/dotstow/pkg/history"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/packages"
	"github.com/arthur-debert/dotstow/pkg/paths"
	"github.com/arthur-debert/dotstow/pkg/pkgmgr"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/probe"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

// Journal stores one entry per live run. *history.Store implements it.
type Journal interface {
	Record(entry history.Entry) error
}

// Env carries the collaborators every workflow runs against. It replaces
// ambient globals: the CLI builds one per invocation.
type Env struct {
	FS       afero.Fs
	Paths    paths.Paths
	Config   *config.Config
	Platform platform.Info
	Runner   runner.Runner
	Probe    probe.ToolProbe

	// Confirm asks a yes/no question and returns a CANCELLED error when
	// the answer is no. Required for interactive runs.
	Confirm func(question string) error
	// Progress wraps package manager installs, usually with a spinner.
	Progress pkgmgr.Progress
	// Observer receives every link decision as it is planned.
	Observer func(linker.Decision)
	// Journal records live runs; nil disables the journal.
	Journal Journal
	// Now defaults to time.Now.
	Now func() time.Time

	layout *packages.Layout
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Layout enumerates the active packages once and caches the result.
// A missing package directory is a fatal PACKAGE_NOT_FOUND.
func (e *Env) Layout() (*packages.Layout, error) {
	if e.layout != nil {
		return e.layout, nil
	}
	layout, err := packages.Load(e.FS, e.Paths.DotfilesRoot(), e.Paths.TargetDir(),
		e.Config.ActivePackages(string(e.Platform.OS)), e.Config.Link)
	if err != nil {
		return nil, err
	}
	e.layout = layout
	return layout, nil
}

// reset drops the cached layout; adopt changes package contents.
func (e *Env) reset() {
	e.layout = nil
}

// Linker builds a linker over the current layout
func (e *Env) Linker() (*linker.Linker, error) {
	layout, err := e.Layout()
	if err != nil {
		return nil, err
	}
	backups := backup.New(e.FS, e.Paths.TargetDir(), e.Config.Backup)
	if e.Now != nil {
		backups = backups.WithClock(e.Now)
	}
	return linker.New(linker.Deps{
		FS:      e.FS,
		Layout:  layout,
		Backups: backups,
		Runner:  e.Runner,
		Config:  e.Config,
	}), nil
}

// Installer builds the dependency installer
func (e *Env) Installer() *pkgmgr.Installer {
	return pkgmgr.New(pkgmgr.Deps{
		Runner:   e.Runner,
		Probe:    e.Probe,
		OS:       e.Platform.OS,
		Config:   e.Config,
		Progress: e.Progress,
	})
}

// linkOptions turns workflow options into linker options
func (e *Env) linkOptions(opts Options, link linker.LinkOptions) linker.Options {
	return linker.Options{
		LinkOptions: link,
		Simulate:    opts.Simulate,
		Backend:     opts.Backend,
		Observer:    e.Observer,
	}
}

// checkTarget is the write-permission precondition of every link command
func (e *Env) checkTarget() error {
	return filesystem.Writable(e.FS, e.Paths.TargetDir())
}

// confirm asks when the run is interactive and live
func (e *Env) confirm(opts Options, question string) error {
	if !opts.Interactive || opts.Simulate {
		return nil
	}
	if e.Confirm == nil {
		return errors.New(errors.ErrInternal, "interactive run without a prompt")
	}
	return e.Confirm(question)
}

func (e *Env) record(started time.Time, result *Result, args []string, fatal error) {
	if e.Journal == nil {
		return
	}
	entry := history.Entry{
		Time:    started,
		Command: string(result.Command),
		Args:    args,
		Counts:  result.Counts(),
	}
	if record := result.Backup(); record != nil {
		entry.Backup = record.Root
	}
	for _, f := range result.Summary.Failures {
		entry.Failures = append(entry.Failures, f.Step+": "+f.Err)
	}
	if fatal != nil {
		entry.Fatal = fatal.Error()
	}
	if err := e.Journal.Record(entry); err != nil {
		logger := logging.GetLogger("commands")
		logger.Warn().Err(err).Msg("Failed to write history entry")
	}
}
