// Package linker plans and applies the symlinks between package files and
// the target directory. Every operation first builds a decision plan, which
// simulate runs print and live runs apply through the native synthfs
// executor or GNU Stow.
package linker

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/backup"
	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/linkstate"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/packages"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

// Deps are the collaborators a Linker needs
type Deps struct {
	FS      afero.Fs
	Layout  *packages.Layout
	Backups *backup.Manager
	Runner  runner.Runner
	Config  *config.Config
}

// Options control one linker run
type Options struct {
	LinkOptions
	// Simulate plans and reports without touching the filesystem.
	Simulate bool
	// Backend overrides config link.backend for this run.
	Backend string
	// Observer receives every decision in plan order, before anything is
	// applied.
	Observer func(Decision)
}

// Report is the outcome of one linker run
type Report struct {
	Plan      *Plan          `json:"plan" yaml:"plan"`
	Backup    *backup.Record `json:"backup,omitempty" yaml:"backup,omitempty"`
	Backend   string         `json:"backend" yaml:"backend"`
	Simulated bool           `json:"simulated" yaml:"simulated"`
	Results   []Result       `json:"results,omitempty" yaml:"results,omitempty"`
}

// Linker links, unlinks and cleans up package units
type Linker struct {
	logger     zerolog.Logger
	fs         afero.Fs
	layout     *packages.Layout
	classifier *linkstate.Classifier
	backups    *backup.Manager
	runner     runner.Runner
	cfg        *config.Config
	native     *NativeExecutor
}

// New creates a Linker over an enumerated layout
func New(deps Deps) *Linker {
	return &Linker{
		logger:     logging.GetLogger("linker"),
		fs:         deps.FS,
		layout:     deps.Layout,
		classifier: linkstate.NewClassifier(deps.FS, deps.Layout.Root, deps.Layout.Target),
		backups:    deps.Backups,
		runner:     deps.Runner,
		cfg:        deps.Config,
		native:     NewNativeExecutor(deps.FS),
	}
}

// Classifier exposes the link classifier for status reporting
func (l *Linker) Classifier() *linkstate.Classifier {
	return l.classifier
}

// ResolveBackend turns a requested backend ("" means the configured one)
// into stow or native. auto picks stow when it is on PATH.
func (l *Linker) ResolveBackend(requested string) (string, error) {
	if requested == "" {
		requested = l.cfg.Link.Backend
	}
	switch requested {
	case config.BackendNative:
		return config.BackendNative, nil
	case config.BackendStow:
		if !runner.Available(l.runner, "stow") {
			return "", errors.New(errors.ErrDependencyMissing, "link backend stow requested but stow is not installed")
		}
		return config.BackendStow, nil
	case config.BackendAuto, "":
		if runner.Available(l.runner, "stow") {
			return config.BackendStow, nil
		}
		return config.BackendNative, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown link backend %q", requested)
	}
}

// units returns the units of the named packages, or of every active package
// when names is empty.
func (l *Linker) units(names []string) ([]packages.Unit, error) {
	if len(names) == 0 {
		return l.layout.Units, nil
	}
	var units []packages.Unit
	for _, name := range names {
		if !l.layout.Active(name) {
			return nil, errors.Newf(errors.ErrPackageNotFound, "package %s is not active", name).
				WithDetail("package", name)
		}
		units = append(units, l.layout.PackageUnits(name)...)
	}
	return units, nil
}

func (l *Linker) packageNames(names []string) []string {
	if len(names) == 0 {
		return l.layout.PackageNames()
	}
	return names
}

func emit(plan *Plan, observer func(Decision)) {
	if observer == nil {
		return
	}
	for _, d := range plan.Decisions {
		observer(d)
	}
}

func conflictError(conflicts []Decision) error {
	targets := make([]string, 0, len(conflicts))
	for _, d := range conflicts {
		targets = append(targets, d.Target)
	}
	return errors.Newf(errors.ErrLinkConflict,
		"%d real file(s) in the way: %s (use --backup or --adopt)", len(targets), strings.Join(targets, ", ")).
		WithDetail("targets", targets)
}

// Link links the named packages, every active package when names is empty.
// Conflicts abort the run before anything changes.
func (l *Linker) Link(ctx context.Context, names []string, opts Options) (*Report, error) {
	units, err := l.units(names)
	if err != nil {
		return nil, err
	}
	return l.link(ctx, units, l.packageNames(names), opts, true)
}

// LinkApp links the units of one application. It always uses the native
// backend so packages outside the app are left alone.
func (l *Linker) LinkApp(ctx context.Context, name string, opts Options) (*Report, error) {
	app, err := l.resolveApp(name)
	if err != nil {
		return nil, err
	}
	report, err := l.link(ctx, app.Units, nil, opts, false)
	if report != nil {
		l.missingWarnings(report.Plan, app, opts.Observer)
	}
	return report, err
}

func (l *Linker) link(ctx context.Context, units []packages.Unit, pkgs []string, opts Options, allowStow bool) (*Report, error) {
	defer logging.LogOperationStart(l.logger, "link")()

	backend := config.BackendNative
	if allowStow {
		var err error
		if backend, err = l.ResolveBackend(opts.Backend); err != nil {
			return nil, err
		}
	}

	plan := l.PlanLink(units, opts.LinkOptions)
	if backend == config.BackendStow {
		if anc := plan.Through(); len(anc) > 0 {
			// stow reports a conflict on directory symlinks it does not own
			l.logger.Warn().Strs("through", anc).Msg("Linking natively through foreign directory symlinks")
			backend = config.BackendNative
		}
	}
	report := &Report{Plan: plan, Backend: backend, Simulated: opts.Simulate}
	emit(plan, opts.Observer)

	if conflicts := plan.Conflicts(); len(conflicts) > 0 {
		return report, conflictError(conflicts)
	}
	if opts.Simulate || !plan.Mutating() {
		return report, nil
	}

	if targets := plan.Targets(OpBackup); len(targets) > 0 {
		record, err := l.backups.BackupConflicts(targets)
		report.Backup = record
		if err != nil {
			return report, err
		}
	}

	var err error
	if backend == config.BackendStow {
		report.Results, err = l.stowLink(ctx, plan, pkgs)
	} else {
		report.Results, err = l.native.Execute(ctx, plan.Decisions)
	}
	if err != nil {
		return report, err
	}

	l.logger.Info().
		Str("backend", backend).
		Interface("counts", plan.CountsByName()).
		Msg("Link complete")
	return report, nil
}

// Unlink removes the managed links of the named packages, every active
// package when names is empty. Real files and foreign symlinks are never
// touched.
func (l *Linker) Unlink(ctx context.Context, names []string, opts Options) (*Report, error) {
	defer logging.LogOperationStart(l.logger, "unlink")()

	units, err := l.units(names)
	if err != nil {
		return nil, err
	}
	backend, err := l.ResolveBackend(opts.Backend)
	if err != nil {
		return nil, err
	}

	plan := l.PlanUnlink(units, true)
	report := &Report{Plan: plan, Backend: backend, Simulated: opts.Simulate}
	emit(plan, opts.Observer)
	if opts.Simulate || !plan.Mutating() {
		return report, nil
	}

	if backend == config.BackendStow {
		report.Results, err = l.stowUnlink(ctx, units, l.packageNames(names))
		return report, err
	}
	report.Results, err = l.native.Execute(ctx, plan.Decisions)
	return report, err
}

// UnlinkApp removes the managed links of one application. A folded parent
// directory shared with other apps is left in place.
func (l *Linker) UnlinkApp(ctx context.Context, name string, opts Options) (*Report, error) {
	defer logging.LogOperationStart(l.logger, "unlink-app")()

	app, err := l.resolveApp(name)
	if err != nil {
		return nil, err
	}
	plan := l.PlanUnlink(app.Units, false)
	l.missingWarnings(plan, app, nil)
	report := &Report{Plan: plan, Backend: config.BackendNative, Simulated: opts.Simulate}
	emit(plan, opts.Observer)
	if opts.Simulate || !plan.Mutating() {
		return report, nil
	}
	report.Results, err = l.native.Execute(ctx, plan.Decisions)
	return report, err
}

// BackupOnly copies the real files the named packages would replace,
// without linking anything.
func (l *Linker) BackupOnly(ctx context.Context, names []string, opts Options) (*Report, error) {
	units, err := l.units(names)
	if err != nil {
		return nil, err
	}
	full := l.PlanLink(units, LinkOptions{Backup: true})
	plan := &Plan{Decisions: full.Filter(OpBackup)}
	report := &Report{Plan: plan, Backend: config.BackendNative, Simulated: opts.Simulate}
	emit(plan, opts.Observer)
	if opts.Simulate || len(plan.Decisions) == 0 {
		return report, nil
	}
	report.Backup, err = l.backups.BackupConflicts(plan.Targets(OpBackup))
	return report, err
}

func (l *Linker) resolveApp(name string) (packages.App, error) {
	appCfg, err := l.cfg.App(name)
	if err != nil {
		return packages.App{}, err
	}
	app := l.layout.ResolveApp(name, appCfg)
	if !app.Present() && len(app.Missing) == 0 {
		l.logger.Info().Str("app", name).Msg("App has no paths on this platform")
	}
	return app, nil
}

// missingWarnings appends a warn decision per configured app path that does
// not exist. When observer is set the new decisions are reported too.
func (l *Linker) missingWarnings(plan *Plan, app packages.App, observer func(Decision)) {
	for _, p := range app.Missing {
		d := Decision{Op: OpWarn, Target: p, Reason: "path missing from dotfiles"}
		plan.add(d)
		if observer != nil {
			observer(d)
		}
	}
}
