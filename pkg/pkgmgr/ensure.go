package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/probe"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

// OutcomeKind is how an ensure-present operation ended
type OutcomeKind string

const (
	AlreadyPresent OutcomeKind = "already_present"
	Installed      OutcomeKind = "installed"
	WouldInstall   OutcomeKind = "would_install"
	Failed         OutcomeKind = "failed"
)

// Outcome of ensuring one tool
type Outcome struct {
	Tool    string      `json:"tool" yaml:"tool"`
	Kind    OutcomeKind `json:"outcome" yaml:"outcome"`
	Version string      `json:"version,omitempty" yaml:"version,omitempty"`
	Manager string      `json:"manager,omitempty" yaml:"manager,omitempty"`
	Package string      `json:"package,omitempty" yaml:"package,omitempty"`
	Reason  string      `json:"reason,omitempty" yaml:"reason,omitempty"`
}

func (o Outcome) String() string {
	switch o.Kind {
	case AlreadyPresent:
		if o.Version != "" {
			return fmt.Sprintf("%s already present (%s)", o.Tool, o.Version)
		}
		return o.Tool + " already present"
	case Installed:
		return fmt.Sprintf("%s installed with %s", o.Tool, o.Manager)
	case WouldInstall:
		return fmt.Sprintf("%s would be installed with %s (%s)", o.Tool, o.Manager, o.Package)
	default:
		return fmt.Sprintf("%s failed: %s", o.Tool, o.Reason)
	}
}

// Progress wraps a long running install. The returned func is called with
// the install's result.
type Progress func(message string) func(err error)

// Deps are the collaborators of an Installer
type Deps struct {
	Runner   runner.Runner
	Probe    probe.ToolProbe
	OS       platform.OS
	Config   *config.Config
	Progress Progress
}

// Installer ensures configured tools are present
type Installer struct {
	logger   zerolog.Logger
	runner   runner.Runner
	probe    probe.ToolProbe
	os       platform.OS
	cfg      *config.Config
	progress Progress
}

// New creates an Installer
func New(deps Deps) *Installer {
	progress := deps.Progress
	if progress == nil {
		progress = func(string) func(error) { return func(error) {} }
	}
	return &Installer{
		logger:   logging.GetLogger("pkgmgr"),
		runner:   deps.Runner,
		probe:    deps.Probe,
		os:       deps.OS,
		cfg:      deps.Config,
		progress: progress,
	}
}

// Available returns the managers from the OS priority list found on PATH
func (i *Installer) Available() []*Manager {
	var out []*Manager
	for _, name := range i.cfg.ManagerPriority(string(i.os)) {
		m, ok := Lookup(name)
		if !ok {
			i.logger.Warn().Str("manager", name).Msg("Unknown package manager in priority list")
			continue
		}
		if runner.Available(i.runner, m.Binary()) {
			out = append(out, m)
		}
	}
	return out
}

// Select picks the manager and package name for a tool. A pinned manager
// must be on PATH; otherwise the first available manager that carries the
// tool wins. No manager at all is fatal.
func (i *Installer) Select(name string, tool config.Tool) (*Manager, string, error) {
	if tool.Manager != "" {
		m, ok := Lookup(tool.Manager)
		if !ok {
			return nil, "", errors.Newf(errors.ErrConfigValid, "tool %s pins unknown manager %q", name, tool.Manager)
		}
		if !runner.Available(i.runner, m.Binary()) {
			return nil, "", errors.Newf(errors.ErrDependencyMissing, "%s needs %s, which is not installed", name, m.Binary()).
				WithDetail("tool", name)
		}
		pkg, ok := tool.PackageFor(m.Name(), name)
		if !ok {
			return nil, "", errors.Newf(errors.ErrToolInstall, "%s is not available through %s", name, m.Name())
		}
		return m, pkg, nil
	}

	available := i.Available()
	if len(available) == 0 {
		return nil, "", errors.Newf(errors.ErrNoPackageManager,
			"no supported package manager found (tried %s); install %s manually",
			strings.Join(i.cfg.ManagerPriority(string(i.os)), ", "), name).
			WithDetail("tool", name)
	}
	for _, m := range available {
		if pkg, ok := tool.PackageFor(m.Name(), name); ok {
			return m, pkg, nil
		}
	}
	return nil, "", errors.Newf(errors.ErrToolInstall, "%s has no package for the available managers", name).
		WithDetail("tool", name)
}

// Present probes for the tool without installing anything
func (i *Installer) Present(ctx context.Context, name string, tool config.Tool) (bool, string) {
	if tool.Font != "" {
		ok, err := i.probe.Font(ctx, tool.Font)
		if err != nil {
			i.logger.Warn().Err(err).Str("font", tool.Font).Msg("Font index unavailable")
		}
		return ok, ""
	}
	res := i.probe.Binary(ctx, name, tool.Binaries...)
	return res.Present, res.Version
}

// EnsureTool installs a tool unless it is already present. Fatal errors
// (no package manager) are returned as errors; install failures are
// returned as a Failed outcome plus a recoverable error.
func (i *Installer) EnsureTool(ctx context.Context, name string) (Outcome, error) {
	out := Outcome{Tool: name}
	tool, err := i.cfg.Tool(name)
	if err != nil {
		out.Kind, out.Reason = Failed, err.Error()
		return out, err
	}

	if ok, version := i.Present(ctx, name, tool); ok {
		out.Kind, out.Version = AlreadyPresent, version
		i.logger.Debug().Str("tool", name).Str("version", version).Msg("Tool already present")
		return out, nil
	}

	m, pkg, err := i.Select(name, tool)
	if err != nil {
		out.Kind, out.Reason = Failed, err.Error()
		return out, err
	}
	out.Manager, out.Package = m.Name(), pkg

	args := m.InstallArgs(pkg)
	logging.LogCommand(i.logger, m.Binary(), args)
	if i.runner.DryRun() {
		_ = i.run(ctx, m, args)
		out.Kind = WouldInstall
		return out, nil
	}

	done := i.progress(fmt.Sprintf("Installing %s with %s", name, m.Name()))
	err = i.run(ctx, m, args)
	done(err)
	if err != nil {
		out.Kind, out.Reason = Failed, err.Error()
		return out, errors.Wrapf(err, errors.ErrToolInstall, "failed to install %s", name).
			WithDetail("tool", name).
			WithDetail("command", m.Command(pkg))
	}

	out.Kind = Installed
	i.logger.Info().Str("tool", name).Str("manager", m.Name()).Str("package", pkg).Msg("Installed tool")
	return out, nil
}

func (i *Installer) run(ctx context.Context, m *Manager, args []string) error {
	if m.NeedsSudo() {
		return i.runner.RunSudo(ctx, m.Binary(), args...)
	}
	return i.runner.Run(ctx, m.Binary(), args...)
}

// EnsureTools ensures every named tool in order. Recoverable failures are
// recorded in summary and the loop continues; a fatal error stops it.
func (i *Installer) EnsureTools(ctx context.Context, names []string, summary *errors.Summary) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(names))
	for _, name := range names {
		out, err := i.EnsureTool(ctx, name)
		outcomes = append(outcomes, out)
		if err == nil {
			continue
		}
		if errors.IsFatal(err) {
			return outcomes, err
		}
		i.logger.Warn().Err(err).Str("tool", name).Msg("Tool step failed, continuing")
		summary.Record("tool "+name, err)
	}
	return outcomes, nil
}

// EnsureGroup ensures every tool of a configured group
func (i *Installer) EnsureGroup(ctx context.Context, group string, summary *errors.Summary) ([]Outcome, error) {
	names, err := i.cfg.Group(group)
	if err != nil {
		return nil, err
	}
	return i.EnsureTools(ctx, names, summary)
}
