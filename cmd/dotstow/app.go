package dotstow

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arthur-debert/dotstow/pkg/commands"
	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/filesystem"
	"github.com/arthur-debert/dotstow/pkg/history"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/paths"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/probe"
	"github.com/arthur-debert/dotstow/pkg/runner"
	"github.com/arthur-debert/dotstow/pkg/ui"
	"github.com/arthur-debert/dotstow/pkg/ui/confirmations"
)

// Deps are the process-level collaborators. Tests swap them for fakes.
type Deps struct {
	Runner   func(dryRun bool, stdout, stderr io.Writer) runner.Runner
	Probe    func(r runner.Runner, osName platform.OS) probe.ToolProbe
	Platform func() (platform.Info, error)
	// Confirm and Choose default to promptui prompts on stdin/stderr
	Confirm func(question string) error
	Choose  func(label string, items []string) (int, error)
	Getenv  func(string) string
	Now     func() time.Time
}

// DefaultDeps are the real collaborators
func DefaultDeps() Deps {
	return Deps{
		Runner: func(dryRun bool, stdout, stderr io.Writer) runner.Runner {
			return runner.New(dryRun, stdout, stderr)
		},
		Probe: func(r runner.Runner, osName platform.OS) probe.ToolProbe {
			return probe.New(r, osName)
		},
		Platform: platform.Detect,
		Getenv:   os.Getenv,
	}
}

// flags are the global flag values
type flags struct {
	verbosity   int
	dotfiles    string
	target      string
	format      string
	simulate    bool
	interactive bool
	backend     string
}

// app is one CLI invocation: its streams, flags and lazily built
// collaborators
type app struct {
	deps   Deps
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	flags  flags
	// args are the raw arguments, kept for the journal
	args []string

	format   ui.Format
	renderer ui.Renderer
	journal  *history.Store
}

func newApp(deps Deps, stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{deps: deps, stdin: stdin, stdout: stdout, stderr: stderr}
}

// setup runs before every command: logging, then the output renderer
func (a *app) setup() error {
	logging.SetupLoggerWithWriter(a.flags.verbosity, a.stderr)

	format, err := ui.ParseFormat(a.flags.format)
	if err != nil {
		return err
	}
	a.format = format
	a.renderer, err = ui.NewRenderer(format, a.stdout)
	return err
}

// output returns the renderer, falling back to text when setup did not run
// (cobra usage errors happen before PersistentPreRun)
func (a *app) output() ui.Renderer {
	if a.renderer == nil {
		a.renderer, _ = ui.NewRenderer(ui.FormatText, a.stdout)
	}
	return a.renderer
}

func (a *app) errOutput() ui.Renderer {
	r, err := ui.NewRenderer(a.format, a.stderr)
	if err != nil {
		r, _ = ui.NewRenderer(ui.FormatText, a.stderr)
	}
	return r
}

func (a *app) paths() (paths.Paths, error) {
	p, err := paths.New(a.flags.dotfiles, a.flags.target)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() && !a.format.Structured() {
		fmt.Fprintf(a.stderr, MsgFallbackWarning, paths.Tilde(p.DotfilesRoot()))
	}
	return p, nil
}

func (a *app) config(p paths.Paths) (*config.Config, error) {
	overrides := map[string]interface{}{}
	if a.flags.backend != "" {
		overrides["link.backend"] = a.flags.backend
	}
	return config.Load(config.Sources{
		UserFile:  p.UserConfigPath(),
		RepoFile:  p.RepoConfigPath(),
		Overrides: overrides,
	})
}

// platform classifies the running system. Doctor reports a failure;
// everything else treats it as fatal.
func (a *app) platform() (platform.Info, error) {
	return a.deps.Platform()
}

// env builds the collaborators for a workflow or query. journal opens the
// run history for live runs.
func (a *app) env(info platform.Info, journal bool) (*commands.Env, error) {
	p, err := a.paths()
	if err != nil {
		return nil, err
	}
	cfg, err := a.config(p)
	if err != nil {
		return nil, err
	}

	r := a.deps.Runner(a.flags.simulate, a.stderr, a.stderr)
	env := &commands.Env{
		FS:       filesystem.NewOS(),
		Paths:    p,
		Config:   cfg,
		Platform: info,
		Runner:   r,
		Probe:    a.deps.Probe(r, info.OS),
		Confirm:  a.confirm,
		Progress: ui.SpinnerProgress(a.stderr, a.animate()),
		Now:      a.deps.Now,
	}
	if !a.format.Structured() {
		env.Observer = a.observe
	}

	if journal && !a.flags.simulate && cfg.History.Enabled {
		store, err := history.Open(a.historyPath(p, cfg))
		if err != nil {
			logger := logging.GetLogger("cli")
			logger.Warn().Err(err).Msg("History disabled for this run")
		} else {
			a.journal = store
			env.Journal = store
		}
	}
	return env, nil
}

func (a *app) now() time.Time {
	if a.deps.Now != nil {
		return a.deps.Now()
	}
	return time.Now()
}

func (a *app) historyPath(p paths.Paths, cfg *config.Config) string {
	if cfg.History.Path != "" {
		return paths.ExpandHome(cfg.History.Path)
	}
	return p.HistoryPath()
}

// observe prints decisions as they are planned. Skips only show with -v.
func (a *app) observe(d linker.Decision) {
	if d.Op == linker.OpSkip && a.flags.verbosity == 0 {
		return
	}
	_ = a.output().RenderDecision(d)
}

func (a *app) animate() bool {
	f, ok := a.stderr.(*os.File)
	return ok && a.format != ui.FormatText && ui.DetectFormat(f) == ui.FormatTerminal
}

func (a *app) console() *confirmations.Console {
	c := confirmations.NewConsole()
	if a.stdin != nil {
		c.Stdin = io.NopCloser(a.stdin)
	}
	c.Stdout = nopWriteCloser{a.stderr}
	return c
}

func (a *app) confirm(question string) error {
	if a.deps.Confirm != nil {
		return a.deps.Confirm(question)
	}
	return a.console().Confirm(question)
}

func (a *app) choose(label string, items []string) (int, error) {
	if a.deps.Choose != nil {
		return a.deps.Choose(label, items)
	}
	return a.console().Choose(label, items)
}

func (a *app) close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logger := logging.GetLogger("cli")
			logger.Warn().Err(err).Msg("Failed to close history")
		}
		a.journal = nil
	}
}

// dispatch runs one workflow and renders its result. Fatal errors are
// returned after the partial result is shown.
func (a *app) dispatch(ctx context.Context, cmd commands.CommandType, opts commands.Options) error {
	info, err := a.platform()
	if err != nil {
		return err
	}
	env, err := a.env(info, true)
	if err != nil {
		return err
	}

	opts.Simulate = a.flags.simulate
	opts.Interactive = a.flags.interactive
	opts.Backend = a.flags.backend
	opts.Args = a.args

	result, err := commands.Dispatch(ctx, env, cmd, opts)
	if err != nil && errors.IsCancelled(err) {
		return err
	}
	if rerr := a.output().RenderResult(result); rerr != nil {
		return rerr
	}
	if err == nil && opts.Simulate && !a.format.Structured() {
		_ = a.output().RenderMessage(MsgSimulateNotice)
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
