// Package commands provides the high-level workflows behind the CLI.
//
// Each mutating command (install, uninstall, restow, stow-app, ...) is a
// sequence of steps over the linker and the dependency installer. Fatal
// errors abort the sequence; recoverable step failures are collected into
// the result's summary and the remaining steps still run. Live runs are
// appended to the history journal.
package commands

import (
	"context"
	"time"

	"github.com/arthur-debert/dotstow/pkg/backup"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/pkgmgr"
)

// CommandType names a workflow
type CommandType string

const (
	CommandInstall    CommandType = "install"
	CommandUninstall  CommandType = "uninstall"
	CommandRestow     CommandType = "restow"
	CommandStowApp    CommandType = "stow-app"
	CommandUnstowApp  CommandType = "unstow-app"
	CommandAdopt      CommandType = "adopt"
	CommandBackup     CommandType = "backup"
	CommandCleanup    CommandType = "cleanup"
	CommandTools      CommandType = "tools"
	CommandFonts      CommandType = "fonts"
	CommandFish       CommandType = "fish"
	CommandZellij     CommandType = "zellij"
	CommandK9s        CommandType = "k9s"
	CommandMCP        CommandType = "mcp"
	CommandSubmodules CommandType = "submodules"
)

// Options contains all possible options for the workflows. Each command
// uses only the fields it needs.
type Options struct {
	// Common fields
	Simulate    bool
	Interactive bool
	Backend     string
	// Args are the raw CLI arguments, kept for the journal.
	Args []string

	// install, stow-app
	NoBackup bool
	Adopt    bool

	// install
	WithTools  bool
	UpdateSubs bool

	// uninstall, stow-app, unstow-app, adopt
	App string

	// submodules
	Remote bool
}

// Result is the outcome of one workflow
type Result struct {
	Command   CommandType      `json:"command" yaml:"command"`
	Simulated bool             `json:"simulated" yaml:"simulated"`
	Links     []*linker.Report `json:"links,omitempty" yaml:"links,omitempty"`
	Outcomes  []pkgmgr.Outcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	Summary   errors.Summary   `json:"summary" yaml:"summary"`
}

// Counts tallies the decisions of every linker run by op
func (r *Result) Counts() map[string]int {
	plan := &linker.Plan{}
	for _, report := range r.Links {
		if report != nil {
			plan.Merge(report.Plan)
		}
	}
	return plan.CountsByName()
}

// Backup returns the backup record created by the run, if any
func (r *Result) Backup() *backup.Record {
	for _, report := range r.Links {
		if report != nil && report.Backup != nil {
			return report.Backup
		}
	}
	return nil
}

func (r *Result) addLink(report *linker.Report) {
	if report != nil {
		r.Links = append(r.Links, report)
	}
}

// Dispatch runs the workflow for cmd. The returned result is never nil, so
// callers can render partial progress next to a fatal error.
func Dispatch(ctx context.Context, env *Env, cmd CommandType, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands")
	logger.Debug().
		Str("command", string(cmd)).
		Str("app", opts.App).
		Bool("simulate", opts.Simulate).
		Bool("interactive", opts.Interactive).
		Msg("Dispatching command")

	result := &Result{Command: cmd, Simulated: opts.Simulate}
	began := time.Now()
	started := env.now()

	var err error
	switch cmd {
	case CommandInstall:
		err = install(ctx, env, opts, result)
	case CommandUninstall:
		err = uninstall(ctx, env, opts, result)
	case CommandRestow:
		err = restow(ctx, env, opts, result)
	case CommandStowApp:
		err = stowApp(ctx, env, opts, result)
	case CommandAdopt:
		opts.Adopt = true
		err = stowApp(ctx, env, opts, result)
	case CommandUnstowApp:
		err = unstowApp(ctx, env, opts, result)
	case CommandBackup:
		err = backupOnly(ctx, env, opts, result)
	case CommandCleanup:
		err = cleanup(ctx, env, opts, result)
	case CommandTools, CommandFonts, CommandMCP:
		err = ensureGroup(ctx, env, string(cmd), result)
	case CommandFish, CommandZellij, CommandK9s:
		err = ensureTool(ctx, env, string(cmd), result)
	case CommandSubmodules:
		err = submodules(ctx, env, opts.Remote, &result.Summary)
	default:
		err = errors.Newf(errors.ErrInvalidInput, "unknown command %q", cmd)
	}

	if errors.IsCancelled(err) {
		logger.Info().Str("command", string(cmd)).Msg("Cancelled by user")
		return result, err
	}
	if err != nil && !errors.IsFatal(err) {
		result.Summary.Record(string(cmd), err)
		err = nil
	}
	if !opts.Simulate {
		env.record(started, result, opts.Args, err)
	}

	logger.Info().
		Str("command", string(cmd)).
		Dur("duration", time.Since(began)).
		Int("failures", len(result.Summary.Failures)).
		Msg("Command finished")
	return result, err
}
