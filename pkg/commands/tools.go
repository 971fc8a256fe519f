package commands

import (
	"context"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

func ensureGroup(ctx context.Context, env *Env, group string, result *Result) error {
	outcomes, err := env.Installer().EnsureGroup(ctx, group, &result.Summary)
	result.Outcomes = append(result.Outcomes, outcomes...)
	return err
}

func ensureTool(ctx context.Context, env *Env, name string, result *Result) error {
	outcomes, err := env.Installer().EnsureTools(ctx, []string{name}, &result.Summary)
	result.Outcomes = append(result.Outcomes, outcomes...)
	return err
}

// submodules initializes the dotfiles checkout's submodules, pulling their
// upstream heads when remote is set. Failures are recoverable.
func submodules(ctx context.Context, env *Env, remote bool, summary *errors.Summary) error {
	if !runner.Available(env.Runner, "git") {
		summary.Record("submodules", errors.New(errors.ErrDependencyMissing, "git is not installed"))
		return nil
	}
	args := []string{"-C", env.Paths.DotfilesRoot(), "submodule", "update", "--init", "--recursive"}
	if remote {
		args = append(args, "--remote")
	}
	if err := env.Runner.Run(ctx, "git", args...); err != nil {
		summary.Record("submodules", err)
	}
	return nil
}
