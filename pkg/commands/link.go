package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/linker"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/paths"
)

// install: optional submodule update, make sure stow is there when it will
// be used, link every active package (backing up real files unless told
// not to), then the optional tool group.
func install(ctx context.Context, env *Env, opts Options, result *Result) error {
	logger := logging.GetLogger("commands.install")

	if err := env.checkTarget(); err != nil {
		return err
	}
	layout, err := env.Layout()
	if err != nil {
		return err
	}

	if opts.UpdateSubs {
		if err := submodules(ctx, env, true, &result.Summary); err != nil {
			return err
		}
	}

	if err := ensureStow(ctx, env, opts, result); err != nil {
		return err
	}

	question := fmt.Sprintf("Link %s into %s?", strings.Join(layout.PackageNames(), ", "), paths.Tilde(layout.Target))
	if err := env.confirm(opts, question); err != nil {
		return err
	}

	l, err := env.Linker()
	if err != nil {
		return err
	}
	report, err := l.Link(ctx, nil, env.linkOptions(opts, linker.LinkOptions{Backup: !opts.NoBackup, Adopt: opts.Adopt}))
	result.addLink(report)
	if err != nil {
		return err
	}
	if opts.Adopt {
		env.reset()
	}

	if opts.WithTools {
		outcomes, err := env.Installer().EnsureGroup(ctx, "tools", &result.Summary)
		result.Outcomes = append(result.Outcomes, outcomes...)
		if err != nil {
			return err
		}
	}

	logger.Info().Interface("counts", result.Counts()).Msg("Install finished")
	return nil
}

// ensureStow installs GNU Stow when the configured backend wants it. With
// the auto backend any failure only means the native backend is used.
func ensureStow(ctx context.Context, env *Env, opts Options, result *Result) error {
	backend := opts.Backend
	if backend == "" {
		backend = env.Config.Link.Backend
	}
	if backend == config.BackendNative {
		return nil
	}

	outcome, err := env.Installer().EnsureTool(ctx, "stow")
	result.Outcomes = append(result.Outcomes, outcome)
	if err == nil {
		return nil
	}
	if backend == config.BackendStow && errors.IsFatal(err) {
		return err
	}
	result.Summary.Record("tool stow", err)
	return nil
}

// uninstall removes the links of one app, or of every active package
func uninstall(ctx context.Context, env *Env, opts Options, result *Result) error {
	if opts.App != "" {
		return unstowApp(ctx, env, opts, result)
	}

	layout, err := env.Layout()
	if err != nil {
		return err
	}
	question := fmt.Sprintf("Remove the links of %s from %s?", strings.Join(layout.PackageNames(), ", "), paths.Tilde(layout.Target))
	if err := env.confirm(opts, question); err != nil {
		return err
	}

	l, err := env.Linker()
	if err != nil {
		return err
	}
	report, err := l.Unlink(ctx, nil, env.linkOptions(opts, linker.LinkOptions{}))
	result.addLink(report)
	return err
}

// restow unlinks and relinks every active package without taking backups.
// An unlink that only partly succeeded does not stop the relink.
func restow(ctx context.Context, env *Env, opts Options, result *Result) error {
	if err := env.checkTarget(); err != nil {
		return err
	}
	l, err := env.Linker()
	if err != nil {
		return err
	}
	if err := env.confirm(opts, "Unlink and relink every package?"); err != nil {
		return err
	}

	lopts := env.linkOptions(opts, linker.LinkOptions{})
	report, err := l.Unlink(ctx, nil, lopts)
	result.addLink(report)
	if err != nil {
		if errors.IsFatal(err) {
			return err
		}
		result.Summary.Record("unlink", err)
	}

	report, err = l.Link(ctx, nil, lopts)
	result.addLink(report)
	return err
}

func requireApp(opts Options) error {
	if opts.App == "" {
		return errors.New(errors.ErrInvalidInput, "an app name is required")
	}
	return nil
}

// stowApp links one app; adopt moves real files into the package first
func stowApp(ctx context.Context, env *Env, opts Options, result *Result) error {
	if err := requireApp(opts); err != nil {
		return err
	}
	if err := env.checkTarget(); err != nil {
		return err
	}
	l, err := env.Linker()
	if err != nil {
		return err
	}
	if err := env.confirm(opts, fmt.Sprintf("Link %s?", opts.App)); err != nil {
		return err
	}
	report, err := l.LinkApp(ctx, opts.App, env.linkOptions(opts, linker.LinkOptions{Backup: !opts.NoBackup, Adopt: opts.Adopt}))
	result.addLink(report)
	if opts.Adopt {
		env.reset()
	}
	return err
}

func unstowApp(ctx context.Context, env *Env, opts Options, result *Result) error {
	if err := requireApp(opts); err != nil {
		return err
	}
	l, err := env.Linker()
	if err != nil {
		return err
	}
	if err := env.confirm(opts, fmt.Sprintf("Remove the links of %s?", opts.App)); err != nil {
		return err
	}
	report, err := l.UnlinkApp(ctx, opts.App, env.linkOptions(opts, linker.LinkOptions{}))
	result.addLink(report)
	return err
}

func backupOnly(ctx context.Context, env *Env, opts Options, result *Result) error {
	l, err := env.Linker()
	if err != nil {
		return err
	}
	report, err := l.BackupOnly(ctx, nil, env.linkOptions(opts, linker.LinkOptions{}))
	result.addLink(report)
	return err
}

func cleanup(ctx context.Context, env *Env, opts Options, result *Result) error {
	l, err := env.Linker()
	if err != nil {
		return err
	}
	if err := env.confirm(opts, "Remove broken links into the dotfiles?"); err != nil {
		return err
	}
	report, err := l.Cleanup(ctx, env.linkOptions(opts, linker.LinkOptions{}))
	result.addLink(report)
	return err
}
