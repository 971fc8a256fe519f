package linker

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/packages"
)

// stowLink applies a link plan through GNU Stow. Decisions stow cannot make
// by itself (replacing backed up files, adopting, repointing foreign links)
// run natively first. Parents of every unit are created as real directories
// so stow does not fold the no_fold containers.
func (l *Linker) stowLink(ctx context.Context, plan *Plan, pkgs []string) ([]Result, error) {
	results, err := l.native.Execute(ctx, plan.Filter(OpReplace, OpAdopt, OpRelink))
	if err != nil {
		return results, err
	}

	for _, d := range plan.Filter(OpLink) {
		if err := l.fs.MkdirAll(filepath.Dir(d.Target), 0755); err != nil {
			return results, errors.Wrapf(err, errors.ErrLinkExecute, "cannot create %s", filepath.Dir(d.Target))
		}
	}

	args := append(l.stowArgs("--restow"), pkgs...)
	if err := l.runner.Run(ctx, "stow", args...); err != nil {
		return results, errors.Wrap(err, errors.ErrLinkExecute, "stow failed")
	}
	for _, d := range plan.Filter(OpLink) {
		results = append(results, Result{Decision: d, Status: StatusApplied})
	}
	return results, nil
}

// stowUnlink runs stow --delete, then removes any managed link stow left
// behind. When stow fails the native pass and an orphan cleanup still run
// and the error is reported as a partial unlink.
func (l *Linker) stowUnlink(ctx context.Context, units []packages.Unit, pkgs []string) ([]Result, error) {
	args := append(l.stowArgs("--delete"), pkgs...)
	stowErr := l.runner.Run(ctx, "stow", args...)
	if stowErr != nil {
		l.logger.Warn().Err(stowErr).Msg("stow --delete failed, unlinking natively")
	}

	remaining := l.PlanUnlink(units, true)
	results, err := l.native.Execute(ctx, remaining.Decisions)
	if err != nil {
		return results, err
	}

	if stowErr != nil {
		orphans := l.PlanCleanup()
		more, cleanErr := l.native.Execute(ctx, orphans.Decisions)
		results = append(results, more...)
		if cleanErr != nil {
			l.logger.Warn().Err(cleanErr).Msg("Orphan cleanup failed")
		}
		return results, errors.Wrap(stowErr, errors.ErrUnlinkPartial, "stow --delete failed; managed links removed natively")
	}
	return results, nil
}

func (l *Linker) stowArgs(mode string) []string {
	args := []string{"--dir", l.layout.Root, "--target", l.layout.Target, mode}
	for _, glob := range l.cfg.Link.Ignore {
		args = append(args, "--ignore="+GlobToRegex(glob))
	}
	return args
}

// GlobToRegex converts a base name glob into the regular expression syntax
// stow's --ignore expects.
func GlobToRegex(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
