package linker

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/linkstate"
)

// PlanCleanup finds broken symlinks into the dotfiles root: at every unit
// target and directly inside each cleanup scan dir.
func (l *Linker) PlanCleanup() *Plan {
	candidates := make(map[string]bool)
	for _, t := range l.layout.Targets() {
		candidates[t] = true
	}
	for _, dir := range l.cfg.Cleanup.ScanDirs {
		abs := filepath.Join(l.layout.Target, dir)
		entries, err := afero.ReadDir(l.fs, abs)
		if err != nil {
			continue
		}
		for _, e := range entries {
			candidates[filepath.Join(abs, e.Name())] = true
		}
	}

	sorted := make([]string, 0, len(candidates))
	for c := range candidates {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	plan := &Plan{}
	for _, target := range sorted {
		st := l.classifier.Classify(target, "")
		if st.ViaAncestor || st.Kind != linkstate.Managed || !st.Broken {
			continue
		}
		plan.add(Decision{Op: OpUnlink, Target: target, Previous: st.Dest, Reason: "broken link into dotfiles"})
	}
	return plan
}

// Cleanup removes broken symlinks that point into the dotfiles root
func (l *Linker) Cleanup(ctx context.Context, opts Options) (*Report, error) {
	plan := l.PlanCleanup()
	report := &Report{Plan: plan, Backend: config.BackendNative, Simulated: opts.Simulate}
	emit(plan, opts.Observer)
	if opts.Simulate || len(plan.Decisions) == 0 {
		return report, nil
	}
	var err error
	report.Results, err = l.native.Execute(ctx, plan.Decisions)
	return report, err
}
