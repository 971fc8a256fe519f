package linker

import (
	"path/filepath"

	"github.com/arthur-debert/dotstow/pkg/linkstate"
	"github.com/arthur-debert/dotstow/pkg/packages"
	"github.com/arthur-debert/dotstow/pkg/paths"
)

// LinkOptions select how real files in the way of a link are handled
type LinkOptions struct {
	// Backup copies conflicting real files away, then replaces them.
	Backup bool
	// Adopt moves conflicting real files into the package, then links.
	Adopt bool
}

// PlanLink decides, per unit, what linking it would do. It reads the
// filesystem and never changes it.
func (l *Linker) PlanLink(units []packages.Unit, opts LinkOptions) *Plan {
	plan := &Plan{}
	for _, u := range units {
		st := l.classifier.Classify(u.Target, u.Source)
		base := Decision{Package: u.Package, Rel: u.Rel, Target: u.Target, Source: u.Source, Through: st.Through}

		switch {
		case st.Kind == linkstate.Missing:
			plan.add(with(base, OpLink, ""))

		case st.ViaAncestor && st.Correct:
			plan.add(with(base, OpSkip, "linked through "+paths.Tilde(st.Ancestor)))

		case st.ViaAncestor && st.Kind == linkstate.Foreign:
			plan.add(with(base, OpWarn, "parent "+paths.Tilde(st.Ancestor)+" is a broken symlink"))

		case st.ViaAncestor:
			plan.add(with(base, OpWarn, "parent "+paths.Tilde(st.Ancestor)+" is a symlink; restow to unfold it"))

		case st.Kind == linkstate.Managed && st.Correct && !st.Broken:
			plan.add(with(base, OpSkip, "already linked"))

		case st.Kind == linkstate.Managed || st.Kind == linkstate.Foreign:
			d := with(base, OpRelink, "")
			d.Previous = st.Dest
			plan.add(d)

		case st.Kind == linkstate.Unmanaged && opts.Adopt:
			plan.add(with(base, OpAdopt, "real file moved into package"))

		case st.Kind == linkstate.Unmanaged && opts.Backup:
			plan.add(with(base, OpBackup, "copy to backup directory"))
			plan.add(with(base, OpReplace, ""))

		default:
			plan.add(with(base, OpConflict, "real file in the way"))
		}
	}
	return plan
}

// PlanUnlink decides, per unit, what unlinking it would do. Only symlinks
// resolving into the unit's own package are removed. When unfold is set, a
// folded ancestor directory symlink pointing into the package is removed as
// well; per-app operations leave folded ancestors alone.
func (l *Linker) PlanUnlink(units []packages.Unit, unfold bool) *Plan {
	plan := &Plan{}
	ancestors := make(map[string]bool)

	for _, u := range units {
		st := l.classifier.Classify(u.Target, u.Source)
		pkgRoot := filepath.Join(l.layout.Root, u.Package)
		base := Decision{Package: u.Package, Rel: u.Rel, Target: u.Target, Source: u.Source, Through: st.Through}

		switch {
		case st.Kind == linkstate.Missing:
			plan.add(with(base, OpSkip, "not linked"))

		case st.Kind == linkstate.Unmanaged:
			plan.add(with(base, OpWarn, "real file, left untouched"))

		case st.Kind == linkstate.Foreign:
			plan.add(with(base, OpWarn, "symlink not owned by dotfiles, left untouched"))

		case st.ViaAncestor:
			if !unfold || !l.classifier.Within(st.Dest, pkgRoot) {
				plan.add(with(base, OpWarn, "linked through "+paths.Tilde(st.Ancestor)+", left untouched"))
				continue
			}
			if ancestors[st.Ancestor] {
				continue
			}
			ancestors[st.Ancestor] = true
			anc := l.classifier.Classify(st.Ancestor, "")
			plan.add(Decision{
				Op:       OpUnlink,
				Package:  u.Package,
				Target:   st.Ancestor,
				Previous: anc.Dest,
				Reason:   "folded directory",
			})

		case !l.classifier.Within(st.Dest, pkgRoot):
			plan.add(with(base, OpSkip, "links into another package"))

		default:
			d := with(base, OpUnlink, "")
			d.Previous = st.Dest
			plan.add(d)
		}
	}
	return plan
}

func with(d Decision, op Op, reason string) Decision {
	d.Op = op
	d.Reason = reason
	return d
}
