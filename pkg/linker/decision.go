package linker

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/dotstow/pkg/paths"
)

// Op is the kind of step a decision takes
type Op string

const (
	OpLink     Op = "link"
	OpRelink   Op = "relink"
	OpBackup   Op = "backup"
	OpReplace  Op = "replace"
	OpAdopt    Op = "adopt"
	OpUnlink   Op = "unlink"
	OpSkip     Op = "skip"
	OpConflict Op = "conflict"
	OpWarn     Op = "warn"
)

// Mutates reports whether applying the op changes the filesystem
func (o Op) Mutates() bool {
	switch o {
	case OpLink, OpRelink, OpBackup, OpReplace, OpAdopt, OpUnlink:
		return true
	}
	return false
}

// Decision is one entry of the decision trace
type Decision struct {
	Op      Op     `json:"op" yaml:"op"`
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	Rel     string `json:"rel,omitempty" yaml:"rel,omitempty"`
	Target  string `json:"target" yaml:"target"`
	Source  string `json:"source,omitempty" yaml:"source,omitempty"`
	// Previous is the destination of a symlink being replaced or removed.
	Previous string `json:"previous,omitempty" yaml:"previous,omitempty"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
	// Through is the ancestor symlink, leading outside the dotfiles root,
	// that Target is reached through. Links below it get absolute text.
	Through string `json:"through,omitempty" yaml:"through,omitempty"`
}

// String renders the decision as one trace line
func (d Decision) String() string {
	target := paths.Tilde(d.Target)
	switch d.Op {
	case OpLink, OpReplace, OpAdopt:
		return fmt.Sprintf("%-8s %s -> %s", d.Op, target, paths.Tilde(d.Source))
	case OpRelink:
		return fmt.Sprintf("%-8s %s -> %s (was %s)", d.Op, target, paths.Tilde(d.Source), paths.Tilde(d.Previous))
	default:
		if d.Reason != "" {
			return fmt.Sprintf("%-8s %s (%s)", d.Op, target, d.Reason)
		}
		return fmt.Sprintf("%-8s %s", d.Op, target)
	}
}

// Plan is the ordered decision list shared by simulate and live runs
type Plan struct {
	Decisions []Decision `json:"decisions" yaml:"decisions"`
}

func (p *Plan) add(d Decision) {
	p.Decisions = append(p.Decisions, d)
}

// Filter returns the decisions with one of the given ops, in order
func (p *Plan) Filter(ops ...Op) []Decision {
	want := make(map[Op]bool, len(ops))
	for _, op := range ops {
		want[op] = true
	}
	var out []Decision
	for _, d := range p.Decisions {
		if want[d.Op] {
			out = append(out, d)
		}
	}
	return out
}

// Conflicts returns the decisions that block a live run
func (p *Plan) Conflicts() []Decision {
	return p.Filter(OpConflict)
}

// Mutating reports whether any decision changes the filesystem
func (p *Plan) Mutating() bool {
	for _, d := range p.Decisions {
		if d.Op.Mutates() {
			return true
		}
	}
	return false
}

// Counts tallies decisions by op
func (p *Plan) Counts() map[Op]int {
	counts := make(map[Op]int)
	for _, d := range p.Decisions {
		counts[d.Op]++
	}
	return counts
}

// CountsByName is Counts keyed by string, for journals and JSON output
func (p *Plan) CountsByName() map[string]int {
	out := make(map[string]int)
	for op, n := range p.Counts() {
		out[string(op)] = n
	}
	return out
}

// Targets returns the sorted targets of decisions with the given ops
func (p *Plan) Targets(ops ...Op) []string {
	var targets []string
	for _, d := range p.Filter(ops...) {
		targets = append(targets, d.Target)
	}
	sort.Strings(targets)
	return targets
}

// Through returns the sorted foreign ancestor symlinks mutating decisions
// reach their targets through
func (p *Plan) Through() []string {
	seen := make(map[string]bool)
	var out []string
	for _, d := range p.Decisions {
		if d.Through != "" && d.Op.Mutates() && !seen[d.Through] {
			seen[d.Through] = true
			out = append(out, d.Through)
		}
	}
	sort.Strings(out)
	return out
}

// Merge appends other's decisions
func (p *Plan) Merge(other *Plan) {
	if other == nil {
		return
	}
	p.Decisions = append(p.Decisions, other.Decisions...)
}
