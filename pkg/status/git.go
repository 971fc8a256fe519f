package status

import (
	"bufio"
	"context"
	"strings"
)

// Submodule is one line of `git submodule status`
type Submodule struct {
	Path   string `json:"path" yaml:"path"`
	Commit string `json:"commit" yaml:"commit"`
	// State is "ok", "modified" (+), "uninitialized" (-) or "conflict" (U).
	State string `json:"state" yaml:"state"`
}

// Drifted reports whether the submodule is not at the recorded commit
func (s Submodule) Drifted() bool {
	return s.State != "ok"
}

// Git is the state of the dotfiles checkout
type Git struct {
	Repo       bool        `json:"repo" yaml:"repo"`
	Branch     string      `json:"branch,omitempty" yaml:"branch,omitempty"`
	Changes    int         `json:"changes" yaml:"changes"`
	Submodules []Submodule `json:"submodules,omitempty" yaml:"submodules,omitempty"`
	Error      string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Clean reports no uncommitted changes and no submodule drift
func (g *Git) Clean() bool {
	if g == nil || !g.Repo {
		return true
	}
	return g.Changes == 0 && g.Drift() == 0
}

// Drift counts drifted submodules
func (g *Git) Drift() int {
	n := 0
	for _, s := range g.Submodules {
		if s.Drifted() {
			n++
		}
	}
	return n
}

// Git inspects the dotfiles root. A root that is not a checkout, or a
// system without git, yields Repo false.
func (r *Reporter) Git(ctx context.Context) *Git {
	root := r.deps.Layout.Root
	g := &Git{}
	out, err := r.deps.Runner.Output(ctx, "git", "-C", root, "rev-parse", "--is-inside-work-tree")
	if err != nil || strings.TrimSpace(out) != "true" {
		return g
	}
	g.Repo = true

	if branch, err := r.deps.Runner.Output(ctx, "git", "-C", root, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		g.Branch = strings.TrimSpace(branch)
	}

	porcelain, err := r.deps.Runner.Output(ctx, "git", "-C", root, "status", "--porcelain")
	if err != nil {
		g.Error = err.Error()
		return g
	}
	g.Changes = CountPorcelain(porcelain)

	subs, err := r.deps.Runner.Output(ctx, "git", "-C", root, "submodule", "status")
	if err != nil {
		r.logger.Debug().Err(err).Msg("git submodule status failed")
		return g
	}
	g.Submodules = ParseSubmoduleStatus(subs)
	return g
}

// CountPorcelain counts changed paths in `git status --porcelain` output
func CountPorcelain(output string) int {
	n := 0
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			n++
		}
	}
	return n
}

// ParseSubmoduleStatus parses `git submodule status` output
func ParseSubmoduleStatus(output string) []Submodule {
	var subs []Submodule
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 2 {
			continue
		}
		state := "ok"
		switch line[0] {
		case '+':
			state = "modified"
		case '-':
			state = "uninitialized"
		case 'U':
			state = "conflict"
		}
		fields := strings.Fields(line[1:])
		if len(fields) < 2 {
			continue
		}
		subs = append(subs, Submodule{Path: fields[1], Commit: fields[0], State: state})
	}
	return subs
}
