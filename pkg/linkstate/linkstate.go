// Package linkstate classifies target paths relative to the dotfiles tree.
//
// A target is Missing, Unmanaged (a real file or directory), Managed (a
// symlink into the dotfiles root) or Foreign (a symlink elsewhere). A target
// can also be managed through an ancestor directory symlink, which is what
// GNU Stow tree folding produces; those states carry ViaAncestor. Targets
// below an ancestor symlink that leads outside the dotfiles root are
// classified where they really live and carry Through instead.
package linkstate

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/filesystem"
	"github.com/arthur-debert/dotstow/pkg/paths"
)

// Kind is the ownership class of a target path
type Kind int

const (
	Missing Kind = iota
	Unmanaged
	Managed
	Foreign
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Unmanaged:
		return "unmanaged"
	case Managed:
		return "managed"
	case Foreign:
		return "foreign"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is the classification of one target path
type State struct {
	Target string `json:"target" yaml:"target"`
	Kind   Kind   `json:"state" yaml:"state"`
	// Dest is the absolute destination for symlinks, normalized to the
	// dotfiles root spelling when it points inside it.
	Dest string `json:"dest,omitempty" yaml:"dest,omitempty"`
	// Correct is set when Dest equals the expected source.
	Correct bool `json:"correct" yaml:"correct"`
	// Broken is set when the symlink destination does not exist.
	Broken      bool   `json:"broken" yaml:"broken"`
	ViaAncestor bool   `json:"via_ancestor,omitempty" yaml:"via_ancestor,omitempty"`
	Ancestor    string `json:"ancestor,omitempty" yaml:"ancestor,omitempty"`
	// Through is an ancestor directory symlink pointing outside the dotfiles
	// root. The target is classified at the path it reaches, so it can be
	// linked like any other.
	Through string `json:"through,omitempty" yaml:"through,omitempty"`
}

// IsSymlink reports whether the target itself (or an ancestor) is a symlink
func (s State) IsSymlink() bool {
	return s.Kind == Managed || s.Kind == Foreign
}

// Linked reports whether the target is a correct, working managed link
func (s State) Linked() bool {
	return s.Kind == Managed && s.Correct && !s.Broken
}

// Classifier computes States for targets below a target root
type Classifier struct {
	fs         afero.Fs
	root       string
	rootAlias  string
	targetRoot string
}

// NewClassifier creates a Classifier. Containment checks accept both the
// cleaned dotfiles root and its EvalSymlinks form (macOS /var vs /private/var).
func NewClassifier(fs afero.Fs, dotfilesRoot, targetRoot string) *Classifier {
	c := &Classifier{
		fs:         fs,
		root:       filepath.Clean(dotfilesRoot),
		targetRoot: filepath.Clean(targetRoot),
	}
	if resolved, err := filepath.EvalSymlinks(c.root); err == nil && resolved != c.root {
		c.rootAlias = resolved
	}
	return c
}

// Root returns the dotfiles root
func (c *Classifier) Root() string {
	return c.root
}

// Normalize rewrites a path spelled through the resolved dotfiles root to
// the configured spelling.
func (c *Classifier) Normalize(p string) string {
	p = filepath.Clean(p)
	if c.rootAlias != "" && paths.IsWithin(p, c.rootAlias) {
		rel, err := filepath.Rel(c.rootAlias, p)
		if err == nil {
			return filepath.Join(c.root, rel)
		}
	}
	return p
}

// Within reports whether dest lies inside dir, where dir is the dotfiles
// root or a path below it.
func (c *Classifier) Within(dest, dir string) bool {
	return paths.IsWithin(c.Normalize(dest), filepath.Clean(dir))
}

// Owned reports whether dest lies inside the dotfiles root
func (c *Classifier) Owned(dest string) bool {
	return c.Within(dest, c.root)
}

// Classify computes the state of target. expected is the source the target
// should link to; it may be empty when only ownership matters.
func (c *Classifier) Classify(target, expected string) State {
	target = filepath.Clean(target)
	if expected != "" {
		expected = filepath.Clean(expected)
	}
	st := State{Target: target}

	at := target
	if anc, dest, ok := c.symlinkedAncestor(target); ok {
		if c.Owned(dest) || !c.exists(anc) {
			st.ViaAncestor = true
			st.Ancestor = anc
			st.Dest = dest
			if c.Owned(dest) {
				st.Kind = Managed
			} else {
				st.Kind = Foreign
			}
			st.Broken = !c.exists(dest)
			st.Correct = st.Kind == Managed && expected != "" && dest == expected
			return st
		}
		st.Through = anc
		at = dest
	}

	info, err := filesystem.Lstat(c.fs, at)
	if err != nil {
		st.Kind = Missing
		return st
	}
	if !filesystem.IsSymlink(info) {
		st.Kind = Unmanaged
		return st
	}

	dest, err := filesystem.ResolveLink(c.fs, at)
	if err != nil {
		st.Kind = Foreign
		st.Broken = true
		return st
	}
	st.Dest = c.Normalize(dest)
	if c.Owned(st.Dest) {
		st.Kind = Managed
	} else {
		st.Kind = Foreign
	}
	_, statErr := c.fs.Stat(at)
	st.Broken = statErr != nil
	st.Correct = st.Kind == Managed && expected != "" && st.Dest == expected
	return st
}

// symlinkedAncestor finds the highest directory strictly between the target
// root and target that is a symlink, and returns it with the path target
// resolves to through it.
func (c *Classifier) symlinkedAncestor(target string) (string, string, bool) {
	if !paths.IsWithin(target, c.targetRoot) || target == c.targetRoot {
		return "", "", false
	}
	rel, err := filepath.Rel(c.targetRoot, filepath.Dir(target))
	if err != nil || rel == "." {
		return "", "", false
	}

	current := c.targetRoot
	for _, part := range splitPath(rel) {
		current = filepath.Join(current, part)
		info, err := filesystem.Lstat(c.fs, current)
		if err != nil {
			return "", "", false
		}
		if !filesystem.IsSymlink(info) {
			continue
		}
		dest, err := filesystem.ResolveLink(c.fs, current)
		if err != nil {
			return "", "", false
		}
		rest, _ := filepath.Rel(current, target)
		return current, c.Normalize(filepath.Join(dest, rest)), true
	}
	return "", "", false
}

func (c *Classifier) exists(p string) bool {
	_, err := c.fs.Stat(p)
	return err == nil
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}
