// Package packages turns the dotfiles repository layout into link units.
//
// A package is a top-level directory of the dotfiles root mirroring the
// target directory. Walking a package, the container directories listed in
// link.no_fold are descended into and every other entry becomes one link
// unit: a single symlink at <target>/<rel> pointing at <package>/<rel>.
package packages

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/logging"
)

// Package is one active package directory
type Package struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Unit is one symlink the linker manages
type Unit struct {
	Package string `json:"package" yaml:"package"`
	// Rel is slash separated and relative to both the package and the target.
	Rel    string `json:"rel" yaml:"rel"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	IsDir  bool   `json:"is_dir" yaml:"is_dir"`
}

// Layout is the set of active packages and their link units
type Layout struct {
	Root     string
	Target   string
	Packages []Package
	Units    []Unit

	noFold map[string]bool
	ignore []string
	byPkg  map[string][]Unit
}

// Load walks the named packages below root. Every package must exist.
func Load(fs afero.Fs, root, target string, names []string, link config.Link) (*Layout, error) {
	logger := logging.GetLogger("packages")

	l := &Layout{
		Root:   root,
		Target: target,
		noFold: make(map[string]bool, len(link.NoFold)),
		ignore: link.Ignore,
		byPkg:  make(map[string][]Unit),
	}
	for _, dir := range link.NoFold {
		l.noFold[path.Clean(filepath.ToSlash(dir))] = true
	}

	if len(names) == 0 {
		return nil, errors.New(errors.ErrConfigValid, "no packages configured for this platform")
	}

	owners := make(map[string]Unit)
	for _, name := range names {
		pkgPath := filepath.Join(root, name)
		info, err := fs.Stat(pkgPath)
		if err != nil || !info.IsDir() {
			return nil, errors.Newf(errors.ErrPackageNotFound, "package directory %s does not exist", pkgPath).
				WithDetail("package", name)
		}
		l.Packages = append(l.Packages, Package{Name: name, Path: pkgPath})

		units, err := l.enumerate(fs, name, pkgPath, "")
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			if prev, ok := owners[u.Target]; ok {
				return nil, errors.Newf(errors.ErrLinkConflict, "%s is provided by both %s and %s", u.Rel, prev.Package, u.Package).
					WithDetail("target", u.Target)
			}
			owners[u.Target] = u
		}
		l.byPkg[name] = units
		l.Units = append(l.Units, units...)
		logger.Debug().Str("package", name).Int("units", len(units)).Msg("Enumerated package")
	}
	return l, nil
}

func (l *Layout) enumerate(fs afero.Fs, pkg, pkgPath, relDir string) ([]Unit, error) {
	dir := filepath.Join(pkgPath, filepath.FromSlash(relDir))
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPackageNotFound, "cannot read %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var units []Unit
	for _, entry := range entries {
		if l.Ignored(entry.Name()) {
			continue
		}
		rel := path.Join(relDir, entry.Name())
		isDir := entry.IsDir() && entry.Mode()&os.ModeSymlink == 0
		if isDir && l.noFold[rel] {
			nested, err := l.enumerate(fs, pkg, pkgPath, rel)
			if err != nil {
				return nil, err
			}
			units = append(units, nested...)
			continue
		}
		units = append(units, Unit{
			Package: pkg,
			Rel:     rel,
			Source:  filepath.Join(pkgPath, filepath.FromSlash(rel)),
			Target:  filepath.Join(l.Target, filepath.FromSlash(rel)),
			IsDir:   isDir,
		})
	}
	return units, nil
}

// Ignored reports whether a base name matches a link.ignore glob
func (l *Layout) Ignored(name string) bool {
	for _, pattern := range l.ignore {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// IsContainer reports whether rel is a no_fold container directory
func (l *Layout) IsContainer(rel string) bool {
	return l.noFold[path.Clean(rel)]
}

// Active reports whether a package is part of the layout
func (l *Layout) Active(pkg string) bool {
	_, ok := l.byPkg[pkg]
	return ok
}

// PackageUnits returns the units of one package
func (l *Layout) PackageUnits(pkg string) []Unit {
	return l.byPkg[pkg]
}

// PackageNames returns the active package names in configured order
func (l *Layout) PackageNames() []string {
	names := make([]string, 0, len(l.Packages))
	for _, p := range l.Packages {
		names = append(names, p.Name)
	}
	return names
}

// FindUnit returns the unit in pkg that equals rel or contains it
func (l *Layout) FindUnit(pkg, rel string) (Unit, bool) {
	rel = path.Clean(rel)
	for _, u := range l.byPkg[pkg] {
		if u.Rel == rel || strings.HasPrefix(rel, u.Rel+"/") {
			return u, true
		}
	}
	return Unit{}, false
}

// UnitForTarget returns the unit whose target is exactly target
func (l *Layout) UnitForTarget(target string) (Unit, bool) {
	target = filepath.Clean(target)
	for _, u := range l.Units {
		if u.Target == target {
			return u, true
		}
	}
	return Unit{}, false
}

// Targets returns every unit target
func (l *Layout) Targets() []string {
	targets := make([]string, 0, len(l.Units))
	for _, u := range l.Units {
		targets = append(targets, u.Target)
	}
	return targets
}
