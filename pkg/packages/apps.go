package packages

import (
	"github.com/arthur-debert/dotstow/pkg/config"
)

// App is an application resolved against the active layout
type App struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Binaries    []string `json:"binaries,omitempty" yaml:"binaries,omitempty"`
	Units       []Unit   `json:"units" yaml:"units"`
	// Missing lists configured paths in active packages that do not exist.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Present reports whether the app has anything to link on this platform
func (a App) Present() bool {
	return len(a.Units) > 0
}

// ResolveApp maps an application's "<package>/<rel>" paths to link units.
// Paths in inactive packages belong to other platforms and are skipped; a
// path nested inside a unit resolves to that unit.
func (l *Layout) ResolveApp(name string, app config.App) App {
	resolved := App{Name: name, Description: app.Description, Binaries: app.Binaries}
	seen := make(map[string]bool)
	for _, p := range app.Paths {
		pkg, rel, ok := config.SplitAppPath(p)
		if !ok || !l.Active(pkg) {
			continue
		}
		unit, found := l.FindUnit(pkg, rel)
		if !found {
			resolved.Missing = append(resolved.Missing, p)
			continue
		}
		if seen[unit.Target] {
			continue
		}
		seen[unit.Target] = true
		resolved.Units = append(resolved.Units, unit)
	}
	return resolved
}

// ResolveApps resolves every configured app, sorted by name
func (l *Layout) ResolveApps(cfg *config.Config) []App {
	apps := make([]App, 0, len(cfg.Apps))
	for _, name := range cfg.AppNames() {
		apps = append(apps, l.ResolveApp(name, cfg.Apps[name]))
	}
	return apps
}
