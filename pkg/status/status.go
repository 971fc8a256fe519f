// Package status builds read-only reports: link state per app, missing
// runtime dependencies, installed fonts and the git state of the dotfiles
// checkout. Nothing here mutates the filesystem.
package status

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/linkstate"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/packages"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/probe"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

// AppState summarizes the link state of all units of an app
type AppState string

const (
	AppLinked    AppState = "linked"
	AppPartial   AppState = "partial"
	AppNotLinked AppState = "not_linked"
	AppBroken    AppState = "broken"
	AppForeign   AppState = "foreign"
	AppUnmanaged AppState = "unmanaged"
	// AppAbsent means the app has no paths on this platform.
	AppAbsent AppState = "absent"
)

// Link is the state of one unit target
type Link struct {
	Package     string         `json:"package" yaml:"package"`
	Rel         string         `json:"rel" yaml:"rel"`
	Target      string         `json:"target" yaml:"target"`
	State       linkstate.Kind `json:"state" yaml:"state"`
	Dest        string         `json:"dest,omitempty" yaml:"dest,omitempty"`
	Correct     bool           `json:"correct" yaml:"correct"`
	Broken      bool           `json:"broken" yaml:"broken"`
	ViaAncestor bool           `json:"via_ancestor,omitempty" yaml:"via_ancestor,omitempty"`
}

// App is the status of one application
type App struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	State       AppState `json:"state" yaml:"state"`
	Links       []Link   `json:"links,omitempty" yaml:"links,omitempty"`
	// MissingPaths are configured paths absent from the repository.
	MissingPaths []string       `json:"missing_paths,omitempty" yaml:"missing_paths,omitempty"`
	Deps         []probe.Result `json:"deps,omitempty" yaml:"deps,omitempty"`
	MissingDeps  []string       `json:"missing_deps,omitempty" yaml:"missing_deps,omitempty"`
}

// Counts aggregates over apps present on this platform. Valid, Broken,
// Foreign, Unmanaged and NotLinked count apps by their folded state; the
// Links fields and Symlinks count individual unit targets.
type Counts struct {
	Apps      int `json:"apps" yaml:"apps"`
	Valid     int `json:"valid" yaml:"valid"`
	Broken    int `json:"broken" yaml:"broken"`
	Foreign   int `json:"foreign" yaml:"foreign"`
	Unmanaged int `json:"unmanaged" yaml:"unmanaged"`
	NotLinked int `json:"not_linked" yaml:"not_linked"`

	// Symlinks counts unit targets that are symlinks of any kind.
	Symlinks     int `json:"symlinks" yaml:"symlinks"`
	ValidLinks   int `json:"valid_links" yaml:"valid_links"`
	BrokenLinks  int `json:"broken_links" yaml:"broken_links"`
	ForeignLinks int `json:"foreign_links" yaml:"foreign_links"`
}

// Font is the availability of one configured font family
type Font struct {
	Family    string `json:"family" yaml:"family"`
	Installed bool   `json:"installed" yaml:"installed"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the full status report
type Report struct {
	Platform     platform.Info `json:"platform" yaml:"platform"`
	DotfilesRoot string        `json:"dotfiles_root" yaml:"dotfiles_root"`
	Target       string        `json:"target" yaml:"target"`
	Packages     []string      `json:"packages" yaml:"packages"`
	Apps         []App         `json:"apps" yaml:"apps"`
	Counts       Counts        `json:"counts" yaml:"counts"`
	Fonts        []Font        `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	Git          *Git          `json:"git,omitempty" yaml:"git,omitempty"`
}

// Healthy reports whether every present app is linked, no link is broken
// and no dependency is missing.
func (r *Report) Healthy() bool {
	for _, app := range r.Apps {
		if app.State != AppLinked && app.State != AppAbsent {
			return false
		}
		if len(app.MissingDeps) > 0 {
			return false
		}
	}
	return true
}

// Deps are the collaborators of a Reporter
type Deps struct {
	FS       afero.Fs
	Layout   *packages.Layout
	Config   *config.Config
	Probe    probe.ToolProbe
	Runner   runner.Runner
	Platform platform.Info
}

// Options select the optional report sections
type Options struct {
	Deps  bool
	Fonts bool
	Git   bool
}

// AllSections enables every report section
var AllSections = Options{Deps: true, Fonts: true, Git: true}

// Reporter builds status reports
type Reporter struct {
	logger     zerolog.Logger
	deps       Deps
	classifier *linkstate.Classifier
}

// New creates a Reporter
func New(deps Deps) *Reporter {
	return &Reporter{
		logger:     logging.GetLogger("status"),
		deps:       deps,
		classifier: linkstate.NewClassifier(deps.FS, deps.Layout.Root, deps.Layout.Target),
	}
}

// Report computes the status report
func (r *Reporter) Report(ctx context.Context, opts Options) (*Report, error) {
	layout := r.deps.Layout
	report := &Report{
		Platform:     r.deps.Platform,
		DotfilesRoot: layout.Root,
		Target:       layout.Target,
		Packages:     layout.PackageNames(),
	}

	for _, resolved := range layout.ResolveApps(r.deps.Config) {
		app := r.app(ctx, resolved, opts.Deps)
		report.Apps = append(report.Apps, app)
		report.Counts.add(app)
	}

	if opts.Fonts {
		report.Fonts = r.fonts(ctx)
	}
	if opts.Git {
		report.Git = r.Git(ctx)
	}

	r.logger.Debug().
		Int("apps", report.Counts.Apps).
		Int("valid", report.Counts.Valid).
		Int("broken", report.Counts.Broken).
		Msg("Status computed")
	return report, nil
}

func (r *Reporter) app(ctx context.Context, resolved packages.App, withDeps bool) App {
	app := App{
		Name:         resolved.Name,
		Description:  resolved.Description,
		MissingPaths: resolved.Missing,
	}
	for _, u := range resolved.Units {
		st := r.classifier.Classify(u.Target, u.Source)
		app.Links = append(app.Links, Link{
			Package:     u.Package,
			Rel:         u.Rel,
			Target:      u.Target,
			State:       st.Kind,
			Dest:        st.Dest,
			Correct:     st.Correct,
			Broken:      st.Broken,
			ViaAncestor: st.ViaAncestor,
		})
	}
	app.State = summarize(app.Links)

	if withDeps && app.State != AppAbsent {
		for _, bin := range resolved.Binaries {
			res := r.deps.Probe.Binary(ctx, bin)
			app.Deps = append(app.Deps, res)
			if !res.Present {
				app.MissingDeps = append(app.MissingDeps, bin)
			}
		}
	}
	return app
}

// summarize folds unit states into one app state, worst first
func summarize(links []Link) AppState {
	if len(links) == 0 {
		return AppAbsent
	}
	var linked, missing int
	for _, l := range links {
		switch {
		case l.State == linkstate.Unmanaged:
			return AppUnmanaged
		case l.Broken && l.State == linkstate.Managed:
			return AppBroken
		case l.State == linkstate.Foreign || (l.State == linkstate.Managed && !l.Correct):
			return AppForeign
		case l.State == linkstate.Missing:
			missing++
		default:
			linked++
		}
	}
	switch {
	case missing == 0:
		return AppLinked
	case linked == 0:
		return AppNotLinked
	default:
		return AppPartial
	}
}

func (c *Counts) add(app App) {
	if app.State == AppAbsent {
		return
	}
	c.Apps++
	for _, l := range app.Links {
		switch {
		case l.State == linkstate.Foreign:
			c.ForeignLinks++
		case l.State != linkstate.Managed:
			continue
		case l.Broken:
			c.BrokenLinks++
		case l.Correct:
			c.ValidLinks++
		}
		c.Symlinks++
	}
	switch app.State {
	case AppLinked:
		c.Valid++
	case AppBroken:
		c.Broken++
	case AppForeign:
		c.Foreign++
	case AppUnmanaged:
		c.Unmanaged++
	default:
		c.NotLinked++
	}
}

func (r *Reporter) fonts(ctx context.Context) []Font {
	var fonts []Font
	for _, family := range r.deps.Config.Fonts.Families {
		ok, err := r.deps.Probe.Font(ctx, family)
		f := Font{Family: family, Installed: ok}
		if err != nil {
			f.Error = err.Error()
		}
		fonts = append(fonts, f)
	}
	return fonts
}
