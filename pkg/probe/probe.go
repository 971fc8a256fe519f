// Package probe answers "is this tool installed?" questions. Text parsing of
// version strings and font indexes stays here, away from control flow.
package probe

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

// Result is the structured outcome of probing for a binary
type Result struct {
	Name    string `json:"name" yaml:"name"`
	Present bool   `json:"present" yaml:"present"`
	Binary  string `json:"binary,omitempty" yaml:"binary,omitempty"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ToolProbe checks for binaries on PATH and font families in the font index
type ToolProbe interface {
	// Binary returns the first of candidates found on PATH.
	Binary(ctx context.Context, name string, candidates ...string) Result
	// Font reports whether a font family is installed.
	Font(ctx context.Context, family string) (bool, error)
}

// System probes the real system through a Runner
type System struct {
	run runner.Runner
	os  platform.OS

	fontsOnce sync.Once
	fonts     []string
	fontsErr  error
}

// New creates a System probe
func New(r runner.Runner, osName platform.OS) *System {
	return &System{run: r, os: osName}
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)?`)

func (s *System) Binary(ctx context.Context, name string, candidates ...string) Result {
	if len(candidates) == 0 {
		candidates = []string{name}
	}
	res := Result{Name: name}
	for _, bin := range candidates {
		path, err := s.run.LookPath(bin)
		if err != nil {
			continue
		}
		res.Present = true
		res.Binary = bin
		res.Path = path
		if out, err := s.run.Output(ctx, bin, "--version"); err == nil {
			res.Version = ParseVersion(out)
		}
		return res
	}
	return res
}

// ParseVersion extracts the first dotted version number from tool output
func ParseVersion(output string) string {
	return versionPattern.FindString(output)
}

func (s *System) Font(ctx context.Context, family string) (bool, error) {
	s.fontsOnce.Do(func() {
		s.fonts, s.fontsErr = s.listFonts(ctx)
		logger := logging.GetLogger("probe")
		logger.Debug().Int("families", len(s.fonts)).Err(s.fontsErr).Msg("Loaded font index")
	})
	if s.fontsErr != nil {
		return false, s.fontsErr
	}
	return HasFamily(s.fonts, family), nil
}

func (s *System) listFonts(ctx context.Context) ([]string, error) {
	switch s.os {
	case platform.Linux:
		out, err := s.run.Output(ctx, "fc-list", ":", "family")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDependencyMissing, "cannot query fontconfig")
		}
		return ParseFcList(out), nil
	case platform.MacOS:
		out, err := s.run.Output(ctx, "system_profiler", "SPFontsDataType", "-xml")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDependencyMissing, "cannot query system_profiler")
		}
		return ParseFontPlist([]byte(out))
	default:
		return nil, errors.Newf(errors.ErrDependencyMissing, "font index is not available on %s", s.os)
	}
}

// ParseFcList parses `fc-list : family` output. A line may list several
// comma separated names for the same family.
func ParseFcList(output string) []string {
	seen := make(map[string]bool)
	var families []string
	for _, line := range strings.Split(output, "\n") {
		for _, name := range strings.Split(line, ",") {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			families = append(families, name)
		}
	}
	return families
}

// HasFamily matches case-insensitively; a family also matches its style
// variants ("JetBrainsMono Nerd Font" matches "JetBrainsMono Nerd Font Mono").
func HasFamily(families []string, family string) bool {
	want := strings.ToLower(strings.TrimSpace(family))
	if want == "" {
		return false
	}
	for _, f := range families {
		if strings.HasPrefix(strings.ToLower(f), want) {
			return true
		}
	}
	return false
}
