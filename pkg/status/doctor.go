package status

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/filesystem"
	"github.com/arthur-debert/dotstow/pkg/pkgmgr"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/probe"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

// Level of a doctor check
type Level string

const (
	Pass Level = "pass"
	Warn Level = "warn"
	Fail Level = "fail"
)

// Check is one doctor line
type Check struct {
	Name    string `json:"name" yaml:"name"`
	Level   Level  `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// DoctorDeps are what the prerequisite checks inspect. They do not need an
// enumerated layout, so doctor still works when a package is missing.
type DoctorDeps struct {
	FS           afero.Fs
	Config       *config.Config
	Runner       runner.Runner
	Probe        probe.ToolProbe
	Platform     platform.Info
	PlatformErr  error
	DotfilesRoot string
	UsedFallback bool
	Target       string
}

// Doctor runs the prerequisite checks an install depends on
func Doctor(ctx context.Context, d DoctorDeps) []Check {
	var checks []Check
	add := func(name string, level Level, format string, args ...interface{}) {
		checks = append(checks, Check{Name: name, Level: level, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case d.PlatformErr != nil:
		add("platform", Fail, "%v", d.PlatformErr)
	case d.Platform.Experimental():
		add("platform", Warn, "%s support is experimental", d.Platform.OS)
	default:
		add("platform", Pass, "%s", describePlatform(d.Platform))
	}
	if d.PlatformErr == nil && !d.Platform.ArchKnown() {
		add("arch", Warn, "unknown architecture %s", d.Platform.RawArch)
	}

	managers := pkgmgr.New(pkgmgr.Deps{Runner: d.Runner, Probe: d.Probe, OS: d.Platform.OS, Config: d.Config}).Available()
	if len(managers) == 0 {
		add("package manager", Fail, "none of %v found", d.Config.ManagerPriority(string(d.Platform.OS)))
	} else {
		add("package manager", Pass, "%s", managers[0].Name())
	}

	stow := d.Probe.Binary(ctx, "stow")
	switch {
	case stow.Present:
		add("stow", Pass, "GNU Stow %s", stow.Version)
	case d.Config.Link.Backend == config.BackendStow:
		add("stow", Fail, "link.backend is stow but stow is not installed")
	default:
		add("stow", Warn, "not installed, the native link backend will be used")
	}

	if info, err := d.FS.Stat(d.DotfilesRoot); err != nil || !info.IsDir() {
		add("dotfiles", Fail, "%s is not a directory", d.DotfilesRoot)
	} else if d.UsedFallback {
		add("dotfiles", Warn, "%s (current directory fallback, set DOTFILES_ROOT)", d.DotfilesRoot)
	} else {
		add("dotfiles", Pass, "%s", d.DotfilesRoot)
	}

	for _, pkg := range d.Config.ActivePackages(string(d.Platform.OS)) {
		dir := filepath.Join(d.DotfilesRoot, pkg)
		if info, err := d.FS.Stat(dir); err != nil || !info.IsDir() {
			add("package "+pkg, Fail, "%s is missing", dir)
		} else {
			add("package "+pkg, Pass, "%s", dir)
		}
	}

	if err := filesystem.Writable(d.FS, d.Target); err != nil {
		add("target", Fail, "%v", err)
	} else {
		add("target", Pass, "%s is writable", d.Target)
	}
	return checks
}

// Failed reports whether any check failed
func Failed(checks []Check) bool {
	for _, c := range checks {
		if c.Level == Fail {
			return true
		}
	}
	return false
}

func describePlatform(info platform.Info) string {
	name := string(info.OS)
	if info.PrettyName != "" {
		name = info.PrettyName
	}
	return fmt.Sprintf("%s (%s)", name, info.Arch)
}
