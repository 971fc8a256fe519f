package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotstow/pkg/errors"
)

// Environment variable names
const (
	// EnvDotfilesRoot is the primary environment variable for dotfiles location
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvTarget overrides the link target directory (defaults to $HOME)
	EnvTarget = "DOTSTOW_TARGET"

	// EnvConfigDir overrides the XDG config directory for dotstow
	EnvConfigDir = "DOTSTOW_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for dotstow
	EnvStateDir = "DOTSTOW_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names used inside the dotstow directories.
const (
	DefaultDotfilesDir = "dotfiles"
	AppDirName         = "dotstow"
	UserConfigFile     = "config.toml"
	HistoryFile        = "history.db"
	LogFileName        = "dotstow.log"
)

// RepoConfigFiles are the repository-level config files, first match wins.
var RepoConfigFiles = []string{"dotstow.toml", ".dotstow.toml"}

// Paths provides centralized path management for dotstow
type Paths interface {
	DotfilesRoot() string
	UsedFallback() bool
	TargetDir() string
	PackagePath(name string) string
	ConfigDir() string
	StateDir() string
	UserConfigPath() string
	RepoConfigPath() string
	HistoryPath() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
	IsInDotfiles(path string) bool
	RelToTarget(path string) (string, error)
}

type paths struct {
	dotfilesRoot string
	targetDir    string
	configDir    string
	stateDir     string
	usedFallback bool
}

// New creates a Paths instance. Empty arguments are resolved from the
// environment: the dotfiles root via findDotfilesRoot and the target via
// DOTSTOW_TARGET or the home directory.
func New(dotfilesRoot, target string) (Paths, error) {
	p := &paths{}

	if dotfilesRoot == "" {
		root, usedFallback, err := findDotfilesRoot()
		if err != nil {
			return nil, err
		}
		p.dotfilesRoot = root
		p.usedFallback = usedFallback
	} else {
		p.dotfilesRoot = ExpandHome(dotfilesRoot)
	}

	absRoot, err := filepath.Abs(p.dotfilesRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for dotfiles root")
	}
	p.dotfilesRoot = filepath.Clean(absRoot)

	if target == "" {
		target = os.Getenv(EnvTarget)
	}
	if target == "" {
		home, err := homeDir()
		if err != nil {
			return nil, err
		}
		target = home
	}
	absTarget, err := filepath.Abs(ExpandHome(target))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for target %s", target)
	}
	p.targetDir = filepath.Clean(absTarget)

	p.setupXDGDirs()
	return p, nil
}

func (p *paths) setupXDGDirs() {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = ExpandHome(dir)
	} else if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		p.configDir = filepath.Join(dir, AppDirName)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = ExpandHome(dir)
	} else if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		p.stateDir = filepath.Join(dir, AppDirName)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}
}

// findDotfilesRoot determines the dotfiles root using the following priority:
// 1. DOTFILES_ROOT environment variable
// 2. the directory holding the running executable, if it looks like a dotfiles repo
// 3. ~/dotfiles, if it exists
// 4. git repository root of the working directory
// 5. current working directory (fallback, flagged for a warning)
func findDotfilesRoot() (string, bool, error) {
	if root := os.Getenv(EnvDotfilesRoot); root != "" {
		return ExpandHome(root), false, nil
	}

	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		if looksLikeDotfiles(dir) {
			return dir, false, nil
		}
	}

	if home, err := homeDir(); err == nil {
		candidate := filepath.Join(home, DefaultDotfilesDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, false, nil
		}
	}

	if gitRoot, err := findGitRoot(); err == nil {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrInternal, "failed to get current directory")
	}
	return cwd, true, nil
}

// looksLikeDotfiles reports whether dir has a common package directory or a
// repository config file.
func looksLikeDotfiles(dir string) bool {
	if info, err := os.Stat(filepath.Join(dir, "common")); err == nil && info.IsDir() {
		return true
	}
	for _, name := range RepoConfigFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}
	return gitRoot, nil
}

func homeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "cannot determine home directory")
	}
	return home, nil
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := homeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	// ~user is left alone
	return path
}

// DotfilesRoot returns the root directory for dotfiles
func (p *paths) DotfilesRoot() string {
	return p.dotfilesRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// TargetDir returns the directory links are created in
func (p *paths) TargetDir() string {
	return p.targetDir
}

// PackagePath returns the path to a named package
func (p *paths) PackagePath(name string) string {
	return filepath.Join(p.dotfilesRoot, name)
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

func (p *paths) StateDir() string {
	return p.stateDir
}

// UserConfigPath returns the per-user config file path
func (p *paths) UserConfigPath() string {
	return filepath.Join(p.configDir, UserConfigFile)
}

// RepoConfigPath returns the first existing repository config file, or the
// preferred name when none exists.
func (p *paths) RepoConfigPath() string {
	for _, name := range RepoConfigFiles {
		candidate := filepath.Join(p.dotfilesRoot, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(p.dotfilesRoot, RepoConfigFiles[0])
}

func (p *paths) HistoryPath() string {
	return filepath.Join(p.stateDir, HistoryFile)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// NormalizePath expands home, makes the path absolute and cleans it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path")
	}
	return filepath.Clean(abs), nil
}

// IsInDotfiles checks if a path is within the dotfiles root
func (p *paths) IsInDotfiles(path string) bool {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return false
	}
	return IsWithin(normalized, p.dotfilesRoot)
}

// RelToTarget returns path relative to the target dir. It fails for paths
// outside the target dir.
func (p *paths) RelToTarget(path string) (string, error) {
	normalized, err := p.NormalizePath(path)
	if err != nil {
		return "", err
	}
	if !IsWithin(normalized, p.targetDir) {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is outside %s", path, p.targetDir)
	}
	return filepath.Rel(p.targetDir, normalized)
}

// IsWithin reports whether path equals root or lies below it. Both
// arguments must be absolute and clean.
func IsWithin(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Tilde renders path with the home directory replaced by ~ for display.
func Tilde(path string) string {
	home, err := homeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if IsWithin(path, home) {
		rel, _ := filepath.Rel(home, path)
		return filepath.Join("~", rel)
	}
	return path
}
