package config

import (
	"sort"
	"strings"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// Link backends
const (
	BackendAuto   = "auto"
	BackendStow   = "stow"
	BackendNative = "native"
)

// UnavailablePackage marks a tool as not installable with a given manager.
const UnavailablePackage = "-"

// Config is the effective dotstow configuration
type Config struct {
	Link      Link                `koanf:"link" toml:"link"`
	Packages  map[string][]string `koanf:"packages" toml:"packages"`
	Backup    Backup              `koanf:"backup" toml:"backup"`
	Managers  Managers            `koanf:"managers" toml:"managers"`
	Apps      map[string]App      `koanf:"apps" toml:"apps"`
	Tools     map[string]Tool     `koanf:"tools" toml:"tools"`
	Groups    map[string][]string `koanf:"groups" toml:"groups"`
	Cleanup   Cleanup             `koanf:"cleanup" toml:"cleanup"`
	History   History             `koanf:"history" toml:"history"`
	Fonts     Fonts               `koanf:"fonts" toml:"fonts"`
	Wallpaper Wallpaper           `koanf:"wallpaper" toml:"wallpaper"`
}

// Link controls how packages are turned into symlinks
type Link struct {
	Backend string   `koanf:"backend" toml:"backend"`
	NoFold  []string `koanf:"no_fold" toml:"no_fold"`
	Ignore  []string `koanf:"ignore" toml:"ignore"`
}

// Backup controls where conflicting files are copied before replacement
type Backup struct {
	Dir        string `koanf:"dir" toml:"dir"`
	Prefix     string `koanf:"prefix" toml:"prefix"`
	TimeFormat string `koanf:"time_format" toml:"time_format"`
}

type Managers struct {
	Priority map[string][]string `koanf:"priority" toml:"priority"`
}

// App describes one application whose configs can be linked on their own.
// Paths are "<package>/<relative target path>".
type App struct {
	Description string   `koanf:"description" toml:"description,omitempty"`
	Paths       []string `koanf:"paths" toml:"paths"`
	Binaries    []string `koanf:"binaries" toml:"binaries,omitempty"`
}

// Tool is something the dependency installer can ensure is present
type Tool struct {
	Description string            `koanf:"description" toml:"description,omitempty"`
	Binaries    []string          `koanf:"binaries" toml:"binaries,omitempty"`
	Font        string            `koanf:"font" toml:"font,omitempty"`
	Manager     string            `koanf:"manager" toml:"manager,omitempty"`
	Packages    map[string]string `koanf:"packages" toml:"packages,omitempty"`
}

type Cleanup struct {
	ScanDirs []string `koanf:"scan_dirs" toml:"scan_dirs"`
}

type History struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Path    string `koanf:"path" toml:"path"`
}

type Fonts struct {
	Families []string `koanf:"families" toml:"families"`
}

type Wallpaper struct {
	Dir        string `koanf:"dir" toml:"dir"`
	Transition string `koanf:"transition" toml:"transition"`
}

// ActivePackages returns the package names linked on the given OS
func (c *Config) ActivePackages(osName string) []string {
	return c.Packages[osName]
}

// ManagerPriority returns the package manager probe order for the OS
func (c *Config) ManagerPriority(osName string) []string {
	return c.Managers.Priority[osName]
}

// AppNames returns the registered application names, sorted
func (c *Config) AppNames() []string {
	names := make([]string, 0, len(c.Apps))
	for name := range c.Apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// App looks up an application by name
func (c *Config) App(name string) (App, error) {
	app, ok := c.Apps[name]
	if !ok {
		return App{}, errors.Newf(errors.ErrAppNotFound, "unknown app %q (known: %s)", name, strings.Join(c.AppNames(), ", ")).
			WithDetail("app", name)
	}
	return app, nil
}

// Tool looks up a tool by name
func (c *Config) Tool(name string) (Tool, error) {
	tool, ok := c.Tools[name]
	if !ok {
		return Tool{}, errors.Newf(errors.ErrInvalidInput, "unknown tool %q", name).WithDetail("tool", name)
	}
	return tool, nil
}

// Group returns the tool names of a named group
func (c *Config) Group(name string) ([]string, error) {
	group, ok := c.Groups[name]
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown tool group %q", name).WithDetail("group", name)
	}
	return group, nil
}

// PackageFor returns the package name to install for manager, and false
// when the tool is marked unavailable there.
func (t Tool) PackageFor(manager, toolName string) (string, bool) {
	if name, ok := t.Packages[manager]; ok {
		if name == UnavailablePackage || name == "" {
			return "", false
		}
		return name, true
	}
	return toolName, true
}

// SplitAppPath splits "<package>/<rel>" into its parts.
func SplitAppPath(p string) (pkg, rel string, ok bool) {
	pkg, rel, found := strings.Cut(p, "/")
	if !found || pkg == "" || rel == "" {
		return "", "", false
	}
	return pkg, rel, true
}
