// Package pkgmgr ensures tools are installed, using the first available
// system package manager in the configured priority order.
package pkgmgr

import (
	"strings"
)

// CaskPrefix marks a Homebrew cask in a tool's package name
const CaskPrefix = "cask:"

// Manager is one package manager dotstow can drive
type Manager struct {
	name   string
	binary string
	sudo   bool
	// install returns the arguments installing pkg
	install func(pkg string) []string
}

// Name returns the short identifier used in configuration
func (m *Manager) Name() string {
	return m.name
}

// Binary returns the executable probed on PATH and invoked
func (m *Manager) Binary() string {
	return m.binary
}

// NeedsSudo reports whether installs run with root privileges
func (m *Manager) NeedsSudo() bool {
	return m.sudo
}

// InstallArgs returns the arguments that install pkg
func (m *Manager) InstallArgs(pkg string) []string {
	return m.install(pkg)
}

// Command renders the install invocation, for messages and manual hints
func (m *Manager) Command(pkg string) string {
	parts := append([]string{m.binary}, m.InstallArgs(pkg)...)
	cmd := strings.Join(parts, " ")
	if m.sudo {
		cmd = "sudo " + cmd
	}
	return cmd
}

func simple(args ...string) func(string) []string {
	return func(pkg string) []string {
		out := append([]string{}, args...)
		return append(out, pkg)
	}
}

func stripCask(pkg string) string {
	return strings.TrimPrefix(pkg, CaskPrefix)
}

var registry = map[string]*Manager{
	"brew": {
		name:   "brew",
		binary: "brew",
		install: func(pkg string) []string {
			if strings.HasPrefix(pkg, CaskPrefix) {
				return []string{"install", "--cask", stripCask(pkg)}
			}
			return []string{"install", pkg}
		},
	},
	"apt": {name: "apt", binary: "apt-get", sudo: true, install: simple("install", "-y")},
	"pacman": {name: "pacman", binary: "pacman", sudo: true,
		install: simple("-S", "--noconfirm", "--needed")},
	"dnf":    {name: "dnf", binary: "dnf", sudo: true, install: simple("install", "-y")},
	"zypper": {name: "zypper", binary: "zypper", sudo: true, install: simple("--non-interactive", "install")},
	"winget": {name: "winget", binary: "winget",
		install: simple("install", "--exact", "--accept-source-agreements", "--accept-package-agreements", "--id")},
	"scoop": {name: "scoop", binary: "scoop", install: simple("install")},
	"choco": {name: "choco", binary: "choco", install: simple("install", "-y")},
	"npm":   {name: "npm", binary: "npm", install: simple("install", "-g")},
}

// Lookup returns the manager registered under name
func Lookup(name string) (*Manager, bool) {
	m, ok := registry[name]
	return m, ok
}

// Names returns every known manager name
func Names() []string {
	return []string{"brew", "apt", "pacman", "dnf", "zypper", "winget", "scoop", "choco", "npm"}
}
