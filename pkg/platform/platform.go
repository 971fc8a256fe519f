// Package platform classifies the running system into the small set of
// targets dotstow supports.
package platform

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// OS is a supported operating system target
type OS string

const (
	MacOS       OS = "macos"
	Linux       OS = "linux"
	Windows     OS = "windows"
	Unsupported OS = "unsupported"
)

// Arch is a normalized CPU architecture
type Arch string

const (
	X64   Arch = "x64"
	ARM64 Arch = "arm64"
	X86   Arch = "x86"
	Other Arch = "other"
)

// Info describes the detected platform
type Info struct {
	OS   OS   `json:"os" yaml:"os"`
	Arch Arch `json:"arch" yaml:"arch"`
	// RawOS and RawArch are the Go runtime values the classification came from.
	RawOS   string `json:"raw_os" yaml:"raw_os"`
	RawArch string `json:"raw_arch" yaml:"raw_arch"`
	// Distro fields are filled on Linux from /etc/os-release when available.
	Distro       string   `json:"distro,omitempty" yaml:"distro,omitempty"`
	DistroFamily []string `json:"distro_family,omitempty" yaml:"distro_family,omitempty"`
	PrettyName   string   `json:"pretty_name,omitempty" yaml:"pretty_name,omitempty"`
	VersionID    string   `json:"version_id,omitempty" yaml:"version_id,omitempty"`
}

// Experimental reports whether the OS is supported only on a best-effort basis.
func (i Info) Experimental() bool {
	return i.OS == Windows
}

// ArchKnown reports whether the architecture mapped to a known value.
func (i Info) ArchKnown() bool {
	return i.Arch != Other
}

// Detect classifies the running system. An unsupported OS is a fatal
// UNSUPPORTED_OS error; an unknown architecture is only reported via Info.Arch.
func Detect() (Info, error) {
	info, err := Classify(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return info, err
	}
	if info.OS == Linux {
		if f, err := os.Open("/etc/os-release"); err == nil {
			defer func() { _ = f.Close() }()
			parseOSRelease(f, &info)
		}
	}
	return info, nil
}

// Classify maps Go runtime identifiers to a platform Info
func Classify(goos, goarch string) (Info, error) {
	info := Info{RawOS: goos, RawArch: goarch}

	switch goos {
	case "darwin":
		info.OS = MacOS
		info.PrettyName = "macOS"
	case "linux":
		info.OS = Linux
	case "windows":
		info.OS = Windows
		info.PrettyName = "Windows"
	default:
		info.OS = Unsupported
	}

	switch goarch {
	case "amd64":
		info.Arch = X64
	case "arm64":
		info.Arch = ARM64
	case "386":
		info.Arch = X86
	default:
		info.Arch = Other
	}

	if info.OS == Unsupported {
		return info, errors.Newf(errors.ErrUnsupportedOS,
			"unsupported operating system %q: dotstow supports macOS, Linux and (experimentally) Windows", goos).
			WithDetail("os", goos)
	}
	return info, nil
}

func parseOSRelease(r io.Reader, info *Info) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch strings.TrimSpace(key) {
		case "ID":
			info.Distro = value
		case "ID_LIKE":
			info.DistroFamily = strings.Fields(value)
		case "VERSION_ID":
			info.VersionID = value
		case "PRETTY_NAME":
			info.PrettyName = value
		}
	}
}
