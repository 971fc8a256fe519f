package config

import (
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// Validate checks cross-field invariants of the configuration
func (c *Config) Validate() error {
	switch c.Link.Backend {
	case BackendAuto, BackendStow, BackendNative:
	default:
		return errors.Newf(errors.ErrConfigValid, "link.backend must be auto, stow or native, got %q", c.Link.Backend)
	}

	noFold := make(map[string]bool, len(c.Link.NoFold))
	for _, dir := range c.Link.NoFold {
		noFold[path.Clean(dir)] = true
	}

	for _, name := range c.AppNames() {
		app := c.Apps[name]
		if len(app.Paths) == 0 {
			return errors.Newf(errors.ErrConfigValid, "app %s has no paths", name)
		}
		for _, p := range app.Paths {
			_, rel, ok := SplitAppPath(p)
			if !ok {
				return errors.Newf(errors.ErrConfigValid, "app %s: path %q must be <package>/<path>", name, p)
			}
			if noFold[path.Clean(rel)] {
				return errors.Newf(errors.ErrConfigValid, "app %s: path %q names a container directory", name, p)
			}
			if strings.HasPrefix(path.Clean(rel), "..") {
				return errors.Newf(errors.ErrConfigValid, "app %s: path %q escapes the package", name, p)
			}
		}
	}

	toolNames := make([]string, 0, len(c.Tools))
	for name := range c.Tools {
		toolNames = append(toolNames, name)
	}
	sort.Strings(toolNames)
	for _, name := range toolNames {
		tool := c.Tools[name]
		if len(tool.Binaries) == 0 && tool.Font == "" {
			return errors.Newf(errors.ErrConfigValid, "tool %s needs binaries or font", name)
		}
	}

	for group, members := range c.Groups {
		for _, member := range members {
			if _, ok := c.Tools[member]; !ok {
				return errors.Newf(errors.ErrConfigValid, "group %s references unknown tool %s", group, member)
			}
		}
	}

	if c.Backup.Prefix == "" || c.Backup.TimeFormat == "" {
		return errors.New(errors.ErrConfigValid, "backup.prefix and backup.time_format must be set")
	}
	return nil
}
