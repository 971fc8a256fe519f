// Package backup copies conflicting real files out of the way before the
// linker replaces them with symlinks.
package backup

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/filesystem"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/paths"
)

// Entry is one backed up target
type Entry struct {
	Target string `json:"target" yaml:"target"`
	Rel    string `json:"rel" yaml:"rel"`
	Backup string `json:"backup" yaml:"backup"`
	Files  int    `json:"files" yaml:"files"`
}

// Record describes the backup directory created by one run
type Record struct {
	Root    string    `json:"root" yaml:"root"`
	Created time.Time `json:"created" yaml:"created"`
	Entries []Entry   `json:"entries" yaml:"entries"`
}

// Files returns the number of files and symlinks copied
func (r *Record) Files() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, e := range r.Entries {
		total += e.Files
	}
	return total
}

// Manager creates backups below a configured directory
type Manager struct {
	fs         afero.Fs
	targetRoot string
	cfg        config.Backup
	now        func() time.Time
}

// New creates a backup Manager for targets below targetRoot
func New(fs afero.Fs, targetRoot string, cfg config.Backup) *Manager {
	return &Manager{fs: fs, targetRoot: filepath.Clean(targetRoot), cfg: cfg, now: time.Now}
}

// WithClock replaces the time source, for tests
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Conflicts filters candidates down to the real (non-symlink) files and
// directories that a backup would copy. Candidates nested inside another
// conflicting candidate are dropped since the parent copy covers them.
func (m *Manager) Conflicts(candidates []string) []string {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	var conflicts []string
	for _, c := range sorted {
		c = filepath.Clean(c)
		info, err := filesystem.Lstat(m.fs, c)
		if err != nil || filesystem.IsSymlink(info) {
			continue
		}
		if coveredBy(c, conflicts) {
			continue
		}
		conflicts = append(conflicts, c)
	}
	return conflicts
}

func coveredBy(p string, parents []string) bool {
	for _, parent := range parents {
		if paths.IsWithin(p, parent) {
			return true
		}
	}
	return false
}

// BackupConflicts copies every real conflicting candidate into a fresh
// timestamped directory, preserving paths relative to the target root. The
// directory is created only when there is something to copy; a nil Record
// means nothing conflicted. Backups are never deleted automatically.
func (m *Manager) BackupConflicts(candidates []string) (*Record, error) {
	logger := logging.GetLogger("backup")
	conflicts := m.Conflicts(candidates)
	if len(conflicts) == 0 {
		logger.Debug().Int("candidates", len(candidates)).Msg("No conflicts to back up")
		return nil, nil
	}

	var record *Record
	for _, target := range conflicts {
		rel, err := filepath.Rel(m.targetRoot, target)
		if err != nil || !paths.IsWithin(target, m.targetRoot) {
			return record, errors.Newf(errors.ErrBackupFailed, "%s is outside %s", target, m.targetRoot).
				WithDetail("target", target)
		}

		if record == nil {
			root, err := m.createRoot()
			if err != nil {
				return nil, err
			}
			record = &Record{Root: root, Created: m.now()}
			logger.Info().Str("root", root).Msg("Created backup directory")
		}

		dest := filepath.Join(record.Root, rel)
		n, err := filesystem.CopyTree(m.fs, target, dest)
		if err != nil {
			return record, errors.Wrapf(err, errors.ErrBackupFailed, "failed to back up %s", target).
				WithDetail("target", target).
				WithDetail("backup", dest)
		}
		record.Entries = append(record.Entries, Entry{Target: target, Rel: filepath.ToSlash(rel), Backup: dest, Files: n})
		logger.Info().Str("target", target).Str("backup", dest).Int("files", n).Msg("Backed up")
	}
	return record, nil
}

// createRoot makes a new backup directory, adding -1, -2... when a
// directory with the same timestamp already exists.
func (m *Manager) createRoot() (string, error) {
	base := filepath.Join(paths.ExpandHome(m.cfg.Dir), m.cfg.Prefix+m.now().Format(m.cfg.TimeFormat))
	candidate := base
	for i := 1; filesystem.Exists(m.fs, candidate); i++ {
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	if err := m.fs.MkdirAll(candidate, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed, "cannot create backup directory %s", candidate)
	}
	return candidate, nil
}

// List returns existing backup directories below the configured dir,
// newest name first.
func (m *Manager) List() ([]string, error) {
	dir := paths.ExpandHome(m.cfg.Dir)
	matches, err := afero.Glob(m.fs, filepath.Join(dir, m.cfg.Prefix+"*"))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot list backups")
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	return matches, nil
}
