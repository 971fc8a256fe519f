package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// AssertSymlink fails unless path is a symlink whose destination is dest
func AssertSymlink(t *testing.T, path, dest string) {
	t.Helper()
	got, err := os.Readlink(path)
	if err != nil {
		t.Errorf("expected %s to be a symlink: %v", path, err)
		return
	}
	if !filepath.IsAbs(got) {
		got = filepath.Join(filepath.Dir(path), got)
	}
	if filepath.Clean(got) != filepath.Clean(dest) {
		t.Errorf("symlink %s points at %s, want %s", path, got, dest)
	}
}

// AssertFileContent fails unless path is a regular file holding content
func AssertFileContent(t *testing.T, path, content string) {
	t.Helper()
	info, err := os.Lstat(path)
	if err != nil {
		t.Errorf("expected file %s: %v", path, err)
		return
	}
	if !info.Mode().IsRegular() {
		t.Errorf("expected %s to be a regular file, mode %s", path, info.Mode())
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("failed to read %s: %v", path, err)
		return
	}
	if string(data) != content {
		t.Errorf("file %s = %q, want %q", path, string(data), content)
	}
}

// AssertNotExists fails if anything, including a dangling symlink, is at path
func AssertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Errorf("expected %s to not exist", path)
	}
}

// Snapshot records the Lstat-level shape of every entry below root. It is
// used to prove an operation did not mutate anything.
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			dest, _ := os.Readlink(path)
			snap[rel] = "link:" + dest
		case info.IsDir():
			snap[rel] = "dir"
		default:
			data, _ := os.ReadFile(path)
			snap[rel] = "file:" + string(data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot of %s failed: %v", root, err)
	}
	return snap
}
