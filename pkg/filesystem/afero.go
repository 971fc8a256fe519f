package filesystem

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// NewOS returns the real filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an in-memory filesystem for tests
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Lstat returns file info without following a final symlink when the Fs
// supports it, and falls back to Stat otherwise.
func Lstat(fs afero.Fs, name string) (os.FileInfo, error) {
	if l, ok := fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return fs.Stat(name)
}

// Readlink returns the destination of a symlink
func Readlink(fs afero.Fs, name string) (string, error) {
	if r, ok := fs.(afero.LinkReader); ok {
		return r.ReadlinkIfPossible(name)
	}
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

// Symlink creates newname pointing at oldname
func Symlink(fs afero.Fs, oldname, newname string) error {
	if l, ok := fs.(afero.Linker); ok {
		return l.SymlinkIfPossible(oldname, newname)
	}
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: afero.ErrNoSymlink}
}

// IsSymlink reports whether info describes a symlink
func IsSymlink(info os.FileInfo) bool {
	return info != nil && info.Mode()&os.ModeSymlink != 0
}

// Exists reports whether anything, including a dangling symlink, is at name
func Exists(fs afero.Fs, name string) bool {
	_, err := Lstat(fs, name)
	return err == nil
}

// ResolveLink returns the absolute destination of the symlink at name.
// Relative destinations are resolved against the link's directory.
func ResolveLink(fs afero.Fs, name string) (string, error) {
	dest, err := Readlink(fs, name)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(name), dest)
	}
	return filepath.Clean(dest), nil
}

// CopyTree copies src to dst recursively. Regular files keep their mode,
// symlinks are recreated rather than followed. It returns the number of
// regular files and symlinks copied.
func CopyTree(fs afero.Fs, src, dst string) (int, error) {
	info, err := Lstat(fs, src)
	if err != nil {
		return 0, err
	}

	switch {
	case IsSymlink(info):
		dest, err := Readlink(fs, src)
		if err != nil {
			return 0, err
		}
		if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return 0, err
		}
		return 1, Symlink(fs, dest, dst)

	case info.IsDir():
		if err := fs.MkdirAll(dst, info.Mode().Perm()|0700); err != nil {
			return 0, err
		}
		entries, err := afero.ReadDir(fs, src)
		if err != nil {
			return 0, err
		}
		total := 0
		for _, entry := range entries {
			n, err := CopyTree(fs, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()))
			total += n
			if err != nil {
				return total, err
			}
		}
		return total, nil

	case info.Mode().IsRegular():
		return 1, copyFile(fs, src, dst, info.Mode().Perm())

	default:
		return 0, errors.Newf(errors.ErrInvalidInput, "cannot copy special file %s", src)
	}
}

func copyFile(fs afero.Fs, src, dst string, perm os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// CountFiles counts regular files and symlinks below root
func CountFiles(fs afero.Fs, root string) (int, error) {
	count := 0
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	return count, err
}

// Writable checks that dir is a directory new files can be created in
func Writable(fs afero.Fs, dir string) error {
	info, err := fs.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "cannot access %s", dir)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrPermission, "%s is not a directory", dir)
	}
	f, err := afero.TempFile(fs, dir, ".dotstow-check-")
	if err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "%s is not writable", dir)
	}
	name := f.Name()
	_ = f.Close()
	return fs.Remove(name)
}
