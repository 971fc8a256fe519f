package linker

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/errors"
	dotfs "github.com/arthur-debert/dotstow/pkg/filesystem"
)

// adopt moves the real file or directory at target into the package at
// source, replacing what the package had there, then links target to it.
func adopt(fs afero.Fs, target, source, dest string) error {
	info, err := dotfs.Lstat(fs, target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrLinkExecute, "cannot adopt %s", target)
	}
	if dotfs.IsSymlink(info) {
		return errors.Newf(errors.ErrLinkExecute, "refusing to adopt symlink %s", target)
	}

	if err := fs.RemoveAll(source); err != nil {
		return errors.Wrapf(err, errors.ErrLinkExecute, "cannot clear %s", source)
	}
	if err := fs.MkdirAll(filepath.Dir(source), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrLinkExecute, "cannot create %s", filepath.Dir(source))
	}
	if err := move(fs, target, source); err != nil {
		return errors.Wrapf(err, errors.ErrLinkExecute, "cannot move %s into package", target)
	}
	return dotfs.Symlink(fs, dest, target)
}

// move renames src to dst, copying then removing when rename crosses
// devices.
func move(fs afero.Fs, src, dst string) error {
	if err := fs.Rename(src, dst); err == nil {
		return nil
	}
	if _, err := dotfs.CopyTree(fs, src, dst); err != nil {
		return err
	}
	return fs.RemoveAll(src)
}

// removeIfSymlink deletes name when it is a symlink. A missing name is not
// an error; anything else at name is left alone.
func removeIfSymlink(fs afero.Fs, name string) error {
	info, err := dotfs.Lstat(fs, name)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if !dotfs.IsSymlink(info) {
		return errors.Newf(errors.ErrLinkExecute, "%s is not a symlink", name)
	}
	return fs.Remove(name)
}
