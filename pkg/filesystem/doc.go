// Package filesystem wraps afero with the symlink-aware operations dotstow
// needs. afero exposes symlink support as optional interfaces (Lstater,
// LinkReader, Linker); the helpers here use them when the backing Fs has
// them and fail with a clear error when it does not.
package filesystem
