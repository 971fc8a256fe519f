// Package paths provides centralized path handling for dotstow.
//
// It resolves the dotfiles root, the link target (normally $HOME) and the
// XDG locations used for configuration, logs and the run journal. All other
// packages receive a Paths value instead of reading the environment directly.
package paths
