// Package testutil provides isolated test environments for dotstow.
//
// A TestEnvironment is a temp directory holding a dotfiles repository and a
// fake home directory, with HOME, DOTFILES_ROOT and the XDG variables pointed
// at it for the duration of the test. FakeRunner scripts external commands.
package testutil
