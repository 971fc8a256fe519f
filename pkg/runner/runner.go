// Package runner executes external commands for dotstow: package managers,
// stow, git and the desktop helper CLIs.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/logging"
)

// Runner runs external commands. Mutating calls honour dry-run; Output is
// read-only and always executes so probes work in simulate mode.
type Runner interface {
	// Run executes a command, streaming its output.
	Run(ctx context.Context, name string, args ...string) error
	// RunSudo executes a command as root, through sudo when needed.
	RunSudo(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its stdout.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Pipe is Output with input written to the command's stdin, for menu
	// tools such as rofi -dmenu.
	Pipe(ctx context.Context, input, name string, args ...string) (string, error)
	// LookPath reports where a binary lives on PATH.
	LookPath(name string) (string, error)
	DryRun() bool
}

// Exec is the os/exec backed Runner
type Exec struct {
	dryRun bool
	stdout io.Writer
	stderr io.Writer
}

// New creates an Exec runner writing command output to stdout/stderr
func New(dryRun bool, stdout, stderr io.Writer) *Exec {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Exec{dryRun: dryRun, stdout: stdout, stderr: stderr}
}

func (e *Exec) DryRun() bool {
	return e.dryRun
}

func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	if e.dryRun {
		e.printDryRun("", name, args)
		return nil
	}
	logging.LogCommand(logging.GetLogger("runner"), name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	return wrapRunError(cmd.Run(), name, args)
}

func (e *Exec) RunSudo(ctx context.Context, name string, args ...string) error {
	if e.dryRun {
		if isRoot() {
			e.printDryRun("(as root) ", name, args)
		} else {
			e.printDryRun("(with sudo) sudo ", name, args)
		}
		return nil
	}

	var cmd *exec.Cmd
	switch {
	case isRoot():
		cmd = exec.CommandContext(ctx, name, args...)
	case hasSudo():
		cmd = exec.CommandContext(ctx, "sudo", append([]string{name}, args...)...)
	default:
		return errors.Newf(errors.ErrPermission, "%s requires root privileges, but sudo is not available", name)
	}
	logging.LogCommand(logging.GetLogger("runner"), cmd.Path, cmd.Args[1:])

	cmd.Stdin = os.Stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	return wrapRunError(cmd.Run(), name, args)
}

func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	return e.output(ctx, nil, name, args)
}

func (e *Exec) Pipe(ctx context.Context, input, name string, args ...string) (string, error) {
	return e.output(ctx, strings.NewReader(input), name, args)
}

func (e *Exec) output(ctx context.Context, stdin io.Reader, name string, args []string) (string, error) {
	logging.LogCommand(logging.GetLogger("runner"), name, args)

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.String(), wrapRunError(err, name, args)
		}
		return stdout.String(), errors.Wrapf(fmt.Errorf("%w: %s", err, msg), errors.ErrStepFailed,
			"%s %s failed", name, strings.Join(args, " ")).WithDetail("command", name)
	}
	return stdout.String(), nil
}

func (e *Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (e *Exec) printDryRun(prefix, name string, args []string) {
	_, _ = fmt.Fprintf(e.stdout, "[simulate] Would execute %s%s %s\n", prefix, name, strings.Join(args, " "))
}

func wrapRunError(err error, name string, args []string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, errors.ErrStepFailed, "%s %s failed", name, strings.Join(args, " ")).
		WithDetail("command", name)
}

func isRoot() bool {
	return os.Geteuid() == 0
}

func hasSudo() bool {
	_, err := exec.LookPath("sudo")
	return err == nil
}

// Available reports whether name resolves on PATH through r.
func Available(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}
