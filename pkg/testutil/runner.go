package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

// FakeRunner is a scripted runner.Runner. Commands are keyed by
// "name arg1 arg2".
type FakeRunner struct {
	// Binaries present on the fake PATH
	Binaries map[string]bool
	// Outputs returned by Output, by command key
	Outputs map[string]string
	// Failures returned by any call, by command key
	Failures map[string]error
	// Inputs captures stdin passed to Pipe, by command key
	Inputs map[string]string
	// OnRun is called for Run/RunSudo after recording, when set
	OnRun    func(name string, args []string) error
	Simulate bool

	mu    sync.Mutex
	Calls []string
}

// NewFakeRunner creates a FakeRunner with the given binaries on PATH
func NewFakeRunner(binaries ...string) *FakeRunner {
	f := &FakeRunner{
		Binaries: make(map[string]bool),
		Outputs:  make(map[string]string),
		Failures: make(map[string]error),
	}
	for _, b := range binaries {
		f.Binaries[b] = true
	}
	return f
}

func commandKey(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func (f *FakeRunner) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	return f.run("", name, args)
}

func (f *FakeRunner) RunSudo(ctx context.Context, name string, args ...string) error {
	return f.run("sudo ", name, args)
}

func (f *FakeRunner) run(prefix, name string, args []string) error {
	key := commandKey(name, args)
	if f.Simulate {
		f.record("simulate " + prefix + key)
		return nil
	}
	f.record(prefix + key)
	if err, ok := f.Failures[key]; ok {
		return err
	}
	if f.OnRun != nil {
		return f.OnRun(name, args)
	}
	return nil
}

func (f *FakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	key := commandKey(name, args)
	f.record("output " + key)
	if err, ok := f.Failures[key]; ok {
		return "", err
	}
	if out, ok := f.Outputs[key]; ok {
		return out, nil
	}
	return "", errors.Newf(errors.ErrStepFailed, "%s: no scripted output", key)
}

// Pipe records "pipe name args" and keeps the input in Inputs
func (f *FakeRunner) Pipe(ctx context.Context, input, name string, args ...string) (string, error) {
	key := commandKey(name, args)
	f.record("pipe " + key)
	f.mu.Lock()
	if f.Inputs == nil {
		f.Inputs = make(map[string]string)
	}
	f.Inputs[key] = input
	f.mu.Unlock()
	if err, ok := f.Failures[key]; ok {
		return "", err
	}
	return f.Outputs[key], nil
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Binaries[name] {
		return "/fake/bin/" + name, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

func (f *FakeRunner) DryRun() bool {
	return f.Simulate
}

// AddBinary puts name on the fake PATH
func (f *FakeRunner) AddBinary(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Binaries[name] = true
}

// Called reports whether a call was recorded with exactly this text
func (f *FakeRunner) Called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c == call {
			return true
		}
	}
	return false
}
