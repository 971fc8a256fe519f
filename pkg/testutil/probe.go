package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/arthur-debert/dotstow/pkg/probe"
)

// MockProbe is a testify mock of probe.ToolProbe. Binary expectations are
// keyed on the tool name only.
type MockProbe struct {
	mock.Mock
}

func (m *MockProbe) Binary(ctx context.Context, name string, candidates ...string) probe.Result {
	args := m.Called(name)
	return args.Get(0).(probe.Result)
}

func (m *MockProbe) Font(ctx context.Context, family string) (bool, error) {
	args := m.Called(family)
	return args.Bool(0), args.Error(1)
}

// Absent makes Binary report name as missing
func (m *MockProbe) Absent(names ...string) *MockProbe {
	for _, name := range names {
		m.On("Binary", name).Return(probe.Result{Name: name})
	}
	return m
}

// Present makes Binary report name as installed at version
func (m *MockProbe) Present(name, version string) *MockProbe {
	m.On("Binary", name).Return(probe.Result{Name: name, Present: true, Binary: name, Path: "/fake/bin/" + name, Version: version})
	return m
}
