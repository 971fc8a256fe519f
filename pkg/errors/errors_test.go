// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, taxonomy and run summaries

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "package_not_found",
			code:    errors.ErrPackageNotFound,
			message: "package macos missing",
			wantStr: "[PACKAGE_NOT_FOUND] package macos missing",
		},
		{
			name:    "invalid_input",
			code:    errors.ErrInvalidInput,
			message: "unknown app",
			wantStr: "[INVALID_INPUT] unknown app",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrLinkConflict, "%d conflicts under %s", 2, "~/.config")
	assert.Equal(t, "[LINK_CONFLICT] 2 conflicts under ~/.config", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("nil_passthrough", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "nothing"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "nothing %d", 1))
	})

	t.Run("keeps_cause", func(t *testing.T) {
		cause := stderrors.New("disk full")
		err := errors.Wrap(cause, errors.ErrBackupFailed, "copy failed")
		assert.Equal(t, "[BACKUP_FAILED] copy failed: disk full", err.Error())
		assert.True(t, stderrors.Is(err, cause))
		assert.Equal(t, cause, err.Unwrap())
	})
}

func TestIsComparesCodes(t *testing.T) {
	a := errors.New(errors.ErrLinkConflict, "one")
	b := errors.New(errors.ErrLinkConflict, "two")
	c := errors.New(errors.ErrPermission, "three")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWithDetail(t *testing.T) {
	err := (&errors.Error{Code: errors.ErrPermission}).WithDetail("path", "/home/u")
	require.NotNil(t, err.Details)
	assert.Equal(t, "/home/u", err.Details["path"])
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrUnsupportedOS, errors.GetErrorCode(errors.New(errors.ErrUnsupportedOS, "bsd")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestErrorChaining(t *testing.T) {
	root := stderrors.New("root cause")
	mid := errors.Wrap(root, errors.ErrPermission, "cannot write home")
	top := errors.Wrap(mid, errors.ErrConfigLoad, "failed to load config")

	assert.True(t, errors.IsErrorCode(top, errors.ErrConfigLoad))
	assert.True(t, stderrors.Is(top, root))

	var inner *errors.Error
	require.True(t, stderrors.As(top.Unwrap(), &inner))
	assert.Equal(t, errors.ErrPermission, inner.Code)
}

func TestKinds(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		kind errors.Kind
	}{
		{errors.ErrUnsupportedOS, errors.KindFatal},
		{errors.ErrNoPackageManager, errors.KindFatal},
		{errors.ErrBackupFailed, errors.KindFatal},
		{errors.ErrToolInstall, errors.KindRecoverable},
		{errors.ErrDependencyMissing, errors.KindRecoverable},
		{errors.ErrUnlinkPartial, errors.KindRecoverable},
		{errors.ErrCancelled, errors.KindCancelled},
		{errors.ErrorCode("SOMETHING_NEW"), errors.KindFatal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.kind, errors.KindOf(tt.code))
			assert.Equal(t, tt.kind, errors.New(tt.code, "x").Kind())
		})
	}

	assert.True(t, errors.IsFatal(stderrors.New("plain errors are fatal")))
	assert.False(t, errors.IsFatal(nil))
	assert.True(t, errors.IsCancelled(errors.New(errors.ErrCancelled, "declined")))
}

func TestSummary(t *testing.T) {
	var s errors.Summary
	assert.True(t, s.Empty())
	assert.Equal(t, "", s.String())

	s.Record("tools", nil)
	assert.True(t, s.Empty())

	s.Record("tools", errors.New(errors.ErrToolInstall, "ripgrep failed"))
	s.Record("fonts", errors.New(errors.ErrToolInstall, "font failed"))
	require.Len(t, s.Failures, 2)
	assert.Equal(t, "tools", s.Failures[0].Step)
	assert.Contains(t, s.String(), "2 step(s) failed")
	assert.Contains(t, s.String(), "fonts: [TOOL_INSTALL] font failed")
}
