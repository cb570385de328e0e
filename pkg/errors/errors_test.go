// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and classification helpers

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "agent_not_found_error",
			code:    errors.ErrAgentNotFound,
			message: "no such agent",
			wantStr: "[AGENT_NOT_FOUND] no such agent",
		},
		{
			name:    "validation_error",
			code:    errors.ErrValidationFailed,
			message: "content too large",
			wantStr: "[VALIDATION_FAILED] content too large",
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

func TestWrap(t *testing.T) {
	inner := stderrors.New("permission denied")
	err := errors.Wrap(inner, errors.ErrFileSystem, "cannot write state")

	require.NotNil(t, err)
	assert.Equal(t, "[FILE_SYSTEM] cannot write state: permission denied", err.Error())
	assert.True(t, stderrors.Is(err, inner))

	assert.Nil(t, errors.Wrap(nil, errors.ErrFileSystem, "ignored"))
}

func TestIsByCode(t *testing.T) {
	err := errors.Newf(errors.ErrPackNotFound, "pack %q not found", "core")
	target := errors.New(errors.ErrPackNotFound, "")

	assert.True(t, stderrors.Is(err, target))
	assert.True(t, errors.IsCode(err, errors.ErrPackNotFound))
	assert.False(t, errors.IsCode(err, errors.ErrState))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.ErrState, errors.GetCode(errors.New(errors.ErrState, "bad document")))
	assert.Equal(t, errors.ErrUnknown, errors.GetCode(stderrors.New("plain error")))

	wrapped := errors.Wrap(errors.New(errors.ErrBackupFailed, "no space"), errors.ErrFileSystem, "outer")
	assert.Equal(t, errors.ErrFileSystem, errors.GetCode(wrapped))
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, errors.IsRecoverable(errors.FSError("/tmp/x", "disk full")))
	assert.True(t, errors.IsRecoverable(errors.New(errors.ErrLinkCreate, "symlink failed")))
	assert.False(t, errors.IsRecoverable(errors.New(errors.ErrValidationFailed, "too large")))
	assert.False(t, errors.IsRecoverable(errors.New(errors.ErrPackCycle, "a -> b -> a")))
}

func TestCharLimitExceeded(t *testing.T) {
	err := errors.CharLimitExceeded(9001, 8000)
	assert.Equal(t, "[CHAR_LIMIT_EXCEEDED] character limit exceeded: 9001 / 8000 characters", err.Error())
	assert.Equal(t, uint64(9001), err.Details["current"])
	assert.Equal(t, uint64(8000), err.Details["limit"])
}
