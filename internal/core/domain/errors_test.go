package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrVersionConflict", ErrVersionConflict},
		{"ErrUnauthenticated", ErrUnauthenticated},
		{"ErrTokenExpired", ErrTokenExpired},
		{"ErrAccessDenied", ErrAccessDenied},
		{"ErrConfigMissing", ErrConfigMissing},
		{"ErrNotAuthenticated", ErrNotAuthenticated},
		{"ErrSyncDisposed", ErrSyncDisposed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestPatchApplicationError_Message(t *testing.T) {
	err := &PatchApplicationError{Op: OpReplace, Path: []string{"layers", "0"}, Reason: "key not present"}
	assert.Equal(t, "cannot apply replace at /layers/0: key not present", err.Error())
}

func TestTransientError_WrapsAndUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("update workspace: %w", &TransientError{Err: cause})

	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsTransient(ErrVersionConflict))
}

func TestErrVersionConflict_Distinct(t *testing.T) {
	wrapped := fmt.Errorf("update: %w", ErrVersionConflict)
	assert.True(t, errors.Is(wrapped, ErrVersionConflict))
	assert.False(t, errors.Is(wrapped, ErrUnauthenticated))
}
