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
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrDecode", ErrDecode},
		{"ErrEncode", ErrEncode},
		{"ErrUploadConflict", ErrUploadConflict},
		{"ErrUploadFailed", ErrUploadFailed},
		{"ErrLedgerIO", ErrLedgerIO},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrAuthExpired", ErrAuthExpired},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrSubscriptionClosed", ErrSubscriptionClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrUploadConflict_Wrapped(t *testing.T) {
	err := fmt.Errorf("upload a.fit: %w", ErrUploadConflict)

	assert.True(t, errors.Is(err, ErrUploadConflict))
	assert.False(t, errors.Is(err, ErrUploadFailed))
}

func TestIsSessionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"auth required", ErrAuthRequired, true},
		{"auth expired wrapped", fmt.Errorf("upload: %w", ErrAuthExpired), true},
		{"auth invalid", ErrAuthInvalid, true},
		{"conflict", ErrUploadConflict, false},
		{"upload failed", ErrUploadFailed, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSessionError(tt.err))
		})
	}
}
