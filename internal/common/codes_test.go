package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeRoundTrip(t *testing.T) {
	errs := []error{
		ErrNetwork, ErrInvalidCredential, ErrEmailNotVerified, ErrEmailInUse,
		ErrWeakPassword, ErrMissingPassword, ErrInvalidEmail,
		ErrEmailNotRegistered, ErrNotFound, ErrUnauthorized, ErrValidation,
		ErrTokenExpired,
	}
	for _, err := range errs {
		t.Run(err.Error(), func(t *testing.T) {
			assert.ErrorIs(t, ErrorByCode(CodeOf(err)), err)
		})
	}
}

func TestCodeOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("create user: %w", ErrEmailInUse)
	assert.Equal(t, CodeEmailInUse, CodeOf(wrapped))
}

func TestCodeOfUnknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(fmt.Errorf("boom")))
	assert.ErrorIs(t, ErrorByCode("no-such-code"), ErrInternal)
}

func TestMakeRandHexString(t *testing.T) {
	s1, err := MakeRandHexString(16)
	require.NoError(t, err)
	s2, err := MakeRandHexString(16)
	require.NoError(t, err)
	assert.Len(t, s1, 32)
	assert.NotEqual(t, s1, s2)
}
