package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.NoError(t, CheckPassword(hash, "secret-password"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("secret-password")
	require.NoError(t, err)
	second, err := HashPassword("secret-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
