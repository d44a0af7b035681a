package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Strong1!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Strong1!", hash)

	require.NoError(t, ComparePassword(hash, "Strong1!"))
	require.Error(t, ComparePassword(hash, "Strong1?"))
	require.Error(t, ComparePassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("Strong1!", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Strong1!", bcrypt.MinCost)
	require.NoError(t, err)

	// each hash carries its own salt
	assert.NotEqual(t, first, second)
	require.NoError(t, ComparePassword(first, "Strong1!"))
	require.NoError(t, ComparePassword(second, "Strong1!"))
}
