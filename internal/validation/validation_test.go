package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@domain.tld",
		"first.last@example.com",
		"UPPER@CASE.COM",
		"a@b.co",
	}
	for _, s := range valid {
		assert.NoError(t, Email(s), "expected %q to be valid", s)
	}

	invalid := map[string]string{
		"":                  "Email is required.",
		"   ":               "Email is required.",
		"plainaddress":      "Invalid email format.",
		"no-at.example.com": "Invalid email format.",
		"user@nodot":        "Invalid email format.",
		"user name@x.com":   "Invalid email format.",
		"user@@x.com":       "Invalid email format.",
	}
	for s, want := range invalid {
		err := Email(s)
		require.Error(t, err, "expected %q to be invalid", s)
		assert.Equal(t, want, err.Error())
	}
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	require.NoError(t, StrongPassword("Abcdef1!"))
	require.NoError(t, StrongPassword("Str0ng&Password"))

	err := StrongPassword("")
	require.Error(t, err)
	assert.Equal(t, "Password is required.", err.Error())

	weak := []string{
		"Ab1!",        // too short
		"abcdefg1!",   // no uppercase
		"ABCDEFG1!",   // no lowercase
		"Abcdefgh!",   // no digit
		"Abcdefgh1",   // no special character
		"password123", // several missing
	}
	for _, s := range weak {
		err := StrongPassword(s)
		require.Error(t, err, "expected %q to be rejected", s)
		assert.Contains(t, err.Error(), "at least 8 characters")
	}
}

func TestNonEmpty(t *testing.T) {
	t.Parallel()

	require.NoError(t, NonEmpty("value", "Name cannot be empty"))

	err := NonEmpty("  ", "Name cannot be empty")
	require.Error(t, err)
	assert.Equal(t, "Name cannot be empty", err.Error())
}

func TestLengthBounds(t *testing.T) {
	t.Parallel()

	require.NoError(t, MinLength("abcde", 3))
	require.Error(t, MinLength("ab", 3))
	require.Error(t, MinLength("", 3))

	require.NoError(t, MaxLength("abc", 5))
	require.Error(t, MaxLength("abcdef", 5))
	// blank passes max-length; required fields use NonEmpty separately
	require.NoError(t, MaxLength("", 5))
}

func TestFirst(t *testing.T) {
	t.Parallel()

	err := First(
		func() error { return Email("user@x.com") },
		func() error { return NonEmpty("", "Name cannot be empty") },
		func() error { return StrongPassword("weak") },
	)
	require.Error(t, err)
	assert.Equal(t, "Name cannot be empty", err.Error())

	require.NoError(t, First(
		func() error { return Email("user@x.com") },
		func() error { return StrongPassword("Abcdef1!") },
	))
}
