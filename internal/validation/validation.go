// Package validation provides stateless field-level checks. Each check
// returns nil for acceptable input or an error carrying a human-readable
// message; malformed input is the expected case, never a panic.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`(?i)^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[@$!%*?&]`)
)

const minPasswordLength = 8

// Email checks that s looks like local@domain.tld with no embedded whitespace.
func Email(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Email is required.")
	}
	if !emailPattern.MatchString(s) {
		return errors.New("Invalid email format.")
	}
	return nil
}

// StrongPassword requires at least 8 characters including a lowercase letter,
// an uppercase letter, a digit, and a special character from @$!%*?&.
func StrongPassword(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Password is required.")
	}
	if len(s) < minPasswordLength ||
		!lowerPattern.MatchString(s) ||
		!upperPattern.MatchString(s) ||
		!digitPattern.MatchString(s) ||
		!specialPattern.MatchString(s) {
		return errors.New("Password must be at least 8 characters, include upper and lowercase letters, a digit, and a special character.")
	}
	return nil
}

// NonEmpty fails with the caller-supplied message when s is blank or whitespace.
func NonEmpty(s, message string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New(message)
	}
	return nil
}

// MinLength requires s to be non-blank and at least n characters long.
func MinLength(s string, n int) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("Input is required and must be at least %d characters.", n)
	}
	if len(s) < n {
		return fmt.Errorf("Input must be at least %d characters long.", n)
	}
	return nil
}

// MaxLength caps the length of s at n characters. Blank input passes; pair
// with NonEmpty for required fields.
func MaxLength(s string, n int) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if len(s) > n {
		return fmt.Errorf("Input must be at most %d characters long.", n)
	}
	return nil
}

// First runs checks in order and returns the first failure.
func First(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
