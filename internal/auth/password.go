package auth

import (
	"strings"
	"unicode"
)

const specialChars = "@$!%*?&#^()-_=+[]{};:,.<>/\\|~"

// ValidatePassword enforces the registration password policy: at least
// eight characters with an upper-case letter, a lower-case letter, a
// digit and a special character.
func ValidatePassword(pw string) []string {
	var problems []string

	if len(pw) < 8 {
		problems = append(problems, "password must be at least 8 characters long")
	}

	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}

	if !upper {
		problems = append(problems, "password must contain an upper-case letter")
	}
	if !lower {
		problems = append(problems, "password must contain a lower-case letter")
	}
	if !digit {
		problems = append(problems, "password must contain a digit")
	}
	if !special {
		problems = append(problems, "password must contain a special character")
	}
	return problems
}
