package validation

import "unicode"

// Password strength rules, checked in fixed order. The first violated rule is
// reported so clients can fix one problem at a time.

const MinPasswordLength = 6

// CheckPassword returns an empty string when the candidate satisfies every
// rule, or the message of the first violated rule otherwise.
func CheckPassword(password string) string {
	if len(password) < MinPasswordLength {
		return "password must be at least 6 characters"
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		return "password must contain an uppercase letter"
	}
	if !hasLower {
		return "password must contain a lowercase letter"
	}
	if !hasDigit {
		return "password must contain a digit"
	}
	if !hasSpecial {
		return "password must contain a special character"
	}
	return ""
}

// PasswordOK reports whether the candidate satisfies every rule.
func PasswordOK(password string) bool {
	return CheckPassword(password) == ""
}
