package user

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
)

// commonPasswords is the fixed denylist. Matching is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"iloveyou":    {},
	"admin123":    {},
	"welcome1":    {},
	"letmein1":    {},
	"sunshine":    {},
}

// StrengthLabel is the human-readable bucket for a strength score.
type StrengthLabel string

const (
	StrengthVeryStrong StrengthLabel = "very strong"
	StrengthStrong     StrengthLabel = "strong"
	StrengthModerate   StrengthLabel = "moderate"
	StrengthWeak       StrengthLabel = "weak"
	StrengthVeryWeak   StrengthLabel = "very weak"
)

// CheckPassword validates a candidate password against the policy and returns
// every violation, so a caller can show the whole list at once.
func CheckPassword(password string) []string {
	var problems []string
	if len(password) < minPasswordLen {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if len(password) > maxPasswordLen {
		problems = append(problems, fmt.Sprintf("password must be at most %d characters", maxPasswordLen))
	}
	if _, banned := commonPasswords[strings.ToLower(password)]; banned {
		problems = append(problems, "password is too common")
	}

	upper, lower, digit, symbol := categories(password)
	if !upper {
		problems = append(problems, "password must contain an uppercase letter")
	}
	if !lower {
		problems = append(problems, "password must contain a lowercase letter")
	}
	if !digit {
		problems = append(problems, "password must contain a digit")
	}
	if !symbol {
		problems = append(problems, "password must contain a symbol")
	}
	return problems
}

// PasswordStrength scores a password 0–100: two points per character up to
// 40, plus a flat 15 per character category present.
func PasswordStrength(password string) int {
	score := len(password) * 2
	if score > 40 {
		score = 40
	}
	upper, lower, digit, symbol := categories(password)
	for _, present := range []bool{upper, lower, digit, symbol} {
		if present {
			score += 15
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

// StrengthLabelFor maps a score to its label.
func StrengthLabelFor(score int) StrengthLabel {
	switch {
	case score >= 80:
		return StrengthVeryStrong
	case score >= 60:
		return StrengthStrong
	case score >= 40:
		return StrengthModerate
	case score >= 20:
		return StrengthWeak
	default:
		return StrengthVeryWeak
	}
}

func categories(password string) (upper, lower, digit, symbol bool) {
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return
}
