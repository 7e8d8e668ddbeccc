package security

import (
	"errors"
	"fmt"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

const (
	minPasswordLength   = 10
	minCharacterClasses = 3
	minStrengthScore    = 3
	maxZxcvbnScore      = 4
)

// PasswordPolicy vets candidate passwords before they are hashed: a length
// floor, a character-class mix, and a zxcvbn strength estimate that is fed
// the caller's own identifiers so "username123!" style passwords score low.
type PasswordPolicy struct {
	minLength  int
	minClasses int
	minScore   int
}

// NewPasswordPolicy returns the service-wide password policy.
func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{
		minLength:  minPasswordLength,
		minClasses: minCharacterClasses,
		minScore:   minStrengthScore,
	}
}

// Validate checks password against the policy. Non-empty inputs (username,
// phone, names) are passed to the strength estimator as user context.
func (p *PasswordPolicy) Validate(password string, inputs ...string) error {
	if p == nil {
		return errors.New("password policy not configured")
	}

	if len([]rune(password)) < p.minLength {
		return fmt.Errorf("password must be at least %d characters long", p.minLength)
	}

	if got := characterClasses(password); got < p.minClasses {
		return fmt.Errorf("password must mix at least %d of: upper, lower, digit, symbol", p.minClasses)
	}

	context := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in != "" {
			context = append(context, in)
		}
	}

	score := p.minScore
	if score > maxZxcvbnScore {
		score = maxZxcvbnScore
	}
	if result := zxcvbn.PasswordStrength(password, context); result.Score < score {
		return errors.New("password is too guessable; choose a less predictable value")
	}

	return nil
}

func characterClasses(password string) int {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsSymbol(r) || unicode.IsPunct(r):
			symbol = true
		}
	}

	classes := 0
	for _, present := range []bool{upper, lower, digit, symbol} {
		if present {
			classes++
		}
	}
	return classes
}
