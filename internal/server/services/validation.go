package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

// passwordSymbols is the punctuation set the policy accepts.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

const (
	passwordMinLength    = 6
	passwordMinUppercase = 2
)

// NormalizeEmail lowercases an email address; storage, lookup, and token
// subject claims all operate on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail rejects addresses without an '@'.
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	return nil
}

// ValidatePassword enforces the password policy: minimum length, at least
// two uppercase letters, at least one symbol from passwordSymbols.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters long", common.ErrorValidation, passwordMinLength)
	}

	uppercase := 0
	for _, r := range password {
		if unicode.IsUpper(r) {
			uppercase++
		}
	}
	if uppercase < passwordMinUppercase {
		return fmt.Errorf("%w: password must contain at least %d uppercase letters", common.ErrorValidation, passwordMinUppercase)
	}

	if !strings.ContainsAny(password, passwordSymbols) {
		return fmt.Errorf("%w: password must contain at least one special character", common.ErrorValidation)
	}

	return nil
}
