package auth

import (
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose tags what a signed token may be used for. Validation
// requires an exact match, so a leaked password-reset token cannot be
// replayed as a session and vice versa.
type TokenPurpose string

const (
	PurposeSession       TokenPurpose = "session"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Claims carries the standard registered claims plus the purpose tag.
// The user's normalized email travels in the Subject claim.
type Claims struct {
	jwt.RegisteredClaims
	Purpose TokenPurpose `json:"purpose"`
}

// GenerateToken issues an HS256-signed token for the given email, scoped
// to purpose and valid for validityDuration from now.
func GenerateToken(email string, purpose TokenPurpose, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Purpose: purpose,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetEmailFromToken verifies the signature, expiry, subject, and purpose
// of tokenString and returns the embedded email. Every failure mode
// collapses to common.ErrorInvalidToken.
func GetEmailFromToken(tokenString string, purpose TokenPurpose, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", common.ErrorInvalidToken
	}

	if !token.Valid || claims.Subject == "" || claims.Purpose != purpose {
		return "", common.ErrorInvalidToken
	}

	return claims.Subject, nil
}
