// Package auth implements the credential hasher and the signed token
// codecs. Both are keyed by the process-wide secret supplied via config.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// saltLen is the per-password salt size in bytes. The salt is stored as a
// fixed-length hex prefix of the credential hash.
const saltLen = 16

const saltHexLen = saltLen * 2

// pepperPassword derives the HMAC-SHA256 digest of salt||password keyed by
// the server secret. A leaked database alone is not brute-forceable
// without this secret.
func pepperPassword(password string, salt, secret []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(salt)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

// HashPassword returns a storable credential hash: a hex-encoded random
// salt followed by the bcrypt hash of the peppered password.
func HashPassword(password string, secret []byte) (string, error) {
	salt := common.GenerateRandByteArray(saltLen)
	peppered := pepperPassword(password, salt, secret)

	hash, err := bcrypt.GenerateFromPassword(peppered, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(salt) + string(hash), nil
}

// VerifyPassword reports whether password matches the stored credential
// hash. Any malformed input fails closed: the function returns false and
// never reports why.
func VerifyPassword(password, stored string, secret []byte) bool {
	if len(stored) <= saltHexLen {
		return false
	}

	salt, err := hex.DecodeString(stored[:saltHexLen])
	if err != nil {
		return false
	}

	peppered := pepperPassword(password, salt, secret)
	defer common.WipeByteArray(peppered)

	return bcrypt.CompareHashAndPassword([]byte(stored[saltHexLen:]), peppered) == nil
}
