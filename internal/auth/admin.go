package auth

import (
	"fmt"

	apperrors "card-service/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultAdminKeyCost is the bcrypt cost used by HashAdminKey callers.
	DefaultAdminKeyCost = 12

	errAdminKeyEmpty   = "admin key cannot be empty"
	errHashAdminKeyFmt = "failed to hash admin key: %w"
)

// AdminAuthenticator exchanges the operator's admin key for an admin token.
type AdminAuthenticator struct {
	keyHash []byte
	tokens  *TokenService
}

func NewAdminAuthenticator(keyHash string, tokens *TokenService) (*AdminAuthenticator, error) {
	if keyHash == "" {
		return nil, fmt.Errorf(msgAdminKeyHashEmpty)
	}
	if tokens == nil || tokens.Type() != TokenTypeAdminAccess {
		return nil, fmt.Errorf(msgTokenTypeRequired)
	}
	return &AdminAuthenticator{keyHash: []byte(keyHash), tokens: tokens}, nil
}

// Login verifies key against the configured bcrypt hash.
// A missing key is Unauthenticated, a wrong key is InvalidCredential.
func (a *AdminAuthenticator) Login(key string) (*IssuedToken, error) {
	if key == "" {
		return nil, apperrors.Unauthenticated(msgMissingAdminKey)
	}

	if err := bcrypt.CompareHashAndPassword(a.keyHash, []byte(key)); err != nil {
		return nil, apperrors.InvalidCredential(msgInvalidAdminKey, nil)
	}

	token, claims, err := a.tokens.CreateWithTTL(0, a.tokens.TTL())
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: token, Claims: claims}, nil
}

// HashAdminKey produces the value expected in ADMIN_KEY_HASH.
func HashAdminKey(key string, cost int) (string, error) {
	if key == "" {
		return "", fmt.Errorf(errAdminKeyEmpty)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf(errHashAdminKeyFmt, err)
	}

	return string(bytes), nil
}
