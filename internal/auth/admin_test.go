package auth

import (
	"testing"

	apperrors "card-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuthenticator_Login(t *testing.T) {
	clock := newClock()
	admin := newAdminService(t, clock)

	hash, err := HashAdminKey("operator-key", bcrypt.MinCost)
	require.NoError(t, err)

	authn, err := NewAdminAuthenticator(hash, admin)
	require.NoError(t, err)

	t.Run("valid key", func(t *testing.T) {
		issued, err := authn.Login("operator-key")
		require.NoError(t, err)

		claims, err := admin.Verify(issued.Token)
		require.NoError(t, err)
		assert.Equal(t, TokenTypeAdminAccess, claims.Type)
		assert.Equal(t, adminSubject, claims.Subject)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := authn.Login("")
		assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := authn.Login("operator-kez")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
	})
}

func TestNewAdminAuthenticator_RequiresAdminTokens(t *testing.T) {
	edit := newEditService(t, newClock())

	_, err := NewAdminAuthenticator("$2a$04$hash", edit)
	assert.Error(t, err)

	_, err = NewAdminAuthenticator("", newAdminService(t, newClock()))
	assert.Error(t, err)
}

func TestHashAdminKey(t *testing.T) {
	_, err := HashAdminKey("", bcrypt.MinCost)
	assert.Error(t, err)

	hash, err := HashAdminKey("k", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("k")))
}
