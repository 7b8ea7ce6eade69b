package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// dummyCodeHash is compared against when a lookup has nothing to compare to.
const dummyCodeHash = "0000000000000000000000000000000000000000000000000000000000000000"

// GenerateCode returns a URL-safe random string of exactly length characters.
// The result carries at least 6*length bits of entropy from crypto/rand.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf(msgCodeLengthPositive)
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf(msgGenerateRandomBytes, err)
	}

	return base64.RawURLEncoding.EncodeToString(bytes)[:length], nil
}

// HashCode returns the hex SHA-256 digest stored in place of a plaintext code.
// The digest is deterministic so it can be looked up by equality.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// VerifyCode hashes code and compares it to expectedHash in constant time.
func VerifyCode(code, expectedHash string) bool {
	actualHash := HashCode(code)

	if expectedHash == "" {
		ConstantTimeCompareHashes(actualHash, dummyCodeHash)
		return false
	}

	return ConstantTimeCompareHashes(actualHash, expectedHash)
}

// ConstantTimeCompareHashes compares two hex-encoded hash strings in constant time.
func ConstantTimeCompareHashes(a, b string) bool {
	aBytes := []byte(a)
	bBytes := []byte(b)

	if len(aBytes) != len(bBytes) {
		// Pad shorter to match longer
		if len(aBytes) < len(bBytes) {
			aBytes = make([]byte, len(bBytes))
		} else {
			bBytes = make([]byte, len(aBytes))
		}
		subtle.ConstantTimeCompare(aBytes, bBytes)
		return false
	}

	return subtle.ConstantTimeCompare(aBytes, bBytes) == 1
}
