package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

// TokenPrefix marks joe-copilot API tokens.
const TokenPrefix = "jc_"

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateToken returns a fresh bearer token for the copilot API along with
// the hash BearerTokenMiddleware compares it by. Operators add the plaintext
// to api.tokens.
func GenerateToken() (plaintext, hash string, err error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", "", err
	}
	plaintext = TokenPrefix + base62(secret)
	return plaintext, HashToken(plaintext), nil
}

// HashToken is the form a configured token is held in once
// BearerTokenMiddleware has loaded it: hex SHA-256 of the plaintext.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// base62 encodes b as a big-endian number, most significant digit first.
func base62(b []byte) string {
	n := new(big.Int).SetBytes(b)
	base := big.NewInt(int64(len(base62Alphabet)))
	digit := new(big.Int)

	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, digit)
		out = append([]byte{base62Alphabet[digit.Int64()]}, out...)
	}
	return string(out)
}
