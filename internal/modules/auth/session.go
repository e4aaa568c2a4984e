package auth

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	// TokenLength is the exact length of every session token.
	TokenLength = 32

	// TokenAlphabet is the character set tokens are drawn from.
	TokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Session is an issued login token and its activity clock. LastActivity
// slides forward on every successful validation; a session idle past the
// timeout is removed the next time anyone presents it.
type Session struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// newToken draws a TokenLength-character token from TokenAlphabet using the
// platform CSPRNG.
func newToken() (string, error) {
	max := big.NewInt(int64(len(TokenAlphabet)))
	buf := make([]byte, TokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = TokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
