// Package multiplayer tracks who is playing and serializes every mutation of
// the shared world onto a single goroutine.
package multiplayer

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// PlayerID is a small integer handed to a player on join. Ids are never
// reused while the process runs.
type PlayerID uint64

// Token is the opaque handle a client authenticates with: 32 lowercase hex
// characters.
type Token string

const tokenBytes = 16

// ErrInvalidToken is returned for strings that cannot be a token at all, as
// opposed to well-formed tokens nobody holds.
var ErrInvalidToken = errors.New("multiplayer: invalid token")

// NewToken returns a random token.
func NewToken() Token {
	b := make([]byte, tokenBytes)
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(b)
	return Token(hex.EncodeToString(b))
}

// ParseToken validates the textual form of a token.
func ParseToken(s string) (Token, error) {
	if len(s) != 2*tokenBytes {
		return "", fmt.Errorf("%w: want %d characters, got %d", ErrInvalidToken, 2*tokenBytes, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Token(s), nil
}

// String returns the token text.
func (t Token) String() string {
	return string(t)
}

// PlayerInfo is what a successful join hands back to the client.
type PlayerInfo struct {
	Token Token
	ID    PlayerID
}
