package service

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	codeAlphabet = "0123456789ABCDEF"
	codeLength   = 6

	// maxCodeAttempts bounds regeneration after a code collision.
	maxCodeAttempts = 5
)

// NewInvitationCode returns six uppercase hex characters.
func NewInvitationCode() (string, error) {
	return gonanoid.Generate(codeAlphabet, codeLength)
}
