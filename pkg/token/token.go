package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	inviteTokenBytes          = 32
	errGenerateRandomBytesFmt = "failed to generate random bytes: %w"
	errByteLengthPositiveFmt  = "byteLength must be positive"
)

// GenerateHex returns a hex-encoded string of byteLength random bytes
// drawn from a cryptographically secure source.
func GenerateHex(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf(errByteLengthPositiveFmt)
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf(errGenerateRandomBytesFmt, err)
	}

	return hex.EncodeToString(bytes), nil
}

// GenerateInviteToken returns the bearer token embedded in public invitation
// URLs: 256 bits of entropy, 64 lowercase hex characters.
func GenerateInviteToken() (string, error) {
	return GenerateHex(inviteTokenBytes)
}
