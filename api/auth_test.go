package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signTimestamp(secret []byte, timestamp string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureAccepted(t *testing.T) {
	secret := []byte("topsecret")
	timestamp := "1700000000"

	sig := signTimestamp(secret, timestamp)
	assert.True(t, VerifySignature(secret, timestamp, sig))
}

func TestVerifySignatureSingleBitMutation(t *testing.T) {
	secret := []byte("topsecret")
	timestamp := "1700000000"
	sig := signTimestamp(secret, timestamp)

	raw, err := hex.DecodeString(sig)
	assert.NoError(t, err)

	for i := range raw {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[i] ^= 0x01
		assert.False(t, VerifySignature(secret, timestamp, hex.EncodeToString(mutated)),
			"flipped bit in byte %d must be rejected", i)
	}
}

// Rejection must not depend on where the mismatch sits: the comparison runs
// through hmac.Equal (crypto/subtle.ConstantTimeCompare), which always scans
// the full digest, and the length pre-check keeps its operands equal-length.
// Exercise the two extremes plus a middle byte.
func TestVerifySignatureMismatchPositionIndependent(t *testing.T) {
	secret := []byte("topsecret")
	timestamp := "1700000000"
	sig := signTimestamp(secret, timestamp)

	raw, err := hex.DecodeString(sig)
	assert.NoError(t, err)

	for _, pos := range []int{0, len(raw) / 2, len(raw) - 1} {
		mutated := make([]byte, len(raw))
		copy(mutated, raw)
		mutated[pos] ^= 0xff
		assert.False(t, VerifySignature(secret, timestamp, hex.EncodeToString(mutated)),
			"mismatch at byte %d must be rejected", pos)
	}
}

func TestVerifySignatureRejections(t *testing.T) {
	secret := []byte("topsecret")
	sig := signTimestamp(secret, "1700000000")

	tests := []struct {
		name      string
		timestamp string
		signature string
	}{
		{"missing signature", "1700000000", ""},
		{"missing timestamp", "", sig},
		{"wrong timestamp", "1700000001", sig},
		{"malformed hex", "1700000000", "not-hex-at-all"},
		{"truncated signature", "1700000000", sig[:16]},
		{"signature too long", "1700000000", sig + "abcd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, VerifySignature(secret, tc.timestamp, tc.signature))
		})
	}
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	sig := signTimestamp([]byte("topsecret"), "1700000000")
	assert.False(t, VerifySignature([]byte("othersecret"), "1700000000", sig))
}
