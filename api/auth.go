package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// computeSignature returns the raw HMAC-SHA256 of timestamp under secret.
func computeSignature(secret []byte, timestamp string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp))
	return mac.Sum(nil)
}

// VerifySignature checks a hex-encoded HMAC-SHA256 signature over the
// timestamp header. hmac.Equal performs the comparison in constant time;
// malformed hex, a missing value, or a wrong-length digest is a rejection,
// never an error. The length check runs before the comparison so the
// operands hmac.Equal sees always have equal length.
func VerifySignature(secret []byte, timestamp, signature string) bool {
	if timestamp == "" || signature == "" {
		return false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil || len(provided) != sha256.Size {
		return false
	}

	return hmac.Equal(provided, computeSignature(secret, timestamp))
}
