package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignPayload calculates the base64-encoded HMAC-SHA256 signature of an
// already-serialized audit payload. Downstream consumers verify the
// signature to detect tampering in transit.
func SignPayload(payload []byte, secretKey string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(payload)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// VerifyPayload reports whether signature matches the payload under the
// given key. Comparison is constant time.
func VerifyPayload(payload []byte, signature, secretKey string) bool {
	expected, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(payload)
	return hmac.Equal(h.Sum(nil), expected)
}
