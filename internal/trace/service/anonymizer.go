package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Anonymizer maps investor identifiers to stable one-way tokens. The same
// investor always yields the same token within one environment (one secret);
// distinct investors never collide short of a SHA-256 collision. The real
// identifier is never exposed or recoverable.
type Anonymizer struct {
	secret []byte
}

func NewAnonymizer(secret string) *Anonymizer {
	return &Anonymizer{secret: []byte(secret)}
}

// Token returns the anonymized investor reference.
func (a *Anonymizer) Token(investorID string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(investorID))
	return "INV-" + hex.EncodeToString(mac.Sum(nil))[:16]
}
