package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

type normalizedSubmission struct {
	AnimalID         string `json:"animalId"`
	ApplicantProfile any    `json:"applicantProfile"`
}

// FingerprintSubmission hashes the submission payload, excluding the idempotency key.
// Profiles that differ only in key order or whitespace produce the same fingerprint.
func FingerprintSubmission(animalID string, profile json.RawMessage) (string, error) {
	var decoded any
	if err := json.Unmarshal(profile, &decoded); err != nil {
		return "", err
	}
	payload, err := json.Marshal(normalizedSubmission{
		AnimalID:         strings.TrimSpace(animalID),
		ApplicantProfile: decoded,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
