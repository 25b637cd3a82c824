package domain

import "time"

// Credential is the decoded form of an issued check-in token. Tokens are
// immutable after issuance; consumption state lives in the one-time-use
// ledger, keyed by CredentialID.
type Credential struct {
	CredentialID string
	SubjectID    string
	ResourceID   string
	Audience     string
	IssuedAt     time.Time
	NotBefore    time.Time
	ExpiresAt    time.Time
}
