// Package ledger tracks per-credential consumption state in a TTL-keyed
// store. MarkUsedIfUnused is the sole linearization point preventing token
// replay: it must behave as a single atomic compare-and-set on every backend.
package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyExists is returned by Put when the credential id is taken.
	ErrAlreadyExists = errors.New("ledger: entry already exists")
	// ErrNotFound is returned once an entry has been evicted by TTL or was
	// never written. Verifiers must treat it as expired, not unused.
	ErrNotFound = errors.New("ledger: entry not found")
)

// Record is the consumption state for one credential.
type Record struct {
	Used       bool       `json:"used"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	SubjectID  string     `json:"subject_id"`
	ResourceID string     `json:"resource_id"`
}

// Store is a TTL-keyed one-time-use ledger. Multi-instance deployments must
// back this with a shared store; the in-memory backend is for
// single-instance use and tests only.
type Store interface {
	// Put creates the entry, failing with ErrAlreadyExists when present.
	Put(ctx context.Context, credentialID string, rec Record, ttl time.Duration) error
	// Get returns the entry or ErrNotFound after eviction.
	Get(ctx context.Context, credentialID string) (Record, error)
	// MarkUsedIfUnused atomically flips the entry to used. It returns false
	// when the entry was already used, and ErrNotFound when absent. Exactly
	// one concurrent caller for a given id observes true.
	MarkUsedIfUnused(ctx context.Context, credentialID string, at time.Time) (bool, error)
}
