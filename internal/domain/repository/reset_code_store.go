package repository

import (
	"context"
	"time"
)

// ResetCodeStore keeps at most one live password-reset code per email.
// Codes disappear on their own once the TTL elapses; an expired code is
// indistinguishable from one that was never issued.
type ResetCodeStore interface {
	// Put stores code for email with the given TTL, replacing any prior code.
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Match reports whether the stored, unexpired code for email equals code.
	Match(ctx context.Context, email, code string) (bool, error)
	// Delete removes any outstanding code for email.
	Delete(ctx context.Context, email string) error
}
