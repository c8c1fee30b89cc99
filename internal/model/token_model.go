package model

import "time"

// EmailVerification and PasswordReset rows are single-use, TTL-bounded
// opaque tokens. The store deletes them on redemption; expired rows are
// deleted on first read or swept by the background worker.
type EmailVerification struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
}

type PasswordReset struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
}
