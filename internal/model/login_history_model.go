package model

import "time"

// LoginHistoryEntry is an append-only audit record. Rows are never
// mutated; they are removed only when the account deletion cascades.
type LoginHistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	LoginTime time.Time `json:"loginTime"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
}
