package middleware

import (
	"sync"
	"time"
)

// WarnBefore is how long before expiry the warning callback fires.
const WarnBefore = 5 * time.Minute

// ExpiryWatch holds the one-shot timers scheduled for a session token.
// Stop must be called on logout so stale callbacks never fire after a
// re-login.
type ExpiryWatch struct {
	mu     sync.Mutex
	timers []*time.Timer
}

// Stop cancels any pending callbacks.
func (w *ExpiryWatch) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
}

// ScheduleExpiry arranges session-expiry callbacks for a token: onWarn
// fires once, five minutes before expiry, when more than five minutes
// remain; onExpire fires once at expiry to force logout. A token that is
// already expired (or unreadable) triggers onExpire immediately.
func (s *TokenService) ScheduleExpiry(tokenString string, onWarn, onExpire func()) *ExpiryWatch {
	w := &ExpiryWatch{}

	claims, err := s.Verify(tokenString)
	if err != nil {
		onExpire()
		return w
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		onExpire()
		return w
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if remaining > WarnBefore && onWarn != nil {
		w.timers = append(w.timers, time.AfterFunc(remaining-WarnBefore, onWarn))
	}
	w.timers = append(w.timers, time.AfterFunc(remaining, onExpire))
	return w
}
