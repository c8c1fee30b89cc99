package middleware

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestScheduleExpiry_ValidToken(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.Generate(3, "user")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var warned, expired atomic.Int32
	w := svc.ScheduleExpiry(token, func() { warned.Add(1) }, func() { expired.Add(1) })
	defer w.Stop()

	if warned.Load() != 0 || expired.Load() != 0 {
		t.Errorf("callbacks fired immediately: warn=%d expire=%d", warned.Load(), expired.Load())
	}
	w.mu.Lock()
	n := len(w.timers)
	w.mu.Unlock()
	if n != 2 {
		t.Errorf("scheduled %d timers, want 2 (warn + expire)", n)
	}
}

func TestScheduleExpiry_ExpiredTokenFiresImmediately(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		UserID: 3,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    "stm-api",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	var expired atomic.Int32
	w := NewTokenService(secret).ScheduleExpiry(token, nil, func() { expired.Add(1) })
	defer w.Stop()

	if expired.Load() != 1 {
		t.Errorf("onExpire fired %d times, want 1", expired.Load())
	}
}

func TestScheduleExpiry_InvalidTokenFiresImmediately(t *testing.T) {
	var expired atomic.Int32
	w := NewTokenService("test-secret").ScheduleExpiry("garbage", nil, func() { expired.Add(1) })
	defer w.Stop()

	if expired.Load() != 1 {
		t.Errorf("onExpire fired %d times, want 1", expired.Load())
	}
}

func TestExpiryWatch_Stop(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.Generate(3, "user")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	w := svc.ScheduleExpiry(token, func() {}, func() {})
	w.Stop()

	w.mu.Lock()
	n := len(w.timers)
	w.mu.Unlock()
	if n != 0 {
		t.Errorf("%d timers left after Stop, want 0", n)
	}
}
