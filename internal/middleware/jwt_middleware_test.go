package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KaranGhugal/STM/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func TestTokenService_GenerateAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Generate(42, "admin")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("claims.UserID = %v, want 42", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("claims.Role = %v, want admin", claims.Role)
	}
	if claims.Issuer != "stm-api" {
		t.Errorf("claims.Issuer = %v, want stm-api", claims.Issuer)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 || remaining > TokenValidity {
		t.Errorf("expiry %v out of range (0, %v]", remaining, TokenValidity)
	}
}

func TestTokenService_GenerateRequiresSecret(t *testing.T) {
	svc := NewTokenService("")

	_, err := svc.Generate(1, "user")
	if !errors.Is(err, apperr.ErrConfig) {
		t.Errorf("Generate() error = %v, want ErrConfig", err)
	}
}

func TestTokenService_GenerateValidatesInput(t *testing.T) {
	svc := NewTokenService("test-secret")

	if _, err := svc.Generate(0, "user"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("Generate(0, user) error = %v, want ErrInvalidArgument", err)
	}
	if _, err := svc.Generate(1, ""); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("Generate(1, \"\") error = %v, want ErrInvalidArgument", err)
	}
}

func TestTokenService_VerifyExpired(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		UserID: 1,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    "stm-api",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = NewTokenService(secret).Verify(token)
	if !errors.Is(err, apperr.ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenService_VerifyRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"random string", "not.a.valid.token"},
		{"truncated", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			if !errors.Is(err, apperr.ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenService_VerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-one").Generate(7, "user")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = NewTokenService("secret-two").Verify(token)
	if !errors.Is(err, apperr.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_VerifyRejectsMissingPayload(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "stm-api",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = NewTokenService(secret).Verify(token)
	if !errors.Is(err, apperr.ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestAuth(t *testing.T) {
	svc := NewTokenService("test-secret")
	token, err := svc.Generate(9, "user")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	e := echo.New()
	handler := Auth(svc)(func(c echo.Context) error {
		claims := GetClaims(c)
		if claims == nil {
			t.Fatal("GetClaims() = nil inside protected handler")
		}
		if claims.UserID != 9 {
			t.Errorf("claims.UserID = %v, want 9", claims.UserID)
		}
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"tampered token", "Bearer " + token + "x", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler(c); err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("status = %v, want %v", rec.Code, tt.want)
			}
		})
	}
}

func TestGetClaims_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if got := GetClaims(c); got != nil {
		t.Errorf("GetClaims() = %v, want nil", got)
	}
}
