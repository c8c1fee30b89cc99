package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/KaranGhugal/STM/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenValidity is the fixed lifetime of a session token.
const TokenValidity = time.Hour

// Claims defines the JWT payload: subject id plus role, re-verified on
// every request.
type Claims struct {
	UserID int64  `json:"id,string"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	secret []byte
	issuer string
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: "stm-api"}
}

// Generate creates a signed token for the given user and role. It fails
// with a config error when no signing secret is set.
func (s *TokenService) Generate(userID int64, role string) (string, error) {
	if len(s.secret) == 0 {
		return "", apperr.E(apperr.ErrConfig, "JWT_SECRET is not configured")
	}
	if userID == 0 {
		return "", apperr.E(apperr.ErrInvalidArgument, "user ID is required for token generation")
	}
	if role == "" {
		return "", apperr.E(apperr.ErrInvalidArgument, "role is required for token generation")
	}
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims. Expired
// tokens and malformed/tampered tokens report distinct kinds.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, apperr.E(apperr.ErrConfig, "JWT_SECRET is not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.E(apperr.ErrTokenExpired, "token expired")
		}
		return nil, apperr.E(apperr.ErrInvalidToken, "invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.E(apperr.ErrInvalidToken, "invalid token claims")
	}
	if claims.UserID == 0 || claims.Role == "" {
		return nil, apperr.E(apperr.ErrInvalidToken, "invalid token payload: missing id or role")
	}
	return claims, nil
}

const claimsKey = "auth_claims"

// Auth returns an Echo middleware that requires a valid bearer token and
// attaches its claims to the request context. No database lookup happens
// here; the role is trusted from the token.
func Auth(tokens *TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}
			parts := strings.Fields(auth)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header"})
			}
			claims, err := tokens.Verify(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// GetClaims extracts the claims the Auth middleware attached, or nil.
func GetClaims(c echo.Context) *Claims {
	v := c.Get(claimsKey)
	if v == nil {
		return nil
	}
	if cl, ok := v.(*Claims); ok {
		return cl
	}
	return nil
}
