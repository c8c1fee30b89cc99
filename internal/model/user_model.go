package model

import "time"

type User struct {
	UserID        int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	PasswordHash  string     `json:"-"` // never JSON-encode
	Photo         string     `json:"photo"`
	EmailVerified bool       `json:"isEmailVerified"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}
