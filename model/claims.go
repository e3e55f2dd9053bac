package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the access token payload. UserType carries the caller's role code.
type AppClaims struct {
	UserID   string `json:"user_id"`
	UserType Role   `json:"user_type"`
	jwt.RegisteredClaims
}
