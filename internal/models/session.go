package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the role carried in a session credential.
type UserRole string

const RoleAdmin UserRole = "admin"

// LoginRequest holds credentials for authenticating the administrator.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo describes the authenticated administrator in responses.
type UserInfo struct {
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// Session is an issued session credential.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// SessionClaims represents the JWT payload of a session credential.
type SessionClaims struct {
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
	jwt.RegisteredClaims
}

// User returns the public view of the claims.
func (c *SessionClaims) User() UserInfo {
	return UserInfo{Email: c.Email, Role: c.Role}
}
