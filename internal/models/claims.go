package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the operator roles recognised by the API.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleHOD      UserRole = "HOD"
	RoleLecturer UserRole = "LECTURER"
)

// JWTClaims is the access token payload issued by the identity service.
type JWTClaims struct {
	UserID       string   `json:"user_id"`
	Role         UserRole `json:"role"`
	Email        string   `json:"email"`
	DepartmentID string   `json:"department_id,omitempty"`
	jwt.RegisteredClaims
}
