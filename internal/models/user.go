package models

import "github.com/golang-jwt/jwt/v5"

// UserRole distinguishes administrators from unit staff.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleStaff UserRole = "STAFF"
)

// AllUnits is the unit token granting access to every unit.
const AllUnits = "todas"

// User is a dashboard login. Units is the comma-separated permission string.
type User struct {
	Login    string   `json:"login"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Units    string   `json:"units"`
	Role     UserRole `json:"role"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	Login string   `json:"login"`
	Name  string   `json:"name"`
	Units string   `json:"units"`
	Role  UserRole `json:"role"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserInfo `json:"user"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Login string   `json:"login"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
	Units string   `json:"units"`
	jwt.RegisteredClaims
}

// Pagination describes a page of a listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
