package api

import "github.com/techforum-dev/techforum/internal/domain"

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type RegisterResponse struct {
	Id domain.UserId `json:"id"`
}

// LoginResponse echoes the authenticated user; the token itself travels in
// the accessToken cookie.
type LoginResponse struct {
	User domain.User `json:"user"`
}

type UserResponse struct {
	domain.User
}

type UserListResponse struct {
	Users []domain.User `json:"users"`
}
