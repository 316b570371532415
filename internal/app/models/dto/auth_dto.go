package dto

import "github.com/nexusnu/webclient/internal/app/models"

// LoginRequest is the login form and the backend login payload
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest is the registration form and the backend register payload
type RegisterRequest struct {
	Name       string          `json:"name" form:"name" binding:"required"`
	Email      string          `json:"email" form:"email" binding:"required,email"`
	Password   string          `json:"password" form:"password" binding:"required,min=6"`
	Role       models.UserRole `json:"role" form:"role" binding:"required,oneof=student professor"`
	Bio        string          `json:"bio,omitempty" form:"bio"`
	Major      string          `json:"major,omitempty" form:"major"`
	Department string          `json:"department,omitempty" form:"department"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

// CurrentUserResponse is returned by /auth/me
type CurrentUserResponse struct {
	User models.User `json:"user"`
}
