package dto

import authdomain "syncode-backend/internal/auth/domain"

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse keeps the field names the web client already reads.
type LoginResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	Username     string          `json:"username"`
	UserID       string          `json:"userId"`
	Role         authdomain.Role `json:"role"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	Username        string `json:"username"`
	NewPassword     string `json:"newPassword" binding:"omitempty,min=6,max=72"`
	CurrentPassword string `json:"currentPassword"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
