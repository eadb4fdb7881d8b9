package usecase

import (
	"context"

	authdomain "syncode-backend/internal/auth/domain"
	authdto "syncode-backend/internal/auth/dto"
)

// AuthUsecase defines account and session operations. Errors are *perrors.Err.
type AuthUsecase interface {
	Signup(ctx context.Context, req *authdto.SignupRequest) (*authdomain.User, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.RefreshTokenResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error

	// ValidateToken verifies an access token and loads its user. A deleted
	// user fails even while the token is still within its window.
	ValidateToken(ctx context.Context, accessToken string) (*authdomain.User, error)

	GetUser(ctx context.Context, id string) (*authdomain.User, error)
	UpdateProfile(ctx context.Context, userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error)

	// CreateAdmin bootstraps an administrator account from the CLI.
	CreateAdmin(ctx context.Context, username, email, password string) (*authdomain.User, error)
}
