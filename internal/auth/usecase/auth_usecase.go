package usecase

import (
	"context"
	"errors"
	"strings"

	authdomain "syncode-backend/internal/auth/domain"
	authdto "syncode-backend/internal/auth/dto"
	"syncode-backend/internal/auth/repository"
	"syncode-backend/internal/auth/token"
	"syncode-backend/pkg/perrors"

	"go.uber.org/zap"
)

type Options struct {
	Hasher          repository.Hasher
	AllowRoleSignup bool
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	opts     Options
	log      *zap.Logger
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, tokens *token.Service, opts Options, log *zap.Logger) AuthUsecase {
	if opts.Hasher == "" {
		opts.Hasher = repository.HasherBcrypt
	}
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		opts:     opts,
		log:      log,
	}
}

func (u *authUsecase) Signup(ctx context.Context, req *authdto.SignupRequest) (*authdomain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, perrors.NewErrInvalidRequest("username, email and password are required", nil)
	}

	role := authdomain.RoleUser
	if u.opts.AllowRoleSignup && authdomain.Role(req.Role).Valid() {
		role = authdomain.Role(req.Role)
	}

	return u.createUser(username, email, req.Password, role)
}

func (u *authUsecase) CreateAdmin(ctx context.Context, username, email, password string) (*authdomain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, perrors.NewErrInvalidRequest("email and password are required", nil)
	}
	if username == "" {
		username = "admin"
	}
	return u.createUser(username, email, password, authdomain.RoleAdmin)
}

func (u *authUsecase) createUser(username, email, password string, role authdomain.Role) (*authdomain.User, error) {
	existing, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to look up user", err)
	}
	if existing != nil {
		return nil, perrors.NewErrInvalidRequest("email already registered", nil)
	}

	hashedPassword, err := u.opts.Hasher.HashPassword(password)
	if err != nil {
		return nil, hashError(err)
	}

	user := &authdomain.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := u.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, perrors.NewErrInvalidRequest("email already registered", nil)
		}
		return nil, perrors.NewErrInternalServerError("failed to create user", err)
	}

	u.log.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to look up user", err)
	}
	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, perrors.NewErrInvalidCredentials("invalid email or password")
	}

	accessToken, err := u.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to issue token", err)
	}
	refreshToken, err := u.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to issue token", err)
	}

	return &authdto.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		Username:     user.Username,
		UserID:       user.ID,
		Role:         user.Role,
	}, nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.RefreshTokenResponse, error) {
	userID, err := u.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to look up user", err)
	}
	if user == nil {
		return nil, perrors.NewErrUnauthenticated("user no longer exists", nil)
	}

	accessToken, err := u.tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to issue token", err)
	}
	return &authdto.RefreshTokenResponse{AccessToken: accessToken}, nil
}

func (u *authUsecase) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := u.tokens.RevokeAccessToken(ctx, accessToken); err != nil && !isTokenError(err) {
		return perrors.NewErrInternalServerError("failed to revoke token", err)
	}
	if refreshToken != "" {
		if err := u.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil && !isTokenError(err) {
			return perrors.NewErrInternalServerError("failed to revoke token", err)
		}
	}
	return nil
}

func (u *authUsecase) ValidateToken(ctx context.Context, accessToken string) (*authdomain.User, error) {
	identity, err := u.tokens.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := u.userRepo.FindByID(identity.UserID)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to look up user", err)
	}
	if user == nil {
		return nil, perrors.NewErrUnauthenticated("user no longer exists", nil)
	}
	return user, nil
}

func (u *authUsecase) GetUser(ctx context.Context, id string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByID(id)
	if err != nil {
		return nil, perrors.NewErrInternalServerError("failed to look up user", err)
	}
	if user == nil {
		return nil, perrors.NewErrNotFound("user not found")
	}
	return user, nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, userID string, req *authdto.UpdateProfileRequest) (*authdomain.User, error) {
	user, err := u.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)
	if username == "" && req.NewPassword == "" {
		return nil, perrors.NewErrInvalidRequest("nothing to update", nil)
	}
	if username != "" {
		user.Username = username
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, perrors.NewErrInvalidRequest("current password is required to set a new password", nil)
		}
		if !repository.CheckPasswordHash(req.CurrentPassword, user.Password) {
			return nil, perrors.NewErrInvalidRequest("current password is incorrect", nil)
		}
		if len(req.NewPassword) < 6 {
			return nil, perrors.NewErrInvalidRequest("new password must be at least 6 characters", nil)
		}
		hashed, err := u.opts.Hasher.HashPassword(req.NewPassword)
		if err != nil {
			return nil, hashError(err)
		}
		user.Password = hashed
	}

	if err := u.userRepo.Update(user); err != nil {
		return nil, perrors.NewErrInternalServerError("failed to update user", err)
	}
	return user, nil
}

func hashError(err error) error {
	if errors.Is(err, repository.ErrPasswordTooLong) {
		return perrors.NewErrInvalidRequest("password must be at most 72 bytes", err)
	}
	return perrors.NewErrInternalServerError("failed to hash password", err)
}

func isTokenError(err error) bool {
	return errors.Is(err, token.ErrTokenInvalid) || errors.Is(err, token.ErrTokenExpired)
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return perrors.NewErrUnauthenticated("token expired", err)
	case errors.Is(err, token.ErrTokenInvalid):
		return perrors.NewErrUnauthenticated("invalid token", err)
	default:
		return perrors.NewErrInternalServerError("failed to verify token", err)
	}
}
