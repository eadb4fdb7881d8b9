package delivery

import (
	"net/http"

	authdto "syncode-backend/internal/auth/dto"
	"syncode-backend/internal/auth/usecase"
	"syncode-backend/pkg/perrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	log         *zap.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		log:         log,
	}
}

// Signup registers a new account
// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req authdto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("username, valid email and a password of at least 6 characters are required", err))
		return
	}

	if _, err := h.authUsecase.Signup(c.Request.Context(), &req); err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, authdto.MessageResponse{Message: "User registered successfully"})
}

// Login exchanges credentials for an access and refresh token pair
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("email and password are required", err))
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefreshToken issues a new access token
// POST /refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrUnauthenticated("refresh token required", err))
		return
	}

	resp, err := h.authUsecase.RefreshToken(c.Request.Context(), req.Token)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout revokes the presented tokens when revocation is enabled
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.authUsecase.Logout(c.Request.Context(), c.GetString(ctxToken), req.RefreshToken); err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, authdto.MessageResponse{Message: "Logged out successfully"})
}

// Me returns the caller's profile
// GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, user)
}

// UpdateProfile changes username and/or password
// PUT /me
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req authdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perrors.Abort(c, h.log, perrors.NewErrInvalidRequest("invalid request body", err))
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.Request.Context(), c.GetString(ctxUserID), &req)
	if err != nil {
		perrors.Abort(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
}
