package delivery

import (
	"strings"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/auth/usecase"
	"syncode-backend/pkg/perrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxUser   = "user"
	ctxUserID = "userID"
	ctxRole   = "role"
	ctxToken  = "accessToken"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func AuthMiddleware(authUsecase usecase.AuthUsecase, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			perrors.Abort(c, log, perrors.NewErrUnauthenticated("authorization header required", nil))
			return
		}

		token, ok := BearerToken(c)
		if !ok {
			perrors.Abort(c, log, perrors.NewErrUnauthenticated("invalid authorization header format", nil))
			return
		}

		user, err := authUsecase.ValidateToken(c.Request.Context(), token)
		if err != nil {
			perrors.Abort(c, log, err)
			return
		}

		setUser(c, user, token)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid bearer token is present and
// lets the request through anonymously otherwise.
func OptionalAuth(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := BearerToken(c); ok {
			if user, err := authUsecase.ValidateToken(c.Request.Context(), token); err == nil {
				setUser(c, user, token)
			}
		}
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(log *zap.Logger, roles ...authdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			perrors.Abort(c, log, perrors.NewErrUnauthenticated("authentication required", nil))
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		perrors.Abort(c, log, perrors.NewErrForbidden("access denied"))
	}
}

func CurrentUser(c *gin.Context) (*authdomain.User, bool) {
	v, ok := c.Get(ctxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*authdomain.User)
	return user, ok && user != nil
}

func setUser(c *gin.Context, user *authdomain.User, token string) {
	c.Set(ctxUser, user)
	c.Set(ctxUserID, user.ID)
	c.Set(ctxRole, string(user.Role))
	c.Set(ctxToken, token)
}
