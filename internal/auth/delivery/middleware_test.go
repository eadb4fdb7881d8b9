package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "syncode-backend/internal/auth/domain"
	"syncode-backend/internal/auth/repository"
	"syncode-backend/internal/auth/token"
	"syncode-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	router *gin.Engine
	tokens *token.Service
	alice  *authdomain.User
	admin  *authdomain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryUserRepository()
	tokens := token.NewService(token.Config{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	uc := usecase.NewAuthUsecase(repo, tokens, usecase.Options{}, zap.NewNop())

	alice := &authdomain.User{Username: "alice", Email: "alice@example.com", Role: authdomain.RoleUser}
	admin := &authdomain.User{Username: "root", Email: "root@example.com", Role: authdomain.RoleAdmin}
	require.NoError(t, repo.Create(alice))
	require.NoError(t, repo.Create(admin))

	log := zap.NewNop()
	r := gin.New()
	who := func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "role": user.Role})
	}
	r.GET("/private", AuthMiddleware(uc, log), who)
	r.GET("/admin", AuthMiddleware(uc, log), RequireRoles(log, authdomain.RoleAdmin), who)
	r.GET("/optional", OptionalAuth(uc), who)

	return &fixture{router: r, tokens: tokens, alice: alice, admin: admin}
}

func (f *fixture) do(method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) bearer(t *testing.T, u *authdomain.User) string {
	t.Helper()
	tok, err := f.tokens.IssueAccessToken(u.ID, u.Role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	f := newFixture(t)
	ghost, err := f.tokens.IssueAccessToken("deleted-user", authdomain.RoleAdmin)
	require.NoError(t, err)
	refresh, err := f.tokens.IssueRefreshToken(f.alice.ID)
	require.NoError(t, err)

	tests := map[string]string{
		"missing header":        "",
		"wrong scheme":          "Basic abc",
		"no token":              "Bearer",
		"garbage token":         "Bearer not-a-token",
		"refresh token":         "Bearer " + refresh,
		"token of deleted user": "Bearer " + ghost,
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			w := f.do(http.MethodGet, "/private", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "unauthenticated", errorCode(t, w))
		})
	}
}

func TestAuthMiddleware_Accepts(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/private", f.bearer(t, f.alice))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), f.alice.ID)
}

func TestRequireRoles(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/admin", f.bearer(t, f.alice))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorCode(t, w))

	w = f.do(http.MethodGet, "/admin", f.bearer(t, f.admin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "authentication is checked before role")
}

func TestOptionalAuth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	w = f.do(http.MethodGet, "/optional", "Bearer junk")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	w = f.do(http.MethodGet, "/optional", f.bearer(t, f.alice))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), f.alice.ID)
}

func TestCanAccess(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.alice.CanAccess(f.alice.ID))
	assert.False(t, f.alice.CanAccess(f.admin.ID))
	assert.True(t, f.admin.CanAccess(f.alice.ID))

	var nobody *authdomain.User
	assert.False(t, nobody.CanAccess(f.alice.ID))
}
