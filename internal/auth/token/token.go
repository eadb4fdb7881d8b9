package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "syncode-backend/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims is the payload of both token kinds. Role is only set on access tokens.
type Claims struct {
	UserID string          `json:"id"`
	Role   authdomain.Role `json:"role,omitempty"`
	Type   Type            `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is what a verified access token proves about its bearer.
type Identity struct {
	UserID string
	Role   authdomain.Role
}

type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Service issues and verifies HS256 tokens. Access and refresh tokens use
// independent secrets and lifetimes.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
	denylist      Denylist
}

type Option func(*Service)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDenylist enables revocation checks on verify.
func WithDenylist(d Denylist) Option {
	return func(s *Service) { s.denylist = d }
}

func NewService(cfg Config, opts ...Option) *Service {
	s := &Service{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *Service) IssueAccessToken(userID string, role authdomain.Role) (string, error) {
	return s.issue(Claims{UserID: userID, Role: role, Type: TypeAccess}, s.accessSecret, s.accessTTL)
}

func (s *Service) IssueRefreshToken(userID string) (string, error) {
	return s.issue(Claims{UserID: userID, Type: TypeRefresh}, s.refreshSecret, s.refreshTTL)
}

func (s *Service) issue(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", claims.Type, err)
	}
	return signed, nil
}

func (s *Service) VerifyAccessToken(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.verify(ctx, tokenString, s.accessSecret, TypeAccess)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *Service) VerifyRefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.verify(ctx, tokenString, s.refreshSecret, TypeRefresh)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// RevokeAccessToken and RevokeRefreshToken add a still-valid token to the
// denylist until it would have expired. Without a denylist they are no-ops.
func (s *Service) RevokeAccessToken(ctx context.Context, tokenString string) error {
	return s.revoke(ctx, tokenString, s.accessSecret, TypeAccess)
}

func (s *Service) RevokeRefreshToken(ctx context.Context, tokenString string) error {
	return s.revoke(ctx, tokenString, s.refreshSecret, TypeRefresh)
}

func (s *Service) revoke(ctx context.Context, tokenString string, secret []byte, typ Type) error {
	if s.denylist == nil {
		return nil
	}
	claims, err := s.parse(tokenString, secret, typ)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil
		}
		return err
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *Service) verify(ctx context.Context, tokenString string, secret []byte, typ Type) (*Claims, error) {
	claims, err := s.parse(tokenString, secret, typ)
	if err != nil {
		return nil, err
	}
	if s.denylist != nil {
		// An unreachable denylist cannot vouch for the token, so it is rejected.
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: check denylist: %w", ErrTokenInvalid, err)
		}
		if revoked {
			return nil, ErrTokenInvalid
		}
	}
	return claims, nil
}

func (s *Service) parse(tokenString string, secret []byte, typ Type) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid || claims.Type != typ || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
