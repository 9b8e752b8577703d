package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/identity-service/backend/internal/apperr"
	"github.com/identity-service/backend/internal/config"
	"github.com/identity-service/backend/internal/db"
	"github.com/identity-service/backend/internal/model"
	"github.com/identity-service/backend/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// RefreshRegistry tracks the currently valid refresh token per username.
// Save overwrites unconditionally; each operation is individually atomic.
type RefreshRegistry interface {
	Save(ctx context.Context, username, token string, ttl time.Duration) error
	Matches(ctx context.Context, username, token string) (bool, error)
	Delete(ctx context.Context, username string) error
}

// AuthService orchestrates login, introspection, refresh and logout over the
// token codec and the refresh registry.
type AuthService struct {
	users      UserStore
	registry   RefreshRegistry
	codec      *token.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users UserStore, registry RefreshRegistry, codec *token.Codec, cfg config.JWTConfig) (*AuthService, error) {
	accessTTL, err := time.ParseDuration(cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TTL: %w", err)
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TTL: %w", err)
	}

	return &AuthService{
		users:      users,
		registry:   registry,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Authenticate verifies the credentials and issues an access/refresh token
// pair. The refresh token replaces any previously registered one for the
// user; last login wins.
func (s *AuthService) Authenticate(ctx context.Context, req model.AuthenticationRequest) (*model.AuthenticationResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.UserNotExisted)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperr.New(apperr.Unauthenticated)
	}

	accessToken, err := s.codec.Issue(user.Username, s.accessTTL, buildScope(user))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.Issue(user.Username, s.refreshTTL, "")
	if err != nil {
		return nil, err
	}

	if err := s.registry.Save(ctx, user.Username, refreshToken, s.refreshTTL); err != nil {
		return nil, err
	}

	return &model.AuthenticationResponse{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		Authenticated: true,
	}, nil
}

// Introspect reports token validity. An expired but well-signed token yields
// valid=false; only structurally broken input is an error.
func (s *AuthService) Introspect(req model.IntrospectRequest) (*model.IntrospectResponse, error) {
	claims, err := s.codec.Verify(req.Token)
	if err != nil {
		return nil, apperr.New(apperr.InvalidToken)
	}
	return &model.IntrospectResponse{Valid: !s.codec.Expired(claims)}, nil
}

// Refresh exchanges a registered refresh token for a new access token. The
// refresh token itself is not rotated: the returned pair carries the
// presented token and the registry entry keeps its original TTL. Every
// failure on this path surfaces as Unauthenticated so callers cannot tell a
// malformed token from an expired or superseded one.
func (s *AuthService) Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthenticationResponse, error) {
	resp, err := s.newAccessToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, apperr.New(apperr.Unauthenticated)
	}
	return resp, nil
}

func (s *AuthService) newAccessToken(ctx context.Context, refreshToken string) (*model.AuthenticationResponse, error) {
	user, err := s.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Issue(user.Username, s.accessTTL, buildScope(user))
	if err != nil {
		return nil, err
	}

	return &model.AuthenticationResponse{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		Authenticated: true,
	}, nil
}

// Logout deletes the registry entry for the token's owner, invalidating the
// refresh token. Failures collapse to Unauthenticated as on the refresh path.
func (s *AuthService) Logout(ctx context.Context, req model.RefreshRequest) error {
	user, err := s.verifyRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return apperr.New(apperr.Unauthenticated)
	}
	if err := s.registry.Delete(ctx, user.Username); err != nil {
		return apperr.New(apperr.Unauthenticated)
	}
	return nil
}

// verifyRefreshToken checks signature and expiry, then compares the presented
// token against the registry entry for its subject. A mismatch means the
// token was revoked or superseded by a later login.
func (s *AuthService) verifyRefreshToken(ctx context.Context, refreshToken string) (*model.User, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	if s.codec.Expired(claims) {
		return nil, apperr.New(apperr.Unauthenticated)
	}

	username := claims.Subject
	match, err := s.registry.Matches(ctx, username, refreshToken)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, apperr.New(apperr.Unauthenticated)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.New(apperr.UserNotExisted)
		}
		return nil, err
	}
	return user, nil
}

// buildScope snapshots the user's role names into a space-joined scope claim.
func buildScope(user *model.User) string {
	return strings.Join(user.Roles, " ")
}
