package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"refeitorio/internal/auth/device"
	"refeitorio/internal/auth/models"
	"refeitorio/internal/auth/store/refresh"
	"refeitorio/internal/auth/store/revocation"
	"refeitorio/internal/auth/store/user"
	"refeitorio/internal/auth/token"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/sentinel"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
)

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Service owns back-office authentication. Refresh tokens are opaque and
// single-use; consuming one revokes it for its remaining lifetime.
type Service struct {
	users      user.Store
	refresh    refresh.Store
	revocation revocation.List
	tokens     *token.Service
	logger     *slog.Logger

	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTokenTTLs overrides the access and refresh token lifetimes.
func WithTokenTTLs(access, refresh time.Duration) Option {
	return func(s *Service) {
		if access > 0 {
			s.accessTTL = access
		}
		if refresh > 0 {
			s.refreshTTL = refresh
		}
	}
}

func New(
	users user.Store,
	refreshStore refresh.Store,
	revocationList revocation.List,
	tokens *token.Service,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	svc := &Service{
		users:      users,
		refresh:    refreshStore,
		revocation: revocationList,
		tokens:     tokens,
		logger:     logger,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Register creates a back-office user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if name == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name and email are required")
	}
	if len(password) < 8 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "password must be at least 8 characters")
	}
	if role == "" {
		role = models.RoleManager
	}
	if role != models.RoleManager && role != models.RoleAdmin {
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Login verifies credentials and issues a token pair. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password, userAgent string) (*TokenPair, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	pair, err := s.issuePair(ctx, u, device.ParseUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return pair, nil
}

// Refresh consumes a refresh token and issues a fresh pair. The consumed
// token is revoked for its remaining lifetime so replays fail even after the
// store row is gone.
func (s *Service) Refresh(ctx context.Context, refreshToken, userAgent string) (*TokenPair, error) {
	revoked, err := s.revocation.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "refresh token revoked")
	}

	record, err := s.refresh.Find(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrExpired):
			return nil, dErrors.New(dErrors.CodeUnauthorized, "refresh token expired")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	// Stores enforce expiry with the wall clock; this covers the injectable one.
	if s.now().After(record.ExpiresAt) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "refresh token expired")
	}

	u, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.consume(ctx, record); err != nil {
		return nil, err
	}

	label := record.Device
	if userAgent != "" {
		label = device.ParseUserAgent(userAgent)
	}
	return s.issuePair(ctx, u, label)
}

// SignOut revokes a refresh token. Unknown tokens are a no-op so sign-out is
// idempotent.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	record, err := s.refresh.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find refresh token: %w", err)
	}
	return s.consume(ctx, record)
}

func (s *Service) consume(ctx context.Context, record *models.RefreshToken) error {
	ttl := record.ExpiresAt.Sub(s.now())
	if ttl > 0 {
		if err := s.revocation.Revoke(ctx, record.Token, ttl); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}
	if err := s.refresh.Delete(ctx, record.Token); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *Service) issuePair(ctx context.Context, u *models.User, deviceLabel string) (*TokenPair, error) {
	access, err := s.tokens.Generate(u.ID, u.Role, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	opaque, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}
	record := &models.RefreshToken{
		Token:     opaque,
		UserID:    u.ID,
		Device:    deviceLabel,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.refresh.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: opaque,
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

func newOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
