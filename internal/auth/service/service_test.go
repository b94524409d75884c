package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"refeitorio/internal/auth/models"
	"refeitorio/internal/auth/store/refresh"
	"refeitorio/internal/auth/store/revocation"
	"refeitorio/internal/auth/store/user"
	"refeitorio/internal/auth/token"
	dErrors "refeitorio/pkg/domain-errors"
)

const chromeUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type AuthServiceSuite struct {
	suite.Suite
	svc *Service
	ctx context.Context
}

func (s *AuthServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.svc = New(
		user.NewInMemory(),
		refresh.NewInMemory(),
		revocation.NewInMemory(),
		token.NewService("test-signing-key", "refeitorio"),
		logger,
	)
	s.ctx = context.Background()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) register() {
	_, err := s.svc.Register(s.ctx, "Gerente", "gerente@example.com", "s3nha-forte", "")
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestRegisterValidation() {
	s.Run("short password rejected", func() {
		_, err := s.svc.Register(s.ctx, "Gerente", "g@example.com", "curta", "")
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown role rejected", func() {
		_, err := s.svc.Register(s.ctx, "Gerente", "g@example.com", "s3nha-forte", "root")
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})

	s.Run("duplicate email conflicts", func() {
		s.register()
		_, err := s.svc.Register(s.ctx, "Outro", "gerente@example.com", "s3nha-forte", "")
		s.True(dErrors.Is(err, dErrors.CodeConflict))
	})

	s.Run("password is not stored in clear", func() {
		// Reads back the user created by the duplicate-email subtest above;
		// SetupTest resets the store per test method, not per subtest.
		u, err := s.svc.users.FindByEmail(s.ctx, "gerente@example.com")
		s.Require().NoError(err)
		s.NotContains(u.PasswordHash, "s3nha-forte")
	})
}

func (s *AuthServiceSuite) TestLogin() {
	s.register()

	s.Run("valid credentials issue a pair", func() {
		pair, err := s.svc.Login(s.ctx, "gerente@example.com", "s3nha-forte", chromeUA)
		s.Require().NoError(err)
		s.NotEmpty(pair.AccessToken)
		s.NotEmpty(pair.RefreshToken)
		s.Positive(pair.ExpiresIn)

		claims, err := s.svc.tokens.ValidateToken(pair.AccessToken)
		s.Require().NoError(err)
		s.Equal("manager", claims.Role)
	})

	s.Run("wrong password is unauthorized", func() {
		_, err := s.svc.Login(s.ctx, "gerente@example.com", "errada", chromeUA)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown email is indistinguishable from wrong password", func() {
		_, wrongPass := s.svc.Login(s.ctx, "gerente@example.com", "errada", chromeUA)
		_, unknown := s.svc.Login(s.ctx, "ninguem@example.com", "errada", chromeUA)
		s.Equal(wrongPass.Error(), unknown.Error())
	})

	s.Run("device label derived from user agent", func() {
		pair, err := s.svc.Login(s.ctx, "gerente@example.com", "s3nha-forte", chromeUA)
		s.Require().NoError(err)
		record, err := s.svc.refresh.Find(s.ctx, pair.RefreshToken)
		s.Require().NoError(err)
		s.Contains(record.Device, "Chrome")
	})
}

func (s *AuthServiceSuite) TestRefreshIsSingleUse() {
	s.register()
	pair, err := s.svc.Login(s.ctx, "gerente@example.com", "s3nha-forte", chromeUA)
	s.Require().NoError(err)

	next, err := s.svc.Refresh(s.ctx, pair.RefreshToken, chromeUA)
	s.Require().NoError(err)
	s.NotEqual(pair.RefreshToken, next.RefreshToken)

	// Replaying the consumed token must fail.
	_, err = s.svc.Refresh(s.ctx, pair.RefreshToken, chromeUA)
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))

	// The successor still works.
	_, err = s.svc.Refresh(s.ctx, next.RefreshToken, chromeUA)
	s.Require().NoError(err)
}

func (s *AuthServiceSuite) TestRefreshExpired() {
	u, err := s.svc.Register(s.ctx, "Gerente", "gerente@example.com", "s3nha-forte", "")
	s.Require().NoError(err)

	s.Run("service clock past the record expiry", func() {
		pair, err := s.svc.Login(s.ctx, "gerente@example.com", "s3nha-forte", chromeUA)
		s.Require().NoError(err)

		s.svc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
		defer func() { s.svc.now = time.Now }()

		_, err = s.svc.Refresh(s.ctx, pair.RefreshToken, chromeUA)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.Run("store reports an expired record", func() {
		stale := &models.RefreshToken{
			Token:     "stale-refresh-token",
			UserID:    u.ID,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		s.Require().NoError(s.svc.refresh.Create(s.ctx, stale))

		_, err := s.svc.Refresh(s.ctx, "stale-refresh-token", chromeUA)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func (s *AuthServiceSuite) TestSignOut() {
	s.register()
	pair, err := s.svc.Login(s.ctx, "gerente@example.com", "s3nha-forte", chromeUA)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.SignOut(s.ctx, pair.RefreshToken))

	_, err = s.svc.Refresh(s.ctx, pair.RefreshToken, chromeUA)
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))

	// Signing out twice is a no-op.
	s.Require().NoError(s.svc.SignOut(s.ctx, pair.RefreshToken))
}

func (s *AuthServiceSuite) TestGarbageRefreshToken() {
	_, err := s.svc.Refresh(s.ctx, "definitely-not-a-token", chromeUA)
	s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
}
