package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "refeitorio/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "refeitorio")
	userID := uuid.New()

	signed, err := svc.Generate(userID, "manager", time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("test-signing-key", "refeitorio")

	signed, err := svc.Generate(uuid.New(), "manager", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestWrongKeyRejected(t *testing.T) {
	signer := NewService("key-one", "refeitorio")
	verifier := NewService("key-two", "refeitorio")

	signed, err := signer.Generate(uuid.New(), "admin", time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(signed)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestGarbageRejected(t *testing.T) {
	svc := NewService("test-signing-key", "refeitorio")

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
