package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"refeitorio/internal/collaborator/store"
	"refeitorio/internal/pii"
	dErrors "refeitorio/pkg/domain-errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	codec, err := pii.NewCodec(bytes.Repeat([]byte{0x42}, 32))
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return New(store.NewInMemory(), codec, logger)
}

func TestCreateStoresNoPlaintextCPF(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	const cpf = "146.113.760-87"

	created, err := svc.Create(ctx, "Maria Silva", cpf)
	require.NoError(t, err)

	require.NotContains(t, created.CPFCiphertext, cpf)
	require.NotEqual(t, cpf, created.CPFBlindIndex)
	require.Len(t, created.CPFBlindIndex, 64)
}

func TestCreateRejectsDuplicateCPF(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "Maria Silva", "146.113.760-87")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Outra Pessoa", "146.113.760-87")
	require.True(t, dErrors.Is(err, dErrors.CodeConflict), "expected conflict, got %v", err)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "ab", "146.113.760-87")
	require.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	_, err = svc.Create(ctx, strings.Repeat("x", 101), "146.113.760-87")
	require.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	_, err = svc.Create(ctx, "Maria Silva", "")
	require.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestResolveByCPF(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	const cpf = "146.113.760-87"

	created, err := svc.Create(ctx, "Maria Silva", cpf)
	require.NoError(t, err)

	resolved, err := svc.ResolveByCPF(ctx, cpf)
	require.NoError(t, err)
	require.Equal(t, created.ID, resolved.ID)

	_, err = svc.ResolveByCPF(ctx, "529.982.247-25")
	require.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestGetDecryptsForDisplay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	const cpf = "146.113.760-87"

	created, err := svc.Create(ctx, "Maria Silva", cpf)
	require.NoError(t, err)

	_, plaintext, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, cpf, plaintext)
}

func TestUpdateCPFRederivesBothFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Maria Silva", "146.113.760-87")
	require.NoError(t, err)
	oldIndex := created.CPFBlindIndex
	oldEnvelope := created.CPFCiphertext

	newCPF := "529.982.247-25"
	require.NoError(t, svc.Update(ctx, created.ID, UpdateParams{CPF: &newCPF}))

	resolved, err := svc.ResolveByCPF(ctx, newCPF)
	require.NoError(t, err)
	require.Equal(t, created.ID, resolved.ID)
	require.NotEqual(t, oldIndex, resolved.CPFBlindIndex)
	require.NotEqual(t, oldEnvelope, resolved.CPFCiphertext)

	// The old CPF no longer resolves.
	_, err = svc.ResolveByCPF(ctx, "146.113.760-87")
	require.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}
