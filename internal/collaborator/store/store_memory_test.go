package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"refeitorio/internal/collaborator/models"
	"refeitorio/pkg/platform/sentinel"
)

type CollaboratorStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *CollaboratorStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestCollaboratorStoreSuite(t *testing.T) {
	suite.Run(t, new(CollaboratorStoreSuite))
}

func (s *CollaboratorStoreSuite) newCollaborator(name, blindIndex string) *models.Collaborator {
	return &models.Collaborator{
		ID:            uuid.New(),
		Name:          name,
		CPFCiphertext: "aa:bb",
		CPFBlindIndex: blindIndex,
	}
}

func (s *CollaboratorStoreSuite) TestCreateAndLookups() {
	s.Run("creates and finds by ID and blind index", func() {
		c := s.newCollaborator("Ana", "idx-1")
		s.Require().NoError(s.store.Create(s.ctx, c))

		byID, err := s.store.FindByID(s.ctx, c.ID)
		s.Require().NoError(err)
		s.Equal("Ana", byID.Name)

		byIdx, err := s.store.FindByBlindIndex(s.ctx, "idx-1")
		s.Require().NoError(err)
		s.Equal(c.ID, byIdx.ID)
	})

	s.Run("returns ErrNotFound for unknown lookups", func() {
		_, err := s.store.FindByID(s.ctx, uuid.New())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByBlindIndex(s.ctx, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CollaboratorStoreSuite) TestBlindIndexUniqueness() {
	first := s.newCollaborator("Ana", "idx-1")
	second := s.newCollaborator("Bia", "idx-1")

	s.Require().NoError(s.store.Create(s.ctx, first))
	s.Require().ErrorIs(s.store.Create(s.ctx, second), sentinel.ErrConflict)
}

func (s *CollaboratorStoreSuite) TestUpdate() {
	s.Run("re-keys the blind index on CPF change", func() {
		c := s.newCollaborator("Ana", "idx-old")
		s.Require().NoError(s.store.Create(s.ctx, c))

		c.CPFBlindIndex = "idx-new"
		c.CPFCiphertext = "cc:dd"
		s.Require().NoError(s.store.Update(s.ctx, c))

		_, err := s.store.FindByBlindIndex(s.ctx, "idx-old")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		found, err := s.store.FindByBlindIndex(s.ctx, "idx-new")
		s.Require().NoError(err)
		s.Equal("cc:dd", found.CPFCiphertext)
	})

	s.Run("rejects updates onto a taken blind index", func() {
		a := s.newCollaborator("Ana", "idx-a")
		b := s.newCollaborator("Bia", "idx-b")
		s.Require().NoError(s.store.Create(s.ctx, a))
		s.Require().NoError(s.store.Create(s.ctx, b))

		b.CPFBlindIndex = "idx-a"
		s.Require().ErrorIs(s.store.Update(s.ctx, b), sentinel.ErrConflict)
	})

	s.Run("returns ErrNotFound for unknown collaborator", func() {
		ghost := s.newCollaborator("Ghost", "idx-x")
		s.Require().ErrorIs(s.store.Update(s.ctx, ghost), sentinel.ErrNotFound)
	})
}
