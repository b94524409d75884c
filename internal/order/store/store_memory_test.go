package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"refeitorio/internal/order/models"
	"refeitorio/pkg/platform/sentinel"
)

type OrderStoreSuite struct {
	suite.Suite
	store   *InMemory
	ctx     context.Context
	sectors map[uuid.UUID][2]string
}

func (s *OrderStoreSuite) SetupTest() {
	s.sectors = make(map[uuid.UUID][2]string)
	s.store = NewInMemory(func(id uuid.UUID) (string, string) {
		pair := s.sectors[id]
		return pair[0], pair[1]
	})
	s.ctx = context.Background()
}

func TestOrderStoreSuite(t *testing.T) {
	suite.Run(t, new(OrderStoreSuite))
}

func (s *OrderStoreSuite) newOrder(collaboratorID, restaurantID uuid.UUID, date time.Time) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		CollaboratorID: collaboratorID,
		MenuID:         uuid.New(),
		RestaurantID:   restaurantID,
		OrderDate:      date,
		Price:          215,
	}
}

func (s *OrderStoreSuite) TestOneOrderPerDay() {
	collaborator := uuid.New()
	restaurant := uuid.New()
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	s.Run("rejects a second order on the same day", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newOrder(collaborator, restaurant, day)))
		err := s.store.Create(s.ctx, s.newOrder(collaborator, restaurant, day.Add(3*time.Hour)))
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("allows orders on different days", func() {
		err := s.store.Create(s.ctx, s.newOrder(collaborator, restaurant, day.Add(24*time.Hour)))
		s.Require().NoError(err)
	})

	s.Run("allows different collaborators on the same day", func() {
		err := s.store.Create(s.ctx, s.newOrder(uuid.New(), restaurant, day))
		s.Require().NoError(err)
	})
}

func (s *OrderStoreSuite) TestDeleteFreesTheDay() {
	collaborator := uuid.New()
	restaurant := uuid.New()
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	order := s.newOrder(collaborator, restaurant, day)
	s.Require().NoError(s.store.Create(s.ctx, order))
	s.Require().NoError(s.store.Delete(s.ctx, order.ID))

	_, err := s.store.FindByID(s.ctx, order.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// The day slot is free again.
	s.Require().NoError(s.store.Create(s.ctx, s.newOrder(collaborator, restaurant, day)))
}

func (s *OrderStoreSuite) TestDeleteUnknownOrder() {
	s.Require().ErrorIs(s.store.Delete(s.ctx, uuid.New()), sentinel.ErrNotFound)
}

func (s *OrderStoreSuite) TestCurrentOrdersAggregation() {
	restaurant := uuid.New()
	other := uuid.New()
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	ti1, ti2, rh := uuid.New(), uuid.New(), uuid.New()
	s.sectors[ti1] = [2]string{"TI", "Matriz"}
	s.sectors[ti2] = [2]string{"TI", "Matriz"}
	s.sectors[rh] = [2]string{"RH", "Matriz"}

	s.Require().NoError(s.store.Create(s.ctx, s.newOrder(ti1, restaurant, day)))
	s.Require().NoError(s.store.Create(s.ctx, s.newOrder(ti2, restaurant, day)))
	s.Require().NoError(s.store.Create(s.ctx, s.newOrder(rh, restaurant, day)))
	// Different restaurant and different day must not leak in.
	s.Require().NoError(s.store.Create(s.ctx, s.newOrder(uuid.New(), other, day)))
	s.Require().NoError(s.store.Create(s.ctx, s.newOrder(uuid.New(), restaurant, day.Add(24*time.Hour))))

	rows, err := s.store.CurrentOrders(s.ctx, restaurant.String(), day)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.Sector] = row.Orders
	}
	s.Equal(2, counts["TI"])
	s.Equal(1, counts["RH"])
}
