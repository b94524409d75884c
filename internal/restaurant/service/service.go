package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"refeitorio/internal/restaurant/models"
	"refeitorio/internal/restaurant/store"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/sentinel"
)

// Service owns restaurant operations and doubles as the existence oracle for
// the live feed and menu publication.
type Service struct {
	store store.Store
}

func New(store store.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, name string, managerID, unitID *uuid.UUID) (*models.Restaurant, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	restaurant := &models.Restaurant{
		ID:        uuid.New(),
		Name:      name,
		ManagerID: managerID,
		UnitID:    unitID,
	}
	if err := s.store.Create(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}
	return restaurant, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "restaurant not found")
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return restaurant, nil
}

// Exists satisfies the live feed's restaurant checker. A malformed ID is
// simply an unknown restaurant.
func (s *Service) Exists(ctx context.Context, restaurantID string) (bool, error) {
	id, err := uuid.Parse(restaurantID)
	if err != nil {
		return false, nil
	}
	_, err = s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
