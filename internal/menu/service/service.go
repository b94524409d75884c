package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"refeitorio/internal/menu/models"
	"refeitorio/internal/menu/store"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/sentinel"
)

// RestaurantChecker reports whether a restaurant exists. The restaurant
// service satisfies this.
type RestaurantChecker interface {
	Exists(ctx context.Context, restaurantID string) (bool, error)
}

// Service owns menu publication and lookup.
type Service struct {
	store       store.Store
	restaurants RestaurantChecker
}

func New(store store.Store, restaurants RestaurantChecker) *Service {
	return &Service{store: store, restaurants: restaurants}
}

// CreateParams carries a new menu. ServiceDate is normalized to midnight UTC
// so that day-window queries behave the same regardless of the caller's zone.
type CreateParams struct {
	Name         string
	Description  string
	Allergens    *string
	ServiceDate  time.Time
	RestaurantID uuid.UUID
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Menu, error) {
	if p.Name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}
	if p.ServiceDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "service_date is required")
	}

	ok, err := s.restaurants.Exists(ctx, p.RestaurantID.String())
	if err != nil {
		return nil, fmt.Errorf("check restaurant: %w", err)
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "restaurant not found")
	}

	menu := &models.Menu{
		ID:           uuid.New(),
		Name:         p.Name,
		Description:  p.Description,
		Allergens:    p.Allergens,
		ServiceDate:  midnightUTC(p.ServiceDate),
		RestaurantID: p.RestaurantID,
	}
	if err := s.store.Create(ctx, menu); err != nil {
		return nil, fmt.Errorf("create menu: %w", err)
	}
	return menu, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	menu, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "menu not found")
		}
		return nil, fmt.Errorf("find menu: %w", err)
	}
	return menu, nil
}

// Upcoming returns the restaurant's menus for the given day and the day
// after, ordered by service date.
func (s *Service) Upcoming(ctx context.Context, restaurantID uuid.UUID, day time.Time) ([]*models.Menu, error) {
	from := midnightUTC(day)
	to := from.AddDate(0, 0, 2)
	menus, err := s.store.ListByServiceDate(ctx, restaurantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	return menus, nil
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
