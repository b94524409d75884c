package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	collabmodels "refeitorio/internal/collaborator/models"
	"refeitorio/internal/events"
	menumodels "refeitorio/internal/menu/models"
	"refeitorio/internal/notify"
	"refeitorio/internal/order/models"
	"refeitorio/internal/order/store"
	"refeitorio/internal/platform/metrics"
	dErrors "refeitorio/pkg/domain-errors"
	"refeitorio/pkg/platform/sentinel"
)

var tracer = otel.Tracer("refeitorio/order")

// CollaboratorResolver resolves a CPF to a collaborator via the blind index.
// The collaborator service satisfies this.
type CollaboratorResolver interface {
	ResolveByCPF(ctx context.Context, cpf string) (*collabmodels.Collaborator, error)
}

// MenuFinder looks up a published menu. The menu service satisfies this.
type MenuFinder interface {
	Get(ctx context.Context, id uuid.UUID) (*menumodels.Menu, error)
}

// Notifier wakes the live feed after an order lands.
type Notifier interface {
	OrderPlaced(restaurantID string)
}

// Service owns order ingestion. It is the only writer of the orders table.
type Service struct {
	store         store.Store
	collaborators CollaboratorResolver
	menus         MenuFinder
	notifier      Notifier
	events        events.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	price         int
	now           func() time.Time
}

// New wires the order service. m may be nil in tests.
func New(
	store store.Store,
	collaborators CollaboratorResolver,
	menus MenuFinder,
	notifier Notifier,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	price int,
) *Service {
	return &Service{
		store:         store,
		collaborators: collaborators,
		menus:         menus,
		notifier:      notifier,
		events:        publisher,
		metrics:       m,
		logger:        logger,
		price:         price,
		now:           time.Now,
	}
}

// CreateParams carries one order request. CPF is plaintext and is never
// persisted; it exists only long enough to derive the blind index.
type CreateParams struct {
	CPF          string
	RestaurantID uuid.UUID
	MenuID       uuid.UUID
	OrderDate    time.Time
}

// Create resolves the collaborator, enforces the one-order-per-day rule and
// persists the order. On success it wakes the restaurant's live feed and
// emits an order.created event, both without blocking the response.
func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Order, *collabmodels.Collaborator, error) {
	ctx, span := tracer.Start(ctx, "order.Create")
	defer span.End()

	if p.OrderDate.IsZero() {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "order_date is required")
	}

	collaborator, err := s.collaborators.ResolveByCPF(ctx, p.CPF)
	if err != nil {
		return nil, nil, err
	}

	menu, err := s.menus.Get(ctx, p.MenuID)
	if err != nil {
		return nil, nil, err
	}
	if menu.RestaurantID != p.RestaurantID {
		return nil, nil, dErrors.New(dErrors.CodeNotFound, "menu not found for this restaurant")
	}

	order := &models.Order{
		ID:             uuid.New(),
		CollaboratorID: collaborator.ID,
		MenuID:         menu.ID,
		RestaurantID:   p.RestaurantID,
		OrderDate:      models.Day(p.OrderDate),
		Price:          s.price,
	}
	if err := s.store.Create(ctx, order); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			if s.metrics != nil {
				s.metrics.OrdersRejectedDup.Inc()
			}
			return nil, nil, dErrors.New(dErrors.CodeConflict, "collaborator already has an order for this day")
		}
		return nil, nil, fmt.Errorf("create order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID,
		"restaurant_id", order.RestaurantID,
		"order_date", order.OrderDate.Format("2006-01-02"),
	)

	s.notifier.OrderPlaced(order.RestaurantID.String())
	if s.events != nil {
		evt := events.OrderCreated{
			OrderID:      order.ID.String(),
			RestaurantID: order.RestaurantID.String(),
			OrderDate:    order.OrderDate,
		}
		if collaborator.SectorID != nil {
			evt.Sector = collaborator.SectorID.String()
		}
		s.events.Emit(ctx, evt)
	}

	return order, collaborator, nil
}

// Delete removes a pending order. Orders on or after their service day are
// immutable: the kitchen has already counted them.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "order.Delete")
	defer span.End()

	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "order not found")
		}
		return fmt.Errorf("find order: %w", err)
	}

	if !models.Day(s.now()).Before(order.OrderDate) {
		return dErrors.New(dErrors.CodeForbidden, "order can no longer be cancelled")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "order not found")
		}
		return fmt.Errorf("delete order: %w", err)
	}

	s.notifier.OrderPlaced(order.RestaurantID.String())
	return nil
}

// CurrentOrders returns today's per-sector aggregate for a restaurant. The
// live feed pushes the same payload.
func (s *Service) CurrentOrders(ctx context.Context, restaurantID string) ([]notify.SectorOrders, error) {
	snapshot, err := s.store.CurrentOrders(ctx, restaurantID, models.Day(s.now()))
	if err != nil {
		return nil, fmt.Errorf("current orders: %w", err)
	}
	if snapshot == nil {
		snapshot = []notify.SectorOrders{}
	}
	return snapshot, nil
}
