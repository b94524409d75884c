package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is one collaborator's meal order for one day. Orders are immutable
// after creation; the only allowed mutation is deletion before the order
// date.
type Order struct {
	ID             uuid.UUID
	CollaboratorID uuid.UUID
	MenuID         uuid.UUID
	RestaurantID   uuid.UUID
	OrderDate      time.Time
	Price          int
	CreatedAt      time.Time
}

// Day normalizes a timestamp to its UTC calendar day. The one-order-per-day
// rule and the snapshot window both use this normalization, so "same day"
// means the same thing everywhere.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
