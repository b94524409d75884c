package models

import (
	"time"

	"github.com/google/uuid"
)

// Menu is one restaurant's published offering for a service date.
type Menu struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Allergens    *string
	ServiceDate  time.Time
	RestaurantID uuid.UUID
	CreatedAt    time.Time
}
