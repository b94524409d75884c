package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant publishes menus and receives orders; each has its own live
// viewer feed.
type Restaurant struct {
	ID        uuid.UUID
	Name      string
	ManagerID *uuid.UUID
	UnitID    *uuid.UUID
	CreatedAt time.Time
}
