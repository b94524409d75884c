package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold. Managers administer one restaurant; admins
// administer the deployment.
const (
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User is a back-office account. Collaborators are not users: they order by
// CPF at a terminal and never authenticate.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// RefreshToken is one opaque refresh credential. Tokens are single-use:
// consuming one revokes it and issues a successor.
type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	Device    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
