package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrInvalid            = errors.New("invalid user")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLastAdmin          = errors.New("cannot delete the last admin")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

type User struct {
	ID           uuid.UUID
	Username     string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}
