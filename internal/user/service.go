package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context, role Role) (int, error)
}

type Service struct {
	repo Repository
	cost int
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

type CreateParams struct {
	Username string
	Name     string
	Role     Role
	Password string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*User, error) {
	u := &User{
		Username: strings.ToLower(strings.TrimSpace(params.Username)),
		Name:     strings.TrimSpace(params.Name),
		Role:     params.Role,
	}

	switch {
	case u.Username == "":
		return nil, fmt.Errorf("%w: username is required", ErrInvalid)
	case u.Name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	case !u.Role.Valid():
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalid, params.Role)
	case len(params.Password) < minPasswordLen:
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalid, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u.PasswordHash = string(hash)

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate checks a username and password. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if u.Role == RoleAdmin {
		n, err := s.repo.CountByRole(ctx, RoleAdmin)
		if err != nil {
			return fmt.Errorf("counting admins: %w", err)
		}

		if n <= 1 {
			return ErrLastAdmin
		}
	}

	return s.repo.DeleteUser(ctx, id)
}

// BootstrapAdmin creates the first admin account. It does nothing once any admin exists.
func (s *Service) BootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	n, err := s.repo.CountByRole(ctx, RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("counting admins: %w", err)
	}

	if n > 0 {
		return false, nil
	}

	if _, err := s.Create(ctx, CreateParams{
		Username: username,
		Name:     "Administrator",
		Role:     RoleAdmin,
		Password: password,
	}); err != nil {
		return false, err
	}

	return true, nil
}
