package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetCustomerByNIC(ctx context.Context, nic string) (*Customer, error)
	ListCustomers(ctx context.Context, filter ListFilter) ([]*Customer, int, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	HasInvoices(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	NIC     string
	Name    string
	Address string
	Phone   string
}

// ListFilter matches Query against NIC and name. Limit 0 means no limit.
type ListFilter struct {
	Query  string
	Limit  int
	Offset int
}

// NormalizeNIC canonicalises an identity card number for storage and lookup.
func NormalizeNIC(nic string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(nic), " ", ""))
}

func validate(nic, name string) error {
	if nic == "" {
		return fmt.Errorf("%w: nic is required", ErrInvalid)
	}

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Customer, error) {
	c := &Customer{
		NIC:     NormalizeNIC(params.NIC),
		Name:    strings.TrimSpace(params.Name),
		Address: strings.TrimSpace(params.Address),
		Phone:   strings.TrimSpace(params.Phone),
	}

	if err := validate(c.NIC, c.Name); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *Service) GetByNIC(ctx context.Context, nic string) (*Customer, error) {
	return s.repo.GetCustomerByNIC(ctx, NormalizeNIC(nic))
}

// List returns one page of customers and the total number matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, int, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.ListCustomers(ctx, filter)
}

func (s *Service) Update(ctx context.Context, c *Customer) error {
	c.NIC = NormalizeNIC(c.NIC)
	c.Name = strings.TrimSpace(c.Name)

	if err := validate(c.NIC, c.Name); err != nil {
		return err
	}

	return s.repo.UpdateCustomer(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	has, err := s.repo.HasInvoices(ctx, id)
	if err != nil {
		return fmt.Errorf("checking invoices: %w", err)
	}

	if has {
		return ErrHasInvoices
	}

	return s.repo.DeleteCustomer(ctx, id)
}
