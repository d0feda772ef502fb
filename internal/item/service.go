package item

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=item
type Repository interface {
	CreateItem(ctx context.Context, it *Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	GetItems(ctx context.Context, ids []uuid.UUID) ([]*Item, error)
	ListItems(ctx context.Context, customerID uuid.UUID, onlyAvailable bool) ([]*Item, error)
	UpdateItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	CustomerID  uuid.UUID
	Description string
	Caratage    int
	GoldWeight  decimal.Decimal
	Value       decimal.Decimal
}

func validate(it *Item) error {
	switch {
	case it.CustomerID == uuid.Nil:
		return fmt.Errorf("%w: customer is required", ErrInvalid)
	case it.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalid)
	case it.Caratage <= 0 || it.Caratage > 24:
		return fmt.Errorf("%w: caratage must be between 1 and 24", ErrInvalid)
	case !it.GoldWeight.IsPositive():
		return fmt.Errorf("%w: gold weight must be positive", ErrInvalid)
	case !it.Value.IsPositive():
		return fmt.Errorf("%w: value must be positive", ErrInvalid)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	it := &Item{
		CustomerID:  params.CustomerID,
		Description: strings.TrimSpace(params.Description),
		Caratage:    params.Caratage,
		GoldWeight:  params.GoldWeight,
		Value:       params.Value.Round(2),
	}

	if err := validate(it); err != nil {
		return nil, err
	}

	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

// GetMany returns the items with the given IDs, failing with ErrNotFound if any is missing.
func (s *Service) GetMany(ctx context.Context, ids []uuid.UUID) ([]*Item, error) {
	items, err := s.repo.GetItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	if len(items) != len(ids) {
		return nil, ErrNotFound
	}

	return items, nil
}

// ListByCustomer lists a customer's items. With onlyAvailable set, linked items are left out.
func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID, onlyAvailable bool) ([]*Item, error) {
	return s.repo.ListItems(ctx, customerID, onlyAvailable)
}

func (s *Service) Update(ctx context.Context, it *Item) error {
	current, err := s.repo.GetItem(ctx, it.ID)
	if err != nil {
		return err
	}

	if current.Linked() {
		return ErrLinked
	}

	it.CustomerID = current.CustomerID
	it.Description = strings.TrimSpace(it.Description)
	it.Value = it.Value.Round(2)

	if err := validate(it); err != nil {
		return err
	}

	return s.repo.UpdateItem(ctx, it)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return err
	}

	if current.Linked() {
		return ErrLinked
	}

	return s.repo.DeleteItem(ctx, id)
}
