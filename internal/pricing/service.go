package pricing

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pawnbook/internal/encoding"
	"github.com/MrJamesThe3rd/pawnbook/internal/pricing/csvimport"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=pricing
type Repository interface {
	ListKarats(ctx context.Context) ([]*Karat, error)
	ListLoanPeriods(ctx context.Context) ([]*LoanPeriod, error)

	ListPricing(ctx context.Context) ([]*Pricing, error)
	GetPricing(ctx context.Context, id uuid.UUID) (*Pricing, error)
	FindPricing(ctx context.Context, karatID, loanPeriodID int) (*Pricing, error)
	CreatePricing(ctx context.Context, p *Pricing) error
	UpdatePricing(ctx context.Context, p *Pricing) error
	DeletePricing(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context) (ImportTx, error)
}

type ImportTx interface {
	UpsertKarat(ctx context.Context, name string) (int, error)
	UpsertLoanPeriod(ctx context.Context, months int) (int, error)
	UpsertPricing(ctx context.Context, p *Pricing) (bool, error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo   Repository
	parser *csvimport.Parser
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, parser: csvimport.NewParser()}
}

type CreateParams struct {
	KaratID      int
	LoanPeriodID int
	Price        decimal.Decimal
}

func (s *Service) Karats(ctx context.Context) ([]*Karat, error) {
	return s.repo.ListKarats(ctx)
}

func (s *Service) LoanPeriods(ctx context.Context) ([]*LoanPeriod, error) {
	return s.repo.ListLoanPeriods(ctx)
}

func (s *Service) List(ctx context.Context) ([]*Pricing, error) {
	return s.repo.ListPricing(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Pricing, error) {
	return s.repo.GetPricing(ctx, id)
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Pricing, error) {
	if params.KaratID <= 0 || params.LoanPeriodID <= 0 {
		return nil, fmt.Errorf("%w: karat and loan period are required", ErrInvalid)
	}

	if !params.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalid)
	}

	p := &Pricing{
		KaratID:      params.KaratID,
		LoanPeriodID: params.LoanPeriodID,
		Price:        params.Price.Round(2),
	}

	if err := s.repo.CreatePricing(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*Pricing, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalid)
	}

	p, err := s.repo.GetPricing(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Price = price.Round(2)

	if err := s.repo.UpdatePricing(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePricing(ctx, id)
}

// Propose values goldWeight at the configured price for the karat and loan period.
func (s *Service) Propose(ctx context.Context, karatID, loanPeriodID int, goldWeight decimal.Decimal) (*Proposal, error) {
	if !goldWeight.IsPositive() {
		return nil, fmt.Errorf("%w: gold weight must be positive", ErrInvalid)
	}

	p, err := s.repo.FindPricing(ctx, karatID, loanPeriodID)
	if err != nil {
		return nil, err
	}

	return &Proposal{
		Pricing:    p,
		GoldWeight: goldWeight,
		Value:      p.Price.Mul(goldWeight).Round(2),
	}, nil
}

type ImportResult struct {
	Profile string
	Charset encoding.Charset
	Created int
	Updated int
}

// Import loads a pricing sheet. Unknown karats and loan periods are added; existing prices
// are overwritten. Nothing is written unless the whole sheet parses.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	sheet, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	result := &ImportResult{Profile: sheet.Profile, Charset: sheet.Charset}

	if len(sheet.Rows) == 0 {
		return result, nil
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	karats := make(map[string]int)
	periods := make(map[int]int)

	for _, row := range sheet.Rows {
		karatID, ok := karats[row.Karat]
		if !ok {
			if karatID, err = itx.UpsertKarat(ctx, row.Karat); err != nil {
				return nil, fmt.Errorf("line %d: %w", row.Line, err)
			}

			karats[row.Karat] = karatID
		}

		periodID, ok := periods[row.Months]
		if !ok {
			if periodID, err = itx.UpsertLoanPeriod(ctx, row.Months); err != nil {
				return nil, fmt.Errorf("line %d: %w", row.Line, err)
			}

			periods[row.Months] = periodID
		}

		created, err := itx.UpsertPricing(ctx, &Pricing{
			KaratID:      karatID,
			LoanPeriodID: periodID,
			Price:        row.Price.Round(2),
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}

		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}
