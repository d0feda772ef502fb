package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pawnbook/internal/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/loan"
	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, int, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
	HasDependents(ctx context.Context, id uuid.UUID) (bool, error)
	LoanState(ctx context.Context, originID uuid.UUID) (*LoanState, error)

	BeginCreate(ctx context.Context) (CreateTx, error)
}

// CreateTx writes one invoice with its item links and ledger entry atomically.
type CreateTx interface {
	LockLoan(ctx context.Context, originID uuid.UUID) (*LoanState, error)
	NextNumber(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, inv *Invoice) error
	LinkItems(ctx context.Context, inv *Invoice) error
	CreateTransaction(ctx context.Context, tx *transaction.Transaction) error
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) error
	Commit() error
	Rollback() error
}

type ItemGetter interface {
	GetMany(ctx context.Context, ids []uuid.UUID) ([]*item.Item, error)
}

type Service struct {
	repo  Repository
	items ItemGetter
	mode  loan.SettlementMode
}

func NewService(repo Repository, items ItemGetter, mode loan.SettlementMode) *Service {
	return &Service{repo: repo, items: items, mode: mode}
}

type ListFilter struct {
	Type       *loan.InvoiceType
	CustomerID *uuid.UUID
	OriginID   *uuid.UUID
	Limit      int
	Offset     int
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, int, error) {
	return s.repo.ListInvoices(ctx, filter)
}

// Delete removes an invoice that nothing else was recorded against. Its ledger entry goes
// with it and its items become available again.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	has, err := s.repo.HasDependents(ctx, id)
	if err != nil {
		return fmt.Errorf("checking dependents: %w", err)
	}

	if has {
		return ErrHasDependents
	}

	return s.repo.DeleteInvoice(ctx, id)
}

// LoanInfo returns the current state of the loan opened by originID.
func (s *Service) LoanInfo(ctx context.Context, originID uuid.UUID) (*LoanState, error) {
	return s.repo.LoanState(ctx, originID)
}

// Quote computes a draft without recording anything.
func (s *Service) Quote(ctx context.Context, d Draft) (*Quote, error) {
	switch d.Type {
	case loan.InvoiceIssuance:
		q, _, err := s.quoteIssuance(ctx, d)
		return q, err
	case loan.InvoiceInstallment, loan.InvoiceSettlement:
		if d.OriginID == nil {
			return nil, invalid(ErrOriginRequired, "")
		}

		state, err := s.repo.LoanState(ctx, *d.OriginID)
		if err != nil {
			return nil, err
		}

		return s.quoteRepayment(d, state)
	}

	return nil, invalid(ErrInvalidType, d.Type.String())
}

// Create records a new invoice of the draft's type.
func (s *Service) Create(ctx context.Context, d Draft) (*Invoice, error) {
	switch d.Type {
	case loan.InvoiceIssuance:
		return s.createIssuance(ctx, d)
	case loan.InvoiceInstallment, loan.InvoiceSettlement:
		return s.createRepayment(ctx, d)
	}

	return nil, invalid(ErrInvalidType, d.Type.String())
}

func (s *Service) quoteIssuance(ctx context.Context, d Draft) (*Quote, []*item.Item, error) {
	if d.CustomerID == uuid.Nil {
		return nil, nil, invalid(ErrCustomerRequired, "")
	}

	if d.LoanPeriod <= 0 {
		return nil, nil, invalid(loan.ErrInvalidLoanPeriod, fmt.Sprintf("got %d", d.LoanPeriod))
	}

	ids := uniqueIDs(d.ItemIDs)
	if len(ids) == 0 {
		return nil, nil, invalid(loan.ErrNoItems, "")
	}

	items, err := s.items.GetMany(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("loading items: %w", err)
	}

	form := loan.NewIssuanceForm(d.InterestRate)
	if err := form.SetInterestRate(d.InterestRate); err != nil {
		return nil, nil, err
	}

	for _, it := range items {
		if it.CustomerID != d.CustomerID {
			return nil, nil, invalid(ErrItemOwner, it.ID.String())
		}

		if it.Linked() {
			return nil, nil, invalid(ErrItemsUnavailable, it.ID.String())
		}

		form.AddLine(loan.Line{Ref: it.ID.String(), Value: it.Value})
	}

	if d.TotalOverride != nil {
		if err := form.OverrideTotal(*d.TotalOverride); err != nil {
			return nil, nil, err
		}
	}

	iss, err := form.Result()
	if err != nil {
		return nil, nil, err
	}

	return &Quote{
		Type:         loan.InvoiceIssuance,
		SubTotal:     iss.SubTotal.Round(2),
		InterestRate: iss.InterestRate,
		Interest:     iss.Interest.Round(2),
		TotalAmount:  iss.TotalAmount.Round(2),
		TotalMode:    form.Mode(),
	}, items, nil
}

func (s *Service) quoteRepayment(d Draft, state *LoanState) (*Quote, error) {
	if d.CustomerID != uuid.Nil && d.CustomerID != state.CustomerID {
		return nil, invalid(ErrCustomerMismatch, state.Number)
	}

	form := loan.NewRepaymentForm(d.Type, s.mode)
	if err := form.Select(state.Origin); err != nil {
		return nil, err
	}

	if state.Origin.InstallmentsPaid >= state.Origin.LoanPeriod {
		return nil, invalid(loan.ErrInstallmentsExhausted,
			fmt.Sprintf("%d of %d paid", state.Origin.InstallmentsPaid, state.Origin.LoanPeriod))
	}

	amount := form.Amount().Round(2)

	return &Quote{
		Type:              d.Type,
		SubTotal:          amount,
		TotalAmount:       amount,
		InstallmentNumber: form.InstallmentNumber(),
	}, nil
}

func (s *Service) createIssuance(ctx context.Context, d Draft) (*Invoice, error) {
	q, items, err := s.quoteIssuance(ctx, d)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		Type:          loan.InvoiceIssuance,
		CustomerID:    d.CustomerID,
		ItemIDs:       make([]uuid.UUID, len(items)),
		SubTotal:      q.SubTotal,
		InterestRate:  q.InterestRate,
		TotalAmount:   q.TotalAmount,
		LoanPeriod:    d.LoanPeriod,
		PaymentStatus: StatusOpen,
	}

	for i, it := range items {
		inv.ItemIDs[i] = it.ID
	}

	itx, err := s.repo.BeginCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin invoice: %w", err)
	}
	defer itx.Rollback()

	if err := s.insert(ctx, itx, inv); err != nil {
		return nil, err
	}

	if err := itx.LinkItems(ctx, inv); err != nil {
		return nil, err
	}

	if err := itx.CreateTransaction(ctx, &transaction.Transaction{
		Type:           transaction.TypeLoanIssuance,
		SubTotal:       q.SubTotal,
		InterestAmount: q.TotalAmount.Sub(q.SubTotal),
		TotalAmount:    q.TotalAmount,
		CustomerID:     inv.CustomerID,
		InvoiceID:      inv.ID,
	}); err != nil {
		return nil, fmt.Errorf("recording transaction: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invoice: %w", err)
	}

	return inv, nil
}

func (s *Service) createRepayment(ctx context.Context, d Draft) (*Invoice, error) {
	if d.OriginID == nil {
		return nil, invalid(ErrOriginRequired, "")
	}

	if err := loan.ValidateInstallmentNumber(d.InstallmentNumber); err != nil {
		return nil, err
	}

	itx, err := s.repo.BeginCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin invoice: %w", err)
	}
	defer itx.Rollback()

	state, err := itx.LockLoan(ctx, *d.OriginID)
	if err != nil {
		return nil, err
	}

	q, err := s.quoteRepayment(d, state)
	if err != nil {
		return nil, err
	}

	if d.InstallmentNumber != q.InstallmentNumber {
		return nil, invalid(ErrInstallmentMismatch,
			fmt.Sprintf("submitted %d, due %d", d.InstallmentNumber, q.InstallmentNumber))
	}

	inv := &Invoice{
		Type:              d.Type,
		CustomerID:        state.CustomerID,
		OriginID:          &state.OriginID,
		SubTotal:          q.SubTotal,
		TotalAmount:       q.TotalAmount,
		LoanPeriod:        state.Origin.LoanPeriod,
		InstallmentNumber: q.InstallmentNumber,
		PaymentStatus:     StatusPaid,
	}

	if err := s.insert(ctx, itx, inv); err != nil {
		return nil, err
	}

	txType := transaction.TypeInstallmentPayment
	if d.Type == loan.InvoiceSettlement {
		txType = transaction.TypeLoanClosure
	}

	if err := itx.CreateTransaction(ctx, &transaction.Transaction{
		Type:        txType,
		SubTotal:    q.SubTotal,
		TotalAmount: q.TotalAmount,
		CustomerID:  inv.CustomerID,
		InvoiceID:   inv.ID,
	}); err != nil {
		return nil, fmt.Errorf("recording transaction: %w", err)
	}

	// The final installment pays the loan off as a settlement would.
	if d.Type == loan.InvoiceSettlement || q.InstallmentNumber == state.Origin.LoanPeriod {
		if err := itx.SetPaymentStatus(ctx, state.OriginID, StatusSettled); err != nil {
			return nil, fmt.Errorf("settling loan: %w", err)
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invoice: %w", err)
	}

	return inv, nil
}

func (s *Service) insert(ctx context.Context, itx CreateTx, inv *Invoice) error {
	number, err := itx.NextNumber(ctx)
	if err != nil {
		return fmt.Errorf("allocating invoice number: %w", err)
	}

	inv.Number = number

	if err := itx.CreateInvoice(ctx, inv); err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
