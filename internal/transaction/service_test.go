package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pawnbook/internal/transaction"
)

func TestService_List(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New(), Type: transaction.TypeLoanIssuance},
						{ID: uuid.New(), Type: transaction.TypeInstallmentPayment},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "FilterIsPassedThrough",
			args: args{filter: transaction.ListFilter{
				Types: []transaction.Type{transaction.TypeLoanClosure},
				From:  &from,
				To:    &to,
			}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{
						Types: []transaction.Type{transaction.TypeLoanClosure},
						From:  &from,
						To:    &to,
					}).
					Return([]*transaction.Transaction{{ID: uuid.New()}}, nil)
			},
			wantLen: 1,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.List(context.Background(), tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	repo.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

	got, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, transaction.ErrNotFound)
	assert.Nil(t, got)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo)

	id := uuid.New()
	repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), id))
}

func TestType(t *testing.T) {
	assert.Equal(t, "loan_issuance", transaction.TypeLoanIssuance.String())
	assert.Equal(t, "late_fee_payment", transaction.TypeLateFeePayment.String())
	assert.Equal(t, "type(7)", transaction.Type(7).String())
	assert.True(t, transaction.TypeLoanClosure.Valid())
	assert.False(t, transaction.Type(0).Valid())
}
