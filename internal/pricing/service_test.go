package pricing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pawnbook/internal/pricing"
)

func TestService_Propose(t *testing.T) {
	tests := []struct {
		name      string
		weight    decimal.Decimal
		setupMock func(m *pricing.MockRepository)
		wantValue string
		wantErr   error
	}{
		{
			name:   "PriceTimesWeight",
			weight: decimal.RequireFromString("8.5"),
			setupMock: func(m *pricing.MockRepository) {
				m.EXPECT().FindPricing(gomock.Any(), 2, 3).
					Return(&pricing.Pricing{KaratID: 2, LoanPeriodID: 3, Price: decimal.RequireFromString("18500")}, nil)
			},
			wantValue: "157250",
		},
		{
			name:   "RoundsToCents",
			weight: decimal.RequireFromString("1.333"),
			setupMock: func(m *pricing.MockRepository) {
				m.EXPECT().FindPricing(gomock.Any(), 2, 3).
					Return(&pricing.Pricing{Price: decimal.RequireFromString("100.01")}, nil)
			},
			wantValue: "133.31",
		},
		{
			name:      "ZeroWeight",
			weight:    decimal.Zero,
			setupMock: func(m *pricing.MockRepository) {},
			wantErr:   pricing.ErrInvalid,
		},
		{
			name:   "NoPrice",
			weight: decimal.NewFromInt(1),
			setupMock: func(m *pricing.MockRepository) {
				m.EXPECT().FindPricing(gomock.Any(), 2, 3).Return(nil, pricing.ErrNotFound)
			},
			wantErr: pricing.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockRepo := pricing.NewMockRepository(ctrl)
			tt.setupMock(mockRepo)

			got, err := pricing.NewService(mockRepo).Propose(context.Background(), 2, 3, tt.weight)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Value.Equal(decimal.RequireFromString(tt.wantValue)), "value %s", got.Value)
		})
	}
}

func TestService_Create_Validates(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := pricing.NewMockRepository(ctrl)
	svc := pricing.NewService(mockRepo)

	_, err := svc.Create(context.Background(), pricing.CreateParams{KaratID: 1, LoanPeriodID: 1, Price: decimal.Zero})
	assert.ErrorIs(t, err, pricing.ErrInvalid)

	_, err = svc.Create(context.Background(), pricing.CreateParams{Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, pricing.ErrInvalid)
}

func TestService_UpdatePrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := pricing.NewMockRepository(ctrl)

	id := uuid.New()
	mockRepo.EXPECT().GetPricing(gomock.Any(), id).Return(&pricing.Pricing{ID: id, Price: decimal.NewFromInt(10)}, nil)
	mockRepo.EXPECT().UpdatePricing(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *pricing.Pricing) error {
			assert.True(t, p.Price.Equal(decimal.RequireFromString("12.35")))
			return nil
		})

	_, err := pricing.NewService(mockRepo).UpdatePrice(context.Background(), id, decimal.RequireFromString("12.345"))
	require.NoError(t, err)
}

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := pricing.NewMockRepository(ctrl)
	itx := pricing.NewMockImportTx(ctrl)

	sheet := "Karat;Loan Period;Price\n22K;6;18.500,00\n22K;12;17.000,00\n24K;6;20.000,00\n"

	mockRepo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().UpsertKarat(gomock.Any(), "22K").Return(1, nil)
	itx.EXPECT().UpsertKarat(gomock.Any(), "24K").Return(2, nil)
	itx.EXPECT().UpsertLoanPeriod(gomock.Any(), 6).Return(10, nil)
	itx.EXPECT().UpsertLoanPeriod(gomock.Any(), 12).Return(11, nil)
	itx.EXPECT().UpsertPricing(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	itx.EXPECT().UpsertPricing(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *pricing.Pricing) (bool, error) {
			assert.Equal(t, 2, p.KaratID)
			assert.Equal(t, 10, p.LoanPeriodID)
			return false, nil
		})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := pricing.NewService(mockRepo).Import(context.Background(), strings.NewReader(sheet))
	require.NoError(t, err)

	assert.Equal(t, "counter", result.Profile)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
}

func TestService_Import_BadSheetWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := pricing.NewMockRepository(ctrl)

	_, err := pricing.NewService(mockRepo).Import(context.Background(), strings.NewReader("Karat;Loan Period;Price\n22K;6;abc\n"))
	assert.ErrorIs(t, err, pricing.ErrInvalid)
}
