package service_test

import (
	"bazaar/config"
	"bazaar/infras/bookingapi"
	"bazaar/infras/otel/mocks"
	"bazaar/internal/domains/pricing/model/dto"
	"bazaar/internal/domains/pricing/service"
	slotMocks "bazaar/internal/domains/slot/mocks"
	slotModel "bazaar/internal/domains/slot/model"
	"bazaar/shared/failure"
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)

	return &d
}

func newService(t *testing.T) (*slotMocks.MockCatalog, service.Pricing) {
	t.Helper()

	ctrl := gomock.NewController(t)
	catalog := slotMocks.NewMockCatalog(ctrl)

	cfg := &config.Config{}
	cfg.App.Currency = "KES"

	return catalog, service.New(catalog, cfg, mocks.NewOtel(), nil)
}

func TestPricingService_Quote(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.QuoteRequest
		setupMock func(catalog *slotMocks.MockCatalog)
		wantFee   string
		wantTotal string
		wantLabel string
		wantCode  int
	}{
		{
			name:      "explicit base price",
			req:       dto.QuoteRequest{BasePrice: decPtr("1000"), SlotType: "urgent"},
			setupMock: func(*slotMocks.MockCatalog) {},
			wantFee:   "750",
			wantTotal: "1750",
			wantLabel: "Urgent",
		},
		{
			name:      "standard fee key prices as express",
			req:       dto.QuoteRequest{BasePrice: decPtr("1000"), SlotType: "standard"},
			setupMock: func(*slotMocks.MockCatalog) {},
			wantFee:   "500",
			wantTotal: "1500",
			wantLabel: "Express",
		},
		{
			name:      "unknown slot type is billed as normal",
			req:       dto.QuoteRequest{BasePrice: decPtr("1000"), SlotType: "vip"},
			setupMock: func(*slotMocks.MockCatalog) {},
			wantFee:   "0",
			wantTotal: "1000",
			wantLabel: "Standard",
		},
		{
			name: "base price from service",
			req:  dto.QuoteRequest{ServiceID: "svc-1", SlotType: "normal"},
			setupMock: func(catalog *slotMocks.MockCatalog) {
				catalog.EXPECT().Service(gomock.Any(), "svc-1").Return(bookingapi.Service{BasePrice: decimal.NewFromInt(500)}, nil)
			},
			wantFee:   "0",
			wantTotal: "500",
			wantLabel: "Standard",
		},
		{
			name: "slot override wins",
			req:  dto.QuoteRequest{ServiceID: "svc-1", SlotID: "9", Date: "2025-03-01"},
			setupMock: func(catalog *slotMocks.MockCatalog) {
				catalog.EXPECT().Service(gomock.Any(), "svc-1").Return(bookingapi.Service{BasePrice: decimal.NewFromInt(1000)}, nil)
				catalog.EXPECT().Find(gomock.Any(), "svc-1", "2025-03-01", "9").Return(slotModel.BookingSlot{
					ID:            "9",
					SlotType:      slotModel.SlotTypeExpress,
					PriceOverride: decimal.NewNullDecimal(decimal.NewFromInt(1300)),
				}, nil)
			},
			wantFee:   "300",
			wantTotal: "1300",
			wantLabel: "Express",
		},
		{
			name:      "neither service nor base price",
			req:       dto.QuoteRequest{SlotType: "urgent"},
			setupMock: func(*slotMocks.MockCatalog) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "negative base price",
			req:       dto.QuoteRequest{BasePrice: decPtr("-1")},
			setupMock: func(*slotMocks.MockCatalog) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "unknown service",
			req:  dto.QuoteRequest{ServiceID: "missing"},
			setupMock: func(catalog *slotMocks.MockCatalog) {
				catalog.EXPECT().Service(gomock.Any(), "missing").Return(bookingapi.Service{}, failure.NotFound("Service not found."))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, svc := newService(t)
			tt.setupMock(catalog)

			res, err := svc.Quote(context.Background(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, res.ExpressFee.Equal(decimal.RequireFromString(tt.wantFee)), "fee %s", res.ExpressFee)
			assert.True(t, res.TotalPrice.Equal(decimal.RequireFromString(tt.wantTotal)), "total %s", res.TotalPrice)
			assert.Equal(t, tt.wantLabel, res.Label)
			assert.Equal(t, "KES", res.Currency)
		})
	}
}

func TestPricingService_Reschedule(t *testing.T) {
	catalog, svc := newService(t)

	catalog.EXPECT().Service(gomock.Any(), "svc-1").Return(bookingapi.Service{BasePrice: decimal.NewFromInt(1000), Currency: "USD"}, nil)

	res, err := svc.Reschedule(context.Background(), dto.RescheduleRequest{ServiceID: "svc-1", FromType: "normal", ToType: "urgent"})
	require.NoError(t, err)

	assert.True(t, res.Delta.Equal(decimal.NewFromInt(750)))
	assert.True(t, res.Payable)
	assert.Equal(t, "USD", res.Currency)

	res, err = svc.Reschedule(context.Background(), dto.RescheduleRequest{BasePrice: decPtr("10"), FromType: "standard", ToType: "later"})
	require.NoError(t, err)
	assert.True(t, res.Delta.Equal(decimal.NewFromInt(-5)), "delta %s", res.Delta)
	assert.False(t, res.Payable)

	_, err = svc.Reschedule(context.Background(), dto.RescheduleRequest{BasePrice: decPtr("10"), FromType: "normal"})
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestPricingService_Tiers(t *testing.T) {
	_, svc := newService(t)

	tiers := svc.Tiers(context.Background())
	require.Len(t, tiers, 4)
	assert.Equal(t, "express", tiers[1].SlotType)
	assert.Equal(t, "standard", tiers[1].FeeKey)
	assert.Equal(t, "Express", tiers[1].Label)
}
