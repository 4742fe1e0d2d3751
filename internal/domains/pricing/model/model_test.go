package model_test

import (
	"bazaar/internal/domains/pricing/model"
	slotModel "bazaar/internal/domains/slot/model"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		slotType  slotModel.SlotType
		wantFee   string
		wantTotal string
		wantKey   string
		wantLabel string
	}{
		{name: "urgent", base: "1000", slotType: slotModel.SlotTypeUrgent, wantFee: "750", wantTotal: "1750", wantKey: "urgent", wantLabel: "Urgent"},
		{name: "normal", base: "500", slotType: slotModel.SlotTypeNormal, wantFee: "0", wantTotal: "500", wantKey: "", wantLabel: "Standard"},
		{name: "express bills under standard", base: "1000", slotType: slotModel.SlotTypeExpress, wantFee: "500", wantTotal: "1500", wantKey: "standard", wantLabel: "Express"},
		{name: "standard fee key is the express tier", base: "1000", slotType: "standard", wantFee: "500", wantTotal: "1500", wantKey: "standard", wantLabel: "Express"},
		{name: "standard is case insensitive", base: "1000", slotType: " Standard ", wantFee: "500", wantTotal: "1500", wantKey: "standard", wantLabel: "Express"},
		{name: "emergency doubles", base: "800", slotType: slotModel.SlotTypeEmergency, wantFee: "800", wantTotal: "1600", wantKey: "emergency", wantLabel: "Emergency"},
		{name: "unknown type is normal", base: "800", slotType: "vip", wantFee: "0", wantTotal: "800", wantKey: "", wantLabel: "Standard"},
		{name: "empty type is normal", base: "800", slotType: "", wantFee: "0", wantTotal: "800", wantKey: "", wantLabel: "Standard"},
		{name: "fee rounds half away from zero", base: "10.01", slotType: slotModel.SlotTypeExpress, wantFee: "5.01", wantTotal: "15.02", wantKey: "standard", wantLabel: "Express"},
		{name: "three quarters of odd cents", base: "0.02", slotType: slotModel.SlotTypeUrgent, wantFee: "0.02", wantTotal: "0.04", wantKey: "urgent", wantLabel: "Urgent"},
		{name: "negative base clamps to zero", base: "-50", slotType: slotModel.SlotTypeUrgent, wantFee: "0", wantTotal: "0", wantKey: "urgent", wantLabel: "Urgent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Calculate(dec(tt.base), tt.slotType)

			assert.True(t, got.ExpressFee.Equal(dec(tt.wantFee)), "fee %s", got.ExpressFee)
			assert.True(t, got.TotalPrice.Equal(dec(tt.wantTotal)), "total %s", got.TotalPrice)
			assert.Equal(t, tt.wantKey, got.Tier.FeeKey)
			assert.Equal(t, tt.wantLabel, got.Tier.Label)
			assert.False(t, got.Override)
		})
	}
}

func TestCalculateProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	types := append(slotModel.SlotTypes(), "", "unknown", "standard")

	for range 1000 {
		base := decimal.New(rng.Int64N(10_000_000), -2)
		slotType := types[rng.IntN(len(types))]

		got := model.Calculate(base, slotType)

		assert.False(t, got.ExpressFee.IsNegative())
		assert.True(t, got.TotalPrice.Equal(got.BasePrice.Add(got.ExpressFee)))
		assert.True(t, got.TotalPrice.GreaterThanOrEqual(got.BasePrice))

		if !got.Tier.IsExpress() {
			assert.True(t, got.ExpressFee.IsZero())
		}

		want := base.Mul(model.TierFor(slotType).Multiplier).Round(2)
		assert.True(t, got.ExpressFee.Equal(want), "base %s type %s", base, slotType)
	}
}

func TestForSlot(t *testing.T) {
	tests := []struct {
		name         string
		base         string
		slot         slotModel.BookingSlot
		wantBase     string
		wantFee      string
		wantTotal    string
		wantOverride bool
	}{
		{
			name:      "no override uses the tier",
			base:      "1000",
			slot:      slotModel.BookingSlot{SlotType: slotModel.SlotTypeUrgent},
			wantBase:  "1000",
			wantFee:   "750",
			wantTotal: "1750",
		},
		{
			name:         "override above base",
			base:         "1000",
			slot:         slotModel.BookingSlot{SlotType: slotModel.SlotTypeUrgent, PriceOverride: decimal.NewNullDecimal(dec("1200"))},
			wantBase:     "1000",
			wantFee:      "200",
			wantTotal:    "1200",
			wantOverride: true,
		},
		{
			name:         "override below base lowers the base",
			base:         "1000",
			slot:         slotModel.BookingSlot{SlotType: slotModel.SlotTypeNormal, PriceOverride: decimal.NewNullDecimal(dec("800"))},
			wantBase:     "800",
			wantFee:      "0",
			wantTotal:    "800",
			wantOverride: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.ForSlot(dec(tt.base), tt.slot)

			assert.True(t, got.BasePrice.Equal(dec(tt.wantBase)), "base %s", got.BasePrice)
			assert.True(t, got.ExpressFee.Equal(dec(tt.wantFee)), "fee %s", got.ExpressFee)
			assert.True(t, got.TotalPrice.Equal(dec(tt.wantTotal)), "total %s", got.TotalPrice)
			assert.True(t, got.TotalPrice.GreaterThanOrEqual(got.BasePrice))
			assert.Equal(t, tt.wantOverride, got.Override)
		})
	}
}

func TestRescheduleDelta(t *testing.T) {
	upgrade := model.RescheduleDelta(dec("1000"), slotModel.SlotTypeNormal, slotModel.SlotTypeEmergency)
	assert.True(t, upgrade.Delta.Equal(dec("1000")))

	downgrade := model.RescheduleDelta(dec("1000"), slotModel.SlotTypeUrgent, slotModel.SlotTypeExpress)
	assert.True(t, downgrade.Delta.Equal(dec("-250")))

	same := model.RescheduleDelta(dec("1000"), slotModel.SlotTypeExpress, slotModel.SlotTypeExpress)
	assert.True(t, same.Delta.IsZero())
}

func TestTiers(t *testing.T) {
	tiers := model.Tiers()

	assert.Len(t, tiers, 4)
	assert.Equal(t, slotModel.SlotTypeNormal, tiers[0].SlotType)
	assert.Equal(t, slotModel.SlotTypeEmergency, tiers[3].SlotType)
}
