package model

import (
	slotModel "bazaar/internal/domains/slot/model"
	"bazaar/shared/constant"

	"github.com/shopspring/decimal"
)

// Fee keys sent to the Booking API as express_type. The express slot type is billed
// under the "standard" key while being shown to customers as "Express".
const (
	FeeKeyNone      = ""
	FeeKeyStandard  = "standard"
	FeeKeyUrgent    = "urgent"
	FeeKeyEmergency = "emergency"
)

type Tier struct {
	SlotType   slotModel.SlotType
	FeeKey     string
	Label      string
	Multiplier decimal.Decimal
}

func (t Tier) IsExpress() bool {
	return t.FeeKey != FeeKeyNone
}

var (
	tierNormal = Tier{
		SlotType:   slotModel.SlotTypeNormal,
		FeeKey:     FeeKeyNone,
		Label:      "Standard",
		Multiplier: decimal.Zero,
	}

	tiers = map[slotModel.SlotType]Tier{
		slotModel.SlotTypeNormal: tierNormal,
		slotModel.SlotTypeExpress: {
			SlotType:   slotModel.SlotTypeExpress,
			FeeKey:     FeeKeyStandard,
			Label:      "Express",
			Multiplier: decimal.RequireFromString("0.5"),
		},
		slotModel.SlotTypeUrgent: {
			SlotType:   slotModel.SlotTypeUrgent,
			FeeKey:     FeeKeyUrgent,
			Label:      "Urgent",
			Multiplier: decimal.RequireFromString("0.75"),
		},
		slotModel.SlotTypeEmergency: {
			SlotType:   slotModel.SlotTypeEmergency,
			FeeKey:     FeeKeyEmergency,
			Label:      "Emergency",
			Multiplier: decimal.NewFromInt(1),
		},
	}
)

// TierFor never fails: "standard" is the express tier and unknown slot types are
// billed as normal.
func TierFor(slotType slotModel.SlotType) Tier {
	if tier, ok := tiers[slotModel.ParseSlotType(string(slotType))]; ok {
		return tier
	}

	return tierNormal
}

// Tiers lists every tier from cheapest to most expensive.
func Tiers() []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, slotType := range slotModel.SlotTypes() {
		out = append(out, tiers[slotType])
	}

	return out
}

type PriceBreakdown struct {
	BasePrice  decimal.Decimal
	ExpressFee decimal.Decimal
	TotalPrice decimal.Decimal
	Tier       Tier
	Override   bool
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(constant.CurrencyScale)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// Calculate prices a slot type on top of the base price. The fee is rounded half away
// from zero to the currency scale so that total always equals base plus fee exactly.
func Calculate(basePrice decimal.Decimal, slotType slotModel.SlotType) PriceBreakdown {
	tier := TierFor(slotType)
	base := roundMoney(nonNegative(basePrice))
	fee := roundMoney(base.Mul(tier.Multiplier))

	return PriceBreakdown{
		BasePrice:  base,
		ExpressFee: fee,
		TotalPrice: base.Add(fee),
		Tier:       tier,
	}
}

// ForSlot honours a provider price override when the slot carries one. The override
// becomes the total; whatever it adds over the base price is reported as the fee, and
// an override below the base price lowers the base instead of producing a negative fee.
func ForSlot(basePrice decimal.Decimal, slot slotModel.BookingSlot) PriceBreakdown {
	if !slot.PriceOverride.Valid {
		return Calculate(basePrice, slot.SlotType)
	}

	base := roundMoney(nonNegative(basePrice))
	total := roundMoney(nonNegative(slot.PriceOverride.Decimal))
	fee := nonNegative(total.Sub(base))

	return PriceBreakdown{
		BasePrice:  total.Sub(fee),
		ExpressFee: fee,
		TotalPrice: total,
		Tier:       TierFor(slot.SlotType),
		Override:   true,
	}
}

type RescheduleQuote struct {
	Current PriceBreakdown
	Next    PriceBreakdown
	Delta   decimal.Decimal
}

// RescheduleDelta compares moving a booking between slot types. A positive delta is
// owed by the customer, a negative one is a refund.
func RescheduleDelta(basePrice decimal.Decimal, from, to slotModel.SlotType) RescheduleQuote {
	current := Calculate(basePrice, from)
	next := Calculate(basePrice, to)

	return RescheduleQuote{
		Current: current,
		Next:    next,
		Delta:   next.TotalPrice.Sub(current.TotalPrice),
	}
}
