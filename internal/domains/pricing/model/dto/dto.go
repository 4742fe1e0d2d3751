package dto

import (
	"bazaar/internal/domains/pricing/model"
	slotModel "bazaar/internal/domains/slot/model"
	"errors"

	"github.com/shopspring/decimal"
)

type PriceResponse struct {
	BasePrice  decimal.Decimal `json:"base_price"`
	ExpressFee decimal.Decimal `json:"express_fee"`
	TotalPrice decimal.Decimal `json:"total_price"`
	SlotType   string          `json:"slot_type"`
	Label      string          `json:"label"`
	FeeKey     string          `json:"fee_key,omitempty"`
	IsExpress  bool            `json:"is_express"`
	Override   bool            `json:"override"`
	Currency   string          `json:"currency,omitempty"`
}

func (r *PriceResponse) FromModel(price model.PriceBreakdown, currency string) {
	r.BasePrice = price.BasePrice
	r.ExpressFee = price.ExpressFee
	r.TotalPrice = price.TotalPrice
	r.SlotType = price.Tier.SlotType.String()
	r.Label = price.Tier.Label
	r.FeeKey = price.Tier.FeeKey
	r.IsExpress = price.Tier.IsExpress()
	r.Override = price.Override
	r.Currency = currency
}

// QuoteRequest prices a slot type. The base price comes from base_price when given,
// otherwise from the service. With slot_id and date the slot's own price override
// is honoured.
type QuoteRequest struct {
	ServiceID string           `json:"service_id" validate:"required_without=BasePrice"`
	BasePrice *decimal.Decimal `json:"base_price" validate:"omitempty"`
	SlotType  string           `json:"slot_type"  validate:"omitempty,max=32"`
	SlotID    string           `json:"slot_id"    validate:"required_with=Date"`
	Date      string           `json:"date"       validate:"required_with=SlotID,omitempty,day"`
}

var errNegativeBasePrice = errors.New("base_price must not be negative")

func (q *QuoteRequest) Validate() error {
	if q.BasePrice != nil && q.BasePrice.IsNegative() {
		return errNegativeBasePrice
	}

	return nil
}

func (q *QuoteRequest) ParsedSlotType() slotModel.SlotType {
	return slotModel.ParseSlotType(q.SlotType)
}

type RescheduleRequest struct {
	ServiceID string           `json:"service_id" validate:"required_without=BasePrice"`
	BasePrice *decimal.Decimal `json:"base_price" validate:"omitempty"`
	FromType  string           `json:"from_type"  validate:"required,max=32"`
	ToType    string           `json:"to_type"    validate:"required,max=32"`
}

func (r *RescheduleRequest) Validate() error {
	if r.BasePrice != nil && r.BasePrice.IsNegative() {
		return errNegativeBasePrice
	}

	return nil
}

type RescheduleResponse struct {
	Current  PriceResponse   `json:"current"`
	Next     PriceResponse   `json:"next"`
	Delta    decimal.Decimal `json:"delta"`
	Payable  bool            `json:"payable"`
	Currency string          `json:"currency,omitempty"`
}

func (r *RescheduleResponse) FromModel(quote model.RescheduleQuote, currency string) {
	r.Current.FromModel(quote.Current, currency)
	r.Next.FromModel(quote.Next, currency)
	r.Delta = quote.Delta
	r.Payable = quote.Delta.IsPositive()
	r.Currency = currency
}

type TierResponse struct {
	SlotType   string          `json:"slot_type"`
	Label      string          `json:"label"`
	FeeKey     string          `json:"fee_key,omitempty"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

func TiersFromModel(tiers []model.Tier) []TierResponse {
	out := make([]TierResponse, len(tiers))
	for i, tier := range tiers {
		out[i] = TierResponse{
			SlotType:   tier.SlotType.String(),
			Label:      tier.Label,
			FeeKey:     tier.FeeKey,
			Multiplier: tier.Multiplier,
		}
	}

	return out
}
