package dto

import (
	pricingModel "bazaar/internal/domains/pricing/model"
	pricingDto "bazaar/internal/domains/pricing/model/dto"
	"bazaar/internal/domains/slot/model"

	"github.com/shopspring/decimal"
)

type ListSlotsRequest struct {
	ServiceID      string `json:"service_id"      validate:"required,notblank"`
	Date           string `json:"date"            validate:"required,day"`
	Type           string `json:"type"            validate:"omitempty,oneof=all normal express urgent emergency"`
	SelectableOnly bool   `json:"selectable_only"`
}

type SlotResponse struct {
	ID                string                    `json:"id"`
	Date              string                    `json:"date"`
	StartTime         string                    `json:"start_time"`
	EndTime           string                    `json:"end_time,omitempty"`
	SlotType          string                    `json:"slot_type"`
	TypeLabel         string                    `json:"type_label"`
	IsAvailable       bool                      `json:"is_available"`
	IsFullyBooked     bool                      `json:"is_fully_booked"`
	Selectable        bool                      `json:"selectable"`
	MaxBookings       int                       `json:"max_bookings"`
	CurrentBookings   int                       `json:"current_bookings"`
	RemainingCapacity int                       `json:"remaining_capacity"`
	ProviderNote      string                    `json:"provider_note,omitempty"`
	Price             *pricingDto.PriceResponse `json:"price,omitempty"`
}

// FromModel fills the response. basePrice is nil when the service price is unknown,
// in which case no price preview is attached.
func (r *SlotResponse) FromModel(slot model.BookingSlot, basePrice *decimal.Decimal, currency string) {
	r.ID = slot.ID
	r.Date = slot.Date
	r.StartTime = slot.StartTime
	r.EndTime = slot.EndTime
	r.SlotType = slot.SlotType.String()
	r.TypeLabel = pricingModel.TierFor(slot.SlotType).Label
	r.IsAvailable = slot.IsAvailable
	r.IsFullyBooked = slot.IsFullyBooked
	r.Selectable = slot.Selectable()
	r.MaxBookings = slot.MaxBookings
	r.CurrentBookings = slot.CurrentBookings
	r.RemainingCapacity = slot.RemainingCapacity()
	r.ProviderNote = slot.ProviderNote

	if basePrice != nil {
		r.Price = &pricingDto.PriceResponse{}
		r.Price.FromModel(pricingModel.ForSlot(*basePrice, slot), currency)
	}
}

type ListSlotsResponse struct {
	ServiceID string         `json:"service_id"`
	Date      string         `json:"date"`
	Filter    string         `json:"filter"`
	Slots     []SlotResponse `json:"slots"`
	Total     int            `json:"total"`
}

func (r *ListSlotsResponse) FromModels(slots []model.BookingSlot, basePrice *decimal.Decimal, currency string) {
	r.Slots = make([]SlotResponse, len(slots))
	for i, slot := range slots {
		r.Slots[i].FromModel(slot, basePrice, currency)
	}

	r.Total = len(slots)
}
