package bookingapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexibleID accepts identifiers encoded either as JSON strings or JSON numbers.
type FlexibleID string

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode id: %w", err)
		}

		*id = FlexibleID(strings.TrimSpace(s))

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode id: %w", err)
	}

	*id = FlexibleID(n.String())

	return nil
}

func (id FlexibleID) String() string {
	return string(id)
}

// RawSlot is a slot record exactly as the Booking API reports it.
type RawSlot struct {
	ID                FlexibleID          `json:"id"`
	Date              string              `json:"date"`
	StartTime         string              `json:"start_time"`
	EndTime           string              `json:"end_time"`
	SlotType          string              `json:"slot_type"`
	IsAvailable       bool                `json:"is_available"`
	IsFullyBooked     bool                `json:"is_fully_booked"`
	MaxBookings       int                 `json:"max_bookings"`
	CurrentBookings   int                 `json:"current_bookings"`
	ProviderNote      string              `json:"provider_note"`
	CalculatedPrice   decimal.NullDecimal `json:"calculated_price"`
	BasePriceOverride decimal.NullDecimal `json:"base_price_override"`
}

type Service struct {
	ID        FlexibleID      `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
}

type Payment struct {
	Status    string              `json:"status"`
	Amount    decimal.NullDecimal `json:"amount"`
	Reference string              `json:"reference"`
}

type Booking struct {
	ID          FlexibleID          `json:"id"`
	BookingID   FlexibleID          `json:"booking_id"`
	ServiceID   FlexibleID          `json:"service_id"`
	SlotID      FlexibleID          `json:"slot_id"`
	Date        string              `json:"date"`
	Time        string              `json:"time"`
	Status      string              `json:"status"`
	Payment     *Payment            `json:"payment"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
}

// Identifier returns the booking id, whichever field the API used to report it.
func (b *Booking) Identifier() string {
	if b.ID != "" {
		return b.ID.String()
	}

	return b.BookingID.String()
}
