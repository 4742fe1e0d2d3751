package bookingapi_test

import (
	"bazaar/infras/bookingapi"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSlots(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIDs   []string
		wantError bool
	}{
		{
			name:    "bare array",
			body:    `[{"id": 1, "slot_type": "normal"}, {"id": "b-2", "slot_type": "express"}]`,
			wantIDs: []string{"1", "b-2"},
		},
		{
			name:    "results envelope",
			body:    `{"count": 1, "next": null, "results": [{"id": 9}]}`,
			wantIDs: []string{"9"},
		},
		{
			name:    "slots envelope",
			body:    `{"slots": [{"id": "x"}, {"id": "y"}]}`,
			wantIDs: []string{"x", "y"},
		},
		{
			name:    "empty results",
			body:    `{"results": []}`,
			wantIDs: []string{},
		},
		{
			name:      "unknown envelope",
			body:      `{"data": []}`,
			wantError: true,
		},
		{
			name:      "scalar body",
			body:      `"nope"`,
			wantError: true,
		},
		{
			name:      "malformed json",
			body:      `{"slots": [`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := bookingapi.DecodeSlots([]byte(tt.body))
			if tt.wantError {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)

			ids := make([]string, 0, len(slots))
			for _, slot := range slots {
				ids = append(ids, slot.ID.String())
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSlotEnvelopeKind(t *testing.T) {
	var envelope bookingapi.SlotEnvelope

	require.NoError(t, json.Unmarshal([]byte(`{"slots": []}`), &envelope))
	assert.Equal(t, bookingapi.EnvelopeSlots, envelope.Kind)

	require.NoError(t, json.Unmarshal([]byte(`[]`), &envelope))
	assert.Equal(t, bookingapi.EnvelopeBareArray, envelope.Kind)

	err := json.Unmarshal([]byte(`{"items": []}`), &envelope)
	assert.ErrorIs(t, err, bookingapi.ErrUnknownEnvelope)
}

func TestRawSlotPrices(t *testing.T) {
	var slot bookingapi.RawSlot

	body := `{"id": 3, "calculated_price": "1200.50", "base_price_override": null, "max_bookings": 2}`
	require.NoError(t, json.Unmarshal([]byte(body), &slot))

	assert.True(t, slot.CalculatedPrice.Valid)
	assert.True(t, slot.CalculatedPrice.Decimal.Equal(decimal.RequireFromString("1200.50")))
	assert.False(t, slot.BasePriceOverride.Valid)
	assert.Equal(t, 2, slot.MaxBookings)
}
