package model_test

import (
	"bazaar/internal/domains/booking/model"
	slotModel "bazaar/internal/domains/slot/model"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() model.Form {
	return model.Form{
		ServiceID: "svc-1",
		SlotID:    "slot-1",
		Date:      "2026-10-20",
		Address:   "12 Moi Avenue",
		City:      "Nairobi",
		Phone:     "+254700000000",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *model.Form)
		wantErr error
	}{
		{name: "complete form", mutate: func(*model.Form) {}},
		{name: "no slot selected", mutate: func(f *model.Form) { f.SlotID = "" }, wantErr: model.ErrNoSlotSelected},
		{name: "empty phone", mutate: func(f *model.Form) { f.Phone = "" }, wantErr: model.ErrMissingPhone},
		{name: "whitespace phone", mutate: func(f *model.Form) { f.Phone = " \t " }, wantErr: model.ErrMissingPhone},
		{name: "whitespace address", mutate: func(f *model.Form) { f.Address = "   " }, wantErr: model.ErrMissingAddress},
		{name: "empty city", mutate: func(f *model.Form) { f.City = "" }, wantErr: model.ErrMissingCity},
		{name: "special instructions optional", mutate: func(f *model.Form) { f.SpecialInstructions = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			err := model.Validate(form)
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name            string
		slotType        slotModel.SlotType
		wantExpress     bool
		wantExpressType any
		wantFee         string
		wantTotal       string
	}{
		{name: "urgent", slotType: slotModel.SlotTypeUrgent, wantExpress: true, wantExpressType: "urgent", wantFee: "750", wantTotal: "1750"},
		{name: "express uses standard key", slotType: slotModel.SlotTypeExpress, wantExpress: true, wantExpressType: "standard", wantFee: "500", wantTotal: "1500"},
		{name: "emergency", slotType: slotModel.SlotTypeEmergency, wantExpress: true, wantExpressType: "emergency", wantFee: "1000", wantTotal: "2000"},
		{name: "normal sends null express type", slotType: slotModel.SlotTypeNormal, wantExpress: false, wantExpressType: nil, wantFee: "0", wantTotal: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			form.Address = "  12 Moi Avenue "
			slot := slotModel.BookingSlot{ID: "slot-1", Date: "2026-10-20", StartTime: "09:00", SlotType: tt.slotType, IsAvailable: true}

			payload := model.Assemble(form, slot, decimal.NewFromInt(1000))

			assert.Equal(t, "svc-1", payload.ServiceID)
			assert.Equal(t, "slot-1", payload.SlotID)
			assert.Equal(t, "2026-10-20", payload.Date)
			assert.Equal(t, "09:00", payload.Time)
			assert.Equal(t, "12 Moi Avenue", payload.Address)
			assert.Equal(t, tt.wantExpress, payload.IsExpress)
			assert.Equal(t, tt.wantFee, payload.ExpressFee.String())
			assert.Equal(t, tt.wantTotal, payload.TotalAmount.String())
			assert.True(t, payload.Price.TotalPrice.Equal(payload.TotalAmount))

			body, err := json.Marshal(payload)
			require.NoError(t, err)

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(body, &decoded))
			assert.Equal(t, tt.wantExpressType, decoded["express_type"])
			assert.NotContains(t, decoded, "Price")
		})
	}
}

func TestAssemble_OverrideDrivesTotal(t *testing.T) {
	slot := slotModel.BookingSlot{
		ID:            "slot-9",
		Date:          "2026-10-20",
		StartTime:     "18:30",
		SlotType:      slotModel.SlotTypeUrgent,
		PriceOverride: decimal.NewNullDecimal(decimal.NewFromInt(1300)),
	}

	payload := model.Assemble(validForm(), slot, decimal.NewFromInt(1000))

	assert.True(t, payload.IsExpress)
	assert.Equal(t, "300", payload.ExpressFee.String())
	assert.Equal(t, "1300", payload.TotalAmount.String())
}

func TestActionsFor(t *testing.T) {
	tests := []struct {
		name          string
		status        string
		paymentStatus string
		want          model.Actions
	}{
		{
			name:   "pending unpaid",
			status: "pending",
			want:   model.Actions{CanPay: true, CanReschedule: true, CanCancel: true},
		},
		{
			name:          "pending already paid",
			status:        "pending",
			paymentStatus: "Completed",
			want:          model.Actions{CanReschedule: true, CanCancel: true},
		},
		{
			name:   "confirmed",
			status: "confirmed",
			want:   model.Actions{CanReschedule: true, CanCancel: true},
		},
		{
			name:   "service delivered",
			status: "service_delivered",
			want:   model.Actions{CanConfirmCompletion: true, CanDispute: true},
		},
		{
			name:   "awaiting confirmation",
			status: " AWAITING_CONFIRMATION ",
			want:   model.Actions{CanConfirmCompletion: true, CanDispute: true},
		},
		{name: "completed", status: "completed"},
		{name: "disputed", status: "disputed"},
		{name: "unknown", status: "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ActionsFor(tt.status, tt.paymentStatus))
		})
	}
}
