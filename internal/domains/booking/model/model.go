package model

import (
	pricingModel "bazaar/internal/domains/pricing/model"
	slotModel "bazaar/internal/domains/slot/model"
	"bazaar/shared/model"
	"errors"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "booking_submissions"
	EntityName = "booking submission"

	FieldID                = "id"
	FieldIdempotencyKey    = "idempotency_key"
	FieldServiceID         = "service_id"
	FieldSlotID            = "slot_id"
	FieldBookingDate       = "booking_date"
	FieldStatus            = "status"
	FieldUpstreamBookingID = "upstream_booking_id"
	FieldErrorMessage      = "error_message"
	FieldTotalAmount       = "total_amount"
	FieldCreatedBy         = "created_by"
	FieldModifiedAt        = "modified_at"
	FieldModifiedBy        = "modified_by"
)

// Ledger states of a submission attempt.
const (
	SubmissionPending   = "pending"
	SubmissionSubmitted = "submitted"
	SubmissionRejected  = "rejected"
	SubmissionFailed    = "failed"
)

// Submission records one attempt to create a booking upstream.
type Submission struct {
	ID                string          `db:"id"`
	IdempotencyKey    string          `db:"idempotency_key"`
	ServiceID         string          `db:"service_id"`
	SlotID            string          `db:"slot_id"`
	BookingDate       string          `db:"booking_date"`
	BookingTime       string          `db:"booking_time"`
	SlotType          string          `db:"slot_type"`
	ExpressType       *string         `db:"express_type"`
	BasePrice         decimal.Decimal `db:"base_price"`
	ExpressFee        decimal.Decimal `db:"express_fee"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	Status            string          `db:"status"`
	UpstreamBookingID *string         `db:"upstream_booking_id"`
	ErrorMessage      *string         `db:"error_message"`
	model.Metadata
}

// Form holds what the customer typed plus the chosen slot.
type Form struct {
	ServiceID           string
	SlotID              string
	Date                string
	Address             string
	City                string
	Phone               string
	SpecialInstructions string
}

var (
	ErrNoSlotSelected = errors.New("please select a time slot")
	ErrMissingAddress = errors.New("address is required")
	ErrMissingCity    = errors.New("city is required")
	ErrMissingPhone   = errors.New("phone is required")
)

// Validate rejects a form that cannot be submitted. It never touches the network.
func Validate(form Form) error {
	if strings.TrimSpace(form.SlotID) == "" {
		return ErrNoSlotSelected
	}

	if strings.TrimSpace(form.Address) == "" {
		return ErrMissingAddress
	}

	if strings.TrimSpace(form.City) == "" {
		return ErrMissingCity
	}

	if strings.TrimSpace(form.Phone) == "" {
		return ErrMissingPhone
	}

	return nil
}

// BookingFormData is the payload for booking creation upstream.
type BookingFormData struct {
	ServiceID           string          `json:"service_id"`
	SlotID              string          `json:"slot_id"`
	Date                string          `json:"date"`
	Time                string          `json:"time"`
	Address             string          `json:"address"`
	City                string          `json:"city"`
	Phone               string          `json:"phone"`
	SpecialInstructions string          `json:"special_instructions"`
	IsExpress           bool            `json:"is_express"`
	ExpressType         *string         `json:"express_type"`
	ExpressFee          decimal.Decimal `json:"express_fee"`
	TotalAmount         decimal.Decimal `json:"total_amount"`

	Price pricingModel.PriceBreakdown `json:"-"`
}

// Assemble prices the slot and shapes the payload. The express flags come from the
// same tier the fee was computed with, so the fee shown always matches the flag sent.
func Assemble(form Form, slot slotModel.BookingSlot, basePrice decimal.Decimal) BookingFormData {
	price := pricingModel.ForSlot(basePrice, slot)

	var expressType *string
	if price.Tier.IsExpress() {
		feeKey := price.Tier.FeeKey
		expressType = &feeKey
	}

	return BookingFormData{
		ServiceID:           strings.TrimSpace(form.ServiceID),
		SlotID:              slot.ID,
		Date:                slot.Date,
		Time:                slot.StartTime,
		Address:             strings.TrimSpace(form.Address),
		City:                strings.TrimSpace(form.City),
		Phone:               strings.TrimSpace(form.Phone),
		SpecialInstructions: strings.TrimSpace(form.SpecialInstructions),
		IsExpress:           price.Tier.IsExpress(),
		ExpressType:         expressType,
		ExpressFee:          price.ExpressFee,
		TotalAmount:         price.TotalPrice,
		Price:               price,
	}
}

// Booking statuses as reported by the Booking API.
const (
	StatusPending              = "pending"
	StatusConfirmed            = "confirmed"
	StatusServiceDelivered     = "service_delivered"
	StatusAwaitingConfirmation = "awaiting_confirmation"
	StatusCompleted            = "completed"
	StatusDisputed             = "disputed"
	StatusCancelled            = "cancelled"
)

var paidStatuses = []string{"paid", "completed", "success", "succeeded"}

// Actions lists what a customer may do with a booking in its current status.
type Actions struct {
	CanPay               bool `json:"can_pay"`
	CanReschedule        bool `json:"can_reschedule"`
	CanCancel            bool `json:"can_cancel"`
	CanConfirmCompletion bool `json:"can_confirm_completion"`
	CanDispute           bool `json:"can_dispute"`
}

func ActionsFor(status, paymentStatus string) Actions {
	status = strings.ToLower(strings.TrimSpace(status))
	paid := isPaid(paymentStatus)
	open := status == StatusPending || status == StatusConfirmed
	delivered := status == StatusServiceDelivered || status == StatusAwaitingConfirmation

	return Actions{
		CanPay:               status == StatusPending && !paid,
		CanReschedule:        open,
		CanCancel:            open,
		CanConfirmCompletion: delivered,
		CanDispute:           delivered,
	}
}

func isPaid(paymentStatus string) bool {
	return slices.Contains(paidStatuses, strings.ToLower(strings.TrimSpace(paymentStatus)))
}
