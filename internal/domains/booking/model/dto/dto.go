package dto

import (
	"bazaar/infras/bookingapi"
	"bazaar/internal/domains/booking/model"
	pricingDto "bazaar/internal/domains/pricing/model/dto"
	"bazaar/shared"
	"bazaar/shared/constant"
	gDto "bazaar/shared/dto"
	"bazaar/shared/failure"
	gModel "bazaar/shared/model"
	"bazaar/shared/timezone"
	"bazaar/shared/validator"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const NextStepPayment = "payment"

type SubmitBookingRequest struct {
	ServiceID           string `json:"service_id"           validate:"required,notblank"`
	SlotID              string `json:"slot_id"              validate:"max=64"`
	Date                string `json:"date"                 validate:"required,day"`
	Address             string `json:"address"              validate:"max=255"`
	City                string `json:"city"                 validate:"max=100"`
	Phone               string `json:"phone"                validate:"max=32"`
	SpecialInstructions string `json:"special_instructions" validate:"max=1000"`
}

func (r *SubmitBookingRequest) ToForm() model.Form {
	return model.Form{
		ServiceID:           r.ServiceID,
		SlotID:              r.SlotID,
		Date:                r.Date,
		Address:             r.Address,
		City:                r.City,
		Phone:               r.Phone,
		SpecialInstructions: r.SpecialInstructions,
	}
}

// ToModel opens a pending ledger entry for the assembled payload.
func (r *SubmitBookingRequest) ToModel(idempotencyKey, user, slotType string, payload model.BookingFormData) model.Submission {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	now := timezone.Now()

	return model.Submission{
		ID:             uuid.NewString(),
		IdempotencyKey: idempotencyKey,
		ServiceID:      payload.ServiceID,
		SlotID:         payload.SlotID,
		BookingDate:    payload.Date,
		BookingTime:    payload.Time,
		SlotType:       slotType,
		ExpressType:    payload.ExpressType,
		BasePrice:      payload.Price.BasePrice,
		ExpressFee:     payload.ExpressFee,
		TotalAmount:    payload.TotalAmount,
		Status:         model.SubmissionPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type SubmitBookingResponse struct {
	BookingID    string                   `json:"booking_id"`
	SubmissionID string                   `json:"submission_id"`
	Status       string                   `json:"status"`
	NextStep     string                   `json:"next_step"`
	Price        pricingDto.PriceResponse `json:"price"`
}

type PaymentResponse struct {
	Status    string           `json:"status"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Reference string           `json:"reference,omitempty"`
}

type BookingResponse struct {
	ID          string           `json:"id"`
	ServiceID   string           `json:"service_id"`
	SlotID      string           `json:"slot_id,omitempty"`
	Date        string           `json:"date"`
	Time        string           `json:"time"`
	Status      string           `json:"status"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Payment     *PaymentResponse `json:"payment,omitempty"`
	Actions     model.Actions    `json:"actions"`
}

func (r *BookingResponse) FromModel(booking bookingapi.Booking) {
	r.ID = booking.Identifier()
	r.ServiceID = booking.ServiceID.String()
	r.SlotID = booking.SlotID.String()
	r.Date = booking.Date
	r.Time = booking.Time
	r.Status = booking.Status
	r.TotalAmount = nullable(booking.TotalAmount)

	var paymentStatus string
	if booking.Payment != nil {
		paymentStatus = booking.Payment.Status
		r.Payment = &PaymentResponse{
			Status:    booking.Payment.Status,
			Amount:    nullable(booking.Payment.Amount),
			Reference: booking.Payment.Reference,
		}
	}

	r.Actions = model.ActionsFor(booking.Status, paymentStatus)
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}

	return &d.Decimal
}

type SubmissionResponse struct {
	ID                string          `json:"id"`
	IdempotencyKey    string          `json:"idempotency_key"`
	ServiceID         string          `json:"service_id"`
	SlotID            string          `json:"slot_id"`
	BookingDate       string          `json:"booking_date"`
	BookingTime       string          `json:"booking_time"`
	SlotType          string          `json:"slot_type"`
	ExpressType       *string         `json:"express_type"`
	BasePrice         decimal.Decimal `json:"base_price"`
	ExpressFee        decimal.Decimal `json:"express_fee"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            string          `json:"status"`
	UpstreamBookingID string          `json:"upstream_booking_id,omitempty"`
	ErrorMessage      string          `json:"error_message,omitempty"`
	gDto.Metadata
}

func (r *SubmissionResponse) FromModel(m model.Submission) {
	r.ID = m.ID
	r.IdempotencyKey = m.IdempotencyKey
	r.ServiceID = m.ServiceID
	r.SlotID = m.SlotID
	r.BookingDate = m.BookingDate
	r.BookingTime = m.BookingTime
	r.SlotType = m.SlotType
	r.ExpressType = m.ExpressType
	r.BasePrice = m.BasePrice
	r.ExpressFee = m.ExpressFee
	r.TotalAmount = m.TotalAmount
	r.Status = m.Status

	if m.UpstreamBookingID != nil {
		r.UpstreamBookingID = *m.UpstreamBookingID
	}

	if m.ErrorMessage != nil {
		r.ErrorMessage = *m.ErrorMessage
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetSubmissionsResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetSubmissionsResponse) FromModels(models []model.Submission, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Submissions = make([]SubmissionResponse, len(models))
	for i, mod := range models {
		r.Submissions[i].FromModel(mod)
	}
}

// SubmissionFilter narrows the ledger listing by status and by slot date, both ends
// of the range inclusive.
type SubmissionFilter struct {
	Status []string `json:"status" validate:"omitempty,dive,oneof=pending submitted rejected failed"`
	From   string   `json:"from"   validate:"omitempty,day"`
	To     string   `json:"to"     validate:"omitempty,day"`
}

// FromRequest reads ?status=a,b&from=YYYY-MM-DD&to=YYYY-MM-DD. Statuses are lower
// cased and blanks dropped.
func (f *SubmissionFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	for _, status := range strings.Split(query.Get(constant.RequestParamStatus), ",") {
		if status = strings.ToLower(strings.TrimSpace(status)); status != "" {
			f.Status = append(f.Status, status)
		}
	}

	f.From = strings.TrimSpace(query.Get(constant.RequestParamFrom))
	f.To = strings.TrimSpace(query.Get(constant.RequestParamTo))
}

func (f *SubmissionFilter) Validate() error {
	if err := validator.ValidateStruct(f); err != nil {
		return err //nolint:wrapcheck
	}

	// YYYY-MM-DD compares chronologically as a string
	if f.From != "" && f.To != "" && f.From > f.To {
		return failure.BadRequestFromString("from must not be after to") //nolint:wrapcheck
	}

	return nil
}

// Filters renders the conditions to AND onto the caller's ownership filter.
func (f *SubmissionFilter) Filters() []any {
	filters := []any{}

	if len(f.Status) > 0 {
		filters = append(filters, gDto.Filter{
			Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorIn, Table: model.TableName,
		})
	}

	if f.From != "" {
		filters = append(filters, gDto.Filter{
			ArgName: model.FieldBookingDate + "_from", Field: model.FieldBookingDate, Value: f.From,
			Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName,
		})
	}

	if f.To != "" {
		filters = append(filters, gDto.Filter{
			ArgName: model.FieldBookingDate + "_to", Field: model.FieldBookingDate, Value: f.To,
			Operator: gDto.FilterOperatorLessEq, Table: model.TableName,
		})
	}

	return filters
}
