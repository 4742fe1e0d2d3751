package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bazaar/config"
	"bazaar/infras/bookingapi"
	"bazaar/infras/metrics"
	"bazaar/infras/otel"
	"bazaar/internal/domains/booking/model"
	"bazaar/internal/domains/booking/model/dto"
	"bazaar/internal/domains/booking/repository"
	pricingDto "bazaar/internal/domains/pricing/model/dto"
	slotModel "bazaar/internal/domains/slot/model"
	slotService "bazaar/internal/domains/slot/service"
	"bazaar/shared"
	"bazaar/shared/cache"
	"bazaar/shared/constant"
	gDto "bazaar/shared/dto"
	"bazaar/shared/failure"
	"bazaar/shared/notifier"
	"bazaar/shared/timezone"
	"bazaar/shared/validator"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

const cacheGetAllSubmission = "booking:submissions"

// Submission outcomes reported to metrics.
const (
	OutcomeSubmitted = "submitted"
	OutcomeInvalid   = "invalid"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeReplayed  = "replayed"
)

const (
	msgSlotUnavailable    = "This slot is no longer available. Please pick another time."
	msgSlotFullyBooked    = "This slot is fully booked. Please pick another time."
	msgSubmissionInFlight = "This booking is already being submitted."
	msgKeyInUse           = "This idempotency key belongs to another submission."
	msgBookingNotFound    = "Booking not found."
	msgBookingCreated     = "Booking created. Continue to payment."
)

var submissionSortColumns = []string{
	constant.FieldCreatedAt,
	model.FieldBookingDate,
	model.FieldStatus,
	model.FieldTotalAmount,
}

type Booking interface {
	Submit(ctx context.Context, req dto.SubmitBookingRequest, idempotencyKey string) (dto.SubmitBookingResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	ListSubmissions(ctx context.Context, params gDto.QueryParams, filter dto.SubmissionFilter) (dto.GetSubmissionsResponse, error)
}

type serviceImpl struct {
	repo     repository.Submission
	catalog  slotService.Catalog
	client   bookingapi.Client
	notifier notifier.Notifier
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	metrics  *metrics.BookingMetrics
}

func New(
	repo repository.Submission,
	catalog slotService.Catalog,
	client bookingapi.Client,
	notify notifier.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	m *metrics.BookingMetrics,
) Booking {
	return &serviceImpl{
		repo:     repo,
		catalog:  catalog,
		client:   client,
		notifier: notify,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		metrics:  m,
	}
}

// Submit validates the form, prices the chosen slot and creates the booking upstream.
// Every attempt that reaches the Booking API is recorded in the submission ledger.
func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitBookingRequest, idempotencyKey string) (res dto.SubmitBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	form := req.ToForm()

	if err = model.Validate(form); err != nil {
		s.reject(ctx, OutcomeInvalid, notifier.Event{Kind: notifier.KindError, Message: err.Error(), ServiceID: req.ServiceID, UserID: user})

		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		s.reject(ctx, OutcomeInvalid, notifier.Event{Kind: notifier.KindError, Message: err.Error(), ServiceID: req.ServiceID, UserID: user})

		return res, err //nolint:wrapcheck
	}

	existing, err := s.replay(ctx, idempotencyKey, user)
	if err != nil {
		return res, err
	}

	if existing != nil && existing.Status == model.SubmissionSubmitted {
		s.metrics.ObserveSubmission(OutcomeReplayed)

		return s.replayResponse(*existing), nil
	}

	service, err := s.catalog.Service(ctx, req.ServiceID)
	if err != nil {
		log.Error().Err(err).Str("serviceID", req.ServiceID).Msg("failed to resolve service for booking")

		return res, fmt.Errorf("failed to resolve service: %w", err)
	}

	slot, err := s.selectableSlot(ctx, req, user)
	if err != nil {
		return res, err
	}

	payload := model.Assemble(form, slot, service.BasePrice)

	submission, err := s.openLedger(ctx, req, existing, idempotencyKey, user, slot, payload)
	if err != nil {
		return res, err
	}

	booking, err := s.client.CreateBooking(ctx, payload)
	if err != nil {
		return res, s.recordFailure(ctx, submission, user, err)
	}

	bookingID := booking.Identifier()

	s.closeLedger(ctx, submission.ID, user, map[string]any{
		model.FieldStatus:            model.SubmissionSubmitted,
		model.FieldUpstreamBookingID: bookingID,
	})

	s.metrics.ObserveSubmission(OutcomeSubmitted)
	s.notifier.Notify(ctx, notifier.Event{
		Kind:         notifier.KindSuccess,
		Message:      msgBookingCreated,
		SubmissionID: submission.ID,
		BookingID:    bookingID,
		ServiceID:    payload.ServiceID,
		SlotID:       payload.SlotID,
		UserID:       user,
		TotalAmount:  payload.TotalAmount.StringFixed(constant.CurrencyScale),
	})

	res.BookingID = bookingID
	res.SubmissionID = submission.ID
	res.Status = booking.Status
	res.NextStep = dto.NextStepPayment
	res.Price.FromModel(payload.Price, s.currency(service))

	scope.SetAttributes(map[string]any{"booking.id": bookingID, "booking.express_type": payload.Price.Tier.FeeKey})

	return res, nil
}

// replay looks up an earlier attempt made with the same idempotency key. An attempt
// still in flight is a conflict; a rejected one is reported again as it was. Keys
// belong to the user who first sent them, admins excepted.
func (s *serviceImpl) replay(ctx context.Context, idempotencyKey, user string) (*model.Submission, error) {
	if idempotencyKey == "" {
		return nil, nil
	}

	existing, err := s.repo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldIdempotencyKey, Value: idempotencyKey, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to look up submission by idempotency key")

		return nil, fmt.Errorf("failed to look up submission: %w", err)
	}

	switch {
	case existing.ID == "":
		return nil, nil
	case existing.CreatedBy != user && !isAdmin(ctx):
		log.Warn().Str("submissionID", existing.ID).Str("userID", user).Msg("idempotency key reused by another user")

		return nil, failure.Conflict(msgKeyInUse) //nolint:wrapcheck
	case existing.Status == model.SubmissionPending:
		return nil, failure.Conflict(msgSubmissionInFlight) //nolint:wrapcheck
	case existing.Status == model.SubmissionRejected:
		msg := msgSlotUnavailable
		if existing.ErrorMessage != nil && *existing.ErrorMessage != "" {
			msg = *existing.ErrorMessage
		}

		return nil, failure.Conflict(msg) //nolint:wrapcheck
	default:
		return &existing, nil
	}
}

func (s *serviceImpl) replayResponse(existing model.Submission) dto.SubmitBookingResponse {
	res := dto.SubmitBookingResponse{
		SubmissionID: existing.ID,
		Status:       model.StatusPending,
		NextStep:     dto.NextStepPayment,
	}

	if existing.UpstreamBookingID != nil {
		res.BookingID = *existing.UpstreamBookingID
	}

	slotType := slotModel.ParseSlotType(existing.SlotType)
	price := pricingDto.PriceResponse{
		BasePrice:  existing.BasePrice,
		ExpressFee: existing.ExpressFee,
		TotalPrice: existing.TotalAmount,
		SlotType:   slotType.String(),
		Currency:   s.cfg.App.Currency,
	}

	if existing.ExpressType != nil {
		price.FeeKey = *existing.ExpressType
		price.IsExpress = true
	}

	res.Price = price

	log.Info().Str("submissionID", existing.ID).Msg("replaying submitted booking")

	return res
}

// selectableSlot resolves the chosen slot and refuses one that can no longer be booked.
// The cached slot list for the date is dropped so the next listing is fresh.
func (s *serviceImpl) selectableSlot(ctx context.Context, req dto.SubmitBookingRequest, user string) (slotModel.BookingSlot, error) {
	slot, err := s.catalog.Find(ctx, req.ServiceID, req.Date, req.SlotID)

	switch {
	case err == nil && slot.Selectable():
		return slot, nil
	case err != nil && failure.GetCode(err) != http.StatusNotFound:
		log.Error().Err(err).Str("slotID", req.SlotID).Msg("failed to resolve slot for booking")

		return slot, fmt.Errorf("failed to resolve slot: %w", err)
	}

	msg := msgSlotUnavailable
	if err == nil && slot.IsFullyBooked {
		msg = msgSlotFullyBooked
	}

	s.invalidateSlots(ctx, req.ServiceID, req.Date)
	s.reject(ctx, OutcomeConflict, notifier.Event{
		Kind:      notifier.KindConflict,
		Message:   msg,
		ServiceID: req.ServiceID,
		SlotID:    req.SlotID,
		UserID:    user,
	})

	return slot, failure.Conflict(msg) //nolint:wrapcheck
}

// openLedger records a pending attempt, or reopens a failed one made with the same key.
func (s *serviceImpl) openLedger(
	ctx context.Context,
	req dto.SubmitBookingRequest,
	existing *model.Submission,
	idempotencyKey, user string,
	slot slotModel.BookingSlot,
	payload model.BookingFormData,
) (model.Submission, error) {
	submission := req.ToModel(idempotencyKey, user, slot.SlotType.String(), payload)

	if existing != nil {
		submission.ID = existing.ID
		submission.IdempotencyKey = existing.IdempotencyKey
		submission.CreatedAt = existing.CreatedAt
		submission.CreatedBy = existing.CreatedBy

		err := s.repo.Update(ctx, map[string]any{
			model.FieldStatus:       model.SubmissionPending,
			model.FieldErrorMessage: nil,
			model.FieldModifiedAt:   submission.ModifiedAt,
			model.FieldModifiedBy:   user,
		}, shared.FilterByID(existing.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Str("submissionID", existing.ID).Msg("failed to reopen submission")

			return submission, fmt.Errorf("failed to reopen submission: %w", err)
		}

		return submission, nil
	}

	if err := s.repo.Insert(ctx, submission); err != nil {
		if failure.IsConflict(err) {
			return submission, failure.Conflict(msgSubmissionInFlight) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to record submission")

		return submission, fmt.Errorf("failed to record submission: %w", err)
	}

	s.invalidateSubmissions(ctx)

	return submission, nil
}

// recordFailure classifies an upstream error, stores the outcome and returns the error
// for the caller unchanged so conflict messages stay verbatim.
func (s *serviceImpl) recordFailure(ctx context.Context, submission model.Submission, user string, upstreamErr error) error {
	status, outcome, kind := model.SubmissionRejected, OutcomeRejected, notifier.KindError

	switch {
	case failure.IsConflict(upstreamErr):
		outcome, kind = OutcomeConflict, notifier.KindConflict

		s.invalidateSlots(ctx, submission.ServiceID, submission.BookingDate)
	case failure.IsRetryable(upstreamErr), failure.GetCode(upstreamErr) >= http.StatusInternalServerError:
		status, outcome = model.SubmissionFailed, OutcomeFailed
	}

	log.Error().Err(upstreamErr).Str("submissionID", submission.ID).Str("outcome", outcome).Msg("failed to create booking")

	s.closeLedger(ctx, submission.ID, user, map[string]any{
		model.FieldStatus:       status,
		model.FieldErrorMessage: upstreamErr.Error(),
	})

	s.metrics.ObserveSubmission(outcome)
	s.notifier.Notify(ctx, notifier.Event{
		Kind:         kind,
		Message:      upstreamErr.Error(),
		SubmissionID: submission.ID,
		ServiceID:    submission.ServiceID,
		SlotID:       submission.SlotID,
		UserID:       user,
	})

	var fail *failure.Failure
	if errors.As(upstreamErr, &fail) {
		return fail
	}

	return failure.ServiceUnavailable("booking api unavailable") //nolint:wrapcheck
}

// closeLedger stores the outcome of an attempt. The upstream call has already happened,
// so a ledger write failure is logged and never changes the response.
func (s *serviceImpl) closeLedger(ctx context.Context, id, user string, fields map[string]any) {
	fields[model.FieldModifiedAt] = timezone.Now()
	fields[model.FieldModifiedBy] = user

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("submissionID", id).Msg("failed to record submission outcome")
	}

	s.invalidateSubmissions(ctx)
}

func (s *serviceImpl) reject(ctx context.Context, outcome string, event notifier.Event) {
	s.metrics.ObserveSubmission(outcome)
	s.notifier.Notify(ctx, event)
}

func (s *serviceImpl) invalidateSlots(ctx context.Context, serviceID, date string) {
	if err := s.catalog.Invalidate(ctx, serviceID, date); err != nil {
		log.Warn().Err(err).Str("serviceID", serviceID).Str("date", date).Msg("slot cache left stale")
	}
}

func (s *serviceImpl) invalidateSubmissions(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllSubmission)
	}()
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateVar(id, "required,notblank"); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.authorizeBooking(ctx, id); err != nil {
		return res, err
	}

	booking, err := s.client.GetBooking(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	res.FromModel(*booking)

	return res, nil
}

// authorizeBooking lets a caller read a booking only when one of their own ledger rows
// created it. Unknown and foreign ids look the same to the caller.
func (s *serviceImpl) authorizeBooking(ctx context.Context, id string) error {
	if isAdmin(ctx) {
		return nil
	}

	filter := s.ownerFilter(ctx)
	filter.Filters = append(filter.Filters,
		gDto.Filter{Field: model.FieldUpstreamBookingID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	)

	submission, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to look up booking owner")

		return fmt.Errorf("failed to look up booking owner: %w", err)
	}

	if submission.ID == "" {
		return failure.NotFound(msgBookingNotFound) //nolint:wrapcheck
	}

	return nil
}

// ListSubmissions pages through the caller's ledger. Admins see every submission.
func (s *serviceImpl) ListSubmissions(
	ctx context.Context,
	params gDto.QueryParams,
	submissionFilter dto.SubmissionFilter,
) (res dto.GetSubmissionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListSubmissions")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&params); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = submissionFilter.Validate(); err != nil {
		return res, err //nolint:wrapcheck
	}

	params.RestrictSort(submissionSortColumns...)

	filter := s.ownerFilter(ctx)
	filter.Filters = append(filter.Filters, submissionFilter.Filters()...)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllSubmission, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for submissions")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count submissions")

		return res, fmt.Errorf("failed to count submissions: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get submissions")

		return res, fmt.Errorf("failed to get submissions: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save submissions to cache")
		}
	}()

	return res, nil
}

func isAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return role == constant.RoleAdmin
}

func (s *serviceImpl) ownerFilter(ctx context.Context) gDto.FilterGroup {
	if isAdmin(ctx) {
		return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldCreatedBy, Value: user, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

func (s *serviceImpl) currency(service bookingapi.Service) string {
	if service.Currency != "" {
		return service.Currency
	}

	return s.cfg.App.Currency
}
