package booking

import (
	"bazaar/infras/otel"
	"bazaar/internal/domains/booking/model/dto"
	"bazaar/internal/domains/booking/service"
	"bazaar/shared/constant"
	gDto "bazaar/shared/dto"
	"bazaar/shared/validator"
	"bazaar/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitBooking)
		routerGroup.Get("/submissions", handler.GetSubmissions)
		routerGroup.Get("/{id}", handler.GetBookingByID)
	})
}

// SubmitBooking validates the booking form, prices the chosen slot and creates the booking upstream.
// @Summary Submit a booking
// @Description Validates the form, checks the slot is still selectable, assembles the booking payload and forwards it to the booking API. Resending the same Idempotency-Key replays the earlier outcome.
// @Tags Booking
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client generated key for safe resubmission"
// @Param request body dto.SubmitBookingRequest true "Submit Booking Request"
// @Success 201 {object} response.Data[dto.SubmitBookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) SubmitBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitBooking")
	defer scope.End()

	req := dto.SubmitBookingRequest{}

	// form rules run in the service so their messages reach the notifier first
	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Submit(ctx, req, request.Header.Get(constant.RequestHeaderIdempotencyKey))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("serviceID", req.ServiceID).Msg("failed to submit booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking " + res.BookingID + " submitted by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetSubmissions lists the booking submissions ledger.
// @Summary Get booking submissions
// @Description Admins see every submission, everyone else only their own.
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Comma separated statuses (pending, submitted, rejected, failed)"
// @Param from query string false "Earliest slot date, YYYY-MM-DD"
// @Param to query string false "Latest slot date, YYYY-MM-DD"
// @Success 200 {object} response.Data[dto.GetSubmissionsResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/submissions [get]
// @Security BearerAuth
func (handler *Handler) GetSubmissions(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSubmissions")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filter := dto.SubmissionFilter{}
	filter.FromRequest(request)

	res, err := handler.service.ListSubmissions(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking submissions")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookingByID retrieves a booking from the booking API together with the actions allowed on it.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", id).Msg("failed to get booking by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}
