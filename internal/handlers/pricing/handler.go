package pricing

import (
	"bazaar/infras/otel"
	"bazaar/internal/domains/pricing/model/dto"
	"bazaar/internal/domains/pricing/service"
	"bazaar/shared/constant"
	"bazaar/shared/validator"
	"bazaar/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Pricing
	otel    otel.Otel
}

func New(service service.Pricing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/pricing", func(routerGroup chi.Router) {
		routerGroup.Get("/tiers", handler.GetTiers)
		routerGroup.Post("/quote", handler.Quote)
		routerGroup.Post("/reschedule", handler.Reschedule)
	})
}

// GetTiers lists the express fee tiers.
// @Summary List fee tiers
// @Tags Pricing
// @Produce json
// @Success 200 {object} response.Data[[]dto.TierResponse]
// @Router /v1/pricing/tiers [get]
func (handler *Handler) GetTiers(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTiers")
	defer scope.End()

	response.WithJSON(writer, http.StatusOK, handler.service.Tiers(ctx))
}

// Quote prices a slot type or a concrete slot.
// @Summary Quote a price
// @Description Base price plus express fee. With slot_id and date the slot's provider override is honoured.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} response.Data[dto.PriceResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/pricing/quote [post]
func (handler *Handler) Quote(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Quote")
	defer scope.End()

	req := dto.QuoteRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Quote(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote price")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Reschedule compares the price of moving a booking to another slot type.
// @Summary Reschedule price delta
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.RescheduleRequest true "Reschedule Request"
// @Success 200 {object} response.Data[dto.RescheduleResponse]
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/pricing/reschedule [post]
// @Security BearerAuth
func (handler *Handler) Reschedule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reschedule")
	defer scope.End()

	req := dto.RescheduleRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Reschedule(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to price reschedule")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
