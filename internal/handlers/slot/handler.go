package slot

import (
	"bazaar/infras/otel"
	"bazaar/internal/domains/slot/model/dto"
	"bazaar/internal/domains/slot/service"
	"bazaar/shared"
	"bazaar/shared/constant"
	"bazaar/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const requestParamSelectableOnly = "selectable_only"

type Handler struct {
	service service.Catalog
	otel    otel.Otel
}

func New(service service.Catalog, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/services/{id}/slots", handler.ListSlots)
}

// ListSlots returns the slots of a service for one day.
// @Summary List slots
// @Description Slots for the date matching the type filter, in provider order, each with a price preview when the service price is known.
// @Tags Slot
// @Produce json
// @Param id path string true "Service ID"
// @Param date query string true "Day in YYYY-MM-DD"
// @Param type query string false "all, normal, express, urgent or emergency"
// @Param selectable_only query bool false "Hide slots that cannot be booked"
// @Success 200 {object} response.Data[dto.ListSlotsResponse]
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/services/{id}/slots [get]
func (handler *Handler) ListSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListSlots")
	defer scope.End()

	query := request.URL.Query()
	selectableOnly := shared.ConvertStringToBool(query.Get(requestParamSelectableOnly))

	req := dto.ListSlotsRequest{
		ServiceID:      chi.URLParam(request, constant.RequestParamID),
		Date:           query.Get(constant.RequestParamDate),
		Type:           query.Get(constant.RequestParamType),
		SelectableOnly: selectableOnly != nil && *selectableOnly,
	}

	res, err := handler.service.List(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("serviceID", req.ServiceID).Msg("failed to list slots")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
