package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bazaar/config"
	"bazaar/infras/metrics"
	"bazaar/infras/otel"
	"bazaar/internal/domains/pricing/model"
	"bazaar/internal/domains/pricing/model/dto"
	slotModel "bazaar/internal/domains/slot/model"
	slotService "bazaar/internal/domains/slot/service"
	"bazaar/shared/constant"
	"bazaar/shared/failure"
	"bazaar/shared/validator"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Pricing interface {
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.PriceResponse, error)
	Reschedule(ctx context.Context, req dto.RescheduleRequest) (dto.RescheduleResponse, error)
	Tiers(ctx context.Context) []dto.TierResponse
}

type serviceImpl struct {
	catalog slotService.Catalog
	cfg     *config.Config
	otel    otel.Otel
	metrics *metrics.BookingMetrics
}

func New(catalog slotService.Catalog, cfg *config.Config, otel otel.Otel, m *metrics.BookingMetrics) Pricing {
	return &serviceImpl{
		catalog: catalog,
		cfg:     cfg,
		otel:    otel,
		metrics: m,
	}
}

func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.PriceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validate(&req, req.Validate); err != nil {
		return res, err
	}

	basePrice, currency, err := s.basePrice(ctx, req.ServiceID, req.BasePrice)
	if err != nil {
		return res, err
	}

	var price model.PriceBreakdown

	if req.SlotID != "" {
		slot, err := s.catalog.Find(ctx, req.ServiceID, req.Date, req.SlotID)
		if err != nil {
			log.Error().Err(err).Str("slotID", req.SlotID).Msg("failed to resolve slot for quote")

			return res, fmt.Errorf("failed to resolve slot: %w", err)
		}

		price = model.ForSlot(basePrice, slot)
	} else {
		price = model.Calculate(basePrice, req.ParsedSlotType())
	}

	res.FromModel(price, currency)

	scope.SetAttributes(map[string]any{"price.tier": res.SlotType, "price.override": res.Override})
	s.metrics.ObserveQuote(res.SlotType, res.Override)

	return res, nil
}

func (s *serviceImpl) Reschedule(ctx context.Context, req dto.RescheduleRequest) (res dto.RescheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validate(&req, req.Validate); err != nil {
		return res, err
	}

	basePrice, currency, err := s.basePrice(ctx, req.ServiceID, req.BasePrice)
	if err != nil {
		return res, err
	}

	quote := model.RescheduleDelta(basePrice, slotModel.ParseSlotType(req.FromType), slotModel.ParseSlotType(req.ToType))
	res.FromModel(quote, currency)

	scope.SetAttribute("price.delta", quote.Delta.String())

	return res, nil
}

func (s *serviceImpl) Tiers(_ context.Context) []dto.TierResponse {
	return dto.TiersFromModel(model.Tiers())
}

// basePrice prefers an explicit price over the service's package price.
func (s *serviceImpl) basePrice(ctx context.Context, serviceID string, explicit *decimal.Decimal) (decimal.Decimal, string, error) {
	if explicit != nil {
		return *explicit, s.cfg.App.Currency, nil
	}

	service, err := s.catalog.Service(ctx, serviceID)
	if err != nil {
		log.Error().Err(err).Str("serviceID", serviceID).Msg("failed to resolve base price")

		return decimal.Zero, "", fmt.Errorf("failed to resolve base price: %w", err)
	}

	currency := service.Currency
	if currency == "" {
		currency = s.cfg.App.Currency
	}

	return service.BasePrice, currency, nil
}

func validate[T any](req *T, check func() error) error {
	if err := validator.ValidateStruct(req); err != nil {
		return err //nolint:wrapcheck
	}

	if err := check(); err != nil {
		return failure.BadRequest(err) //nolint:wrapcheck
	}

	return nil
}
