package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bazaar/config"
	"bazaar/infras/bookingapi"
	"bazaar/infras/metrics"
	"bazaar/infras/otel"
	"bazaar/internal/domains/slot/model"
	"bazaar/internal/domains/slot/model/dto"
	"bazaar/shared"
	"bazaar/shared/cache"
	"bazaar/shared/constant"
	"bazaar/shared/failure"
	"bazaar/shared/timezone"
	"bazaar/shared/validator"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	cacheSlotList   = "slot:list"
	cacheServiceGet = "slot:service"
)

type Catalog interface {
	List(ctx context.Context, req dto.ListSlotsRequest) (dto.ListSlotsResponse, error)
	Slots(ctx context.Context, serviceID, date string) ([]model.BookingSlot, error)
	Find(ctx context.Context, serviceID, date, slotID string) (model.BookingSlot, error)
	Service(ctx context.Context, serviceID string) (bookingapi.Service, error)
	Invalidate(ctx context.Context, serviceID, date string) error
}

type serviceImpl struct {
	client  bookingapi.Client
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	metrics *metrics.BookingMetrics
}

func New(client bookingapi.Client, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, m *metrics.BookingMetrics) Catalog {
	return &serviceImpl{
		client:  client,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		metrics: m,
	}
}

func (s *serviceImpl) List(ctx context.Context, req dto.ListSlotsRequest) (res dto.ListSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	filter, err := model.ParseFilter(req.Type)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	selectedDate, err := parseDay(req.Date)
	if err != nil {
		return res, err
	}

	slots, err := s.Slots(ctx, req.ServiceID, req.Date)
	if err != nil {
		return res, err
	}

	filtered := model.Filter(slots, filter, selectedDate)

	if req.SelectableOnly {
		selectable := make([]model.BookingSlot, 0, len(filtered))

		for _, slot := range filtered {
			if slot.Selectable() {
				selectable = append(selectable, slot)
			}
		}

		filtered = selectable
	}

	var basePrice *decimal.Decimal

	service, err := s.Service(ctx, req.ServiceID)
	if err != nil {
		log.Warn().Err(err).Str("serviceID", req.ServiceID).Msg("service price unavailable, listing slots without prices")
	} else {
		basePrice = &service.BasePrice
	}

	res.ServiceID = req.ServiceID
	res.Date = req.Date
	res.Filter = string(filter)
	res.FromModels(filtered, basePrice, s.currency(service))

	scope.SetAttributes(map[string]any{"slot.filter": string(filter), "slot.count": res.Total})
	s.metrics.ObserveSlotsServed(string(filter), res.Total)

	return res, nil
}

// Slots returns every normalized slot the Booking API reports for the date, cached
// for the configured slot TTL. Records that cannot be normalized are skipped.
func (s *serviceImpl) Slots(ctx context.Context, serviceID, date string) (res []model.BookingSlot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Slots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheSlotList, serviceID, date)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return res, nil
	}

	raws, err := s.client.GetSlots(ctx, serviceID, date)
	if err != nil {
		log.Error().Err(err).Str("serviceID", serviceID).Str("date", date).Msg("failed to fetch slots")

		return nil, fmt.Errorf("failed to fetch slots: %w", err)
	}

	res = make([]model.BookingSlot, 0, len(raws))

	for _, raw := range raws {
		slot, err := model.Normalize(raw)
		if err != nil {
			log.Warn().Err(err).Str("serviceID", serviceID).Str("slotID", raw.ID.String()).Msg("skipping malformed slot")

			continue
		}

		res = append(res, slot)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.SlotTTL); err != nil {
			log.Error().Err(err).Msg("failed to save slots to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Find(ctx context.Context, serviceID, date, slotID string) (res model.BookingSlot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindSlot")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	slots, err := s.Slots(ctx, serviceID, date)
	if err != nil {
		return res, err
	}

	for _, slot := range slots {
		if slot.ID == slotID {
			return slot, nil
		}
	}

	return res, failure.NotFound("slot not found") //nolint:wrapcheck
}

func (s *serviceImpl) Service(ctx context.Context, serviceID string) (res bookingapi.Service, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Service")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheServiceGet, serviceID)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for service")

		return res, nil
	}

	service, err := s.client.GetService(ctx, serviceID)
	if err != nil {
		log.Error().Err(err).Str("serviceID", serviceID).Msg("failed to fetch service")

		return res, fmt.Errorf("failed to fetch service: %w", err)
	}

	res = *service

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save service to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Invalidate(ctx context.Context, serviceID, date string) error {
	cacheKey := shared.BuildCacheKey(cacheSlotList, serviceID, date)

	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		log.Error().Err(err).Str("cacheKey", cacheKey).Msg("failed to invalidate slot cache")

		return fmt.Errorf("failed to invalidate slot cache: %w", err)
	}

	return nil
}

func (s *serviceImpl) currency(service bookingapi.Service) string {
	if service.Currency != "" {
		return service.Currency
	}

	return s.cfg.App.Currency
}

func parseDay(value string) (time.Time, error) {
	day, err := timezone.ParseDay(value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	return day, nil
}
