//go:build wireinject
// +build wireinject

package di

import (
	"bazaar/config"
	"bazaar/infras/bookingapi"
	"bazaar/infras/jwt"
	"bazaar/infras/kafka"
	"bazaar/infras/metrics"
	"bazaar/infras/otel"
	"bazaar/infras/postgres"
	"bazaar/infras/redis"
	bookingHandler "bazaar/internal/handlers/booking"
	pricingHandler "bazaar/internal/handlers/pricing"
	slotHandler "bazaar/internal/handlers/slot"
	"bazaar/permissions"
	"bazaar/shared/cache"
	"bazaar/shared/notifier"
	"bazaar/transport/http"
	"bazaar/transport/http/middleware"
	"bazaar/transport/http/router"

	bookingRepository "bazaar/internal/domains/booking/repository"
	bookingService "bazaar/internal/domains/booking/service"
	pricingService "bazaar/internal/domains/pricing/service"
	slotService "bazaar/internal/domains/slot/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	metrics.New,
	bookingapi.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	notifier.New,
)

var slotDomain = wire.NewSet(
	slotService.New,
)

var pricingDomain = wire.NewSet(
	pricingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	slotDomain,
	pricingDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	slotHandler.New,
	pricingHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
