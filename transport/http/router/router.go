package router

import (
	"bazaar/internal/handlers/booking"
	"bazaar/internal/handlers/pricing"
	"bazaar/internal/handlers/slot"
	"bazaar/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Slot    slot.Handler
	Pricing pricing.Handler
	Booking booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

// SetupRoutes mounts the versioned API. Routes marked skip in permissions.json pass through the auth chain untouched.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.Pricing.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
