package http_test

import (
	"bazaar/config"
	"bazaar/infras/jwt"
	"bazaar/infras/otel/mocks"
	"bazaar/permissions"
	"bazaar/shared/cache"
	httpTransport "bazaar/transport/http"
	"bazaar/transport/http/middleware"
	"bazaar/transport/http/router"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newServer(t *testing.T) *httpTransport.HTTP {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "test-secret"

	mr := miniredis.RunT(t)
	otel := mocks.NewOtel()
	redisCache := cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), otel)

	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg), otel, permissions.Get(), cfg)
	r := router.New(router.DomainHandlers{}, authRole)

	return httpTransport.New(cfg, r, middleware.NewAppMiddleware(otel, cfg, redisCache), otel)
}

func TestServeHTTP(t *testing.T) {
	server := newServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantCode: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantCode: http.StatusOK},
		{name: "swagger spec", method: http.MethodGet, path: "/swagger/doc.json", wantCode: http.StatusOK},
		{name: "submission needs a token", method: http.MethodPost, path: "/v1/bookings", wantCode: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, path: "/v2/anything", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	assert.Equal(t, httpTransport.ServerStateReady, server.State())
}
