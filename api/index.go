package handler

import (
	"bazaar/config"
	"bazaar/di"
	"bazaar/shared/logger"
	"net/http"
	"sync"

	httpTransport "bazaar/transport/http"
)

var (
	server *httpTransport.HTTP
	once   sync.Once
)

// Handler is the serverless entry point. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
