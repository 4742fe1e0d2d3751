package otel_test

import (
	"bazaar/config"
	"bazaar/infras/otel"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "bazaar-test"

	tracer := otel.New(cfg)

	ctx, scope := tracer.NewScope(context.Background(), "test", "test.span")
	assert.NotNil(t, ctx)

	scope.SetAttributes(map[string]any{
		"slot.type":   "urgent",
		"slot.count":  3,
		"price.total": 1750.0,
		"selectable":  true,
		"tiers":       []string{"standard", "urgent"},
	})
	scope.TraceIfError(nil)
	scope.TraceError(errors.New("upstream down"))
	scope.AddEvent("done")
	scope.End()

	assert.NoError(t, tracer.Shutdown(context.Background()))
}
