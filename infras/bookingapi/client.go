package bookingapi

//go:generate go run go.uber.org/mock/mockgen -source=./client.go -destination=./mocks/client_mock.go -package=mocks

import (
	"bazaar/config"
	"bazaar/infras/metrics"
	"bazaar/infras/otel"
	"bazaar/shared/constant"
	"bazaar/shared/failure"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	operationGetService    = "get_service"
	operationGetSlots      = "get_slots"
	operationCreateBooking = "create_booking"
	operationGetBooking    = "get_booking"

	maxBodyBytes = 1 << 20
	userAgent    = "bazaar-booking-client/1.0"
)

type Client interface {
	GetService(ctx context.Context, serviceID string) (*Service, error)
	GetSlots(ctx context.Context, serviceID, date string) ([]RawSlot, error)
	CreateBooking(ctx context.Context, payload any) (*Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*Booking, error)
}

type clientImpl struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetry   uint
	retryStart time.Duration
	otel       otel.Otel
	metrics    *metrics.BookingMetrics
}

func New(cfg *config.Config, ot otel.Otel, m *metrics.BookingMetrics) Client {
	limit := rate.Inf
	if cfg.BookingAPI.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.BookingAPI.RequestsPerSecond)
	}

	burst := cfg.BookingAPI.Burst
	if burst <= 0 {
		burst = 1
	}

	timeout := time.Duration(cfg.BookingAPI.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	retryStart := time.Duration(cfg.BookingAPI.RetryInitialMillis) * time.Millisecond
	if retryStart <= 0 {
		retryStart = 200 * time.Millisecond
	}

	maxRetry := cfg.BookingAPI.MaxRetry
	if maxRetry == 0 {
		maxRetry = 1
	}

	return &clientImpl{
		baseURL:    strings.TrimRight(cfg.BookingAPI.BaseURL, "/"),
		token:      cfg.BookingAPI.Token,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetry:   maxRetry,
		retryStart: retryStart,
		otel:       ot,
		metrics:    m,
	}
}

func (c *clientImpl) GetService(ctx context.Context, serviceID string) (service *Service, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".GetService")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("service.id", serviceID)

	body, err := c.getWithRetry(ctx, operationGetService, "/services/"+url.PathEscape(serviceID), nil)
	if err != nil {
		return nil, err
	}

	service = &Service{}
	if err = json.Unmarshal(body, service); err != nil {
		log.Error().Err(err).Str("serviceID", serviceID).Msg("failed to decode service")

		return nil, failure.ServiceUnavailable("booking api returned an unreadable service")
	}

	return service, nil
}

func (c *clientImpl) GetSlots(ctx context.Context, serviceID, date string) (slots []RawSlot, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".GetSlots")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{"service.id": serviceID, "slot.date": date})

	query := url.Values{}
	query.Set(constant.RequestParamDate, date)

	body, err := c.getWithRetry(ctx, operationGetSlots, "/services/"+url.PathEscape(serviceID)+"/slots", query)
	if err != nil {
		return nil, err
	}

	slots, err = DecodeSlots(body)
	if err != nil {
		log.Error().Err(err).Str("serviceID", serviceID).Str("date", date).Msg("failed to decode slots")

		return nil, failure.ServiceUnavailable("booking api returned an unreadable slot list")
	}

	scope.SetAttribute("slot.count", len(slots))

	return slots, nil
}

// CreateBooking is never retried: a timed out POST may still have created the booking.
func (c *clientImpl) CreateBooking(ctx context.Context, payload any) (booking *Booking, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode booking payload")

		return nil, fmt.Errorf("failed to encode booking payload: %w", err)
	}

	body, err := c.do(ctx, operationCreateBooking, http.MethodPost, "/bookings", nil, raw)
	if err != nil {
		return nil, err
	}

	booking = &Booking{}
	if err = json.Unmarshal(body, booking); err != nil {
		log.Error().Err(err).Msg("failed to decode created booking")

		return nil, failure.ServiceUnavailable("booking api returned an unreadable booking")
	}

	if booking.Identifier() == "" {
		return nil, failure.ServiceUnavailable("booking api did not return a booking id")
	}

	scope.SetAttribute("booking.id", booking.Identifier())

	return booking, nil
}

func (c *clientImpl) GetBooking(ctx context.Context, bookingID string) (booking *Booking, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".GetBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("booking.id", bookingID)

	body, err := c.getWithRetry(ctx, operationGetBooking, "/bookings/"+url.PathEscape(bookingID), nil)
	if err != nil {
		return nil, err
	}

	booking = &Booking{}
	if err = json.Unmarshal(body, booking); err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to decode booking")

		return nil, failure.ServiceUnavailable("booking api returned an unreadable booking")
	}

	return booking, nil
}

// getWithRetry retries transient failures with exponential backoff. Anything that
// is not transient is returned on the first attempt.
func (c *clientImpl) getWithRetry(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryStart

	attempt := 0

	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++

		body, err := c.do(ctx, operation, http.MethodGet, path, query, nil)
		if err == nil {
			return body, nil
		}

		if !failure.IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}

		log.Warn().Err(err).Str("operation", operation).Int("attempt", attempt).Msg("booking api call failed, retrying")

		return nil, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(c.maxRetry))
	if err != nil {
		var fail *failure.Failure
		if errors.As(err, &fail) {
			return nil, fail
		}

		log.Error().Err(err).Str("operation", operation).Msg("booking api call aborted")

		return nil, failure.ServiceUnavailable("booking api unavailable: " + err.Error())
	}

	return body, nil
}

func (c *clientImpl) do(ctx context.Context, operation, method, path string, query url.Values, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("operation", operation).Msg("booking api throttle wait aborted")

		return nil, failure.ServiceUnavailable("booking api request throttled")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build booking api request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderAccept, constant.ContentTypeJSON)
	req.Header.Set(constant.RequestHeaderUserAgent, userAgent)

	if payload != nil {
		req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	}

	if c.token != "" {
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+c.token)
	}

	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(operation, 0, time.Since(started).Seconds())
		log.Error().Err(err).Str("operation", operation).Str("method", method).Msg("booking api request failed")

		return nil, failure.ServiceUnavailable("booking api unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.ObserveUpstream(operation, resp.StatusCode, time.Since(started).Seconds())

	if err != nil {
		log.Error().Err(err).Str("operation", operation).Msg("failed to read booking api response")

		return nil, failure.ServiceUnavailable("booking api response interrupted")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = classify(resp.StatusCode, body)
		log.Warn().Err(err).Str("operation", operation).Int("status", resp.StatusCode).Msg("booking api rejected request")

		return nil, err
	}

	return body, nil
}
