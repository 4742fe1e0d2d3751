package response

import (
	"bazaar/shared/constant"
	"bazaar/shared/failure"
	"bazaar/shared/logger"
	"encoding/json"
	"errors"
	"net/http"
)

// retryAfterSeconds is advertised on transient failures.
const retryAfterSeconds = "5"

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error     *string `json:"error,omitempty"`
	Retryable bool    `json:"retryable,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithError sends a response with an error message. Failures keep their own message
// whatever they were wrapped in; anything else is an internal error.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	errMsg := err.Error()

	var fail *failure.Failure
	if errors.As(err, &fail) {
		errMsg = fail.Message
	}

	retryable := failure.IsRetryable(err)
	if retryable {
		writer.Header().Set(constant.RequestHeaderRetryAfter, retryAfterSeconds)
	}

	response(writer, code, Error{Error: &errMsg, Retryable: retryable})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
