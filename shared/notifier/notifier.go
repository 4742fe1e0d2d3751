package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"bazaar/config"
	"bazaar/infras/kafka"
	"bazaar/shared/timezone"
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Kind string

const (
	KindSuccess  Kind = "success"
	KindError    Kind = "error"
	KindConflict Kind = "conflict"
	KindInfo     Kind = "info"
)

type Event struct {
	Kind         Kind      `json:"kind"`
	Message      string    `json:"message"`
	SubmissionID string    `json:"submission_id,omitempty"`
	BookingID    string    `json:"booking_id,omitempty"`
	ServiceID    string    `json:"service_id,omitempty"`
	SlotID       string    `json:"slot_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	TotalAmount  string    `json:"total_amount,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Notifier reports booking outcomes to whoever listens. Notify never fails or blocks
// the caller; the Kafka publish happens in the background.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type notifierImpl struct {
	producer kafka.Producer
	topic    string
	enabled  bool
}

func New(cfg *config.Config, producer kafka.Producer) Notifier {
	return &notifierImpl{
		producer: producer,
		topic:    cfg.Kafka.Topic,
		enabled:  cfg.Kafka.Enable && producer != nil,
	}
}

func (n *notifierImpl) Notify(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = timezone.Now()
	}

	logEvent(event)

	if !n.enabled {
		return
	}

	key := event.SubmissionID
	if key == "" {
		key = event.BookingID
	}

	// the publish may outlive the request
	go func() {
		c := context.WithoutCancel(ctx)

		if err := n.producer.SendMessages(c, n.topic, kafka.Message{Key: key, Value: event}); err != nil {
			log.Error().Err(err).Str("topic", n.topic).Str("kind", string(event.Kind)).Msg("failed to publish booking notification")
		}
	}()
}

func logEvent(event Event) {
	level := zerolog.InfoLevel

	switch event.Kind {
	case KindError:
		level = zerolog.ErrorLevel
	case KindConflict:
		level = zerolog.WarnLevel
	case KindSuccess, KindInfo:
	}

	log.WithLevel(level).
		Str("kind", string(event.Kind)).
		Str("submissionID", event.SubmissionID).
		Str("bookingID", event.BookingID).
		Str("serviceID", event.ServiceID).
		Str("slotID", event.SlotID).
		Msg(event.Message)
}
