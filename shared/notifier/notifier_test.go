package notifier_test

import (
	"bazaar/config"
	"bazaar/infras/kafka"
	kafkaMocks "bazaar/infras/kafka/mocks"
	"bazaar/shared/notifier"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func kafkaConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Topic = "booking.notifications"

	return cfg
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "notification was not published")
	}
}

func TestNotifier_LogsOnlyWhenKafkaDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := kafkaMocks.NewMockProducer(ctrl)

	originalLogger := log.Logger
	defer func() { log.Logger = originalLogger }()

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	notifier.New(&config.Config{}, producer).Notify(context.Background(), notifier.Event{
		Kind:    notifier.KindConflict,
		Message: "This slot is fully booked.",
	})

	assert.Contains(t, buf.String(), "This slot is fully booked.")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestNotifier_PublishesWhenEnabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := kafkaMocks.NewMockProducer(ctrl)
	done := make(chan struct{})

	producer.EXPECT().
		SendMessages(gomock.Any(), "booking.notifications", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			defer close(done)

			assert.Len(t, messages, 1)
			assert.Equal(t, "sub-1", messages[0].Key)

			event, ok := messages[0].Value.(notifier.Event)
			assert.True(t, ok)
			assert.Equal(t, notifier.KindSuccess, event.Kind)
			assert.False(t, event.OccurredAt.IsZero())

			return nil
		})

	notifier.New(kafkaConfig(), producer).Notify(context.Background(), notifier.Event{
		Kind:         notifier.KindSuccess,
		Message:      "Booking created",
		SubmissionID: "sub-1",
		BookingID:    "42",
	})

	waitFor(t, done)
}

func TestNotifier_PublishDoesNotBlockOrInheritCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := kafkaMocks.NewMockProducer(ctrl)
	release := make(chan struct{})
	done := make(chan struct{})

	producer.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...kafka.Message) error {
			defer close(done)

			<-release
			assert.NoError(t, ctx.Err())

			return nil
		})

	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan struct{})
	go func() {
		notifier.New(kafkaConfig(), producer).Notify(ctx, notifier.Event{Kind: notifier.KindSuccess, BookingID: "42"})
		close(returned)
	}()

	// Notify returns while the broker is still busy
	waitFor(t, returned)

	// the request finishing must not abort the publish
	cancel()
	close(release)

	waitFor(t, done)
}

func TestNotifier_PublishFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	producer := kafkaMocks.NewMockProducer(ctrl)
	done := make(chan struct{})

	producer.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, ...kafka.Message) error {
			defer close(done)

			return errors.New("broker down")
		})

	assert.NotPanics(t, func() {
		notifier.New(kafkaConfig(), producer).Notify(context.Background(), notifier.Event{Kind: notifier.KindError, Message: "Booking failed", BookingID: "42"})
	})

	waitFor(t, done)
}
