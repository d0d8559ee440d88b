package realtime

import (
	"context"
	"fmt"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/messaging"
	"teahouse-storefront/internal/models"
)

// Feed adapts a messaging consumer into a stream of typed change events,
// independent of the transport behind it.
type Feed struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewFeed creates a change-event feed over a queue consumer.
func NewFeed(consumer *messaging.Consumer, log *logger.Logger) *Feed {
	return &Feed{consumer: consumer, logger: log}
}

// Subscribe starts consuming and delivers decoded events on the returned
// channel until the context is cancelled. The channel is closed when the
// underlying consumer stops.
func (f *Feed) Subscribe(ctx context.Context) <-chan *models.ChangeEvent {
	events := make(chan *models.ChangeEvent)

	go func() {
		defer close(events)
		err := f.consumer.StartConsuming(ctx, func(ctx context.Context, body []byte) error {
			var ev models.ChangeEvent
			if err := messaging.ParseMessage(body, &ev); err != nil {
				return fmt.Errorf("failed to parse change event: %w", err)
			}
			select {
			case events <- &ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && ctx.Err() == nil {
			f.logger.Error("feed_consumer_failed", "Change event consumer stopped", "", err, nil)
		}
	}()

	return events
}
