package notification

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"teahouse-storefront/internal/logger"
	"teahouse-storefront/internal/messaging"
	"teahouse-storefront/internal/models"
)

// Subscriber listens for order status notifications and prints them in a
// human-readable form. It is the delivery-side counterpart of the admin
// status panel.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates a notification subscriber.
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start runs the subscriber until a shutdown signal arrives or the consumer
// stops.
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleNotification); err != nil {
			s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return s.gracefulShutdown(requestID)
	case <-s.done:
		return nil
	}
}

func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var statusUpdate models.StatusUpdateMessage
	if err := messaging.ParseMessage(body, &statusUpdate); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	s.logger.Debug("notification_received", "Received status update notification", requestID, map[string]interface{}{
		"order_id":   statusUpdate.OrderID,
		"new_status": statusUpdate.NewStatus,
		"changed_by": statusUpdate.ChangedBy,
	})

	s.displayNotification(&statusUpdate)

	return nil
}

func (s *Subscriber) displayNotification(statusUpdate *models.StatusUpdateMessage) {
	fmt.Println(FormatNotification(statusUpdate))

	s.logger.Info("notification_displayed", "Notification displayed to user", "", map[string]interface{}{
		"order_id":   statusUpdate.OrderID,
		"old_status": statusUpdate.OldStatus,
		"new_status": statusUpdate.NewStatus,
		"changed_by": statusUpdate.ChangedBy,
		"timestamp":  statusUpdate.Timestamp.Format("2006-01-02 15:04:05"),
	})
}

// FormatNotification renders a status update as a customer-facing line.
func FormatNotification(statusUpdate *models.StatusUpdateMessage) string {
	timestamp := statusUpdate.Timestamp.Format("2006-01-02 15:04:05")

	switch models.OrderStatus(statusUpdate.NewStatus) {
	case models.StatusConfirmed:
		return fmt.Sprintf("[%s] Order %s has been confirmed and sent to the kitchen.",
			timestamp, statusUpdate.OrderID)
	case models.StatusCooking:
		return fmt.Sprintf("[%s] Order %s is being prepared.",
			timestamp, statusUpdate.OrderID)
	case models.StatusDelivering:
		return fmt.Sprintf("[%s] Order %s is on its way.",
			timestamp, statusUpdate.OrderID)
	case models.StatusDelivered:
		return fmt.Sprintf("[%s] Order %s has been delivered. Enjoy your meal!",
			timestamp, statusUpdate.OrderID)
	case models.StatusCancelled:
		return fmt.Sprintf("[%s] Order %s has been cancelled.",
			timestamp, statusUpdate.OrderID)
	default:
		return fmt.Sprintf("[%s] Order %s status changed from '%s' to '%s' by %s.",
			timestamp, statusUpdate.OrderID, statusUpdate.OldStatus,
			statusUpdate.NewStatus, statusUpdate.ChangedBy)
	}
}

func (s *Subscriber) gracefulShutdown(requestID string) error {
	s.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	if s.consumer != nil {
		s.consumer.Close()
	}

	s.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}
