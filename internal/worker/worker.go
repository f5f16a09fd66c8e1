package worker

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Nihaar75858/Cartify/internal/broker"
	"github.com/Nihaar75858/Cartify/internal/models"
	"github.com/Nihaar75858/Cartify/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotificationWorker consumes OrderPlaced events and dispatches order
// confirmations. There is no real mail transport behind it; dispatch is
// recorded in the log and in metrics.
type NotificationWorker struct {
	consumer *broker.Consumer
	logger   *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	return &NotificationWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")

	return w.consumer.StartConsuming(ctx, func(ctx context.Context, msg kafka.Message) error {
		var baseEvent models.BaseEvent
		if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
			log.Printf("Failed to unmarshal event: %v", err)
			return err
		}

		if baseEvent.EventType != models.EventTypeOrderPlaced {
			return nil
		}

		var event models.OrderPlacedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("Failed to unmarshal OrderPlaced event: %v", err)
			return err
		}

		w.logger.Info("Order confirmation dispatched",
			zap.String("order_id", event.OrderID),
			zap.String("email", event.CustomerInfo.Email),
			zap.Float64("total", event.Total))
		util.OrderConfirmationsTotal.Inc()

		return nil
	})
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}
