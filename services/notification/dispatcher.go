package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"autocare/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeBookingEvent is the asynq task type carrying booking lifecycle events.
const TypeBookingEvent = "booking:event"

// AsynqPublisher enqueues booking events onto the redis-backed task queue
// where the notification worker picks them up.
type AsynqPublisher struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqPublisher(client *asynq.Client, logger *zap.Logger) *AsynqPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsynqPublisher{Client: client, Logger: logger}
}

func (p *AsynqPublisher) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}
	task := asynq.NewTask(TypeBookingEvent, payload)
	info, err := p.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue booking event: %w", err)
	}
	p.Logger.Debug("booking event enqueued",
		zap.String("kind", string(event.Kind)),
		zap.String("taskId", info.ID))
	return nil
}

// LogSender is the stand-in delivery implementation used until a real
// channel (push, email) is plugged in behind the Sender contract. It logs
// which notification would have gone out.
type LogSender struct {
	Logger *zap.Logger
}

func (s *LogSender) Send(_ context.Context, event models.BookingEvent) error {
	fields := []zap.Field{
		zap.String("kind", string(event.Kind)),
		zap.String("bookingId", event.Booking.ID),
		zap.String("ownerId", event.Booking.OwnerID),
		zap.String("mechanicId", event.Booking.MechanicID),
	}
	if event.CancelledBy != "" {
		fields = append(fields, zap.String("cancelledBy", string(event.CancelledBy)))
	}
	if event.PromptReview {
		fields = append(fields, zap.Bool("promptReview", true))
	}
	s.Logger.Info("booking notification", fields...)
	return nil
}
