package cron

import (
	"context"
	"encoding/json"
	"time"

	"autocare/config"
	"autocare/models"
	"autocare/services/notification"
	"autocare/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the async notification consumer in the
// background. Events arrive on the redis queue after the originating
// lifecycle mutation has committed; a delivery failure here is retried by
// asynq and never affects booking state.
func InitNotificationWorker(sender notification.Sender) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeBookingEvent, handleBookingEvent(sender, logger))

	go func() {
		logger.Info("starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("notification worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("notification worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleBookingEvent(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var event models.BookingEvent
		if err := json.Unmarshal(task.Payload(), &event); err != nil {
			logger.Error("invalid booking event payload", zap.Error(err))
			return err
		}

		if err := sender.Send(ctx, event); err != nil {
			logger.Error("failed to deliver booking notification",
				zap.String("kind", string(event.Kind)),
				zap.String("bookingId", event.Booking.ID),
				zap.Error(err))
			return err
		}
		return nil
	}
}
