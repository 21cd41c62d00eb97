package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"courtflow/config"
	recordsRepo "courtflow/database/repository/records"
	"courtflow/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitLinkWorker runs the payment-link follow-up worker in background. It
// hands share messages to the delivery subsystem and sweeps link records
// once their expiry passes.
func InitLinkWorker(records recordsRepo.ReservationRecordRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(tasks.TypeLinkShareHandoff, handleLinkShareTask)
	mux.HandleFunc(tasks.TypeLinkExpirySweep, handleLinkExpiryTask(records))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[LinkWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[LinkWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[LinkWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleLinkShareTask hands the pre-built share message to the delivery
// subsystem. Actual delivery (WhatsApp/SMS) lives outside this service; the
// payload is logged as the handoff signal.
func handleLinkShareTask(ctx context.Context, task *asynq.Task) error {
	var p tasks.LinkSharePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		log.Printf("[LinkShareHandler] Invalid payload: %v", err)
		return err
	}

	log.Printf("[LinkShareHandler] Handing off share message for link %s (phone: %s)", p.LinkID, p.CounterpartyPhone)
	return nil
}

func handleLinkExpiryTask(records recordsRepo.ReservationRecordRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.LinkExpiryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[LinkExpiryHandler] Invalid payload: %v", err)
			return err
		}

		if err := records.MarkLinkExpired(ctx, p.LinkID); err != nil {
			// Redeemed links have no pending record left; nothing to sweep.
			log.Printf("[LinkExpiryHandler] Sweep skipped for link %s: %v", p.LinkID, err)
			return nil
		}
		log.Printf("[LinkExpiryHandler] Marked link %s expired", p.LinkID)
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[LinkWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
