package cron

import (
	"context"
	"log"
	"time"

	"concierge/config"
	"concierge/services/chatbot"

	"github.com/hibiken/asynq"
)

const TypeSessionSweep = "session:sweep"

// InitSessionSweeper runs the async worker and scheduler in the background.
// The sweep task marks idle sessions abandoned so stale conversations do not
// pin memory or accept further turns.
func InitSessionSweeper(sessions *chatbot.SessionManager) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSessionSweep, handleSessionSweep(sessions))

	go func() {
		log.Println("[SessionSweeper] starting async worker...")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SessionSweeper] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[SessionSweeper] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runSweepScheduler(redisOpts)
}

// runSweepScheduler enqueues the periodic sweep task.
func runSweepScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
		Location: time.UTC,
	})

	task := asynq.NewTask(TypeSessionSweep, nil)
	if _, err := scheduler.Register("@every 5m", task); err != nil {
		log.Printf("[SessionSweeper] failed to register sweep schedule: %v", err)
		return
	}
	if err := scheduler.Run(); err != nil {
		log.Printf("[SessionSweeper] scheduler stopped: %v", err)
	}
}

func handleSessionSweep(sessions *chatbot.SessionManager) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired := sessions.ExpireIdle(ctx, time.Now().UTC())
		if expired > 0 {
			log.Printf("[SessionSweeper] expired %d idle session(s)", expired)
		}
		return nil
	}
}
