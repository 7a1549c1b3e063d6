package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"parkrefund/config"
	"parkrefund/resolvers"
	"parkrefund/services/tasks"
	"parkrefund/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// perTicketTimeout bounds one pipeline run; on expiry the partial result is
// discarded and the ticket is escalated by the retry/ageing policy.
const perTicketTimeout = 2 * time.Minute

// InitTicketWorker runs the async pipeline worker in background.
func InitTicketWorker(resolver *resolvers.RefundResolver) {
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
	mux.HandleFunc(tasks.TypeTicketProcess, handleTicketTask(resolver))

	go func() {
		log.Println("[TicketWorker] Starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[TicketWorker] Failed to start worker: %v", err)
		}
	}()
}

// handleTicketTask runs the full pipeline for one queued ticket.
func handleTicketTask(resolver *resolvers.RefundResolver) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		logger := utils.GetLogger()

		var payload tasks.TicketTaskPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			// A payload that cannot decode will never succeed; drop it.
			logger.Error("Ticket task payload undecodable, skipping retry", zap.Error(err))
			return fmt.Errorf("decode ticket task: %v: %w", err, asynq.SkipRetry)
		}

		runCtx, cancel := context.WithTimeout(ctx, perTicketTimeout)
		defer cancel()

		outcome, err := resolver.ProcessTicket(runCtx, payload.Ticket, payload.Notes)
		if err != nil {
			logger.Error("Ticket pipeline failed",
				zap.String("ticketID", payload.Ticket.ID),
				zap.Error(err))
			return err
		}

		if outcome.Skipped {
			logger.Debug("Ticket skipped by provisioning-failure gate",
				zap.String("ticketID", payload.Ticket.ID))
			return nil
		}

		logger.Info("Ticket processed",
			zap.String("ticketID", payload.Ticket.ID),
			zap.String("decision", string(outcome.Decision.Decision)),
			zap.String("recordID", outcome.RecordID))
		return nil
	}
}
