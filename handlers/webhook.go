package handlers

import (
	"fmt"
	"net/http"
	"time"

	"parkrefund/models"
	"parkrefund/services/tasks"
	"parkrefund/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// webhookEvent is the delivery envelope from the ticketing system.
type webhookEvent struct {
	EventID string              `json:"event_id"`
	Ticket  models.TicketData   `json:"ticket"`
	Notes   []models.TicketNote `json:"notes,omitempty"`
}

// seen events are remembered long enough for the ticketing system's retry
// window to pass.
const eventDedupTTL = 24 * time.Hour

// WebhookHandler accepts ticket events, de-duplicates them and queues the
// pipeline. Acknowledges fast; the heavy work happens on the worker.
type WebhookHandler struct {
	Queue *asynq.Client
	Cache *redis.Client
}

func NewWebhookHandler(queue *asynq.Client, cache *redis.Client) *WebhookHandler {
	return &WebhookHandler{Queue: queue, Cache: cache}
}

// HandleTicketEvent is POST /webhooks/tickets.
func (h *WebhookHandler) HandleTicketEvent(c *gin.Context) {
	logger := utils.GetLogger()

	var event webhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload", "details": err.Error()})
		return
	}
	if event.EventID == "" || event.Ticket.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id and ticket.id are required"})
		return
	}

	// De-duplicate redeliveries by event id.
	dedupKey := fmt.Sprintf("webhook:event:%s", event.EventID)
	set, err := h.Cache.SetNX(c.Request.Context(), dedupKey, 1, eventDedupTTL).Result()
	if err != nil {
		logger.Warn("Webhook de-dup check failed, processing anyway", zap.Error(err))
	} else if !set {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate", "eventID": event.EventID})
		return
	}

	task, opts, err := tasks.NewTicketProcessTask(tasks.TicketTaskPayload{
		Ticket: event.Ticket,
		Notes:  event.Notes,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build task", "details": err.Error()})
		return
	}
	info, err := h.Queue.Enqueue(task, opts...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue ticket", "details": err.Error()})
		return
	}

	logger.Info("Ticket event queued",
		zap.String("eventID", event.EventID),
		zap.String("ticketID", event.Ticket.ID),
		zap.String("taskID", info.ID))
	c.JSON(http.StatusOK, gin.H{"status": "queued", "taskID": info.ID})
}
