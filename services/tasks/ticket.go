package tasks

import (
	"encoding/json"

	"parkrefund/models"

	"github.com/hibiken/asynq"
)

const TypeTicketProcess = "ticket:process"

// TicketTaskPayload carries one ticket through the queue to the pipeline
// worker.
type TicketTaskPayload struct {
	Ticket models.TicketData   `json:"ticket"`
	Notes  []models.TicketNote `json:"notes,omitempty"`
}

// NewTicketProcessTask builds the asynq task for one ticket. Retries are
// capped low: the pipeline itself already retries provider timeouts, and a
// ticket that keeps failing belongs with a human.
func NewTicketProcessTask(payload TicketTaskPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeTicketProcess, b)
	opts := []asynq.Option{asynq.MaxRetry(2), asynq.Queue("default")}

	return task, opts, nil
}
