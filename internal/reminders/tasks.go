package reminders

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fieldline/salesdesk/internal/models"
)

const TypeDispatchReminder = "reminder:dispatch"

type DispatchPayload struct {
	ReminderID    string    `json:"reminder_id"`
	AppointmentID string    `json:"appointment_id"`
	FireAt        time.Time `json:"fire_at"`
}

func NewDispatchTask(entry models.ReminderEntry) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(DispatchPayload{
		ReminderID:    entry.ID,
		AppointmentID: entry.AppointmentID,
		FireAt:        entry.FireAt,
	})
	if err != nil {
		return nil, nil, err
	}

	task := asynq.NewTask(TypeDispatchReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(entry.FireAt)}

	return task, opts, nil
}
