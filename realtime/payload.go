package realtime

import (
	"time"

	"github.com/scholarhub/scholarship-app/models"
)

// NotificationPayload adalah bentuk langsung di wire:
// {title, message, type, action_url}.
type NotificationPayload struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	ActionURL string `json:"action_url,omitempty"`
}

// NotificationRecord adalah varian terbungkus yang dikirim dispatcher:
// record tersimpan dengan payload-nya di field data.
type NotificationRecord struct {
	ID        string              `json:"id"`
	Data      NotificationPayload `json:"data"`
	ReadAt    *time.Time          `json:"read_at"`
	CreatedAt time.Time           `json:"created_at"`
}

func WrapRecord(n models.Notification) NotificationRecord {
	return NotificationRecord{
		ID: n.ID,
		Data: NotificationPayload{
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			ActionURL: n.ActionURL,
		},
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
