package client

import (
	"encoding/json"
	"time"

	"github.com/scholarhub/scholarship-app/realtime"
)

// Dua produser memakai channel yang sama dengan bentuk berbeda:
// event "notification" membawa payload langsung, "notification.created"
// membawa record terbungkus. Keduanya dinormalisasi di satu tempat lewat
// tagged union, bukan fallback optional-chaining tersebar di call site.

type payloadKind int

const (
	kindDirect payloadKind = iota
	kindWrapped
)

type wirePayload struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	ActionURL string `json:"action_url"`
}

type wireRecord struct {
	ID        string      `json:"id"`
	Data      wirePayload `json:"data"`
	ReadAt    *time.Time  `json:"read_at"`
	CreatedAt time.Time   `json:"created_at"`
}

type taggedEvent struct {
	kind    payloadKind
	direct  wirePayload
	wrapped wireRecord
}

// normalize mengubah frame websocket mentah jadi satu entri Notification.
// Event dengan nama tak dikenal diabaikan. Field yang hilang diberi nilai
// default tampilan, bukan ditolak.
func normalize(raw []byte) (Notification, bool) {
	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Notification{}, false
	}

	var tagged taggedEvent
	switch env.Event {
	case realtime.EventNotification:
		tagged.kind = kindDirect
		// Decode gagal dibiarkan: field kosong jatuh ke default di bawah
		json.Unmarshal(env.Data, &tagged.direct)
	case realtime.EventNotificationCreated:
		tagged.kind = kindWrapped
		json.Unmarshal(env.Data, &tagged.wrapped)
	default:
		return Notification{}, false
	}

	var entry Notification
	switch tagged.kind {
	case kindDirect:
		entry = Notification{
			Title:     tagged.direct.Title,
			Message:   tagged.direct.Message,
			Type:      tagged.direct.Type,
			ActionURL: tagged.direct.ActionURL,
			CreatedAt: time.Now(),
		}
	case kindWrapped:
		entry = Notification{
			ID:        tagged.wrapped.ID,
			Title:     tagged.wrapped.Data.Title,
			Message:   tagged.wrapped.Data.Message,
			Type:      tagged.wrapped.Data.Type,
			ActionURL: tagged.wrapped.Data.ActionURL,
			ReadAt:    tagged.wrapped.ReadAt,
			CreatedAt: tagged.wrapped.CreatedAt,
		}
	}

	if entry.Title == "" {
		entry.Title = "Notification"
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return entry, true
}
