package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scholarhub/scholarship-app/events"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/realtime"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

// PushSender mengirim satu event ke semua push subscription milik user.
type PushSender interface {
	Send(userID uint, ev events.NotificationEvent) error
}

// Dispatcher menerima domain event lalu menyebarkannya ke tiga channel:
// record store (persist), broadcast hub (realtime), dan push sender.
// Dispatch bersifat fire-and-forget; pengiriman terjadi di worker goroutine.
// Kegagalan satu channel tidak menghentikan channel lainnya.
type Dispatcher struct {
	DB   *gorm.DB
	Hub  *realtime.Hub
	Push PushSender

	queue    chan events.NotificationEvent
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewDispatcher(db *gorm.DB, hub *realtime.Hub, push PushSender) *Dispatcher {
	return &Dispatcher{
		DB:       db,
		Hub:      hub,
		Push:     push,
		queue:    make(chan events.NotificationEvent, 256),
		stopChan: make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case ev := <-d.queue:
				d.deliver(ev)
			case <-d.stopChan:
				return
			}
		}
	}()
}

func (d *Dispatcher) Stop() {
	close(d.stopChan)
	d.wg.Wait()
}

// Dispatch -> enqueue event dan langsung return.
// Kalau queue penuh event di-drop dengan log; caller tidak pernah diblok.
func (d *Dispatcher) Dispatch(ev events.NotificationEvent) {
	select {
	case d.queue <- ev:
	default:
		utils.ErrorLogger.Printf("dispatcher queue full, dropping event %q", ev.Title)
	}
}

// DispatchSync menjalankan fan-out langsung tanpa lewat queue (dipakai test dan
// endpoint yang butuh record ID-nya).
func (d *Dispatcher) DispatchSync(ev events.NotificationEvent) []models.Notification {
	return d.deliver(ev)
}

// deliver menjalankan fan-out. Records dibentuk dulu supaya jalur broadcast
// tetap membawa id/created_at meskipun persist gagal.
func (d *Dispatcher) deliver(ev events.NotificationEvent) []models.Notification {
	records := buildRecords(ev)
	if len(records) == 0 {
		return nil
	}

	// Channel 1: record store
	if err := d.DB.Create(&records).Error; err != nil {
		utils.ErrorLogger.Printf("dispatcher: failed to persist notifications: %v", err)
	}

	// Channel 2: broadcast per penerima
	if d.Hub != nil {
		for _, rec := range records {
			d.Hub.PublishToUser(rec.UserID, realtime.Message{
				Event: realtime.EventNotificationCreated,
				Data:  realtime.WrapRecord(rec),
			})
		}
	}

	// Channel 3: push, terlepas dari apakah penerima sedang terkoneksi
	if d.Push != nil {
		for _, userID := range ev.Recipients {
			if err := d.Push.Send(userID, ev); err != nil {
				utils.ErrorLogger.Printf("dispatcher: push delivery failed for user %d: %v", userID, err)
			}
		}
	}

	return records
}

func buildRecords(ev events.NotificationEvent) []models.Notification {
	now := time.Now()
	records := make([]models.Notification, 0, len(ev.Recipients))
	for _, userID := range ev.Recipients {
		records = append(records, models.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Title:     ev.Title,
			Message:   ev.Message,
			Type:      ev.Type,
			ActionURL: ev.ActionURL,
			CreatedAt: now,
		})
	}
	return records
}
