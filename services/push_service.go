package services

import (
	"encoding/json"
	"net/http"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/scholarhub/scholarship-app/events"
	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/utils"
	"gorm.io/gorm"
)

const (
	pushIcon = "/images/icons/icon-192x192.png"
	pushTTL  = 1000
)

// WebPushService mengirim web push (VAPID) ke semua subscription milik user.
type WebPushService struct {
	DB              *gorm.DB
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

func NewWebPushService(db *gorm.DB) *WebPushService {
	return &WebPushService{
		DB:              db,
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		Subscriber:      os.Getenv("VAPID_SUBSCRIBER"),
	}
}

// Send -> satu push message per subscription aktif.
// Icon dan TTL fixed, tidak dikonfigurasi per notifikasi.
func (ps *WebPushService) Send(userID uint, ev events.NotificationEvent) error {
	if ps.VAPIDPrivateKey == "" {
		// Push belum dikonfigurasi; bukan error, channel lain tetap jalan
		return nil
	}

	var subs []models.PushSubscription
	if err := ps.DB.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		return err
	}

	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{
		"title": ev.Title,
		"icon":  pushIcon,
		"body":  ev.Message,
		"actions": []map[string]string{
			{"action": "view_action", "title": "View Action"},
		},
		"data": map[string]string{"url": ev.ActionURL},
	})
	if err != nil {
		return err
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      ps.Subscriber,
			VAPIDPublicKey:  ps.VAPIDPublicKey,
			VAPIDPrivateKey: ps.VAPIDPrivateKey,
			TTL:             pushTTL,
		})
		if err != nil {
			utils.ErrorLogger.Printf("push: endpoint unreachable for user %d: %v", userID, err)
			continue
		}
		if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
			// Subscription sudah kadaluarsa di push service, hapus dari store
			if err := ps.DB.Delete(&models.PushSubscription{}, sub.ID).Error; err != nil {
				utils.ErrorLogger.Printf("push: failed to remove expired subscription %d: %v", sub.ID, err)
			}
		}
		resp.Body.Close()
	}

	return nil
}
