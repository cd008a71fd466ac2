package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/scholarhub/scholarship-app/utils"
)

// Event types
const (
	// EventNotification membawa payload langsung {title, message, type, action_url}
	// (jalur pengumuman/announcement).
	EventNotification = "notification"
	// EventNotificationCreated membawa record terbungkus {id, data: {...}, read_at, created_at}
	// (jalur dispatcher).
	EventNotificationCreated = "notification.created"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua koneksi websocket yang terautentikasi, di-key per user.
// Pengiriman selalu per penerima - tidak ada channel bersama antar user.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> user ID
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]uint),
	}
}

// RegisterClient -> menambahkan connection milik satu user
func (h *Hub) RegisterClient(conn *websocket.Conn, userID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = userID
}

// UnregisterClient -> melepaskan connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount mengembalikan jumlah koneksi aktif milik user
func (h *Hub) ClientCount(userID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	count := 0
	for _, id := range h.clients {
		if id == userID {
			count++
		}
	}
	return count
}

// PublishToUser -> mengirim pesan hanya ke koneksi milik satu user
func (h *Hub) PublishToUser(userID uint, msg Message) {
	h.publish(msg, func(id uint) bool { return id == userID })
}

// PublishToUsers -> mengirim pesan ke beberapa user sekaligus
func (h *Hub) PublishToUsers(userIDs []uint, msg Message) {
	targets := make(map[uint]bool, len(userIDs))
	for _, id := range userIDs {
		targets[id] = true
	}
	h.publish(msg, func(id uint) bool { return targets[id] })
}

// publish -> fungsi internal untuk mengirim pesan ke koneksi yang lolos filter
func (h *Hub) publish(msg Message, match func(userID uint) bool) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, userID := range h.clients {
		if !match(userID) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending message to user %d: %v", userID, err)
			continue
		}
	}
}
