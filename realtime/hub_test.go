package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/scholarhub/scholarship-app/models"
	"github.com/scholarhub/scholarship-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newHubServer meniru endpoint websocket: user_id diambil dari query,
// koneksi didaftarkan ke hub sampai putus.
func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(conn, uint(uid))
	}))
}

func dialHub(t *testing.T, server *httptest.Server, userID uint) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?user_id=" + strconv.Itoa(int(userID))
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) (Message, bool) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return Message{}, false
	}
	var msg Message
	assert.NoError(t, json.Unmarshal(raw, &msg))
	return msg, true
}

func waitForClients(t *testing.T, hub *Hub, userID uint, want int) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return hub.ClientCount(userID) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func TestPublishToUserOnlyReachesOwner(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	defer server.Close()

	conn1 := dialHub(t, server, 1)
	defer conn1.Close()
	conn2 := dialHub(t, server, 2)
	defer conn2.Close()

	waitForClients(t, hub, 1, 1)
	waitForClients(t, hub, 2, 1)

	hub.PublishToUser(1, Message{
		Event: EventNotificationCreated,
		Data: WrapRecord(models.Notification{
			ID:      "abc-123",
			UserID:  1,
			Title:   "Approved",
			Message: "Your application was approved",
			Type:    "success",
		}),
	})

	msg, ok := readMessage(t, conn1)
	assert.True(t, ok)
	assert.Equal(t, EventNotificationCreated, msg.Event)

	data := msg.Data.(map[string]interface{})
	assert.Equal(t, "abc-123", data["id"])
	payload := data["data"].(map[string]interface{})
	assert.Equal(t, "Approved", payload["title"])

	// User lain tidak menerima apa pun
	_, ok = readMessage(t, conn2)
	assert.False(t, ok)
}

func TestPublishToUsers(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	defer server.Close()

	conn1 := dialHub(t, server, 1)
	defer conn1.Close()
	conn2 := dialHub(t, server, 2)
	defer conn2.Close()
	conn3 := dialHub(t, server, 3)
	defer conn3.Close()

	waitForClients(t, hub, 1, 1)
	waitForClients(t, hub, 2, 1)
	waitForClients(t, hub, 3, 1)

	hub.PublishToUsers([]uint{1, 2}, Message{
		Event: EventNotification,
		Data: NotificationPayload{
			Title:   "Announcement",
			Message: "Campus closed tomorrow",
			Type:    "info",
		},
	})

	_, ok := readMessage(t, conn1)
	assert.True(t, ok)
	_, ok = readMessage(t, conn2)
	assert.True(t, ok)
	_, ok = readMessage(t, conn3)
	assert.False(t, ok)
}

func TestMultipleConnectionsPerUser(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	defer server.Close()

	// Dua tab milik user yang sama: keduanya menerima
	connA := dialHub(t, server, 5)
	defer connA.Close()
	connB := dialHub(t, server, 5)
	defer connB.Close()

	waitForClients(t, hub, 5, 2)

	hub.PublishToUser(5, Message{Event: EventNotification, Data: NotificationPayload{Title: "Hi"}})

	_, ok := readMessage(t, connA)
	assert.True(t, ok)
	_, ok = readMessage(t, connB)
	assert.True(t, ok)
}

func TestUnregisterClient(t *testing.T) {
	hub := NewHub()
	server := newHubServer(t, hub)
	defer server.Close()

	conn := dialHub(t, server, 8)
	waitForClients(t, hub, 8, 1)

	conn.Close()
	// Server side unregister terjadi saat read gagal; di test ini cukup
	// memastikan publish ke koneksi mati tidak panic
	hub.PublishToUser(8, Message{Event: EventNotification, Data: NotificationPayload{Title: "Bye"}})
}
