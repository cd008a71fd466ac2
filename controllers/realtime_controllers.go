package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/scholarhub/scholarship-app/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

type RealtimeController struct {
	Hub *realtime.Hub
}

func NewRealtimeController(hub *realtime.Hub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

// Serve -> endpoint WebSocket; koneksi di-key ke user hasil autentikasi
// supaya notifikasi hanya sampai ke pemiliknya.
func (rc *RealtimeController) Serve(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	rc.Hub.RegisterClient(ws, userID)

	// Baca pesan sampai koneksi putus
	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	rc.Hub.UnregisterClient(ws)
}
