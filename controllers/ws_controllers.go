package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-layout/events"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

// WSHandler -> endpoint WebSocket untuk push event layout/table/order.
// Setiap device yang terhubung menerima event yang sama dan melipatnya
// ke state lokalnya masing-masing.
func WSHandler(c *gin.Context) {
	roleValue, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleValue.(string)

	if role != "admin" && role != "staff" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, role)
	sendInitialStats(ws)

	// Client hanya menerima; baca sampai koneksi putus
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}

// sendInitialStats mengirim snapshot okupansi per layout ke client yang baru
// terhubung, supaya dashboard langsung terisi tanpa menunggu event berikutnya.
func sendInitialStats(ws *websocket.Conn) {
	db := utils.GetDB()
	if db == nil {
		return
	}

	var layouts []models.Layout
	if err := db.Find(&layouts).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching layouts for initial stats: %v", err)
		return
	}

	for _, layout := range layouts {
		msg := events.Message{
			Event: events.EventStatsUpdate,
			Data:  occupancyStats(db, layout.ID),
		}
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
