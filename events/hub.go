package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-layout/models"
	"github.com/yeremiapane/restaurant-layout/utils"
)

// Event types
const (
	EventLayoutCreate = "layout_create"
	EventLayoutUpdate = "layout_update"
	EventLayoutDelete = "layout_delete"
	EventTableCreate  = "table_create"
	EventTableUpdate  = "table_update"
	EventTableDelete  = "table_delete"
	EventOrderCreate  = "order_create"
	EventOrderUpdate  = "order_update"
	EventOrderDelete  = "order_delete"
	EventReservation  = "reservation_update"
	EventStatsUpdate  = "stats_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi WebSocket semua device (admin, staff, tablet kasir)
// plus subscriber in-process (sesi editor) yang ikut menerima event yang sama.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	subs    map[chan Message]struct{}
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
	subs:    make(map[chan Message]struct{}),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// Subscribe mendaftarkan subscriber in-process. Channel-nya buffered;
// subscriber yang lambat kehilangan event, tidak memblokir broadcast.
func Subscribe() chan Message {
	ch := make(chan Message, 64)
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe melepas subscriber. Simetris dengan Subscribe; aman dipanggil
// lebih dari sekali untuk channel yang sama.
func Unsubscribe(ch chan Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	if _, ok := hub.subs[ch]; ok {
		delete(hub.subs, ch)
		close(ch)
	}
}

func BroadcastLayoutCreate(layout models.Layout) {
	broadcast(Message{Event: EventLayoutCreate, Data: layout})
}

func BroadcastLayoutUpdate(layout models.Layout) {
	broadcast(Message{Event: EventLayoutUpdate, Data: layout})
}

func BroadcastLayoutDelete(id uint) {
	broadcast(Message{Event: EventLayoutDelete, Data: models.Layout{ID: id}})
}

func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

func BroadcastTableDelete(table models.Table) {
	broadcast(Message{Event: EventTableDelete, Data: table})
}

func BroadcastOrderCreate(order models.Order) {
	broadcast(Message{Event: EventOrderCreate, Data: order})
}

func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

func BroadcastOrderDelete(id uint) {
	broadcast(Message{Event: EventOrderDelete, Data: models.Order{ID: id}})
}

func BroadcastReservationUpdate(res models.Reservation) {
	broadcast(Message{Event: EventReservation, Data: res})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	for ch := range hub.subs {
		select {
		case ch <- msg:
		default:
		}
	}

	if len(hub.clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
