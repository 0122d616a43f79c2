package wsocket

import (
	"log"
	"net/http"
	"time"

	"pawrate_go_backend/internal/models"
	"pawrate_go_backend/internal/utils/broker"

	"github.com/gorilla/websocket"
)

// Handler pushes scan results and usage updates to a connected client
// over a websocket, replacing client-side polling.
type Handler struct {
	upgrader websocket.Upgrader
	broker   *broker.Broker
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHandler(upgrader websocket.Upgrader, messageBroker *broker.Broker) *Handler {
	return &Handler{
		upgrader: upgrader,
		broker:   messageBroker,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request, user interface{}) {
	userModel, ok := user.(*models.User)
	if !ok {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return
	}
	userID := userModel.ID.String()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket connection: %v", err)
		return
	}
	defer conn.Close()

	scanCh := h.broker.Subscribe("scan_result_" + userID)
	defer h.broker.Unsubscribe("scan_result_"+userID, scanCh)
	usageCh := h.broker.Subscribe("usage_update_" + userID)
	defer h.broker.Unsubscribe("usage_update_"+userID, usageCh)

	done := make(chan struct{})

	// Reader goroutine: drains control frames and signals when the
	// client goes away.
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case msg, ok := <-scanCh:
			if !ok {
				return
			}
			if err := conn.WriteJSON(Message{Type: "scan_result", Data: msg}); err != nil {
				log.Printf("Error sending scan result to user %s: %v", userID, err)
				return
			}
		case msg, ok := <-usageCh:
			if !ok {
				return
			}
			if err := conn.WriteJSON(Message{Type: "usage_update", Data: msg}); err != nil {
				log.Printf("Error sending usage update to user %s: %v", userID, err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
