package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/sarraz13/agri-monitoring-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	ID     string
	Conn   *websocket.Conn
	UserID uint
}

var (
	clientsMu sync.Mutex
	clients   = make(map[string]*Client)
)

// HandleWebSocket upgrades the connection and registers the client for
// reading updates and anomaly notifications.
func HandleWebSocket(c *gin.Context) {
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	userIDRaw, exists := c.Get("user_id")
	if !exists {
		conn.Close()
		return
	}

	var userID uint
	switch v := userIDRaw.(type) {
	case float64:
		userID = uint(v)
	case uint:
		userID = v
	case string:
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			userID = uint(id)
		} else {
			conn.Close()
			return
		}
	default:
		conn.Close()
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		Conn:   conn,
		UserID: userID,
	}
	clientsMu.Lock()
	clients[client.ID] = client
	clientsMu.Unlock()

	defer func() {
		clientsMu.Lock()
		delete(clients, client.ID)
		clientsMu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// BroadcastUpdate sends a new sensor reading to all connected clients.
func BroadcastUpdate(reading models.SensorReading) {
	msg, _ := json.Marshal(gin.H{
		"type":    "reading",
		"reading": reading,
	})
	broadcast(msg)
}

// BroadcastAnomaly notifies all connected clients of a new anomaly event
// and its recommendation.
func BroadcastAnomaly(event *models.AnomalyEvent, rec *models.AgentRecommendation) {
	payload := gin.H{
		"type":    "anomaly",
		"message": "Anomaly detected!",
		"anomaly": event,
	}
	if rec != nil {
		payload["recommendation"] = rec
	}
	msg, _ := json.Marshal(payload)
	broadcast(msg)
}

func broadcast(msg []byte) {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	for _, client := range clients {
		client.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
