package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// ExamEvent is pushed to trainer dashboards watching a question set:
// attempt_started and attempt_submitted, with the submission summary as data.
type ExamEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Hub struct {
	mu    sync.RWMutex
	exams map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		exams: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(questionSetID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.exams[questionSetID] == nil {
		h.exams[questionSetID] = make(map[*websocket.Conn]bool)
	}
	h.exams[questionSetID][conn] = true
	log.Printf("ws: client watching exam %d (total: %d)", questionSetID, len(h.exams[questionSetID]))
}

func (h *Hub) RemoveConnection(questionSetID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.exams[questionSetID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.exams, questionSetID)
		}
		log.Printf("ws: client stopped watching exam %d", questionSetID)
	}
}

func (h *Hub) Broadcast(questionSetID uint, event ExamEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.exams[questionSetID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
