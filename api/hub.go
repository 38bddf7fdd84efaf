package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/ballotchain/ballot-node/core/ballot"
	eventsdb "github.com/ballotchain/ballot-node/core/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

const (
	subscriberBuffer = 16
	writeWait        = 10 * time.Second
	pingPeriod       = 30 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Hub fans the committed events out to websocket subscribers
type Hub struct {
	mx          sync.RWMutex
	subscribers map[uuid.UUID]chan []byte
	logger      tmlog.Logger
}

func NewHub(logger tmlog.Logger) *Hub {
	return &Hub{subscribers: map[uuid.UUID]chan []byte{}, logger: logger}
}

// OnCommit sends the block events to every subscriber, a subscriber with a full buffer is dropped
func (h *Hub) OnCommit(height uint64, events eventsdb.Events) {
	msg, err := json.Marshal(ballot.EventsResult(height, events))
	if err != nil {
		h.logger.Error("Encode events", "height", height, "err", err)
		return
	}

	h.mx.Lock()
	defer h.mx.Unlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
			h.logger.Info("Dropping slow subscriber", "id", id)
			close(ch)
			delete(h.subscribers, id)
		}
	}
}

func (h *Hub) Subscribe() (uuid.UUID, <-chan []byte) {
	id := uuid.New()
	ch := make(chan []byte, subscriberBuffer)

	h.mx.Lock()
	h.subscribers[id] = ch
	h.mx.Unlock()

	return id, ch
}

func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mx.Lock()
	defer h.mx.Unlock()

	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
}

func (h *Hub) NumSubscribers() int {
	h.mx.RLock()
	defer h.mx.RUnlock()

	return len(h.subscribers)
}

func (a *API) subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		a.logger.Error("Websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	id, messages := a.hub.Subscribe()
	defer a.hub.Unsubscribe(id)
	a.logger.Info("Subscribed to events", "id", id)

	// the reader only notices the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
