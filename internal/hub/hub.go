package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/dto"
	redisstate "github.com/siddhiipatell/Pixel-Art-Studio/internal/infra/state/redis"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

// WebSocket timing and size limits, shared by hub and client.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. A full-grid stroke on a
	// large board carries a few thousand cells.
	maxMessageSize = 256 * 1024
)

// HubMessage is one event on the hub's internal channel.
type HubMessage struct {
	Type    string // "register", "unregister", "action"
	BoardID uint
	UserID  uint
	Client  *Client
	RawData []byte // raw WebSocket payload, only for "action"
}

// Hub tracks the live viewers of each board and fans board events out to
// them. Events travel through Redis pub/sub, so viewers connected to other
// instances see the same stream.
type Hub struct {
	messageChan chan HubMessage

	boards   map[uint]map[*Client]bool
	boardsMu sync.RWMutex

	// One pub/sub subscription per board with at least one viewer.
	subs   map[uint]*boardSubscription
	subsMu sync.Mutex

	editorService *service.EditorService
	redisClient   *redis.Client
	keyPrefix     string
}

type boardSubscription struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

// NewHub creates a Hub.
func NewHub(editorService *service.EditorService, redisClient *redis.Client, keyPrefix string) *Hub {
	if editorService == nil {
		panic("EditorService cannot be nil for Hub")
	}
	if redisClient == nil {
		panic("redis client cannot be nil for Hub")
	}
	if keyPrefix == "" {
		keyPrefix = redisstate.DefaultKeyPrefix
	}
	return &Hub{
		messageChan:   make(chan HubMessage, 512),
		boards:        make(map[uint]map[*Client]bool),
		subs:          make(map[uint]*boardSubscription),
		editorService: editorService,
		redisClient:   redisClient,
		keyPrefix:     keyPrefix,
	}
}

// Run processes the hub's event loop. It should run in its own goroutine and
// exits when the message channel is closed.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		case "action":
			go h.handleClientAction(msg)
		default:
			log.Warnf("Received unknown message type: %s from user %d on board %d", msg.Type, msg.UserID, msg.BoardID)
		}
	}
	log.Info("Hub is shutting down")
}

// QueueMessage enqueues a message without blocking. It returns false when
// the hub is saturated and the message was dropped.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"board_id":     msg.BoardID,
			"user_id":      msg.UserID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	boardID := client.BoardID()
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id": boardID,
		"user_id":  client.UserID(),
	})

	h.boardsMu.Lock()
	if _, ok := h.boards[boardID]; !ok {
		h.boards[boardID] = make(map[*Client]bool)
	}
	h.boards[boardID][client] = true
	h.boardsMu.Unlock()
	logCtx.Info("Client registered to hub")

	h.ensureSubscription(boardID)
	go h.sendInitialState(client)
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	boardID := client.BoardID()
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id": boardID,
		"user_id":  client.UserID(),
	})

	h.boardsMu.Lock()
	boardEmpty := false
	if clients, ok := h.boards[boardID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.boards, boardID)
				boardEmpty = true
			}
		}
	}
	h.boardsMu.Unlock()

	if boardEmpty {
		h.stopSubscription(boardID)
		logCtx.Info("Last viewer left, board subscription stopped")
	}
	logCtx.Info("Client unregistered from hub")
}

// sendInitialState pushes the full session state to a freshly connected
// viewer so it never has to fetch over HTTP first.
func (h *Hub) sendInitialState(client *Client) {
	state := h.editorService.State(context.Background(), client.BoardID())
	payload, err := json.Marshal(struct {
		Type string `json:"type"`
		service.EditorState
	}{Type: "state", EditorState: state})
	if err != nil {
		logrus.WithError(err).WithField("board_id", client.BoardID()).Error("Failed to marshal initial state")
		return
	}
	select {
	case client.send <- payload:
	default:
		logrus.WithField("board_id", client.BoardID()).Warn("Client send channel full, initial state dropped")
	}
}

// handleClientAction applies one incoming gesture to the board. The
// resulting event reaches every viewer (the sender included) through the
// pub/sub subscription; nothing is broadcast directly from here.
func (h *Hub) handleClientAction(msg HubMessage) {
	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id": msg.BoardID,
		"user_id":  msg.UserID,
	})

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg.RawData, &probe); err != nil {
		h.sendError(msg.Client, "Malformed message")
		return
	}

	var err error
	switch probe.Type {
	case dto.EventStroke:
		var stroke dto.IncomingStroke
		if err = json.Unmarshal(msg.RawData, &stroke); err != nil {
			h.sendError(msg.Client, "Malformed stroke")
			return
		}
		_, err = h.editorService.Stroke(ctx, msg.BoardID, stroke.Tool, stroke.Color, stroke.Cells)
	case dto.EventUndo:
		_, _ = h.editorService.Undo(ctx, msg.BoardID)
	case dto.EventRedo:
		_, _ = h.editorService.Redo(ctx, msg.BoardID)
	default:
		h.sendError(msg.Client, "Unsupported message type: "+probe.Type)
		return
	}
	if err != nil {
		logCtx.WithError(err).Warn("Client action rejected")
		h.sendError(msg.Client, err.Error())
	}
}

func (h *Hub) sendError(client *Client, message string) {
	if client == nil {
		return
	}
	payload, err := json.Marshal(dto.ErrorDTO{Type: "error", Message: message})
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
	}
}

// ensureSubscription starts the pub/sub relay for a board when its first
// viewer arrives.
func (h *Hub) ensureSubscription(boardID uint) {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	if _, ok := h.subs[boardID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	pubsub := h.redisClient.Subscribe(ctx, redisstate.EventsChannel(h.keyPrefix, boardID))
	h.subs[boardID] = &boardSubscription{pubsub: pubsub, cancel: cancel}

	go h.relayEvents(ctx, boardID, pubsub)
	logrus.WithField("board_id", boardID).Info("Board event subscription started")
}

func (h *Hub) stopSubscription(boardID uint) {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	if sub, ok := h.subs[boardID]; ok {
		sub.cancel()
		_ = sub.pubsub.Close()
		delete(h.subs, boardID)
	}
}

// StopAllSubscriptions tears down every board relay, for shutdown.
func (h *Hub) StopAllSubscriptions() {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	for boardID, sub := range h.subs {
		sub.cancel()
		_ = sub.pubsub.Close()
		delete(h.subs, boardID)
	}
}

// relayEvents forwards published board events to every local viewer.
func (h *Hub) relayEvents(ctx context.Context, boardID uint, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(boardID, []byte(msg.Payload))
		}
	}
}

// broadcast sends a message to all viewers of a board. Slow clients with a
// full send queue are skipped; their write pump handles disconnection.
func (h *Hub) broadcast(boardID uint, message []byte) {
	h.boardsMu.RLock()
	clients := make([]*Client, 0, len(h.boards[boardID]))
	for client := range h.boards[boardID] {
		clients = append(clients, client)
	}
	h.boardsMu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			logrus.WithFields(logrus.Fields{
				"board_id": boardID,
				"user_id":  client.UserID(),
			}).Warn("Client send channel full during broadcast, skipping")
		}
	}
}
