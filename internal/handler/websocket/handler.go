package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/hub"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

// WebSocketHandler upgrades authenticated connections and hands them to the
// hub. URL format: /ws/boards/:boardId.
type WebSocketHandler struct {
	upgrader     websocket.Upgrader
	hub          *hub.Hub
	boardService *service.BoardService
}

// NewWebSocketHandler creates a WebSocketHandler.
func NewWebSocketHandler(h *hub.Hub, boardService *service.BoardService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if boardService == nil {
		panic("BoardService cannot be nil for WebSocketHandler")
	}
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// TODO: restrict origins once the frontend host is fixed.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		hub:          h,
		boardService: boardService,
	}
}

// HandleConnection handles GET /ws/boards/:boardId.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	boardID64, err := strconv.ParseUint(c.Param("boardId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board id"})
		return
	}
	boardID := uint(boardID64)
	logCtx = logCtx.WithField("board_id", boardID)

	if _, err := h.boardService.AuthorizeBoard(c.Request.Context(), boardID, userID); err != nil {
		switch err {
		case service.ErrBoardNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case service.ErrNotBoardOwner:
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the board owner"})
		default:
			logCtx.WithError(err).Error("Failed to authorize board for WebSocket")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate board"})
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("Failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, boardID, userID)
	registerMsg := hub.HubMessage{Type: "register", Client: client, BoardID: boardID, UserID: userID}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}
	client.Run()
	logCtx.Info("WebSocket viewer connected")
}
