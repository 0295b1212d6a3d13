package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

// BoardHandler exposes board management over HTTP.
type BoardHandler struct {
	boardService *service.BoardService
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// authedUserID reads the user id the auth middleware stored on the context.
func authedUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("user_id in context is not uint")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return 0, false
	}
	return userID, true
}

// boardIDParam parses the :boardId path parameter.
func boardIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("boardId"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid board id")
		return 0, false
	}
	return uint(id), true
}

type CreateBoardRequest struct {
	Name string `json:"name" binding:"omitempty,max=100"`
}

type BoardResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"created_at"`
	LastActive int64  `json:"last_active"`
}

func toBoardResponse(b *domain.Board) BoardResponse {
	return BoardResponse{
		ID:         b.ID,
		Name:       b.Name,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		LastActive: b.LastActive.UnixMilli(),
	}
}

// CreateBoard handles POST /api/boards.
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), userID, req.Name)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "board_id": board.ID}).Info("Board created")
	SuccessResponse(c, http.StatusOK, toBoardResponse(board))
}

// ListBoards handles GET /api/boards.
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := authedUserID(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	out := make([]BoardResponse, 0, len(boards))
	for i := range boards {
		out = append(out, toBoardResponse(&boards[i]))
	}
	SuccessResponse(c, http.StatusOK, gin.H{"boards": out})
}
