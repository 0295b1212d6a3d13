package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

// EditorHandler exposes the drawing operations of a board session.
type EditorHandler struct {
	boardService  *service.BoardService
	editorService *service.EditorService
}

// NewEditorHandler creates an EditorHandler.
func NewEditorHandler(boardService *service.BoardService, editorService *service.EditorService) *EditorHandler {
	return &EditorHandler{boardService: boardService, editorService: editorService}
}

// authorize resolves the :boardId parameter and checks ownership.
func (h *EditorHandler) authorize(c *gin.Context) (uint, bool) {
	userID, ok := authedUserID(c)
	if !ok {
		return 0, false
	}
	boardID, ok := boardIDParam(c)
	if !ok {
		return 0, false
	}
	if _, err := h.boardService.AuthorizeBoard(c.Request.Context(), boardID, userID); err != nil {
		HandleServiceError(c, err)
		return 0, false
	}
	return boardID, true
}

// State handles GET /api/boards/:boardId/state.
func (h *EditorHandler) State(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	SuccessResponse(c, http.StatusOK, h.editorService.State(c.Request.Context(), boardID))
}

type StrokeRequest struct {
	Tool  domain.Tool   `json:"tool"`
	Color string        `json:"color"`
	Cells []domain.Cell `json:"cells" binding:"required"`
}

// Stroke handles POST /api/boards/:boardId/strokes. One request is one
// gesture, so one undo step.
func (h *EditorHandler) Stroke(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	var req StrokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: cells are required")
		return
	}

	changed, err := h.editorService.Stroke(c.Request.Context(), boardID, req.Tool, req.Color, req.Cells)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"changed": changed})
}

type FillRequest struct {
	Color string `json:"color"`
}

// Fill handles POST /api/boards/:boardId/fill.
func (h *EditorHandler) Fill(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	var req FillRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}
	SuccessResponse(c, http.StatusOK, h.editorService.Fill(c.Request.Context(), boardID, req.Color))
}

// Clear handles POST /api/boards/:boardId/clear.
func (h *EditorHandler) Clear(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	SuccessResponse(c, http.StatusOK, h.editorService.Clear(c.Request.Context(), boardID))
}

type ResizeRequest struct {
	Size int `json:"size" binding:"required"`
}

// Resize handles POST /api/boards/:boardId/resize. Out-of-range sizes are
// clamped rather than rejected.
func (h *EditorHandler) Resize(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	var req ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: size is required")
		return
	}
	SuccessResponse(c, http.StatusOK, h.editorService.Resize(c.Request.Context(), boardID, req.Size))
}

// Undo handles POST /api/boards/:boardId/undo.
func (h *EditorHandler) Undo(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	state, moved := h.editorService.Undo(c.Request.Context(), boardID)
	SuccessResponse(c, http.StatusOK, gin.H{"moved": moved, "state": state})
}

// Redo handles POST /api/boards/:boardId/redo.
func (h *EditorHandler) Redo(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	state, moved := h.editorService.Redo(c.Request.Context(), boardID)
	SuccessResponse(c, http.StatusOK, gin.H{"moved": moved, "state": state})
}

type EyedropRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Eyedrop handles POST /api/boards/:boardId/eyedrop. It samples the cell,
// makes the color current and switches the tool back to pen.
func (h *EditorHandler) Eyedrop(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	var req EyedropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: x and y are required")
		return
	}
	color, err := h.editorService.Eyedrop(c.Request.Context(), boardID, req.X, req.Y)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"color": color})
}

// UpdateSettings handles PATCH /api/boards/:boardId/settings. Absent fields
// are left untouched.
func (h *EditorHandler) UpdateSettings(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	var patch service.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}
	settings, err := h.editorService.UpdateSettings(c.Request.Context(), boardID, patch)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, settings)
}

type PaletteRequest struct {
	Color string `json:"color" binding:"required"`
}

// AddPaletteColor handles POST /api/boards/:boardId/palette.
func (h *EditorHandler) AddPaletteColor(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	var req PaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: color is required")
		return
	}
	palette := h.editorService.AddPaletteColor(c.Request.Context(), boardID, req.Color)
	SuccessResponse(c, http.StatusOK, gin.H{"palette": palette})
}

// RemovePaletteColor handles DELETE /api/boards/:boardId/palette.
func (h *EditorHandler) RemovePaletteColor(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}
	var req PaletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: color is required")
		return
	}
	palette := h.editorService.RemovePaletteColor(c.Request.Context(), boardID, req.Color)
	SuccessResponse(c, http.StatusOK, gin.H{"palette": palette})
}
