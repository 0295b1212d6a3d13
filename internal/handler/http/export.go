package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

// maxImportSize bounds uploaded document bodies (a 256x256 grid of long hex
// strings stays well under this).
const maxImportSize = 4 << 20

// ExportHandler serves PNG and JSON exports and document import.
type ExportHandler struct {
	boardService    *service.BoardService
	editorService   *service.EditorService
	documentService *service.DocumentService
	renderService   *service.RenderService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(
	boardService *service.BoardService,
	editorService *service.EditorService,
	documentService *service.DocumentService,
	renderService *service.RenderService,
) *ExportHandler {
	return &ExportHandler{
		boardService:    boardService,
		editorService:   editorService,
		documentService: documentService,
		renderService:   renderService,
	}
}

func (h *ExportHandler) authorize(c *gin.Context) (uint, bool) {
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

// ExportPNG handles GET /api/boards/:boardId/export.png. The grid query
// parameter overrides the session's gridline setting.
func (h *ExportHandler) ExportPNG(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}

	state := h.editorService.State(c.Request.Context(), boardID)
	showGrid := state.Settings.ShowGrid
	switch c.Query("grid") {
	case "true", "1":
		showGrid = true
	case "false", "0":
		showGrid = false
	}

	data, err := h.renderService.EncodePNG(state.Size, state.Pixels, showGrid)
	if err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Error("PNG export failed")
		ErrorResponse(c, http.StatusInternalServerError, "Export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pixel-art-%d.png"`, boardID))
	c.Data(http.StatusOK, "image/png", data)
}

// ExportJSON handles GET /api/boards/:boardId/export.json.
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}

	doc := h.editorService.ExportDocument(c.Request.Context(), boardID)
	payload, err := h.documentService.Encode(doc)
	if err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Error("JSON export failed")
		ErrorResponse(c, http.StatusInternalServerError, "Export failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pixel-art-%d.json"`, boardID))
	c.Data(http.StatusOK, "application/json", payload)
}

// Import handles POST /api/boards/:boardId/import. The body is the raw
// document JSON; an invalid document leaves the board untouched.
func (h *ExportHandler) Import(c *gin.Context) {
	boardID, ok := h.authorize(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	state, err := h.editorService.ImportDocument(c.Request.Context(), boardID, raw)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, state)
}
