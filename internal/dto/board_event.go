package dto

import "github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"

// Board event types published after each applied mutation.
const (
	EventStroke   = "stroke"
	EventFill     = "fill"
	EventClear    = "clear"
	EventResize   = "resize"
	EventUndo     = "undo"
	EventRedo     = "redo"
	EventImport   = "import"
	EventSettings = "settings"
	EventPalette  = "palette"
)

// CellChange is one cell touched by a stroke; a nil Color means erased.
type CellChange struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Color *string `json:"color"`
}

// BoardEvent is the payload fanned out to live viewers over pub/sub and
// WebSocket. Strokes carry just the touched cells; whole-buffer mutations
// (fill, clear, resize, undo, redo, import) carry the full buffer so a
// viewer never has to re-fetch.
type BoardEvent struct {
	Type     string             `json:"type"`
	BoardID  uint               `json:"board_id"`
	Size     int                `json:"size,omitempty"`
	Cells    []CellChange       `json:"cells,omitempty"`
	Pixels   domain.PixelBuffer `json:"pixels,omitempty"`
	Palette  []string           `json:"palette,omitempty"`
	Settings *domain.Settings   `json:"settings,omitempty"`
}

// IncomingStroke is a gesture submitted by a WebSocket viewer: one
// pointer-down-to-pointer-up interaction, one undo step.
type IncomingStroke struct {
	Type  string        `json:"type" binding:"required,oneof=stroke"`
	Tool  domain.Tool   `json:"tool"`
	Color string        `json:"color"`
	Cells []domain.Cell `json:"cells"`
}

// ErrorDTO is an error message pushed to a WebSocket client.
type ErrorDTO struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
