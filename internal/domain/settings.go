package domain

// Tool identifies the active paint tool. Exactly one is active at a time.
type Tool string

const (
	ToolPen        Tool = "pen"
	ToolEraser     Tool = "eraser"
	ToolEyedropper Tool = "eyedropper"
)

// Valid reports whether t is one of the known tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolPen, ToolEraser, ToolEyedropper:
		return true
	}
	return false
}

// Display zoom bounds (edge length of one cell on screen, in CSS pixels).
const (
	MinPixelSize = 6
	MaxPixelSize = 32
)

// Defaults applied when no persisted state exists or a persisted entry is
// missing or corrupt.
const (
	DefaultGridSize  = 32
	DefaultPixelSize = 16
	DefaultShowGrid  = true
)

// Settings bundles the scalar editor preferences that persist alongside the
// pixel buffer and palette.
type Settings struct {
	Color     string `json:"color"`
	Tool      Tool   `json:"tool"`
	PixelSize int    `json:"pixelSize"`
	ShowGrid  bool   `json:"showGrid"`
}

// DefaultSettings returns the documented startup defaults.
func DefaultSettings() Settings {
	return Settings{
		Color:     DefaultColor,
		Tool:      ToolPen,
		PixelSize: DefaultPixelSize,
		ShowGrid:  DefaultShowGrid,
	}
}

// ClampPixelSize clamps n to [MinPixelSize, MaxPixelSize].
func ClampPixelSize(n int) int {
	if n < MinPixelSize {
		return MinPixelSize
	}
	if n > MaxPixelSize {
		return MaxPixelSize
	}
	return n
}
