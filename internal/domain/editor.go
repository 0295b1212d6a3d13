package domain

// Cell addresses one grid unit.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// EyedropFallback is reported when an empty cell is sampled.
const EyedropFallback = "#ffffff"

// Editor is the live state of one board: the grid, the palette, the scalar
// settings and the undo/redo history. It is not safe for concurrent use;
// callers serialize access per board.
type Editor struct {
	Grid     *Grid
	Palette  *Palette
	Settings Settings
	History  *History
}

// NewEditor returns an editor with the documented defaults: an empty 32x32
// grid, the 7-swatch starter palette, pen tool selected.
func NewEditor() *Editor {
	return &Editor{
		Grid:     NewGrid(DefaultGridSize),
		Palette:  NewPalette(DefaultPalette()),
		Settings: DefaultSettings(),
		History:  NewHistory(),
	}
}

// Stroke applies one pointer-down-to-pointer-up gesture: every touched cell
// is painted (pen) or emptied (eraser). The whole gesture is a single
// undoable action, so history is recorded exactly once, before the first
// cell is touched. Returns the number of cells that actually changed.
func (e *Editor) Stroke(tool Tool, color string, cells []Cell) int {
	var value *string
	if tool != ToolEraser {
		value = &color
	}
	e.History.Record(e.Grid.Pixels)
	changed := 0
	for _, c := range cells {
		if e.Grid.Paint(c.X, c.Y, value) {
			changed++
		}
	}
	return changed
}

// Fill sets every cell to color as one undoable action.
func (e *Editor) Fill(color string) {
	e.History.Record(e.Grid.Pixels)
	e.Grid.Fill(color)
}

// Clear empties every cell as one undoable action.
func (e *Editor) Clear() {
	e.History.Record(e.Grid.Pixels)
	e.Grid.Clear()
}

// Resize changes the grid side (clamped). Content is discarded when the
// cell count changes, and history is reset so stale snapshots can never be
// restored into a grid of a different size.
func (e *Editor) Resize(n int) {
	before := len(e.Grid.Pixels)
	e.Grid.Resize(n)
	if len(e.Grid.Pixels) != before {
		e.History.Reset()
	}
}

// Eyedrop samples the cell at (x, y), reading white for an empty cell,
// makes it the current color and switches the active tool back to pen.
// Sampling never touches the grid, so no history entry is recorded.
func (e *Editor) Eyedrop(x, y int) string {
	color := EyedropFallback
	if c := e.Grid.At(x, y); c != nil {
		color = *c
	}
	e.Settings.Color = color
	e.Settings.Tool = ToolPen
	return color
}

// Undo restores the most recent pre-action snapshot. No-op when the undo
// stack is empty.
func (e *Editor) Undo() bool {
	snap, ok := e.History.Undo(e.Grid.Pixels)
	if !ok {
		return false
	}
	e.Grid.SetPixels(snap)
	return true
}

// Redo restores the most recently undone state. No-op when the redo stack
// is empty.
func (e *Editor) Redo() bool {
	snap, ok := e.History.Redo(e.Grid.Pixels)
	if !ok {
		return false
	}
	e.Grid.SetPixels(snap)
	return true
}
