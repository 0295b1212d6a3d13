package domain

// History is a two-stack undo/redo model over full pixel-buffer snapshots.
// Granularity is one snapshot per discrete user action: a whole drag stroke,
// a fill, a clear, a resize or an import each contribute exactly one entry,
// recorded before the action mutates the grid.
type History struct {
	undo []PixelBuffer
	redo []PixelBuffer
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Record pushes a pre-action snapshot onto the undo stack and clears the
// redo stack: once a fresh edit is committed there is no branching redo.
func (h *History) Record(snapshot PixelBuffer) {
	h.undo = append(h.undo, snapshot.Clone())
	h.redo = nil
}

// Undo pops the most recent snapshot, pushing current onto the redo stack.
// Returns (nil, false) when there is nothing to undo.
func (h *History) Undo(current PixelBuffer) (PixelBuffer, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return top, true
}

// Redo is symmetric to Undo.
func (h *History) Redo(current PixelBuffer) (PixelBuffer, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return top, true
}

// Reset drops both stacks. Used when the grid is replaced by something a
// snapshot could not be restored into (resize, import).
func (h *History) Reset() {
	h.undo = nil
	h.redo = nil
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of undoable actions.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of redoable actions.
func (h *History) RedoDepth() int { return len(h.redo) }
