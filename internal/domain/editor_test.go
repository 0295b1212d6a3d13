package domain_test

import (
	"testing"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_Defaults(t *testing.T) {
	e := domain.NewEditor()

	assert.Equal(t, domain.DefaultGridSize, e.Grid.Size)
	assert.Len(t, e.Grid.Pixels, domain.DefaultGridSize*domain.DefaultGridSize)
	assert.Equal(t, domain.DefaultPalette(), e.Palette.Colors)
	assert.Equal(t, domain.DefaultColor, e.Settings.Color)
	assert.Equal(t, domain.ToolPen, e.Settings.Tool)
	assert.Equal(t, domain.DefaultPixelSize, e.Settings.PixelSize)
	assert.True(t, e.Settings.ShowGrid)
}

func TestEditor_StrokeIsOneUndoStep(t *testing.T) {
	e := domain.NewEditor()
	e.Resize(4)

	changed := e.Stroke(domain.ToolPen, "#ff0000", []domain.Cell{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
	})
	assert.Equal(t, 3, changed)
	assert.Equal(t, 1, e.History.UndoDepth(), "a drag stroke coalesces into one history entry")

	require.True(t, e.Undo())
	for _, px := range e.Grid.Pixels {
		assert.Nil(t, px, "undoing the stroke must revert every touched cell")
	}
}

func TestEditor_EraserStroke(t *testing.T) {
	e := domain.NewEditor()
	e.Resize(4)
	e.Fill("#00ff00")

	changed := e.Stroke(domain.ToolEraser, "", []domain.Cell{{X: 1, Y: 1}})
	assert.Equal(t, 1, changed)
	assert.Nil(t, e.Grid.At(1, 1))
	require.NotNil(t, e.Grid.At(0, 0))
}

func TestEditor_UndoRedoRoundTripThroughActions(t *testing.T) {
	e := domain.NewEditor()
	e.Resize(4)

	e.Stroke(domain.ToolPen, "#ff0000", []domain.Cell{{X: 1, Y: 1}})
	afterStroke := e.Grid.Pixels.Clone()

	e.Fill("#0000ff")
	afterFill := e.Grid.Pixels.Clone()

	require.True(t, e.Undo())
	assert.True(t, e.Grid.Pixels.Equal(afterStroke))

	require.True(t, e.Redo())
	assert.True(t, e.Grid.Pixels.Equal(afterFill))

	// Two undos walk back to the blank grid; a third is a no-op.
	require.True(t, e.Undo())
	require.True(t, e.Undo())
	assert.False(t, e.Undo())
}

func TestEditor_Eyedrop(t *testing.T) {
	e := domain.NewEditor()
	e.Resize(4)
	e.Stroke(domain.ToolPen, "#336699", []domain.Cell{{X: 2, Y: 2}})
	e.Settings.Tool = domain.ToolEyedropper

	got := e.Eyedrop(2, 2)
	assert.Equal(t, "#336699", got)
	assert.Equal(t, "#336699", e.Settings.Color)
	assert.Equal(t, domain.ToolPen, e.Settings.Tool, "sampling switches back to the pen")

	// Empty cells sample as white.
	assert.Equal(t, domain.EyedropFallback, e.Eyedrop(0, 0))
	// Sampling is not an undoable action.
	assert.Equal(t, 1, e.History.UndoDepth())
}

func TestEditor_ResizeResetsHistoryOnSizeChange(t *testing.T) {
	e := domain.NewEditor()
	e.Resize(4)
	e.Stroke(domain.ToolPen, "#ff0000", []domain.Cell{{X: 0, Y: 0}})
	require.True(t, e.History.CanUndo())

	e.Resize(8)
	assert.False(t, e.History.CanUndo(), "snapshots of the old size must not survive a resize")
	assert.Len(t, e.Grid.Pixels, 64)

	// Same-size resize keeps both content and history.
	e.Stroke(domain.ToolPen, "#ff0000", []domain.Cell{{X: 0, Y: 0}})
	e.Resize(8)
	assert.True(t, e.History.CanUndo())
	require.NotNil(t, e.Grid.At(0, 0))
}
