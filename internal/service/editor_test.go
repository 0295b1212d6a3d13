package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/dto"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository/mocks"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

func newEditorService(state repository.StateRepository) (*service.EditorService, *mocks.SnapshotRepository) {
	snapshotRepo := new(mocks.SnapshotRepository)
	snapshotRepo.On("GetLatestSnapshot", mock.Anything, mock.Anything).
		Return(nil, repository.ErrSnapshotNotFound).Maybe()
	return service.NewEditorService(state, snapshotRepo, service.NewDocumentService()), snapshotRepo
}

func TestEditorService_FreshSessionUsesDefaults(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()

	got := svc.State(ctx, 1)
	assert.Equal(t, domain.DefaultGridSize, got.Size)
	assert.Len(t, got.Pixels, domain.DefaultGridSize*domain.DefaultGridSize)
	assert.Equal(t, domain.DefaultPalette(), got.Palette)
	assert.Equal(t, domain.DefaultSettings(), got.Settings)
	assert.False(t, got.CanUndo)
	assert.False(t, got.CanRedo)
}

func TestEditorService_StrokePersistsAndPublishes(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()

	svc.Resize(ctx, 7, 4)
	changed, err := svc.Stroke(ctx, 7, domain.ToolPen, "#ff0000", []domain.Cell{
		{X: 0, Y: 0}, {X: 1, Y: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	// Pixels are written through to the state store.
	saved, err := state.GetPixels(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, saved[0])
	assert.Equal(t, "#ff0000", *saved[0])

	// The stroke is broadcast to viewers as cell changes.
	events := state.Published[7]
	require.NotEmpty(t, events)
	var event dto.BoardEvent
	require.NoError(t, json.Unmarshal(events[len(events)-1], &event))
	assert.Equal(t, dto.EventStroke, event.Type)
	assert.Len(t, event.Cells, 2)
}

func TestEditorService_StrokeIsOneUndoStep(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()

	svc.Resize(ctx, 1, 4)
	_, err := svc.Stroke(ctx, 1, domain.ToolPen, "#00ff00", []domain.Cell{
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2},
	})
	require.NoError(t, err)

	got, moved := svc.Undo(ctx, 1)
	require.True(t, moved)
	for _, px := range got.Pixels {
		assert.Nil(t, px, "one undo must revert the whole stroke")
	}

	got, moved = svc.Redo(ctx, 1)
	require.True(t, moved)
	require.NotNil(t, got.Pixels[0])
	assert.Equal(t, "#00ff00", *got.Pixels[0])
}

func TestEditorService_UndoOnEmptyStackIsNoOp(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()

	_, moved := svc.Undo(ctx, 2)
	assert.False(t, moved)
	_, moved = svc.Redo(ctx, 2)
	assert.False(t, moved)
}

func TestEditorService_EyedropperStrokeRejected(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)

	_, err := svc.Stroke(context.Background(), 1, domain.ToolEyedropper, "", []domain.Cell{{X: 0, Y: 0}})
	assert.ErrorIs(t, err, service.ErrInvalidAction)
}

func TestEditorService_SessionSurvivesRestart(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	ctx := context.Background()

	svc, _ := newEditorService(state)
	svc.Resize(ctx, 3, 8)
	_, err := svc.Stroke(ctx, 3, domain.ToolPen, "#123456", []domain.Cell{{X: 5, Y: 5}})
	require.NoError(t, err)
	svc.AddPaletteColor(ctx, 3, "#123456")
	_, err = svc.UpdateSettings(ctx, 3, service.SettingsPatch{PixelSize: intPtr(20)})
	require.NoError(t, err)

	// A new service instance (fresh process) rebuilds the session from the
	// state store.
	restarted, _ := newEditorService(state)
	got := restarted.State(ctx, 3)
	assert.Equal(t, 8, got.Size)
	require.NotNil(t, got.Pixels[5*8+5])
	assert.Equal(t, "#123456", *got.Pixels[5*8+5])
	assert.Equal(t, "#123456", got.Palette[0])
	assert.Equal(t, 20, got.Settings.PixelSize)
	// History is in-memory only; a restarted session starts with empty stacks.
	assert.False(t, got.CanUndo)
}

func TestEditorService_WriteFailuresAreSwallowed(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	state.FailWrites = true
	svc, _ := newEditorService(state)
	ctx := context.Background()

	// The action must succeed even though every persistence write fails.
	changed, err := svc.Stroke(ctx, 4, domain.ToolPen, "#ff0000", []domain.Cell{{X: 0, Y: 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	got := svc.State(ctx, 4)
	require.NotNil(t, got.Pixels[0])
}

func TestEditorService_Eyedrop(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()

	svc.Resize(ctx, 5, 4)
	_, err := svc.Stroke(ctx, 5, domain.ToolPen, "#aabbcc", []domain.Cell{{X: 1, Y: 2}})
	require.NoError(t, err)
	_, err = svc.UpdateSettings(ctx, 5, service.SettingsPatch{Tool: toolPtr(domain.ToolEyedropper)})
	require.NoError(t, err)

	color, err := svc.Eyedrop(ctx, 5, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "#aabbcc", color)

	got := svc.State(ctx, 5)
	assert.Equal(t, "#aabbcc", got.Settings.Color)
	assert.Equal(t, domain.ToolPen, got.Settings.Tool)

	// Empty cell samples as white; out of bounds is rejected.
	color, err = svc.Eyedrop(ctx, 5, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.EyedropFallback, color)
	_, err = svc.Eyedrop(ctx, 5, 99, 0)
	assert.ErrorIs(t, err, service.ErrInvalidAction)
}

func TestEditorService_SettingsClampAndValidate(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()

	settings, err := svc.UpdateSettings(ctx, 6, service.SettingsPatch{PixelSize: intPtr(500)})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPixelSize, settings.PixelSize)

	settings, err = svc.UpdateSettings(ctx, 6, service.SettingsPatch{PixelSize: intPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, domain.MinPixelSize, settings.PixelSize)

	badTool := domain.Tool("bucket")
	_, err = svc.UpdateSettings(ctx, 6, service.SettingsPatch{Tool: &badTool})
	assert.ErrorIs(t, err, service.ErrInvalidAction)
}

func TestEditorService_ImportInvalidDocumentLeavesStateUntouched(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()

	svc.Resize(ctx, 8, 4)
	_, err := svc.Stroke(ctx, 8, domain.ToolPen, "#ff0000", []domain.Cell{{X: 1, Y: 1}})
	require.NoError(t, err)
	before := svc.State(ctx, 8)

	_, err = svc.ImportDocument(ctx, 8, []byte(`{"size":"big","pixels":[]}`))
	require.ErrorIs(t, err, service.ErrInvalidDocument)

	after := svc.State(ctx, 8)
	assert.Equal(t, before.Size, after.Size)
	assert.True(t, before.Pixels.Equal(after.Pixels))
}

func TestEditorService_ExportImportRoundTrip(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	svc, _ := newEditorService(state)
	ctx := context.Background()
	docs := service.NewDocumentService()

	svc.Resize(ctx, 9, 4)
	_, err := svc.Stroke(ctx, 9, domain.ToolPen, "#ff0000", []domain.Cell{{X: 1, Y: 1}})
	require.NoError(t, err)

	doc := svc.ExportDocument(ctx, 9)
	payload, err := docs.Encode(doc)
	require.NoError(t, err)

	// Import into another board reproduces the grid and palette exactly.
	got, err := svc.ImportDocument(ctx, 10, payload)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Size)
	assert.True(t, doc.Pixels.Equal(got.Pixels))
	assert.Equal(t, doc.Palette, got.Palette)
}

func TestEditorService_SessionSeededFromDurableSnapshot(t *testing.T) {
	state := mocks.NewMemoryStateRepository()
	snapshotRepo := new(mocks.SnapshotRepository)

	doc := &domain.Document{
		Version: domain.DocumentVersion,
		Size:    4,
		Pixels:  make(domain.PixelBuffer, 16),
		Palette: []string{"#101010"},
	}
	red := "#ff0000"
	doc.Pixels[5] = &red
	snapshot := &domain.BoardSnapshot{ID: 42, BoardID: 11}
	require.NoError(t, snapshot.SetDocument(doc))
	snapshotRepo.On("GetLatestSnapshot", mock.Anything, uint(11)).Return(snapshot, nil).Once()

	svc := service.NewEditorService(state, snapshotRepo, service.NewDocumentService())
	got := svc.State(context.Background(), 11)

	assert.Equal(t, 4, got.Size)
	require.NotNil(t, got.Pixels[5])
	assert.Equal(t, "#ff0000", *got.Pixels[5])
	assert.Equal(t, []string{"#101010"}, got.Palette)
	snapshotRepo.AssertExpectations(t)
}

func intPtr(n int) *int { return &n }

func toolPtr(t domain.Tool) *domain.Tool { return &t }
