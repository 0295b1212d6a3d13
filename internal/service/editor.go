package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/dto"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// EditorService owns the live editing sessions: one in-memory
// domain.Editor per open board, write-through persisted to the state
// repository and broadcast to viewers after every mutation.
//
// Persistence is deliberately best-effort: a failed write is logged and
// swallowed, because an editing action must never fail just because the
// state store hiccuped. Reads fall back to the documented defaults.
type EditorService struct {
	stateRepo    repository.StateRepository
	snapshotRepo repository.SnapshotRepository
	documents    *DocumentService

	mu       sync.Mutex
	sessions map[uint]*editorSession
}

// editorSession serializes all access to one board's editor. Mutations are
// event-driven and synchronous per board, matching the one-action-at-a-time
// model of the editor.
type editorSession struct {
	mu     sync.Mutex
	editor *domain.Editor
}

// EditorState is the full client-facing view of a session.
type EditorState struct {
	BoardID  uint               `json:"board_id"`
	Size     int                `json:"size"`
	Pixels   domain.PixelBuffer `json:"pixels"`
	Palette  []string           `json:"palette"`
	Settings domain.Settings    `json:"settings"`
	CanUndo  bool               `json:"can_undo"`
	CanRedo  bool               `json:"can_redo"`
}

// SettingsPatch is a partial settings update; nil fields stay untouched.
type SettingsPatch struct {
	Color     *string      `json:"color"`
	Tool      *domain.Tool `json:"tool"`
	PixelSize *int         `json:"pixelSize"`
	ShowGrid  *bool        `json:"showGrid"`
}

// NewEditorService creates an EditorService.
func NewEditorService(
	stateRepo repository.StateRepository,
	snapshotRepo repository.SnapshotRepository,
	documents *DocumentService,
) *EditorService {
	if stateRepo == nil || snapshotRepo == nil || documents == nil {
		panic("all dependencies must be non-nil for EditorService")
	}
	return &EditorService{
		stateRepo:    stateRepo,
		snapshotRepo: snapshotRepo,
		documents:    documents,
		sessions:     make(map[uint]*editorSession),
	}
}

// session returns the live session for the board, loading persisted state
// on first access.
func (s *EditorService) session(ctx context.Context, boardID uint) *editorSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[boardID]; ok {
		return sess
	}
	sess := &editorSession{editor: s.loadEditor(ctx, boardID)}
	s.sessions[boardID] = sess
	return sess
}

// loadEditor rebuilds an editor from the state store. Each concern is
// loaded independently; a missing or corrupt entry silently falls back to
// its default. When no pixel state exists at all, the latest durable
// snapshot (if any) seeds the session instead.
func (s *EditorService) loadEditor(ctx context.Context, boardID uint) *domain.Editor {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "operation": "loadEditor"})
	editor := domain.NewEditor()

	settings, err := s.stateRepo.GetSettings(ctx, boardID)
	if err != nil {
		logCtx.WithError(err).Warn("Failed to load settings, using defaults")
	} else {
		editor.Settings = settings
	}

	if colors, err := s.stateRepo.GetPalette(ctx, boardID); err == nil {
		editor.Palette = domain.NewPalette(colors)
	} else if !errors.Is(err, repository.ErrNotFound) {
		logCtx.WithError(err).Warn("Failed to load palette, using defaults")
	}

	size, sizeErr := s.stateRepo.GetGridSize(ctx, boardID)
	if sizeErr == nil {
		editor.Grid.Resize(size)
	}

	pixels, pixelsErr := s.stateRepo.GetPixels(ctx, boardID)
	if pixelsErr == nil {
		// Reload verbatim: the persisted buffer wins even if its length
		// disagrees with the persisted size, matching import semantics.
		editor.Grid.Pixels = pixels
		return editor
	}
	if !errors.Is(pixelsErr, repository.ErrNotFound) {
		logCtx.WithError(pixelsErr).Warn("Failed to load pixels, falling back")
	}

	// No live pixel state: try the latest durable snapshot.
	snapshot, err := s.snapshotRepo.GetLatestSnapshot(ctx, boardID)
	if err != nil {
		if !errors.Is(err, repository.ErrSnapshotNotFound) {
			logCtx.WithError(err).Warn("Failed to load snapshot, starting from defaults")
		}
		return editor
	}
	doc, err := snapshot.ParseDocument()
	if err != nil {
		logCtx.WithError(err).Warn("Corrupt snapshot document, starting from defaults")
		return editor
	}
	s.documents.Restore(editor, doc)
	logCtx.WithField("snapshot_id", snapshot.ID).Info("Session seeded from durable snapshot")
	return editor
}

// State returns the full view of the board's session.
func (s *EditorService) State(ctx context.Context, boardID uint) EditorState {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return stateOf(boardID, sess.editor)
}

func stateOf(boardID uint, e *domain.Editor) EditorState {
	return EditorState{
		BoardID:  boardID,
		Size:     e.Grid.Size,
		Pixels:   e.Grid.Pixels.Clone(),
		Palette:  e.Palette.Clone(),
		Settings: e.Settings,
		CanUndo:  e.History.CanUndo(),
		CanRedo:  e.History.CanRedo(),
	}
}

// Stroke applies one gesture to the board. Only pen and eraser strokes are
// valid; the eyedropper never paints.
func (s *EditorService) Stroke(ctx context.Context, boardID uint, tool domain.Tool, color string, cells []domain.Cell) (int, error) {
	if tool == "" {
		tool = domain.ToolPen
	}
	if tool != domain.ToolPen && tool != domain.ToolEraser {
		return 0, ErrInvalidAction
	}
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if tool == domain.ToolPen && color == "" {
		color = sess.editor.Settings.Color
	}
	changed := sess.editor.Stroke(tool, color, cells)

	s.persistPixels(ctx, boardID, sess.editor)
	s.bumpOpCount(ctx, boardID)

	changes := make([]dto.CellChange, 0, len(cells))
	var value *string
	if tool == domain.ToolPen {
		value = &color
	}
	for _, c := range cells {
		changes = append(changes, dto.CellChange{X: c.X, Y: c.Y, Color: value})
	}
	s.publish(ctx, boardID, dto.BoardEvent{Type: dto.EventStroke, BoardID: boardID, Cells: changes})
	return changed, nil
}

// Fill sets every cell to color as one undoable action.
func (s *EditorService) Fill(ctx context.Context, boardID uint, color string) EditorState {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if color == "" {
		color = sess.editor.Settings.Color
	}
	sess.editor.Fill(color)
	s.persistPixels(ctx, boardID, sess.editor)
	s.bumpOpCount(ctx, boardID)
	s.publish(ctx, boardID, dto.BoardEvent{
		Type: dto.EventFill, BoardID: boardID, Pixels: sess.editor.Grid.Pixels.Clone(),
	})
	return stateOf(boardID, sess.editor)
}

// Clear empties the grid as one undoable action.
func (s *EditorService) Clear(ctx context.Context, boardID uint) EditorState {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.editor.Clear()
	s.persistPixels(ctx, boardID, sess.editor)
	s.bumpOpCount(ctx, boardID)
	s.publish(ctx, boardID, dto.BoardEvent{
		Type: dto.EventClear, BoardID: boardID, Pixels: sess.editor.Grid.Pixels.Clone(),
	})
	return stateOf(boardID, sess.editor)
}

// Resize clamps n to the documented bounds and resizes the grid; out of
// range values are clamped, never rejected.
func (s *EditorService) Resize(ctx context.Context, boardID uint, n int) EditorState {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.editor.Resize(n)
	s.persistPixels(ctx, boardID, sess.editor)
	s.bumpOpCount(ctx, boardID)
	s.publish(ctx, boardID, dto.BoardEvent{
		Type: dto.EventResize, BoardID: boardID,
		Size: sess.editor.Grid.Size, Pixels: sess.editor.Grid.Pixels.Clone(),
	})
	return stateOf(boardID, sess.editor)
}

// Undo restores the previous snapshot; no-op when the stack is empty.
func (s *EditorService) Undo(ctx context.Context, boardID uint) (EditorState, bool) {
	return s.timeTravel(ctx, boardID, dto.EventUndo)
}

// Redo restores the next snapshot; no-op when the stack is empty.
func (s *EditorService) Redo(ctx context.Context, boardID uint) (EditorState, bool) {
	return s.timeTravel(ctx, boardID, dto.EventRedo)
}

func (s *EditorService) timeTravel(ctx context.Context, boardID uint, event string) (EditorState, bool) {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	var moved bool
	if event == dto.EventUndo {
		moved = sess.editor.Undo()
	} else {
		moved = sess.editor.Redo()
	}
	if moved {
		s.persistPixels(ctx, boardID, sess.editor)
		s.publish(ctx, boardID, dto.BoardEvent{
			Type: event, BoardID: boardID, Pixels: sess.editor.Grid.Pixels.Clone(),
		})
	}
	return stateOf(boardID, sess.editor), moved
}

// Eyedrop samples a cell (white when empty), makes it the current color and
// switches the tool back to pen.
func (s *EditorService) Eyedrop(ctx context.Context, boardID uint, x, y int) (string, error) {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.editor.Grid.InBounds(x, y) {
		return "", ErrInvalidAction
	}
	color := sess.editor.Eyedrop(x, y)
	s.persistSettings(ctx, boardID, sess.editor)
	s.publish(ctx, boardID, dto.BoardEvent{
		Type: dto.EventSettings, BoardID: boardID, Settings: &sess.editor.Settings,
	})
	return color, nil
}

// UpdateSettings applies a partial settings update. Pixel size is clamped;
// an unknown tool is rejected.
func (s *EditorService) UpdateSettings(ctx context.Context, boardID uint, patch SettingsPatch) (domain.Settings, error) {
	if patch.Tool != nil && !patch.Tool.Valid() {
		return domain.Settings{}, ErrInvalidAction
	}
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if patch.Color != nil {
		sess.editor.Settings.Color = *patch.Color
	}
	if patch.Tool != nil {
		sess.editor.Settings.Tool = *patch.Tool
	}
	if patch.PixelSize != nil {
		sess.editor.Settings.PixelSize = domain.ClampPixelSize(*patch.PixelSize)
	}
	if patch.ShowGrid != nil {
		sess.editor.Settings.ShowGrid = *patch.ShowGrid
	}
	s.persistSettings(ctx, boardID, sess.editor)
	s.publish(ctx, boardID, dto.BoardEvent{
		Type: dto.EventSettings, BoardID: boardID, Settings: &sess.editor.Settings,
	})
	return sess.editor.Settings, nil
}

// AddPaletteColor inserts a swatch (deduplicated, most recent first).
func (s *EditorService) AddPaletteColor(ctx context.Context, boardID uint, color string) []string {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.editor.Palette.Add(color) {
		s.persistPalette(ctx, boardID, sess.editor)
		s.publish(ctx, boardID, dto.BoardEvent{
			Type: dto.EventPalette, BoardID: boardID, Palette: sess.editor.Palette.Clone(),
		})
	}
	return sess.editor.Palette.Clone()
}

// RemovePaletteColor deletes a swatch.
func (s *EditorService) RemovePaletteColor(ctx context.Context, boardID uint, color string) []string {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.editor.Palette.Remove(color) {
		s.persistPalette(ctx, boardID, sess.editor)
		s.publish(ctx, boardID, dto.BoardEvent{
			Type: dto.EventPalette, BoardID: boardID, Palette: sess.editor.Palette.Clone(),
		})
	}
	return sess.editor.Palette.Clone()
}

// ExportDocument packages the session into a versioned document.
func (s *EditorService) ExportDocument(ctx context.Context, boardID uint) *domain.Document {
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.documents.Export(sess.editor)
}

// ImportDocument validates raw and replaces the live grid and palette. On
// validation failure the live state is left untouched.
func (s *EditorService) ImportDocument(ctx context.Context, boardID uint, raw []byte) (EditorState, error) {
	doc, err := s.documents.Parse(raw)
	if err != nil {
		return EditorState{}, err
	}
	sess := s.session(ctx, boardID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.documents.Restore(sess.editor, doc)
	s.persistPixels(ctx, boardID, sess.editor)
	s.persistPalette(ctx, boardID, sess.editor)
	s.bumpOpCount(ctx, boardID)
	s.publish(ctx, boardID, dto.BoardEvent{
		Type: dto.EventImport, BoardID: boardID,
		Size:    sess.editor.Grid.Size,
		Pixels:  sess.editor.Grid.Pixels.Clone(),
		Palette: sess.editor.Palette.Clone(),
	})
	return stateOf(boardID, sess.editor), nil
}

// ActiveBoardIDs lists the boards with a live session, for the autosave
// worker.
func (s *EditorService) ActiveBoardIDs() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// --- best-effort persistence and broadcast ---

func (s *EditorService) persistPixels(ctx context.Context, boardID uint, e *domain.Editor) {
	if err := s.stateRepo.SavePixels(ctx, boardID, e.Grid.Pixels); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to persist pixels")
	}
	if err := s.stateRepo.SaveGridSize(ctx, boardID, e.Grid.Size); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to persist grid size")
	}
}

func (s *EditorService) persistPalette(ctx context.Context, boardID uint, e *domain.Editor) {
	if err := s.stateRepo.SavePalette(ctx, boardID, e.Palette.Clone()); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to persist palette")
	}
}

func (s *EditorService) persistSettings(ctx context.Context, boardID uint, e *domain.Editor) {
	if err := s.stateRepo.SaveSettings(ctx, boardID, e.Settings); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to persist settings")
	}
}

func (s *EditorService) bumpOpCount(ctx context.Context, boardID uint) {
	if _, err := s.stateRepo.IncrementOpCount(ctx, boardID); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to increment op count")
	}
}

func (s *EditorService) publish(ctx context.Context, boardID uint, event dto.BoardEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Error("Failed to marshal board event")
		return
	}
	if err := s.stateRepo.PublishEvent(ctx, boardID, payload); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to publish board event")
	}
}
