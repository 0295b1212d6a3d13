package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// DocumentService round-trips editor state to and from the versioned
// document format: {version, size, pixels, palette, meta}.
type DocumentService struct{}

// NewDocumentService creates a DocumentService.
func NewDocumentService() *DocumentService {
	return &DocumentService{}
}

// Export packages the editor into a document. Buffers are copied so the
// document stays stable while the session keeps editing.
func (s *DocumentService) Export(e *domain.Editor) *domain.Document {
	return &domain.Document{
		Version: domain.DocumentVersion,
		Size:    e.Grid.Size,
		Pixels:  e.Grid.Pixels.Clone(),
		Palette: e.Palette.Clone(),
		Meta:    domain.DocumentMeta{CreatedAt: time.Now().UnixMilli()},
	}
}

// Encode renders the document as JSON.
func (s *DocumentService) Encode(doc *domain.Document) ([]byte, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return payload, nil
}

// Parse decodes and validates a raw document. A document is valid when it
// carries a numeric size and an array-typed pixels field; anything else is
// ErrInvalidDocument. The size is clamped to the grid bounds.
//
// The pixel buffer length is intentionally NOT validated against size²;
// the format has always allowed mismatched buffers and consumers index
// defensively (known gap, kept for compatibility).
func (s *DocumentService) Parse(raw []byte) (*domain.Document, error) {
	var probe struct {
		Version int                 `json:"version"`
		Size    *float64            `json:"size"`
		Pixels  json.RawMessage     `json:"pixels"`
		Palette []string            `json:"palette"`
		Meta    domain.DocumentMeta `json:"meta"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if probe.Size == nil {
		return nil, fmt.Errorf("%w: missing numeric size", ErrInvalidDocument)
	}
	trimmed := bytes.TrimSpace(probe.Pixels)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: pixels must be an array", ErrInvalidDocument)
	}
	var pixels domain.PixelBuffer
	if err := json.Unmarshal(trimmed, &pixels); err != nil {
		return nil, fmt.Errorf("%w: malformed pixels array", ErrInvalidDocument)
	}

	return &domain.Document{
		Version: probe.Version,
		Size:    domain.ClampGridSize(int(*probe.Size)),
		Pixels:  pixels,
		Palette: probe.Palette,
		Meta:    probe.Meta,
	}, nil
}

// Restore replaces the editor's grid (and palette, when the document
// provides one) with the document's content. History is reset: snapshots of
// the previous grid cannot be restored into the imported one.
func (s *DocumentService) Restore(e *domain.Editor, doc *domain.Document) {
	e.Grid.Size = domain.ClampGridSize(doc.Size)
	e.Grid.Pixels = doc.Pixels.Clone()
	if doc.Palette != nil {
		e.Palette = domain.NewPalette(doc.Palette)
	}
	e.History.Reset()
}
