package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

func TestDocumentService_ExportShape(t *testing.T) {
	docs := service.NewDocumentService()
	editor := domain.NewEditor()
	editor.Resize(4)
	editor.Stroke(domain.ToolPen, "#ff0000", []domain.Cell{{X: 1, Y: 1}})

	doc := docs.Export(editor)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, 4, doc.Size)
	require.Len(t, doc.Pixels, 16)
	require.NotNil(t, doc.Pixels[5], "color lands at flat index y*size+x = 5")
	assert.Equal(t, "#ff0000", *doc.Pixels[5])
	assert.Equal(t, editor.Palette.Colors, doc.Palette)
	assert.NotZero(t, doc.Meta.CreatedAt)

	// The document is a copy: later edits must not leak into it.
	editor.Fill("#000000")
	assert.Nil(t, doc.Pixels[0])
}

func TestDocumentService_EncodeEmitsNullsForEmptyCells(t *testing.T) {
	docs := service.NewDocumentService()
	editor := domain.NewEditor()
	editor.Resize(2)
	editor.Stroke(domain.ToolPen, "#ff0000", []domain.Cell{{X: 1, Y: 0}})

	payload, err := docs.Encode(docs.Export(editor))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.JSONEq(t, `[null,"#ff0000",null,null]`, string(raw["pixels"]))
}

func TestDocumentService_ParseRoundTrip(t *testing.T) {
	docs := service.NewDocumentService()
	editor := domain.NewEditor()
	editor.Resize(4)
	editor.Stroke(domain.ToolPen, "#00ff00", []domain.Cell{{X: 3, Y: 2}})

	payload, err := docs.Encode(docs.Export(editor))
	require.NoError(t, err)

	doc, err := docs.Parse(payload)
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Size)
	assert.True(t, editor.Grid.Pixels.Equal(doc.Pixels))
	assert.Equal(t, editor.Palette.Colors, doc.Palette)
}

func TestDocumentService_ParseRejectsBadDocuments(t *testing.T) {
	docs := service.NewDocumentService()

	cases := []struct {
		name string
		raw  string
	}{
		{"non-numeric size", `{"size":"four","pixels":[]}`},
		{"missing size", `{"pixels":[]}`},
		{"missing pixels", `{"size":4}`},
		{"pixels not an array", `{"size":4,"pixels":{"0":"#fff"}}`},
		{"not json at all", `this is not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := docs.Parse([]byte(tc.raw))
			assert.ErrorIs(t, err, service.ErrInvalidDocument)
		})
	}
}

func TestDocumentService_ParseClampsSize(t *testing.T) {
	docs := service.NewDocumentService()

	doc, err := docs.Parse([]byte(`{"size":100000,"pixels":[]}`))
	require.NoError(t, err)
	assert.Equal(t, domain.MaxGridSize, doc.Size)

	doc, err = docs.Parse([]byte(`{"size":0,"pixels":[]}`))
	require.NoError(t, err)
	assert.Equal(t, domain.MinGridSize, doc.Size)
}

func TestDocumentService_ParseKeepsMismatchedBufferVerbatim(t *testing.T) {
	// Pixel buffer length is deliberately not validated against size².
	docs := service.NewDocumentService()
	doc, err := docs.Parse([]byte(`{"size":4,"pixels":["#fff",null]}`))
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Size)
	assert.Len(t, doc.Pixels, 2)
}

func TestDocumentService_RestorePalette(t *testing.T) {
	docs := service.NewDocumentService()
	editor := domain.NewEditor()
	originalPalette := editor.Palette.Clone()

	// No palette in the document: the live palette stays.
	doc, err := docs.Parse([]byte(`{"size":4,"pixels":[]}`))
	require.NoError(t, err)
	docs.Restore(editor, doc)
	assert.Equal(t, originalPalette, editor.Palette.Colors)

	// A provided palette replaces it.
	doc, err = docs.Parse([]byte(`{"size":4,"pixels":[],"palette":["#111111","#222222"]}`))
	require.NoError(t, err)
	docs.Restore(editor, doc)
	assert.Equal(t, []string{"#111111", "#222222"}, editor.Palette.Colors)
}
