package service_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/service"
)

func renderToImage(t *testing.T, size int, pixels domain.PixelBuffer, showGrid bool) image.Image {
	t.Helper()
	renderer := service.NewRenderService()
	data, err := renderer.EncodePNG(size, pixels, showGrid)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func TestRenderService_Scale(t *testing.T) {
	renderer := service.NewRenderService()
	assert.Equal(t, 128, renderer.Scale(4))
	assert.Equal(t, 16, renderer.Scale(32))
	assert.Equal(t, 2, renderer.Scale(256))
	assert.Equal(t, 256, renderer.Scale(2))
}

func TestRenderService_OutputEdgeLength(t *testing.T) {
	grid := domain.NewGrid(4)
	img := renderToImage(t, grid.Size, grid.Pixels, false)
	assert.Equal(t, 512, img.Bounds().Dx(), "edge = size * floor(512/size)")

	grid = domain.NewGrid(100)
	img = renderToImage(t, grid.Size, grid.Pixels, false)
	// floor(512/100) = 5, so 100 * 5 = 500.
	assert.Equal(t, 500, img.Bounds().Dx())
}

func TestRenderService_CellColorsAndBackground(t *testing.T) {
	grid := domain.NewGrid(4)
	require.True(t, grid.Paint(1, 1, strPtr("#ff0000")))
	img := renderToImage(t, grid.Size, grid.Pixels, false)

	// Sample the center of cell (1,1): scale is 128, so (192, 192).
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, nrgbaAt(img, 192, 192))
	// Empty cells render white.
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nrgbaAt(img, 64, 64))
	// Hard pixel edges: just inside the neighboring cell it is white again.
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nrgbaAt(img, 384+2, 192))
}

func TestRenderService_GridlineOverlay(t *testing.T) {
	grid := domain.NewGrid(4)
	require.True(t, grid.Paint(0, 0, strPtr("#000000")))
	img := renderToImage(t, grid.Size, grid.Pixels, true)

	lineColor := color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	// Boundary between cell columns 0 and 1 sits at x = 128.
	assert.Equal(t, lineColor, nrgbaAt(img, 128, 64))
	// Boundary rows too.
	assert.Equal(t, lineColor, nrgbaAt(img, 64, 256))
	// Cell interiors keep their color.
	assert.Equal(t, color.NRGBA{A: 0xff}, nrgbaAt(img, 64, 64))
}

func TestRenderService_MismatchedBufferDoesNotPanic(t *testing.T) {
	// Imported documents may carry a buffer shorter or longer than size².
	renderer := service.NewRenderService()

	short := domain.PixelBuffer{strPtr("#ff0000")}
	_, err := renderer.EncodePNG(4, short, true)
	assert.NoError(t, err)

	long := make(domain.PixelBuffer, 100)
	for i := range long {
		long[i] = strPtr("#00ff00")
	}
	_, err = renderer.EncodePNG(4, long, false)
	assert.NoError(t, err)
}

func TestRenderService_ShortHexAndInvalidColors(t *testing.T) {
	grid := domain.NewGrid(4)
	require.True(t, grid.Paint(0, 0, strPtr("#f00")))
	require.True(t, grid.Paint(1, 0, strPtr("not-a-color")))
	img := renderToImage(t, grid.Size, grid.Pixels, false)

	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, nrgbaAt(img, 10, 10))
	// Unparseable colors fall back to the white background.
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, nrgbaAt(img, 128+10, 10))
}

func strPtr(s string) *string { return &s }
