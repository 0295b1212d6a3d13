package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
)

// RenderTargetEdge is the approximate edge length of an exported image:
// the upscale factor is floor(RenderTargetEdge / size), at least 1.
const RenderTargetEdge = 512

// gridlineColor is the fixed light-gray stroke of the optional overlay.
var gridlineColor = color.NRGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}

// RenderService rasterizes a grid into a PNG: one pixel per cell on a white
// background, nearest-neighbor upscaled so cells stay hard-edged, with an
// optional gridline overlay.
type RenderService struct{}

// NewRenderService creates a RenderService.
func NewRenderService() *RenderService {
	return &RenderService{}
}

// Scale returns the upscale factor for a grid of side size.
func (s *RenderService) Scale(size int) int {
	if size <= 0 {
		return 1
	}
	scale := RenderTargetEdge / size
	if scale < 1 {
		scale = 1
	}
	return scale
}

// EncodePNG renders the buffer as a PNG of edge size*Scale(size).
func (s *RenderService) EncodePNG(size int, pixels domain.PixelBuffer, showGrid bool) ([]byte, error) {
	size = domain.ClampGridSize(size)

	// 1 cell = 1 pixel, white background, empty cells stay white.
	base := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(base, base.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for i, px := range pixels {
		if px == nil || i >= size*size {
			continue
		}
		c, ok := parseHexColor(*px)
		if !ok {
			continue
		}
		base.SetNRGBA(i%size, i/size, c)
	}

	// Nearest-neighbor replication keeps pixel edges hard; no smoothing.
	scale := s.Scale(size)
	edge := size * scale
	out := imaging.Resize(base, edge, edge, imaging.NearestNeighbor)

	if showGrid {
		drawGridlines(out, size, scale)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGridlines overlays 1-pixel lines at every cell boundary.
func drawGridlines(img *image.NRGBA, size, scale int) {
	edge := size * scale
	for k := 0; k <= size; k++ {
		pos := k * scale
		if pos >= edge {
			pos = edge - 1
		}
		for i := 0; i < edge; i++ {
			img.SetNRGBA(pos, i, gridlineColor)
			img.SetNRGBA(i, pos, gridlineColor)
		}
	}
}

// parseHexColor parses "#rrggbb" and "#rgb" color strings.
func parseHexColor(s string) (color.NRGBA, bool) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, false
	}
	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	switch len(s) {
	case 7: // #rrggbb
		var v [6]uint8
		for i := 0; i < 6; i++ {
			n, ok := hexVal(s[i+1])
			if !ok {
				return color.NRGBA{}, false
			}
			v[i] = n
		}
		return color.NRGBA{
			R: v[0]<<4 | v[1],
			G: v[2]<<4 | v[3],
			B: v[4]<<4 | v[5],
			A: 0xff,
		}, true
	case 4: // #rgb
		var v [3]uint8
		for i := 0; i < 3; i++ {
			n, ok := hexVal(s[i+1])
			if !ok {
				return color.NRGBA{}, false
			}
			v[i] = n
		}
		return color.NRGBA{
			R: v[0]<<4 | v[0],
			G: v[1]<<4 | v[1],
			B: v[2]<<4 | v[2],
			A: 0xff,
		}, true
	}
	return color.NRGBA{}, false
}
