package domain

// Grid size bounds. Anything outside is clamped, never rejected.
const (
	MinGridSize = 2
	MaxGridSize = 256
)

// PixelBuffer is the backing store of a grid: a flat row-major sequence of
// cells, each holding an opaque color string (e.g. "#ff0000") or nil for an
// empty cell. For a grid of side N the buffer length is always N*N and cell
// (x, y) lives at index y*N + x.
type PixelBuffer []*string

// Clone returns an independent copy of the buffer. The color strings
// themselves are immutable, so sharing the pointers is safe.
func (p PixelBuffer) Clone() PixelBuffer {
	if p == nil {
		return nil
	}
	out := make(PixelBuffer, len(p))
	copy(out, p)
	return out
}

// Equal reports whether two buffers hold the same cell values.
func (p PixelBuffer) Equal(other PixelBuffer) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !samePixel(p[i], other[i]) {
			return false
		}
	}
	return true
}

func samePixel(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Grid is a square drawing surface of side Size.
type Grid struct {
	Size   int
	Pixels PixelBuffer
}

// ClampGridSize clamps n to [MinGridSize, MaxGridSize].
func ClampGridSize(n int) int {
	if n < MinGridSize {
		return MinGridSize
	}
	if n > MaxGridSize {
		return MaxGridSize
	}
	return n
}

// NewGrid creates an all-empty grid of side n (clamped).
func NewGrid(n int) *Grid {
	n = ClampGridSize(n)
	return &Grid{
		Size:   n,
		Pixels: make(PixelBuffer, n*n),
	}
}

// Index maps cell coordinates to the flat buffer position.
func (g *Grid) Index(x, y int) int {
	return y*g.Size + x
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Size && y >= 0 && y < g.Size
}

// At returns the cell value at (x, y), or nil when out of bounds or empty.
func (g *Grid) At(x, y int) *string {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.Pixels[g.Index(x, y)]
}

// Resize sets the grid side to n (clamped). When the existing buffer no
// longer matches the new cell count it is replaced with an all-empty buffer;
// existing content is discarded, not resampled. Resizing to the current side
// keeps the content untouched.
func (g *Grid) Resize(n int) {
	n = ClampGridSize(n)
	g.Size = n
	if len(g.Pixels) != n*n {
		g.Pixels = make(PixelBuffer, n*n)
	}
}

// Paint sets the cell at (x, y) to value (nil erases). It returns false
// without touching the buffer when the coordinate is out of bounds or the
// cell already holds exactly that value, so redundant paints stay cheap and
// never warrant a history entry on their own.
func (g *Grid) Paint(x, y int, value *string) bool {
	if !g.InBounds(x, y) {
		return false
	}
	idx := g.Index(x, y)
	if samePixel(g.Pixels[idx], value) {
		return false
	}
	// Copy-on-write: readers holding the previous buffer keep seeing a
	// consistent snapshot.
	next := g.Pixels.Clone()
	next[idx] = value
	g.Pixels = next
	return true
}

// Fill sets every cell to the given color.
func (g *Grid) Fill(color string) {
	next := make(PixelBuffer, g.Size*g.Size)
	for i := range next {
		c := color
		next[i] = &c
	}
	g.Pixels = next
}

// Clear sets every cell to empty.
func (g *Grid) Clear() {
	g.Pixels = make(PixelBuffer, g.Size*g.Size)
}

// SetPixels replaces the whole buffer. Used by undo/redo and import; the
// length is intentionally not validated against Size*Size (see import notes
// in the document service).
func (g *Grid) SetPixels(pixels PixelBuffer) {
	g.Pixels = pixels.Clone()
}
