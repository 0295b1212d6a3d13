package domain

// MaxPaletteSize caps how many swatches a palette can hold.
const MaxPaletteSize = 24

// DefaultColor is the current color a fresh editor starts with.
const DefaultColor = "#1f2937"

// DefaultPalette returns the 7 starter swatches of a fresh board.
func DefaultPalette() []string {
	return []string{
		"#1f2937", // near-black
		"#ef4444", // red
		"#f59e0b", // amber
		"#10b981", // green
		"#3b82f6", // blue
		"#8b5cf6", // violet
		"#ffffff", // white
	}
}

// Palette is an ordered set of unique color strings, most recently added
// first, capped at MaxPaletteSize.
type Palette struct {
	Colors []string
}

// NewPalette builds a palette from the given colors, preserving order and
// dropping duplicates and overflow.
func NewPalette(colors []string) *Palette {
	p := &Palette{}
	for i := len(colors) - 1; i >= 0; i-- {
		p.Add(colors[i])
	}
	return p
}

// Add inserts color at the front. An existing occurrence is moved to the
// front instead of duplicated; the oldest swatch falls off past the cap.
// Returns false when the palette is unchanged (color already at the front).
func (p *Palette) Add(color string) bool {
	if len(p.Colors) > 0 && p.Colors[0] == color {
		return false
	}
	next := make([]string, 0, len(p.Colors)+1)
	next = append(next, color)
	for _, c := range p.Colors {
		if c != color {
			next = append(next, c)
		}
	}
	if len(next) > MaxPaletteSize {
		next = next[:MaxPaletteSize]
	}
	p.Colors = next
	return true
}

// Remove deletes color from the palette. Returns false when absent.
func (p *Palette) Remove(color string) bool {
	for i, c := range p.Colors {
		if c == color {
			p.Colors = append(p.Colors[:i], p.Colors[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the swatch list.
func (p *Palette) Clone() []string {
	out := make([]string, len(p.Colors))
	copy(out, p.Colors)
	return out
}
