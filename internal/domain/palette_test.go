package domain_test

import (
	"testing"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPalette_AddFrontAndDedupe(t *testing.T) {
	p := domain.NewPalette(domain.DefaultPalette())
	require.Len(t, p.Colors, 7)

	assert.True(t, p.Add("#123456"))
	assert.Len(t, p.Colors, 8)
	assert.Equal(t, "#123456", p.Colors[0], "new swatch goes to the front")

	// Re-adding the same color keeps the length at 8.
	assert.False(t, p.Add("#123456"))
	assert.Len(t, p.Colors, 8)
}

func TestPalette_AddMovesExistingToFront(t *testing.T) {
	p := domain.NewPalette([]string{"#aaa", "#bbb", "#ccc"})

	assert.True(t, p.Add("#ccc"))
	assert.Equal(t, []string{"#ccc", "#aaa", "#bbb"}, p.Colors)
}

func TestPalette_Cap(t *testing.T) {
	p := domain.NewPalette(nil)
	for i := 0; i < domain.MaxPaletteSize+5; i++ {
		p.Add(hexOf(i))
	}
	assert.Len(t, p.Colors, domain.MaxPaletteSize)
	// Most recent adds survive, oldest fall off.
	assert.Equal(t, hexOf(domain.MaxPaletteSize+4), p.Colors[0])
}

func TestPalette_Remove(t *testing.T) {
	p := domain.NewPalette([]string{"#aaa", "#bbb"})

	assert.True(t, p.Remove("#aaa"))
	assert.Equal(t, []string{"#bbb"}, p.Colors)
	assert.False(t, p.Remove("#zzz"))
}

func hexOf(i int) string {
	const digits = "0123456789abcdef"
	return "#" + string([]byte{
		digits[(i>>8)&0xf], digits[(i>>4)&0xf], digits[i&0xf],
		'0', '0', '0',
	})
}
