package domain

// DocumentVersion is the current export format version.
const DocumentVersion = 1

// DocumentMeta carries non-pixel metadata of an exported document.
type DocumentMeta struct {
	CreatedAt int64 `json:"createdAt"` // epoch milliseconds
}

// Document is the versioned export/import payload of a board:
// {version, size, pixels, palette, meta}. Pixels serialize as an array of
// color strings and nulls, matching the grid buffer one to one.
type Document struct {
	Version int          `json:"version"`
	Size    int          `json:"size"`
	Pixels  PixelBuffer  `json:"pixels"`
	Palette []string     `json:"palette"`
	Meta    DocumentMeta `json:"meta"`
}
