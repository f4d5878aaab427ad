package domain

import "context"

// ImagePlaceholderURL is rendered once every candidate for a product has failed.
const ImagePlaceholderURL = "https://via.placeholder.com/500x600/FFFFFF/D20000?text=Imagen+no+disponible"

// ImageCursor walks a product's ordered image candidates. Once advanced past the
// last candidate it stays exhausted and only yields the placeholder.
type ImageCursor struct {
	candidates []string
	index      int
}

func NewImageCursor(candidates []string) *ImageCursor {
	c := &ImageCursor{candidates: candidates}
	if len(candidates) == 0 {
		c.index = -1
	}
	return c
}

// Current returns the candidate to render and false when the cursor is exhausted.
func (c *ImageCursor) Current() (string, bool) {
	if c.Exhausted() {
		return ImagePlaceholderURL, false
	}
	return c.candidates[c.index], true
}

// Advance records a load failure of the current candidate and moves to the next one.
func (c *ImageCursor) Advance() (string, bool) {
	if !c.Exhausted() {
		c.index++
		if c.index >= len(c.candidates) {
			c.index = -1
		}
	}
	return c.Current()
}

func (c *ImageCursor) Exhausted() bool {
	return c.index < 0
}

// Position is the zero-based index of the current candidate, or -1 once exhausted.
func (c *ImageCursor) Position() int {
	return c.index
}

// ImageBlob is an encoded image and where it came from.
type ImageBlob struct {
	Data        []byte
	ContentType string
	Source      string
}

// ImageFetcher retrieves the original bytes of a Drive file.
type ImageFetcher interface {
	Name() string
	Fetch(ctx context.Context, fileID, size string) (*ImageBlob, error)
}

// ObjectStore persists processed images outside the process.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}
