package usecase

import (
	"context"
	"testing"

	"ultimate-kits/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticScript struct {
	body string
	err  error
}

func (s staticScript) FetchScript(context.Context) ([]byte, error) {
	return []byte(s.body), s.err
}

func TestProductsProxyRewritesDriveImages(t *testing.T) {
	feed := staticScript{body: `[
		{"id": 1, "images": ["https://drive.google.com/file/d/FILEID123456/view", "https://cdn.test/a.jpg"], "extra": "kept"},
		{"id": 2, "images": "https://drive.google.com/uc?id=OTHERID98765"},
		{"id": 3, "images": "https://cdn.test/b.jpg"},
		null
	]`}
	uc := NewProductsProxyUsecase(feed)

	items, err := uc.Products(context.Background(), "http://api.test/")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, []interface{}{
		"http://api.test/api/products/image/FILEID123456?size=w1000",
		"https://cdn.test/a.jpg",
	}, items[0]["images"])
	assert.Equal(t, []interface{}{
		"https://drive.google.com/file/d/FILEID123456/view",
		"https://cdn.test/a.jpg",
	}, items[0]["original_images"])
	assert.Equal(t, "kept", items[0]["extra"])

	assert.Equal(t, []interface{}{"http://api.test/api/products/image/OTHERID98765?size=w1000"}, items[1]["images"])
	assert.Equal(t, []interface{}{"https://drive.google.com/uc?id=OTHERID98765"}, items[1]["original_images"])

	assert.Equal(t, "https://cdn.test/b.jpg", items[2]["images"])
	assert.NotContains(t, items[2], "original_images")
}

func TestProductsProxyErrors(t *testing.T) {
	_, err := NewProductsProxyUsecase(staticScript{err: errBoom}).Products(context.Background(), "http://api.test")
	assert.ErrorIs(t, err, errBoom)

	_, err = NewProductsProxyUsecase(staticScript{body: `{"not":"a list"}`}).Products(context.Background(), "http://api.test")
	assert.ErrorIs(t, err, domain.ErrMalformedFeed)
}
