package usecase

import (
	"context"
	"fmt"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

// ScriptFeed reads the raw product feed straight from the script endpoint.
type ScriptFeed interface {
	FetchScript(ctx context.Context) ([]byte, error)
}

// ProductsProxyUsecase republishes the script feed with Drive images pointed at this server.
type ProductsProxyUsecase struct {
	feed ScriptFeed
}

func NewProductsProxyUsecase(feed ScriptFeed) *ProductsProxyUsecase {
	return &ProductsProxyUsecase{feed: feed}
}

// Products returns the feed records untouched except for their images. Fields this
// server does not know about pass through as they are.
func (uc *ProductsProxyUsecase) Products(ctx context.Context, baseURL string) ([]map[string]interface{}, error) {
	body, err := uc.feed.FetchScript(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedFeed, err)
	}

	records = lo.Filter(records, func(item map[string]interface{}, _ int) bool { return item != nil })
	for _, item := range records {
		rewriteImages(item, baseURL)
	}
	logger.WithContext(ctx).Info().Int("count", len(records)).Msg("Products proxied")
	return records, nil
}

func rewriteImages(item map[string]interface{}, baseURL string) {
	proxied := func(raw string) (string, bool) {
		id, ok := ExtractDriveFileID(raw)
		if !ok {
			return raw, false
		}
		return ProxyImageURL(baseURL, id, defaultImageSize), true
	}

	switch images := item["images"].(type) {
	case []interface{}:
		originals := append([]interface{}(nil), images...)
		rewritten := lo.Map(images, func(v interface{}, _ int) interface{} {
			if s, ok := v.(string); ok {
				u, _ := proxied(s)
				return u
			}
			return v
		})
		item["original_images"] = originals
		item["images"] = rewritten
	case string:
		if u, ok := proxied(images); ok {
			item["original_images"] = []interface{}{images}
			item["images"] = []interface{}{u}
		}
	}
}
