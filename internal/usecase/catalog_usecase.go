package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/cache"
	"ultimate-kits/pkg/logger"

	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"
)

const (
	catalogCacheKey = "catalog:snapshot"
	// A failed load is kept briefly so a dead feed is not hammered by every request.
	failedCatalogTTL = 30 * time.Second
)

// BrowseRequest is one catalog render request from a visitor.
type BrowseRequest struct {
	Query   string
	Filters domain.FilterState
	Page    int
	Fetch   domain.FetchOptions
}

// CatalogUsecase owns the product catalog: it loads the feed, normalizes it into an
// immutable snapshot and serves filtered, paginated views of it.
type CatalogUsecase struct {
	source     domain.FeedSource
	normalizer *Normalizer
	cache      cache.CacheService
	ttl        time.Duration
	pageSize   int

	group      singleflight.Group
	generation atomic.Uint64
	now        func() time.Time
}

func NewCatalogUsecase(source domain.FeedSource, normalizer *Normalizer, cache cache.CacheService, ttl time.Duration, pageSize int) *CatalogUsecase {
	if pageSize < 1 {
		pageSize = 20
	}
	return &CatalogUsecase{
		source:     source,
		normalizer: normalizer,
		cache:      cache,
		ttl:        ttl,
		pageSize:   pageSize,
		now:        time.Now,
	}
}

// Snapshot returns the current catalog, loading it when missing or expired.
func (uc *CatalogUsecase) Snapshot(ctx context.Context, opts domain.FetchOptions) *domain.CatalogSnapshot {
	if val, found := uc.cache.Get(catalogCacheKey); found {
		if snap, ok := val.(*domain.CatalogSnapshot); ok {
			return snap
		}
	}
	return uc.load(ctx, opts)
}

// LoadProducts returns the catalog's products. It never fails: when the feed cannot be
// loaded the catalog is empty and the failure is logged.
func (uc *CatalogUsecase) LoadProducts(ctx context.Context, opts domain.FetchOptions) []*domain.Product {
	return uc.Snapshot(ctx, opts).Products
}

// Reload discards the cached snapshot and loads the feed again. It never joins a load
// that was already in flight, so the result reflects a fetch started after the call.
func (uc *CatalogUsecase) Reload(ctx context.Context, opts domain.FetchOptions) *domain.CatalogSnapshot {
	uc.cache.Delete(catalogCacheKey)
	uc.group.Forget(catalogCacheKey)
	return uc.load(ctx, opts)
}

// load collapses concurrent loads into one feed fetch.
func (uc *CatalogUsecase) load(ctx context.Context, opts domain.FetchOptions) *domain.CatalogSnapshot {
	v, _, _ := uc.group.Do(catalogCacheKey, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		snap, err := uc.fetchSnapshot(loadCtx, opts)
		// A slower load that started before a reload must not replace its result.
		if cached, ok := uc.cache.Get(catalogCacheKey); ok {
			if newer, ok := cached.(*domain.CatalogSnapshot); ok && newer.Generation > snap.Generation {
				return newer, nil
			}
		}
		ttl := uc.ttl
		if err != nil {
			logger.WithContext(ctx).Error().Err(err).Msg("Failed to load product catalog, serving empty catalog")
			ttl = min(uc.ttl, failedCatalogTTL)
		}
		uc.cache.Set(catalogCacheKey, snap, ttl)
		return snap, nil
	})
	return v.(*domain.CatalogSnapshot)
}

// fetchSnapshot always returns a usable snapshot; on error it is empty.
func (uc *CatalogUsecase) fetchSnapshot(ctx context.Context, opts domain.FetchOptions) (*domain.CatalogSnapshot, error) {
	start := uc.now()
	snap := &domain.CatalogSnapshot{
		Products:   []*domain.Product{},
		Generation: uc.generation.Add(1),
		LoadedAt:   start,
	}

	payload, err := uc.source.Fetch(ctx, opts)
	if err != nil {
		return snap, err
	}
	snap.Source = payload.Source

	products, records, err := uc.normalizer.NormalizeFeed(ctx, payload.Body)
	if err != nil {
		return snap, err
	}
	snap.Products = products
	logger.FeedLoaded(ctx, payload.Source, records, len(products), time.Since(start))
	return snap, nil
}

// Product looks a product up by id in the current snapshot.
func (uc *CatalogUsecase) Product(ctx context.Context, id string, opts domain.FetchOptions) (*domain.Product, error) {
	p, ok := uc.Snapshot(ctx, opts).ByID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// TopSellers returns the products flagged by feed position.
func (uc *CatalogUsecase) TopSellers(ctx context.Context, opts domain.FetchOptions) []*domain.Product {
	return lo.Filter(uc.Snapshot(ctx, opts).Products, func(p *domain.Product, _ int) bool {
		return p.IsTopSeller
	})
}

// Browse renders a page of the catalog for a visitor and updates their view state.
func (uc *CatalogUsecase) Browse(ctx context.Context, sess *BrowsingSession, req BrowseRequest) *domain.CatalogPage {
	snap := uc.Snapshot(ctx, req.Fetch)

	sess.Lock()
	defer sess.Unlock()

	view := &sess.View
	view.Sync(snap.Generation)
	view.Apply(req.Query, req.Filters, req.Page)

	filtered := FilterProducts(snap.Products, view.Filters, view.Query)
	totalPages := TotalPages(len(filtered), uc.pageSize)
	view.Page = ClampPage(view.Page, totalPages)

	items := lo.Map(PageSlice(filtered, view.Page, uc.pageSize), func(p *domain.Product, _ int) domain.CatalogItem {
		img, ok := view.Cursor(p).Current()
		return domain.CatalogItem{Product: p, CurrentImage: img, ImageUnavailable: !ok}
	})

	return &domain.CatalogPage{
		Items:      items,
		Query:      view.Query,
		Filters:    view.Filters,
		Options:    AvailableOptions(snap.Products, view.Filters),
		Page:       view.Page,
		PageSize:   uc.pageSize,
		TotalItems: len(filtered),
		TotalPages: totalPages,
		Window:     PageWindow(view.Page, totalPages),
		Generation: snap.Generation,
		LoadedAt:   snap.LoadedAt,
	}
}

// ProductImage returns the image a visitor should currently see for a product.
func (uc *CatalogUsecase) ProductImage(ctx context.Context, sess *BrowsingSession, productID string, opts domain.FetchOptions) (string, bool, error) {
	return uc.withCursor(ctx, sess, productID, opts, func(c *domain.ImageCursor) (string, bool) {
		return c.Current()
	})
}

// ImageFailed records that the visitor could not load the current image and returns the
// next candidate, or the placeholder once every candidate has failed.
func (uc *CatalogUsecase) ImageFailed(ctx context.Context, sess *BrowsingSession, productID string, opts domain.FetchOptions) (string, bool, error) {
	return uc.withCursor(ctx, sess, productID, opts, func(c *domain.ImageCursor) (string, bool) {
		return c.Advance()
	})
}

func (uc *CatalogUsecase) withCursor(ctx context.Context, sess *BrowsingSession, productID string, opts domain.FetchOptions, fn func(*domain.ImageCursor) (string, bool)) (string, bool, error) {
	snap := uc.Snapshot(ctx, opts)
	p, ok := snap.ByID(productID)
	if !ok {
		return "", false, domain.ErrProductNotFound
	}

	sess.Lock()
	defer sess.Unlock()
	sess.View.Sync(snap.Generation)
	url, available := fn(sess.View.Cursor(p))
	return url, available, nil
}

// Status summarizes the cached snapshot without triggering a load.
func (uc *CatalogUsecase) Status() (generation uint64, products int, loadedAt time.Time, loaded bool) {
	val, found := uc.cache.Get(catalogCacheKey)
	if !found {
		return 0, 0, time.Time{}, false
	}
	snap, ok := val.(*domain.CatalogSnapshot)
	if !ok {
		return 0, 0, time.Time{}, false
	}
	return snap.Generation, len(snap.Products), snap.LoadedAt, true
}
