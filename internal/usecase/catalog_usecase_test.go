package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ultimate-kits/internal/domain"
	memcache "ultimate-kits/internal/infrastructure/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeedSource struct {
	mu    sync.Mutex
	body  string
	err   error
	delay time.Duration
	calls int32
}

func (f *fakeFeedSource) Fetch(ctx context.Context, _ domain.FetchOptions) (*domain.FeedPayload, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &domain.FeedPayload{Body: []byte(f.body), Source: "script"}, nil
}

func (f *fakeFeedSource) set(body string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.body, f.err = body, err
}

func newTestCatalog(src domain.FeedSource, pageSize int) *CatalogUsecase {
	return NewCatalogUsecase(src, NewNormalizer(proxyBase, 25, 10), memcache.NewMemoryCache(time.Minute, time.Minute), time.Minute, pageSize)
}

// feedOf builds n records cycling through two teams and two leagues.
func feedOf(n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		team, league := "Madrid", "LaLiga"
		if i%2 == 1 {
			team, league = "Milan", "Serie A"
		}
		fmt.Fprintf(&b, `{"id":"p%d","title":"Kit %d","equipo":%q,"liga":%q,"version":"Fan","image":"https://cdn.kits.test/%d.png"}`, i, i, team, league, i)
	}
	b.WriteString("]")
	return b.String()
}

func TestLoadProductsDegradesToEmptyCatalog(t *testing.T) {
	src := &fakeFeedSource{err: fmt.Errorf("%w: proxy: boom; script: boom", domain.ErrFeedExhausted)}
	uc := newTestCatalog(src, 20)

	products := uc.LoadProducts(context.Background(), domain.FetchOptions{})
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestSnapshotIsCachedAndReloadBumpsGeneration(t *testing.T) {
	src := &fakeFeedSource{body: feedOf(3)}
	uc := newTestCatalog(src, 20)
	ctx := context.Background()

	first := uc.Snapshot(ctx, domain.FetchOptions{})
	second := uc.Snapshot(ctx, domain.FetchOptions{})
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))

	src.set(feedOf(5), nil)
	reloaded := uc.Reload(ctx, domain.FetchOptions{})
	assert.Len(t, reloaded.Products, 5)
	assert.Greater(t, reloaded.Generation, first.Generation)

	gen, count, _, loaded := uc.Status()
	assert.True(t, loaded)
	assert.Equal(t, reloaded.Generation, gen)
	assert.Equal(t, 5, count)
}

// gatedFeed holds its first fetch until release is closed; later fetches answer at once.
type gatedFeed struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (f *gatedFeed) Fetch(context.Context, domain.FetchOptions) (*domain.FeedPayload, error) {
	if f.calls.Add(1) == 1 {
		close(f.started)
		<-f.release
		return &domain.FeedPayload{Body: []byte(feedOf(1)), Source: "script"}, nil
	}
	return &domain.FeedPayload{Body: []byte(feedOf(4)), Source: "script"}, nil
}

func TestReloadDoesNotJoinInFlightLoad(t *testing.T) {
	src := &gatedFeed{started: make(chan struct{}), release: make(chan struct{})}
	uc := newTestCatalog(src, 20)
	ctx := context.Background()

	stale := make(chan *domain.CatalogSnapshot, 1)
	go func() { stale <- uc.Snapshot(ctx, domain.FetchOptions{}) }()
	<-src.started

	reloaded := make(chan *domain.CatalogSnapshot, 1)
	go func() { reloaded <- uc.Reload(ctx, domain.FetchOptions{}) }()

	var fresh *domain.CatalogSnapshot
	select {
	case fresh = <-reloaded:
	case <-time.After(2 * time.Second):
		close(src.release)
		t.Fatal("reload waited for the load that was already running")
	}
	assert.Len(t, fresh.Products, 4)

	close(src.release)
	<-stale
	assert.Same(t, fresh, uc.Snapshot(ctx, domain.FetchOptions{}))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	src := &fakeFeedSource{body: feedOf(2), delay: 50 * time.Millisecond}
	uc := newTestCatalog(src, 20)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, uc.LoadProducts(context.Background(), domain.FetchOptions{}), 2)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestBrowseFiltersSearchAndPaginates(t *testing.T) {
	uc := newTestCatalog(&fakeFeedSource{body: feedOf(50)}, 20)
	sess := &BrowsingSession{ID: "s1", View: NewCatalogView()}
	ctx := context.Background()

	page := uc.Browse(ctx, sess, BrowseRequest{})
	assert.Equal(t, 50, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 20)

	page = uc.Browse(ctx, sess, BrowseRequest{Page: 3})
	assert.Equal(t, 3, page.Page)
	assert.Len(t, page.Items, 10)

	// Changing a filter resets to page 1 even when page 3 is requested.
	page = uc.Browse(ctx, sess, BrowseRequest{Filters: domain.FilterState{Team: "Milan"}, Page: 3})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 25, page.TotalItems)
	for _, it := range page.Items {
		assert.Equal(t, "Milan", it.Team)
	}

	// Out of range pages clamp to the last page.
	page = uc.Browse(ctx, sess, BrowseRequest{Filters: domain.FilterState{Team: "Milan"}, Page: 9})
	assert.Equal(t, 2, page.Page)

	page = uc.Browse(ctx, sess, BrowseRequest{Query: "  KIT 49 ", Filters: domain.FilterState{Team: "Milan"}, Page: 2})
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "p49", page.Items[0].ID)
}

func TestBrowseEmptyCatalog(t *testing.T) {
	uc := newTestCatalog(&fakeFeedSource{err: errors.New("down")}, 20)
	page := uc.Browse(context.Background(), &BrowsingSession{View: NewCatalogView()}, BrowseRequest{Page: 4})
	assert.Equal(t, 1, page.Page)
	assert.Zero(t, page.TotalPages)
	assert.Empty(t, page.Items)
	assert.Empty(t, page.Window)
}

func TestImageFallbackCursorResetsOnReload(t *testing.T) {
	src := &fakeFeedSource{body: `[{"id":"d1","title":"Drive","images":["https://drive.google.com/open?id=ABC123"]}]`}
	uc := newTestCatalog(src, 20)
	sess := &BrowsingSession{View: NewCatalogView()}
	ctx := context.Background()

	first, ok, err := uc.ProductImage(ctx, sess, "d1", domain.FetchOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, first, "/api/products/image/ABC123")

	p, err := uc.Product(ctx, "d1", domain.FetchOptions{})
	require.NoError(t, err)

	var last string
	for i := 0; i < len(p.Images); i++ {
		last, ok, err = uc.ImageFailed(ctx, sess, "d1", domain.FetchOptions{})
		require.NoError(t, err)
	}
	assert.False(t, ok)
	assert.Equal(t, domain.ImagePlaceholderURL, last)

	uc.Reload(ctx, domain.FetchOptions{})
	again, ok, err := uc.ProductImage(ctx, sess, "d1", domain.FetchOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, first, again)

	_, _, err = uc.ImageFailed(ctx, sess, "missing", domain.FetchOptions{})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestTopSellers(t *testing.T) {
	uc := newTestCatalog(&fakeFeedSource{body: feedOf(15)}, 20)
	assert.Len(t, uc.TopSellers(context.Background(), domain.FetchOptions{}), 10)
}
