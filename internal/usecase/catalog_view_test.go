package usecase

import (
	"testing"

	"ultimate-kits/internal/domain"

	"github.com/stretchr/testify/assert"
)

func tagged(id, team, league, version, edition string) *domain.Product {
	return &domain.Product{ID: id, Team: team, League: league, Version: version, Edition: edition, SearchText: id}
}

func TestAvailableOptionsUseOtherFilters(t *testing.T) {
	products := []*domain.Product{
		tagged("1", "Madrid", "LaLiga", "Fan", "2024"),
		tagged("2", "Barcelona", "LaLiga", "Player", "2024"),
		tagged("3", "Milan", "Serie A", "Fan", "Retro"),
		tagged("4", "", "Serie A", "", ""),
	}

	opts := AvailableOptions(products, domain.FilterState{League: "LaLiga"})
	assert.Equal(t, []string{"Madrid", "Barcelona"}, opts.Teams)
	// League options ignore the league filter itself.
	assert.Equal(t, []string{"LaLiga", "Serie A"}, opts.Leagues)
	assert.Equal(t, []string{"Fan", "Player"}, opts.Versions)
	assert.Equal(t, []string{"2024"}, opts.Editions)
}

func TestAvailableOptionsKeepSelectedValue(t *testing.T) {
	products := []*domain.Product{
		tagged("1", "Madrid", "LaLiga", "Fan", "2024"),
		tagged("3", "Milan", "Serie A", "Fan", "Retro"),
	}
	filters := domain.FilterState{Team: "Madrid", League: "Serie A"}

	opts := AvailableOptions(products, filters)
	assert.Contains(t, opts.Teams, "Madrid")
	assert.Contains(t, opts.Leagues, "Serie A")
	assert.Equal(t, []string{"Milan", "Madrid"}, opts.Teams)

	for _, dim := range domain.FilterDimensions {
		if v := filters.Value(dim); v != "" {
			assert.Contains(t, opts.For(dim), v)
		}
	}
}

func TestFilterProductsEmptyQueryKeepsTagMatches(t *testing.T) {
	products := []*domain.Product{
		tagged("1", "Madrid", "LaLiga", "Fan", ""),
		tagged("2", "Milan", "Serie A", "Fan", ""),
	}
	filters := domain.FilterState{Version: "Fan"}
	assert.Equal(t, FilterProducts(products, filters, ""), FilterProducts(products, filters, "   "))
	assert.Len(t, FilterProducts(products, filters, ""), 2)
	assert.Len(t, FilterProducts(products, domain.FilterState{Team: "Milan", Version: "Fan"}, ""), 1)
}

func TestPageWindow(t *testing.T) {
	link := func(p int, cur bool) domain.PageLink { return domain.PageLink{Page: p, Current: cur} }
	gap := domain.PageLink{Ellipsis: true}

	assert.Equal(t, []domain.PageLink{link(1, true)}, PageWindow(1, 1))
	assert.Equal(t, []domain.PageLink{link(1, true), link(2, false), gap, link(10, false)}, PageWindow(1, 10))
	assert.Equal(t, []domain.PageLink{link(1, false), gap, link(4, false), link(5, true), link(6, false), gap, link(10, false)}, PageWindow(5, 10))
	assert.Equal(t, []domain.PageLink{link(1, false), link(2, false), link(3, true), link(4, false)}, PageWindow(3, 4))
	assert.Nil(t, PageWindow(1, 0))
}

func TestPaginationHelpers(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))

	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 3, ClampPage(7, 3))
	assert.Equal(t, 1, ClampPage(2, 0))

	products := []*domain.Product{tagged("a", "", "", "", ""), tagged("b", "", "", "", ""), tagged("c", "", "", "", "")}
	assert.Len(t, PageSlice(products, 2, 2), 1)
	assert.Nil(t, PageSlice(products, 3, 2))
}

func TestCatalogViewApplyResetsPage(t *testing.T) {
	v := NewCatalogView()
	v.Apply("", domain.FilterState{}, 4)
	assert.Equal(t, 4, v.Page)

	v.Apply("camiseta", domain.FilterState{}, 4)
	assert.Equal(t, 1, v.Page)

	v.Apply("camiseta", domain.FilterState{}, 3)
	assert.Equal(t, 3, v.Page)

	v.Apply("camiseta", domain.FilterState{Edition: "Retro"}, 3)
	assert.Equal(t, 1, v.Page)
}

func TestImageCursor(t *testing.T) {
	c := domain.NewImageCursor([]string{"a", "b"})
	url, ok := c.Current()
	assert.Equal(t, "a", url)
	assert.True(t, ok)

	url, ok = c.Advance()
	assert.Equal(t, "b", url)
	assert.True(t, ok)

	url, ok = c.Advance()
	assert.Equal(t, domain.ImagePlaceholderURL, url)
	assert.False(t, ok)
	assert.True(t, c.Exhausted())

	// Exhaustion is terminal.
	_, ok = c.Advance()
	assert.False(t, ok)
	assert.Equal(t, -1, c.Position())

	_, ok = domain.NewImageCursor(nil).Current()
	assert.False(t, ok)
}
