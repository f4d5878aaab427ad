package usecase

import (
	"ultimate-kits/internal/domain"

	"github.com/samber/lo"
)

// CatalogView is one visitor's browsing state over the catalog.
type CatalogView struct {
	Query   string
	Filters domain.FilterState
	Page    int

	generation uint64
	cursors    map[string]*domain.ImageCursor
}

func NewCatalogView() CatalogView {
	return CatalogView{Page: 1, cursors: map[string]*domain.ImageCursor{}}
}

// Apply sets search and filters. Any change to either sends the visitor back to page 1;
// otherwise the requested page is kept (clamping happens at render time).
func (v *CatalogView) Apply(query string, filters domain.FilterState, page int) {
	if query != v.Query || filters != v.Filters {
		v.Query = query
		v.Filters = filters
		v.Page = 1
		return
	}
	if page > 0 {
		v.Page = page
	}
}

// Sync drops every image cursor when the catalog has been reloaded since they were made.
func (v *CatalogView) Sync(generation uint64) {
	if v.cursors == nil || v.generation != generation {
		v.cursors = map[string]*domain.ImageCursor{}
		v.generation = generation
	}
}

// Cursor returns the image cursor for p, creating it at the first candidate.
func (v *CatalogView) Cursor(p *domain.Product) *domain.ImageCursor {
	if v.cursors == nil {
		v.cursors = map[string]*domain.ImageCursor{}
	}
	c, ok := v.cursors[p.ID]
	if !ok {
		c = domain.NewImageCursor(p.Images)
		v.cursors[p.ID] = c
	}
	return c
}

// FilterProducts applies the tag filters and then the search query, keeping feed order.
func FilterProducts(products []*domain.Product, filters domain.FilterState, query string) []*domain.Product {
	folded := FoldSearch(query)
	return lo.Filter(products, func(p *domain.Product, _ int) bool {
		return filters.Matches(p) && p.MatchesQuery(folded)
	})
}

// AvailableOptions computes, for each dimension, the values present among products that
// match the other three active filters. A selected value always stays in its own list.
func AvailableOptions(products []*domain.Product, filters domain.FilterState) domain.AvailableOptions {
	optionsFor := func(dim domain.FilterDimension) []string {
		others := filters.Without(dim)
		values := lo.FilterMap(products, func(p *domain.Product, _ int) (string, bool) {
			tag := p.Tag(dim)
			return tag, tag != "" && others.Matches(p)
		})
		values = lo.Uniq(values)
		if selected := filters.Value(dim); selected != "" && !lo.Contains(values, selected) {
			values = append(values, selected)
		}
		return values
	}
	return domain.AvailableOptions{
		Teams:    optionsFor(domain.DimensionTeam),
		Leagues:  optionsFor(domain.DimensionLeague),
		Versions: optionsFor(domain.DimensionVersion),
		Editions: optionsFor(domain.DimensionEdition),
	}
}

// TotalPages is ceil(n / size).
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage bounds page to [1, totalPages], treating an empty result as a single page.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageSlice returns the products shown on page.
func PageSlice(products []*domain.Product, page, size int) []*domain.Product {
	start := (page - 1) * size
	if start < 0 || start >= len(products) {
		return nil
	}
	return products[start:min(start+size, len(products))]
}

// PageWindow renders the pagination control: first, last, current and its neighbours,
// with an ellipsis wherever pages are skipped.
func PageWindow(current, totalPages int) []domain.PageLink {
	var links []domain.PageLink
	prev := 0
	for p := 1; p <= totalPages; p++ {
		if p != 1 && p != totalPages && (p < current-1 || p > current+1) {
			continue
		}
		if prev > 0 && p-prev > 1 {
			links = append(links, domain.PageLink{Ellipsis: true})
		}
		links = append(links, domain.PageLink{Page: p, Current: p == current})
		prev = p
	}
	return links
}
