package domain

import (
	"strings"
	"time"
)

// Product is a normalized, displayable feed entry. Constructed once per feed load.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Description string   `json:"description"`
	Brand       string   `json:"brand"`
	Sponsor     string   `json:"sponsor"`
	IsTopSeller bool     `json:"isTopSeller"`
	Team        string   `json:"equipo"`
	League      string   `json:"liga"`
	Version     string   `json:"version"`
	Edition     string   `json:"edicion"`

	// Position in the feed the product was built from.
	FeedIndex int `json:"-"`
	// Lower-cased text used for catalog search.
	SearchText string     `json:"-"`
	Raw        FeedRecord `json:"-"`
}

// FilterDimension names one of the four categorical catalog filters.
type FilterDimension string

const (
	DimensionTeam    FilterDimension = "team"
	DimensionLeague  FilterDimension = "league"
	DimensionVersion FilterDimension = "version"
	DimensionEdition FilterDimension = "edition"
)

var FilterDimensions = []FilterDimension{DimensionTeam, DimensionLeague, DimensionVersion, DimensionEdition}

// FilterState holds the four optional equality predicates. Empty means "match all".
type FilterState struct {
	Team    string `json:"team"`
	League  string `json:"league"`
	Version string `json:"version"`
	Edition string `json:"edition"`
}

// Value returns the selected value for dim.
func (f FilterState) Value(dim FilterDimension) string {
	switch dim {
	case DimensionTeam:
		return f.Team
	case DimensionLeague:
		return f.League
	case DimensionVersion:
		return f.Version
	case DimensionEdition:
		return f.Edition
	}
	return ""
}

// Without returns a copy of f with dim cleared.
func (f FilterState) Without(dim FilterDimension) FilterState {
	switch dim {
	case DimensionTeam:
		f.Team = ""
	case DimensionLeague:
		f.League = ""
	case DimensionVersion:
		f.Version = ""
	case DimensionEdition:
		f.Edition = ""
	}
	return f
}

// Matches reports whether p satisfies every active predicate.
func (f FilterState) Matches(p *Product) bool {
	for _, dim := range FilterDimensions {
		want := f.Value(dim)
		if want != "" && p.Tag(dim) != want {
			return false
		}
	}
	return true
}

// Tag returns the product's value along dim.
func (p *Product) Tag(dim FilterDimension) string {
	switch dim {
	case DimensionTeam:
		return p.Team
	case DimensionLeague:
		return p.League
	case DimensionVersion:
		return p.Version
	case DimensionEdition:
		return p.Edition
	}
	return ""
}

// MatchesQuery reports whether a folded query is a substring of the search text.
// An empty query matches everything.
func (p *Product) MatchesQuery(folded string) bool {
	return folded == "" || strings.Contains(p.SearchText, folded)
}

// AvailableOptions lists selectable values per dimension, in first-seen feed order.
type AvailableOptions struct {
	Teams    []string `json:"equipos"`
	Leagues  []string `json:"ligas"`
	Versions []string `json:"versiones"`
	Editions []string `json:"ediciones"`
}

// For returns the option list for dim.
func (o AvailableOptions) For(dim FilterDimension) []string {
	switch dim {
	case DimensionTeam:
		return o.Teams
	case DimensionLeague:
		return o.Leagues
	case DimensionVersion:
		return o.Versions
	case DimensionEdition:
		return o.Editions
	}
	return nil
}

// PageLink is one entry of the pagination control. Ellipsis entries carry no page.
type PageLink struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// CatalogItem is a product as shown in a listing, with its current image.
type CatalogItem struct {
	*Product
	CurrentImage     string `json:"currentImage"`
	ImageUnavailable bool   `json:"imageUnavailable"`
}

// CatalogPage is one rendered page of the catalog.
type CatalogPage struct {
	Items      []CatalogItem    `json:"items"`
	Query      string           `json:"query"`
	Filters    FilterState      `json:"filters"`
	Options    AvailableOptions `json:"options"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalItems int              `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
	Window     []PageLink       `json:"window"`
	Generation uint64           `json:"generation"`
	LoadedAt   time.Time        `json:"loadedAt"`
}

// CatalogSnapshot is the immutable product list produced by one feed load.
type CatalogSnapshot struct {
	Products   []*Product
	Generation uint64
	LoadedAt   time.Time
	Source     string
}

// ByID returns the product with the given id.
func (s *CatalogSnapshot) ByID(id string) (*Product, bool) {
	if s == nil {
		return nil, false
	}
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
