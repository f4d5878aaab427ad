package usecase

import (
	"context"
	"strconv"
	"strings"

	"ultimate-kits/internal/domain"
	"ultimate-kits/pkg/logger"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultBrand   = "Oficial"
	defaultSponsor = "Premium"
)

// Normalizer maps decoded feed records onto displayable products.
type Normalizer struct {
	ProxyBaseURL   string
	DefaultPrice   float64
	TopSellerCount int
}

func NewNormalizer(proxyBaseURL string, defaultPrice float64, topSellers int) *Normalizer {
	if defaultPrice <= 0 {
		defaultPrice = 25
	}
	if topSellers < 0 {
		topSellers = 0
	}
	return &Normalizer{ProxyBaseURL: proxyBaseURL, DefaultPrice: defaultPrice, TopSellerCount: topSellers}
}

// NormalizeFeed decodes a payload and keeps every record that has at least one image candidate.
// Skipped and dropped records are logged; a malformed payload is returned as an error.
func (n *Normalizer) NormalizeFeed(ctx context.Context, body []byte) ([]*domain.Product, int, error) {
	log := logger.WithContext(ctx)

	entries, skipped, err := domain.DecodeFeed(body)
	if err != nil {
		return nil, 0, err
	}
	for _, s := range skipped {
		log.Warn().Int("index", s.Index).Err(s.Err).Msg("Skipping undecodable feed record")
	}

	products := make([]*domain.Product, 0, len(entries))
	for _, e := range entries {
		p, ok := n.Normalize(e.Record, e.Index)
		if !ok {
			log.Warn().
				Int("index", e.Index).
				Str("id", e.Record.ID.String()).
				Str("title", e.Record.Title.String()).
				Msg("Product has no usable image, dropping it")
			continue
		}
		products = append(products, p)
	}
	if len(products) == 0 && len(entries) > 0 {
		log.Warn().Msg("No feed record carried a usable image")
	}
	return products, len(entries) + len(skipped), nil
}

// Normalize builds a product from a record at position index of the feed.
// It reports false when the record has no resolvable image.
func (n *Normalizer) Normalize(rec domain.FeedRecord, index int) (*domain.Product, bool) {
	images := n.resolveImages(rec)
	if len(images) == 0 {
		return nil, false
	}

	id := rec.ID.Trimmed()
	if id == "" {
		id = strconv.Itoa(index + 1)
	}

	name := deriveName(rec, id)

	price := n.DefaultPrice
	if rec.Price.Positive() {
		price = rec.Price.Value
	}

	description := firstNonEmpty(rec.Description.Trimmed(), rec.Content.Trimmed(), "Camiseta oficial "+name)

	p := &domain.Product{
		ID:          id,
		Name:        cases.Upper(language.Spanish).String(name),
		Price:       price,
		Image:       images[0],
		Images:      images,
		Description: description,
		Brand:       firstNonEmpty(rec.Brand.Trimmed(), rec.League.Trimmed(), defaultBrand),
		Sponsor:     firstNonEmpty(rec.Sponsor.Trimmed(), defaultSponsor),
		IsTopSeller: index < n.TopSellerCount,
		Team:        rec.Team.Trimmed(),
		League:      rec.League.Trimmed(),
		Version:     rec.Version.Trimmed(),
		Edition:     rec.Edition.Trimmed(),
		FeedIndex:   index,
		Raw:         rec,
	}
	p.SearchText = searchText(p)
	return p, true
}

func (n *Normalizer) resolveImages(rec domain.FeedRecord) []string {
	originals := rec.OriginalImages
	if len(originals) == 0 {
		originals = rec.OriginalImagesAlt
	}

	var raw []string
	for _, group := range []domain.StringList{rec.Images, originals, rec.Image, rec.URL} {
		for _, v := range group {
			raw = append(raw, BuildImageCandidates(v, n.ProxyBaseURL)...)
		}
	}
	return PrioritizeCandidates(raw)
}

// deriveName joins team and title, falling back to whichever is present and then to
// a positional placeholder.
func deriveName(rec domain.FeedRecord, id string) string {
	team := rec.Team.Trimmed()
	title := firstNonEmpty(rec.Title.Trimmed(), rec.Name.Trimmed())
	switch {
	case team != "" && title != "":
		return team + " " + title
	case title != "":
		return title
	case team != "":
		return team
	}
	return "Producto " + id
}

func searchText(p *domain.Product) string {
	parts := []string{p.Name, p.Brand, p.Description, p.Sponsor,
		p.Raw.Title.String(), p.Raw.League.String(), p.Raw.Content.String()}
	return FoldSearch(strings.Join(lo.Compact(parts), " "))
}

// FoldSearch lower-cases and trims text for case-insensitive substring search.
func FoldSearch(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
