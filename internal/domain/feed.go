package domain

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// FetchOptions tunes a single feed load.
type FetchOptions struct {
	// Mobile selects the longer per-attempt timeout used for phone clients.
	Mobile bool
}

// FeedPayload is a validated JSON array as returned by the feed endpoints.
type FeedPayload struct {
	Body   []byte
	Source string // "proxy" or "script"
}

// FeedSource fetches the raw product feed.
type FeedSource interface {
	Fetch(ctx context.Context, opts FetchOptions) (*FeedPayload, error)
}

// FlexString accepts a JSON string, number or boolean and keeps its textual form.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = FlexString(t)
	case float64:
		*s = FlexString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		*s = FlexString(strconv.FormatBool(t))
	default:
		return fmt.Errorf("unsupported value for text field: %s", string(b))
	}
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// Trimmed returns the value without surrounding whitespace.
func (s FlexString) Trimmed() string {
	return strings.TrimSpace(string(s))
}

// FlexFloat accepts a JSON number or a numeric string. Anything else leaves it invalid.
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat{}
	switch t := v.(type) {
	case float64:
		f.Value, f.Valid = t, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil {
			f.Value, f.Valid = n, true
		}
	}
	if f.Valid && (math.IsNaN(f.Value) || math.IsInf(f.Value, 0)) {
		*f = FlexFloat{}
	}
	return nil
}

// Positive reports whether the value is a finite number greater than zero.
func (f FlexFloat) Positive() bool {
	return f.Valid && f.Value > 0
}

// StringList accepts a single string or an arbitrarily nested array of strings.
// Non-string leaves are ignored.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	out := StringList{}
	flattenStrings(v, &out)
	*l = out
	return nil
}

func flattenStrings(v interface{}, out *StringList) {
	switch t := v.(type) {
	case string:
		if t != "" {
			*out = append(*out, t)
		}
	case []interface{}:
		for _, e := range t {
			flattenStrings(e, out)
		}
	}
}

// FeedRecord is one product entry of the spreadsheet feed after typed decoding.
type FeedRecord struct {
	ID                FlexString `json:"id"`
	Title             FlexString `json:"title"`
	Name              FlexString `json:"name"`
	Team              FlexString `json:"equipo"`
	League            FlexString `json:"liga"`
	Version           FlexString `json:"version"`
	Edition           FlexString `json:"edicion"`
	Brand             FlexString `json:"brand"`
	Sponsor           FlexString `json:"sponsor"`
	Content           FlexString `json:"content"`
	Description       FlexString `json:"description"`
	Price             FlexFloat  `json:"price"`
	Image             StringList `json:"image"`
	Images            StringList `json:"images"`
	OriginalImages    StringList `json:"original_images"`
	OriginalImagesAlt StringList `json:"originalImages"`
	URL               StringList `json:"url"`
}

// FeedEntry pairs a decoded record with its position in the feed.
type FeedEntry struct {
	Index  int
	Record FeedRecord
}

// SkippedRecord describes a feed element that could not be decoded.
type SkippedRecord struct {
	Index int
	Err   error
}

type rawElement []byte

func (r *rawElement) UnmarshalJSON(b []byte) error {
	*r = append((*r)[:0], b...)
	return nil
}

// DecodeFeed validates that body is a JSON array and decodes each element into a FeedRecord.
// Elements that are not objects, or whose fields have unusable types, are reported as skipped
// and keep their position so feed order stays meaningful.
func DecodeFeed(body []byte) ([]FeedEntry, []SkippedRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, fmt.Errorf("%w: feed is not a JSON array", ErrMalformedFeed)
	}

	var elems []rawElement
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	entries := make([]FeedEntry, 0, len(elems))
	var skipped []SkippedRecord
	for i, el := range elems {
		el = bytes.TrimSpace(el)
		if len(el) == 0 || el[0] != '{' {
			skipped = append(skipped, SkippedRecord{Index: i, Err: fmt.Errorf("record is not an object")})
			continue
		}
		var rec FeedRecord
		if err := json.Unmarshal(el, &rec); err != nil {
			skipped = append(skipped, SkippedRecord{Index: i, Err: err})
			continue
		}
		entries = append(entries, FeedEntry{Index: i, Record: rec})
	}
	return entries, skipped, nil
}

// ValidFeedBody reports whether body decodes as a JSON array.
func ValidFeedBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	return json.Valid(trimmed)
}
