package poeninja

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sig-0/exilian/storage/types"
)

// Family binds a record shape to its overview endpoint
type Family[R types.Record] struct {
	Category types.Category
	Endpoint string

	// Required are the line fields that must be present (and non-null)
	Required []string
}

var (
	CurrencyFamily = Family[CurrencyLine]{
		Category: types.CategoryCurrency,
		Endpoint: "currencyoverview",
		Required: []string{"currencyTypeName", "chaosEquivalent"},
	}

	ItemFamily = Family[ItemLine]{
		Category: types.CategoryItem,
		Endpoint: "itemoverview",
		Required: []string{"name", "chaosValue"},
	}
)

// overview is the part of the response body that is inspected
type overview struct {
	Lines json.RawMessage `json:"lines"`
}

// Fetcher retrieves snapshots of a single dataset family
type Fetcher[R types.Record] struct {
	client *Client
	family Family[R]
}

// NewFetcher creates a fetcher for the given family
func NewFetcher[R types.Record](client *Client, family Family[R]) *Fetcher[R] {
	return &Fetcher[R]{
		client: client,
		family: family,
	}
}

// Category returns the category the fetcher serves
func (f *Fetcher[R]) Category() types.Category {
	return f.family.Category
}

// Fetch retrieves the current snapshot for the league and dataset type.
// The returned snapshot is stamped with the time the body was read
func (f *Fetcher[R]) Fetch(
	ctx context.Context,
	league types.League,
	typ types.DatasetType,
) (types.Snapshot[R], error) {
	query := url.Values{
		"league": {league.QueryName()},
		"type":   {typ.String()},
	}

	body, fetchedAt, err := f.client.get(ctx, f.family.Endpoint, query)
	if err != nil {
		return types.Snapshot[R]{}, err
	}

	var o overview
	if err = json.Unmarshal(body, &o); err != nil {
		return types.Snapshot[R]{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	if len(o.Lines) == 0 || string(o.Lines) == "null" {
		return types.Snapshot[R]{}, fmt.Errorf("%w: missing lines", ErrMalformedResponse)
	}

	lines := make([]R, 0)
	if err = json.Unmarshal(o.Lines, &lines); err != nil {
		return types.Snapshot[R]{}, fmt.Errorf("%w: unable to parse lines: %w", ErrMalformedResponse, err)
	}

	if err = f.checkRequired(o.Lines); err != nil {
		return types.Snapshot[R]{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return types.Snapshot[R]{
		Lines:   lines,
		Updated: &fetchedAt,
	}, nil
}

// checkRequired verifies every line carries the family's required fields.
// Decoding into R alone zero-fills missing fields
func (f *Fetcher[R]) checkRequired(raw json.RawMessage) error {
	if len(f.family.Required) == 0 {
		return nil
	}

	var lines []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &lines); err != nil {
		return fmt.Errorf("unable to parse lines: %w", err)
	}

	for i, line := range lines {
		for _, field := range f.family.Required {
			value, ok := line[field]
			if !ok || string(value) == "null" {
				return fmt.Errorf("line %d is missing %q", i, field)
			}
		}
	}

	return nil
}
