// Package catalog materializes the platform's paginated category listing into
// one ordered slice.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Its-donkey/channel-panel/internal/remote"
	"github.com/Its-donkey/channel-panel/logging"
)

const (
	DefaultPageSize = 100
	DefaultMaxPages = 500
	DefaultMaxItems = 50000
)

var (
	// ErrPageLimit is returned when the listing is still yielding cursors after MaxPages pages.
	ErrPageLimit = errors.New("catalog: page limit reached before the final page")
	// ErrItemLimit is returned when the listing grows past MaxItems entries.
	ErrItemLimit = errors.New("catalog: item limit exceeded")
)

// Item is one category in the catalog.
type Item struct {
	Name             string `json:"name" yaml:"name"`
	ImageURLTemplate string `json:"imageUrlTemplate" yaml:"imageUrlTemplate"`
}

// Options configures an Aggregator. Zero MaxPages or MaxItems disables that bound.
type Options struct {
	Integration string
	PageSize    int
	MaxPages    int
	MaxItems    int
}

// Aggregator walks the catalog listing page by page.
type Aggregator struct {
	caller remote.Caller
	opts   Options
	logger *logging.Logger
}

// NewAggregator builds an Aggregator. PageSize defaults to DefaultPageSize.
func NewAggregator(caller remote.Caller, opts Options, logger *logging.Logger) *Aggregator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Aggregator{caller: caller, opts: opts, logger: logger}
}

// FetchAll requests pages sequentially, starting with an empty cursor, until a
// page arrives without a cursor. Items keep page order and are not
// deduplicated. Any error discards everything fetched so far.
func (a *Aggregator) FetchAll(ctx context.Context) ([]Item, error) {
	var items []Item
	cursor := ""

	for page := 1; ; page++ {
		if a.opts.MaxPages > 0 && page > a.opts.MaxPages {
			a.logger.Warn("catalog", "page limit reached", map[string]any{
				"max_pages": a.opts.MaxPages,
				"items":     len(items),
				"cursor":    cursor,
			})
			return nil, fmt.Errorf("%w (%d pages)", ErrPageLimit, a.opts.MaxPages)
		}

		resp, err := remote.Do[remote.CatalogPage](ctx, a.caller, remote.Request{
			Integration: a.opts.Integration,
			Method:      remote.MethodGet,
			Path:        remote.PathCatalogTop,
			Payload: map[string]string{
				"after": cursor,
				"first": strconv.Itoa(a.opts.PageSize),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("fetch catalog page %d: %w", page, err)
		}

		for _, entry := range resp.Items {
			items = append(items, Item{Name: entry.Name, ImageURLTemplate: entry.ImageURLTemplate})
		}
		if a.opts.MaxItems > 0 && len(items) > a.opts.MaxItems {
			return nil, fmt.Errorf("%w (%d > %d)", ErrItemLimit, len(items), a.opts.MaxItems)
		}

		if resp.NextCursor == "" {
			a.logger.Info("catalog", "catalog loaded", map[string]any{
				"pages": page,
				"items": len(items),
			})
			return items, nil
		}
		cursor = resp.NextCursor
	}
}
