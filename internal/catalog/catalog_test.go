package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/channel-panel/internal/remote"
)

// pagedCaller serves pages in order and records every request it receives.
type pagedCaller struct {
	pages    []remote.CatalogPage
	failAt   int
	requests []remote.Request
}

func (p *pagedCaller) Call(ctx context.Context, req remote.Request) (json.RawMessage, error) {
	p.requests = append(p.requests, req)
	idx := len(p.requests) - 1
	if p.failAt > 0 && len(p.requests) == p.failAt {
		return nil, &remote.TransportError{Kind: remote.KindNetwork, Request: req.String(), Err: errors.New("connection reset")}
	}
	if idx >= len(p.pages) {
		return nil, fmt.Errorf("unexpected request %d", idx+1)
	}
	return json.Marshal(p.pages[idx])
}

func makePage(prefix string, n int, cursor string) remote.CatalogPage {
	page := remote.CatalogPage{NextCursor: cursor}
	for i := 0; i < n; i++ {
		page.Items = append(page.Items, remote.CatalogEntry{
			Name:             fmt.Sprintf("%s-%03d", prefix, i),
			ImageURLTemplate: fmt.Sprintf("https://cdn.example/%s-%03d-{width}x{height}.jpg", prefix, i),
		})
	}
	return page
}

func TestFetchAllConcatenatesPagesInOrder(t *testing.T) {
	caller := &pagedCaller{pages: []remote.CatalogPage{
		makePage("a", 100, "c1"),
		makePage("b", 100, "c2"),
		makePage("c", 37, ""),
	}}

	items, err := NewAggregator(caller, Options{Integration: "twitch"}, nil).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 237)
	require.Len(t, caller.requests, 3)

	assert.Equal(t, "a-000", items[0].Name)
	assert.Equal(t, "a-099", items[99].Name)
	assert.Equal(t, "b-000", items[100].Name)
	assert.Equal(t, "c-036", items[236].Name)

	wantCursors := []string{"", "c1", "c2"}
	for i, req := range caller.requests {
		assert.Equal(t, "twitch", req.Integration)
		assert.Equal(t, remote.MethodGet, req.Method)
		assert.Equal(t, remote.PathCatalogTop, req.Path)
		assert.Equal(t, wantCursors[i], req.Payload["after"])
		assert.Equal(t, "100", req.Payload["first"])
	}
}

func TestFetchAllSinglePage(t *testing.T) {
	caller := &pagedCaller{pages: []remote.CatalogPage{makePage("only", 3, "")}}

	items, err := NewAggregator(caller, Options{Integration: "twitch"}, nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Len(t, caller.requests, 1)
}

func TestFetchAllIssuesOneRequestPerPage(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var pages []remote.CatalogPage
		for i := 1; i <= n; i++ {
			cursor := ""
			if i < n {
				cursor = fmt.Sprintf("c%d", i)
			}
			pages = append(pages, makePage(fmt.Sprintf("p%d", i), i, cursor))
		}
		caller := &pagedCaller{pages: pages}

		items, err := NewAggregator(caller, Options{}, nil).FetchAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, caller.requests, n)
		assert.Len(t, items, n*(n+1)/2)
	}
}

func TestFetchAllKeepsDuplicates(t *testing.T) {
	caller := &pagedCaller{pages: []remote.CatalogPage{
		{Items: []remote.CatalogEntry{{Name: "IRL"}}, NextCursor: "c1"},
		{Items: []remote.CatalogEntry{{Name: "IRL"}}},
	}}

	items, err := NewAggregator(caller, Options{}, nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Item{{Name: "IRL"}, {Name: "IRL"}}, items)
}

func TestFetchAllUsesConfiguredPageSize(t *testing.T) {
	caller := &pagedCaller{pages: []remote.CatalogPage{makePage("a", 1, "")}}

	_, err := NewAggregator(caller, Options{PageSize: 20}, nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20", caller.requests[0].Payload["first"])
}

func TestFetchAllReturnsNoPartialResultOnError(t *testing.T) {
	caller := &pagedCaller{
		pages:  []remote.CatalogPage{makePage("a", 100, "c1"), makePage("b", 100, "c2")},
		failAt: 2,
	}

	items, err := NewAggregator(caller, Options{}, nil).FetchAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, items)
	assert.Equal(t, remote.KindNetwork, remote.KindOf(err))
	assert.Len(t, caller.requests, 2)
}

func TestFetchAllStopsAtPageLimit(t *testing.T) {
	cycling := remote.CallerFunc(func(ctx context.Context, req remote.Request) (json.RawMessage, error) {
		return json.Marshal(makePage("loop", 2, "same"))
	})

	items, err := NewAggregator(cycling, Options{MaxPages: 5}, nil).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrPageLimit)
	assert.Nil(t, items)
}

func TestFetchAllStopsAtItemLimit(t *testing.T) {
	caller := &pagedCaller{pages: []remote.CatalogPage{
		makePage("a", 100, "c1"),
		makePage("b", 100, ""),
	}}

	items, err := NewAggregator(caller, Options{MaxItems: 150}, nil).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrItemLimit)
	assert.Nil(t, items)
	assert.Len(t, caller.requests, 2)
}

func TestFetchAllWithinLimitsSucceeds(t *testing.T) {
	caller := &pagedCaller{pages: []remote.CatalogPage{
		makePage("a", 100, "c1"),
		makePage("b", 100, ""),
	}}

	items, err := NewAggregator(caller, Options{MaxPages: 2, MaxItems: 200}, nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 200)
}
