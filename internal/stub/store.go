// Package stub is an in-memory gateway that speaks the panel's resource
// protocol over HTTP. It backs local development and end-to-end tests.
package stub

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Its-donkey/channel-panel/internal/remote"
)

const boxArtTemplate = "https://static-cdn.jtvnw.net/ttv-boxart/%d-{width}x{height}.jpg"

var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrUnknownCategory = errors.New("unknown category")
	ErrForbidden       = errors.New("identity cannot edit this channel")
	ErrBadCursor       = errors.New("invalid cursor")
)

// Options seeds a Store.
type Options struct {
	Identity    string
	Title       string
	Category    string
	CatalogSize int
	PageSize    int
}

// Store holds one channel and a generated category catalog.
type Store struct {
	identity string
	pageSize int
	catalog  []remote.CatalogEntry
	known    map[string]struct{}

	mu      sync.RWMutex
	channel remote.ChannelResource
	writes  int
}

// NewStore generates a catalog of opts.CatalogSize entries. The seeded
// category, when set, is always the first entry.
func NewStore(opts Options) *Store {
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	s := &Store{
		identity: strings.TrimSpace(opts.Identity),
		pageSize: opts.PageSize,
		known:    make(map[string]struct{}, opts.CatalogSize),
		channel:  remote.ChannelResource{Title: opts.Title, Category: opts.Category},
	}
	if opts.Category != "" && opts.CatalogSize > 0 {
		s.add(opts.Category, 509658)
	}
	for i := 1; len(s.catalog) < opts.CatalogSize; i++ {
		s.add(fmt.Sprintf("Category %03d", i), 1000+i)
	}
	return s
}

func (s *Store) add(name string, id int) {
	s.catalog = append(s.catalog, remote.CatalogEntry{Name: name, ImageURLTemplate: fmt.Sprintf(boxArtTemplate, id)})
	s.known[name] = struct{}{}
}

// Channel returns the stored channel.
func (s *Store) Channel() remote.ChannelResource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channel
}

// Writes counts successful updates.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Update stores title and category for identity and returns what was kept.
// Titles are trimmed; an empty category clears it.
func (s *Store) Update(identity, title, category string) (remote.ChannelResource, error) {
	if s.identity != "" && identity != s.identity {
		return remote.ChannelResource{}, ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return remote.ChannelResource{}, ErrEmptyTitle
	}
	if category != "" {
		if _, ok := s.known[category]; !ok {
			return remote.ChannelResource{}, fmt.Errorf("%w %q", ErrUnknownCategory, category)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel = remote.ChannelResource{Title: title, Category: category}
	s.writes++
	return s.channel, nil
}

// Page returns up to first entries after cursor. Cursors are opaque offsets.
func (s *Store) Page(after string, first int) (remote.CatalogPage, error) {
	if first <= 0 || first > s.pageSize {
		first = s.pageSize
	}
	start := 0
	if after != "" {
		n, err := strconv.Atoi(after)
		if err != nil || n < 0 || n > len(s.catalog) {
			return remote.CatalogPage{}, fmt.Errorf("%w %q", ErrBadCursor, after)
		}
		start = n
	}
	end := min(start+first, len(s.catalog))

	page := remote.CatalogPage{Items: append([]remote.CatalogEntry{}, s.catalog[start:end]...)}
	if end < len(s.catalog) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}
