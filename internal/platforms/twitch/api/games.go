package twitch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// MaxPageSize is the largest "first" Helix accepts.
const MaxPageSize = 100

// Game is a Helix game or category.
type Game struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BoxArtURL string `json:"box_art_url"`
	IGDBID    string `json:"igdb_id"`
}

// GamesPage is one page of the top games directory.
type GamesPage struct {
	Data       []Game     `json:"data"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	Cursor string `json:"cursor,omitempty"`
}

// Cursor returns the cursor for the next page, or "" on the last page.
func (p GamesPage) Cursor() string {
	return p.Pagination.Cursor
}

// GetGamesByName looks up categories by exact name.
func (c *Client) GetGamesByName(ctx context.Context, names []string) ([]Game, error) {
	params := dedupeParams(names)
	if len(params) == 0 {
		return nil, fmt.Errorf("at least one name is required")
	}
	if len(params) > 100 {
		return nil, fmt.Errorf("too many names: max 100")
	}

	q := url.Values{}
	for _, name := range params {
		q.Add("name", name)
	}

	var body GamesPage
	if err := c.do(ctx, http.MethodGet, "games", q, nil, &body); err != nil {
		return nil, err
	}
	return body.Data, nil
}

// TopGames fetches one page of the directory ordered by current viewers.
func (c *Client) TopGames(ctx context.Context, after string, first int) (GamesPage, error) {
	if first <= 0 || first > MaxPageSize {
		first = MaxPageSize
	}

	q := url.Values{}
	q.Set("first", strconv.Itoa(first))
	if after != "" {
		q.Set("after", after)
	}

	var page GamesPage
	if err := c.do(ctx, http.MethodGet, "games/top", q, nil, &page); err != nil {
		return GamesPage{}, err
	}
	return page, nil
}
