// internal/adapters/feedapi/client.go
package feedapi

import (
	"context"
	"encoding/json"
	"fmt"

	"review_harvester/internal/fetch"
	"review_harvester/internal/normalize"
)

// Client walks the feed's paged JSON endpoint, newest first.
type Client struct {
	f       *fetch.Client
	base    string
	country string
	appID   string
}

func New(f *fetch.Client, base, country, appID string) *Client {
	return &Client{f: f, base: base, country: country, appID: appID}
}

func (c *Client) URL(page int) string {
	return fmt.Sprintf("%s/%s/rss/customerreviews/page=%d/id=%s/sortby=mostrecent/json",
		c.base, c.country, page, c.appID)
}

// Page fetches one feed page and returns its raw entries. A page holding a
// single entry arrives as an object instead of a list and is wrapped; a
// payload without entries returns nil.
func (c *Client) Page(ctx context.Context, page int) ([]map[string]any, error) {
	b, err := c.f.Fetch(ctx, c.URL(page))
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("decode feed page %d: %w", page, err)
	}
	switch v := normalize.LookupAny(payload, "feed.entry").(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out, nil
	case map[string]any:
		return []map[string]any{v}, nil
	}
	return nil, nil
}
