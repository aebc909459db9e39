// internal/adapters/storeapi/client.go
package storeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"review_harvester/internal/fetch"
)

// Client pulls review batches from the store's continuation-token API.
type Client struct {
	f       *fetch.Client
	base    string
	appID   string
	locale  string
	country string
	count   int
}

func New(f *fetch.Client, base, appID, locale, country string, count int) *Client {
	if count <= 0 {
		count = 100
	}
	return &Client{f: f, base: base, appID: appID, locale: locale, country: country, count: count}
}

type envelope struct {
	Reviews   []map[string]any `json:"reviews"`
	NextToken string           `json:"nextToken"`
}

// Batch fetches one batch, newest first. An empty token starts from the
// top; the returned token is empty once the store is exhausted.
func (c *Client) Batch(ctx context.Context, token string) ([]map[string]any, string, error) {
	q := url.Values{}
	q.Set("app", c.appID)
	q.Set("locale", c.locale)
	q.Set("country", c.country)
	q.Set("sort", "newest")
	q.Set("count", fmt.Sprint(c.count))
	if token != "" {
		q.Set("token", token)
	}

	b, err := c.f.Fetch(ctx, c.base+"/reviews?"+q.Encode())
	if err != nil {
		return nil, "", err
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, "", fmt.Errorf("decode review batch: %w", err)
	}
	return env.Reviews, env.NextToken, nil
}
