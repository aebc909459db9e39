// internal/adapters/webreviews/client.go
package webreviews

import (
	"context"
	"fmt"

	"review_harvester/internal/fetch"
	"review_harvester/internal/normalize"
)

// Client fetches and parses review pages from the site.
type Client struct {
	f    *fetch.Client
	base string
	ext  Extractor
}

func New(f *fetch.Client, base string) *Client {
	return &Client{f: f, base: base, ext: DefaultExtractor()}
}

// PageURL: the first page is the bare base URL, later pages add ?page=N.
func (c *Client) PageURL(page int) string {
	if page <= 1 {
		return c.base
	}
	return fmt.Sprintf("%s?page=%d", c.base, page)
}

// Cards fetches one page and extracts its review cards.
func (c *Client) Cards(ctx context.Context, page int) ([]normalize.WebCard, error) {
	b, err := c.f.Fetch(ctx, c.PageURL(page))
	if err != nil {
		return nil, err
	}
	return c.ext.Cards(b)
}
