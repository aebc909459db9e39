package fetch

import (
	"math/rand"
	"net/http"
)

const (
	// AcceptJSON is what the paged JSON endpoints want; the default covers
	// HTML pages too.
	AcceptJSON = "application/json"

	acceptAny      = "application/json,text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// userAgents is a small pool of common desktop browser strings. One is
// picked per request; Accept and Accept-Language stay stable.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36",
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", c.cfg.Accept)
	req.Header.Set("Accept-Language", acceptLanguage)
}
