package websearch

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/docuvoice/docuvoice/internal/core"
)

// NoResults is returned whenever the search yields nothing usable, including
// any provider fault. A broken fallback provider must never take the session
// down with it.
const NoResults = "No additional information found on the web."

var _ core.WebSearcher = (*DuckDuckGo)(nil)

// DuckDuckGo fetches the body text of the single top-ranked result from the
// DuckDuckGo HTML endpoint. No pagination, no ranking of its own.
type DuckDuckGo struct {
	baseURL    string
	region     string
	httpClient *http.Client
}

func NewDuckDuckGo(region string, timeout time.Duration) *DuckDuckGo {
	if region == "" {
		region = "in-en"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DuckDuckGo{
		baseURL:    "https://html.duckduckgo.com/html/",
		region:     region,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (d *DuckDuckGo) Snippet(ctx context.Context, query string) (string, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("kl", d.region)
	q.Set("kp", "1") // moderate safesearch

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return NoResults, nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; docuvoice/1.0)")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		log.Printf("websearch: request failed: %v", err)
		return NoResults, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("websearch: request failed: %s", resp.Status)
		return NoResults, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("websearch: parse failed: %v", err)
		return NoResults, nil
	}

	snippet := strings.TrimSpace(doc.Find(".result__snippet").First().Text())
	if snippet == "" {
		return NoResults, nil
	}
	return snippet, nil
}

// WithBaseURL points the client at a different endpoint; used by tests.
func (d *DuckDuckGo) WithBaseURL(base string) *DuckDuckGo {
	d.baseURL = base
	return d
}
