// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/case-pipeline/internal/httputil"
	"github.com/pdiddy/case-pipeline/pkg/types"
)

// duckduckgoEndpoint is the DuckDuckGo HTML search endpoint. Declared as a
// var so tests can substitute an httptest server.
var duckduckgoEndpoint = "https://html.duckduckgo.com/html/"

// snippetKeyPoints caps the key points derived from a result snippet at
// collection time. Enrichment derives more from the full description later.
const snippetKeyPoints = 3

// DuckDuckGoBackend queries the DuckDuckGo HTML endpoint. It needs no API
// key, but the endpoint throttles aggressively; callers should keep the
// request rate low and rely on the retry backoff.
type DuckDuckGoBackend struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (b *DuckDuckGoBackend) Name() string { return "duckduckgo" }

// Search posts the query to the HTML endpoint and extracts up to limit
// findings from the result markup.
func (b *DuckDuckGoBackend) Search(ctx context.Context, query string, limit int) ([]types.Finding, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultResultsPerQuery
	}

	form := url.Values{
		"q":  {query},
		"b":  {""},
		"kl": {"us-en"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, duckduckgoEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("DuckDuckGo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("DuckDuckGo returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing DuckDuckGo response: %w", err)
	}

	var findings []types.Finding
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find("a.result__a").First().Text())
		href, _ := sel.Find("a.result__url").First().Attr("href")
		snippet := strings.TrimSpace(sel.Find("a.result__snippet").First().Text())

		if title == "" || href == "" {
			return true
		}

		findings = append(findings, types.Finding{
			Title:       title,
			Description: snippet,
			Source:      href,
			Date:        "Recent",
			KeyPoints:   KeyPoints(snippet, snippetKeyPoints),
		})
		return len(findings) < limit
	})

	return findings, nil
}
