// Package client provides the HTTP client for the external product-search API.
// The catalog service owns the product records; this client treats them as
// immutable read-only data and degrades to an empty result on any failure the
// caller can survive.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tradequote_backend/platform/logger"

	"golang.org/x/time/rate"
)

const searchPath = "/search-products"

// Product is a projection of one external catalog record.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// Key identifies a product across keyword searches for deduplication. The
// canonical URL wins when present because some catalog mirrors reissue ids.
func (p Product) Key() string {
	if p.Link != "" {
		return p.Link
	}
	return p.ID
}

// flexString accepts JSON values that arrive as either string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = flexString(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexString(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into flexString", string(data))
}

// productRecord matches the wire shape, which is loose: records carry either
// name or title, and either link or url.
type productRecord struct {
	ID          flexString `json:"id"`
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Image       string     `json:"image"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	URL         string     `json:"url"`
}

func (r productRecord) toProduct() Product {
	name := r.Name
	if name == "" {
		name = r.Title
	}
	link := r.Link
	if link == "" {
		link = r.URL
	}
	return Product{
		ID:          string(r.ID),
		Name:        name,
		Image:       r.Image,
		Description: r.Description,
		Link:        link,
	}
}

// Client handles product-search requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New creates a catalog search client. ratePerSec throttles outbound requests
// so keyword fan-out cannot hammer the catalog service.
func New(baseURL string, timeout time.Duration, ratePerSec float64, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), int(ratePerSec)),
		log:        log,
	}
}

// Search issues one lookup for the given query. A non-2xx response is logged
// and yields an empty result, not an error: callers must tolerate zero
// results. Transport and decode failures are returned for the caller to skip.
func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WithContext(ctx).Warn("catalog search returned non-2xx", "query", query, "status", resp.StatusCode)
		return []Product{}, nil
	}

	var records []productRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode catalog response for %q: %w", query, err)
	}

	products := make([]Product, 0, len(records))
	for _, r := range records {
		p := r.toProduct()
		if p.Name == "" {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Searcher is the single-query lookup SearchKeywords fans out over. Both the
// raw client and the cached wrapper satisfy it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Product, error)
}

// SearchKeywords runs one lookup per keyword, capped at limit, merging the
// results and deduplicating by product key. Individual keyword failures are
// skipped and logged; total failure yields an empty catalog, which downstream
// treats as "no matches available" rather than an error.
func SearchKeywords(ctx context.Context, s Searcher, keywords []string, limit int, log *logger.Logger) []Product {
	if limit > 0 && len(keywords) > limit {
		keywords = keywords[:limit]
	}

	seen := make(map[string]bool)
	var merged []Product
	for _, kw := range keywords {
		products, err := s.Search(ctx, kw)
		if err != nil {
			log.WithContext(ctx).UpstreamError("catalog", "search "+kw, err)
			continue
		}
		for _, p := range products {
			if seen[p.Key()] {
				continue
			}
			seen[p.Key()] = true
			merged = append(merged, p)
		}
	}
	return merged
}

// Disqualifying and qualifying term lists for the natural-material post-filter.
// An inclusion/exclusion heuristic, not a classifier: products matching a
// disqualifier survive only if they also match a qualifier.
var (
	naturalStoneDisqualifiers = []string{"concrete", "utility", "pressed"}
	naturalStoneQualifiers    = []string{"natural", "sandstone", "limestone", "slate", "granite", "travertine"}
)

// FilterNaturalStone drops man-made lookalikes when the job description
// explicitly asks for natural stone. For any other description the catalog
// passes through untouched.
func FilterNaturalStone(description string, products []Product) []Product {
	if !strings.Contains(strings.ToLower(description), "natural stone") {
		return products
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		text := strings.ToLower(p.Name + " " + p.Description)
		if matchesAny(text, naturalStoneDisqualifiers) && !matchesAny(text, naturalStoneQualifiers) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
