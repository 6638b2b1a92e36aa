package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/taichizzz/anime-recommender/internal/metrics"
	"github.com/taichizzz/anime-recommender/internal/models"
)

const (
	// DefaultBaseURL is the public Jikan v4 API (unofficial MyAnimeList API).
	DefaultBaseURL = "https://api.jikan.moe/v4"

	// SearchLimit is the number of candidates requested per search.
	SearchLimit = 10

	// maxErrorBody bounds how much of an upstream error body is kept in the detail.
	maxErrorBody = 4096
)

// Searcher looks up catalog items by free-text title query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.CatalogItem, error)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Rate       float64 // requests per second, <= 0 disables limiting
	Burst      int
	UserAgent  string
	HTTPClient *http.Client
}

// Client queries the Jikan anime search endpoint
type Client struct {
	BaseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Jikan client
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "anime-recommender"
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}

	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    limiter,
	}
}

// Search runs a title search and maps the provider records into catalog items.
// An empty query is rejected before any network access. Failures are returned
// as *models.ProviderError and are never retried.
func (c *Client) Search(ctx context.Context, query string) ([]models.CatalogItem, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, models.NewValidationError("query must not be empty")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &models.ProviderError{Detail: "rate limiter: " + err.Error(), Err: err}
		}
	}

	searchURL := fmt.Sprintf("%s/anime?q=%s&limit=%d", c.BaseURL, url.QueryEscape(q), SearchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &models.ProviderError{Detail: "failed to create request: " + err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("transport_error").Inc()
		return nil, &models.ProviderError{Detail: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ProviderRequests.WithLabelValues("http_error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &models.ProviderError{
			Status: resp.StatusCode,
			Detail: fmt.Sprintf("Jikan error %d: %s\n%s", resp.StatusCode, http.StatusText(resp.StatusCode), string(body)),
		}
	}

	var searchResp jikanSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		metrics.ProviderRequests.WithLabelValues("decode_error").Inc()
		return nil, &models.ProviderError{Detail: "failed to decode Jikan response: " + err.Error(), Err: err}
	}
	metrics.ProviderRequests.WithLabelValues("success").Inc()

	items := make([]models.CatalogItem, 0, len(searchResp.Data))
	for _, anime := range searchResp.Data {
		if anime.MalID < 0 {
			slog.Warn("Skipping Jikan record with negative id", "mal_id", anime.MalID, "title", anime.Title)
			continue
		}
		items = append(items, anime.toCatalogItem())
		if len(items) == SearchLimit {
			break
		}
	}

	slog.Debug("Jikan search completed", "query", q, "results", len(items))
	return items, nil
}

// Jikan API JSON structures. Only the fields we map are declared.
type jikanSearchResponse struct {
	Data []jikanAnime `json:"data"`
}

type jikanAnime struct {
	MalID    int      `json:"mal_id"`
	Title    string   `json:"title"`
	Synopsis *string  `json:"synopsis"`
	Score    *float64 `json:"score"`
	Year     *int     `json:"year"`
	Images   struct {
		JPG *struct {
			ImageURL *string `json:"image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

func (a jikanAnime) toCatalogItem() models.CatalogItem {
	var imageURL *string
	if a.Images.JPG != nil && a.Images.JPG.ImageURL != nil {
		imageURL = models.StringPtr(*a.Images.JPG.ImageURL)
	}

	return models.CatalogItem{
		ID:       a.MalID,
		Title:    a.Title,
		Synopsis: a.Synopsis,
		ImageURL: imageURL,
		Score:    a.Score,
		Year:     a.Year,
	}
}
