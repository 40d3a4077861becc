package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
	"github.com/go-resty/resty/v2"
)

// instantAnswer is the subset of the DuckDuckGo Instant Answer response we use
type instantAnswer struct {
	Heading       string  `json:"Heading"`
	AbstractText  string  `json:"AbstractText"`
	AbstractURL   string  `json:"AbstractURL"`
	Results       []topic `json:"Results"`
	RelatedTopics []topic `json:"RelatedTopics"`
}

// topic is either a result or a named group of results
type topic struct {
	FirstURL string  `json:"FirstURL"`
	Text     string  `json:"Text"`
	Name     string  `json:"Name"`
	Topics   []topic `json:"Topics"`
}

// DuckDuckGo searches the DuckDuckGo Instant Answer API
type DuckDuckGo struct {
	client  *resty.Client
	baseURL string
	limit   int
	cache   *cache[[]string]
	log     logger.Logger
}

// NewDuckDuckGo creates a search client
func NewDuckDuckGo(cfg Config, log logger.Logger) *DuckDuckGo {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "search")
	cfg = cfg.withDefaults()
	return &DuckDuckGo{
		client:  buildHTTPClient(cfg, log),
		baseURL: cfg.SearchURL,
		limit:   cfg.Results,
		cache:   newCache[[]string](cfg.CacheSize, cfg.CacheTTL),
		log:     log,
	}
}

// Search returns up to the configured number of "N. <url> - <text>" lines
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty search query")
	}
	if cached, ok := d.cache.get(query); ok {
		d.log.Debug("search cache hit", "query", query)
		return cached, nil
	}

	var answer instantAnswer
	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":             query,
			"format":        "json",
			"no_html":       "1",
			"skip_disambig": "1",
		}).
		// The API answers with a javascript content type.
		ForceContentType("application/json").
		SetResult(&answer).
		Get(d.baseURL)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search request failed: status %d", resp.StatusCode())
	}

	results := formatResults(&answer, d.limit)
	d.cache.add(query, results)
	return results, nil
}

// formatResults flattens an answer into numbered lines, direct results first
func formatResults(answer *instantAnswer, limit int) []string {
	var entries []topic
	entries = append(entries, answer.Results...)
	if answer.AbstractURL != "" && answer.AbstractText != "" {
		entries = append(entries, topic{FirstURL: answer.AbstractURL, Text: answer.AbstractText})
	}
	for _, t := range answer.RelatedTopics {
		if len(t.Topics) > 0 {
			entries = append(entries, t.Topics...)
			continue
		}
		entries = append(entries, t)
	}

	lines := make([]string, 0, limit)
	seen := make(map[string]struct{})
	for _, e := range entries {
		if len(lines) == limit {
			break
		}
		if e.FirstURL == "" {
			continue
		}
		if _, dup := seen[e.FirstURL]; dup {
			continue
		}
		seen[e.FirstURL] = struct{}{}
		lines = append(lines, fmt.Sprintf("%d. %s - %s", len(lines)+1, e.FirstURL, e.Text))
	}
	return lines
}

var _ core.Searcher = (*DuckDuckGo)(nil)
