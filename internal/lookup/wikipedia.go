package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
	"github.com/go-resty/resty/v2"
)

// pageSummary is the subset of the REST summary response we use
type pageSummary struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Wikipedia fetches page summaries from the Wikipedia REST API
type Wikipedia struct {
	client  *resty.Client
	baseURL string
	cache   *cache[string]
	log     logger.Logger
}

// NewWikipedia creates an encyclopedia client
func NewWikipedia(cfg Config, log logger.Logger) *Wikipedia {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "wikipedia")
	cfg = cfg.withDefaults()
	base := cfg.WikipediaURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return &Wikipedia{
		client:  buildHTTPClient(cfg, log),
		baseURL: base,
		cache:   newCache[string](cfg.CacheSize, cfg.CacheTTL),
		log:     log,
	}
}

// Summary returns "<extract>\n\nSource: <url>" for topic. Missing and
// ambiguous pages yield an explanatory message rather than an error.
func (w *Wikipedia) Summary(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", errors.New("empty topic")
	}
	if cached, ok := w.cache.get(topic); ok {
		w.log.Debug("wikipedia cache hit", "topic", topic)
		return cached, nil
	}

	var page pageSummary
	resp, err := w.client.R().
		SetContext(ctx).
		SetResult(&page).
		Get(w.baseURL + url.PathEscape(strings.ReplaceAll(topic, " ", "_")))
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}

	var summary string
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		summary = fmt.Sprintf("No Wikipedia page found for '%s'", topic)
	case resp.IsError():
		return "", fmt.Errorf("wikipedia request failed: status %d", resp.StatusCode())
	case page.Type == "disambiguation":
		summary = fmt.Sprintf("Multiple topics found for '%s'. Try a more specific name.", topic)
	case strings.TrimSpace(page.Extract) == "":
		summary = fmt.Sprintf("No Wikipedia page found for '%s'", topic)
	default:
		summary = strings.TrimSpace(page.Extract)
		if src := page.ContentURLs.Desktop.Page; src != "" {
			summary += "\n\nSource: " + src
		}
	}

	w.cache.add(topic, summary)
	return summary, nil
}

var _ core.Encyclopedia = (*Wikipedia)(nil)
