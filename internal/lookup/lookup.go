// Package lookup answers web search and encyclopedia queries over HTTP.
package lookup

import (
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Config configures the lookup clients
type Config struct {
	SearchURL    string
	WikipediaURL string
	Timeout      time.Duration
	Results      int
	CacheSize    int
	CacheTTL     time.Duration
	UserAgent    string
}

// DefaultConfig returns the public endpoints
func DefaultConfig() Config {
	return Config{
		SearchURL:    "https://api.duckduckgo.com/",
		WikipediaURL: "https://en.wikipedia.org/api/rest_v1/page/summary/",
		Timeout:      10 * time.Second,
		Results:      5,
		CacheSize:    128,
		CacheTTL:     10 * time.Minute,
		UserAgent:    "JARVIS-Assistant/1.0",
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SearchURL == "" {
		c.SearchURL = d.SearchURL
	}
	if c.WikipediaURL == "" {
		c.WikipediaURL = d.WikipediaURL
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.Results <= 0 {
		c.Results = d.Results
	}
	if c.CacheSize <= 0 {
		c.CacheSize = d.CacheSize
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	return c
}

// buildHTTPClient creates and configures the HTTP client
func buildHTTPClient(cfg Config, log logger.Logger) *resty.Client {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(2).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)

	client.AddRetryCondition(retryCondition)
	client.OnError(func(req *resty.Request, err error) {
		log.Debug("lookup request failed", "url", req.URL, "err", err)
	})

	return client
}

// retryCondition retries network errors and transient server responses
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == 429 || code == 408
}

// cache holds lookup results keyed by normalized query
type cache[V any] struct {
	lru *expirable.LRU[string, V]
}

func newCache[V any](size int, ttl time.Duration) *cache[V] {
	return &cache[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

func (c *cache[V]) get(query string) (V, bool) {
	return c.lru.Get(normalize(query))
}

func (c *cache[V]) add(query string, v V) {
	c.lru.Add(normalize(query), v)
}

// normalize lowercases and collapses whitespace
func normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
