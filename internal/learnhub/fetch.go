package learnhub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"investor-education/internal/data"
)

// MaxPageChars caps the text kept from one fetched page.
const MaxPageChars = 100000

// MaxBodyBytes caps how much of a response body is parsed.
const MaxBodyBytes = 10 << 20

// Fetcher downloads a page and reduces it to visible text.
type Fetcher struct {
	Client *http.Client
	cache  *data.Cache[string]
	log    *zap.Logger
}

func NewFetcher(timeout, ttl time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		Client: &http.Client{Timeout: timeout},
		cache:  data.NewCache[string](ttl),
		log:    logger,
	}
}

// Fetch returns the whitespace-collapsed text of the page at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if text, ok := f.cache.Get(url); ok {
		return text, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		f.log.Warn("learnhub: fetch failed", zap.String("url", url), zap.Error(err))
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	f.log.Debug("learnhub: fetched", zap.String("url", url), zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	text, err := ExtractText(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", err
	}
	f.cache.Set(url, text)
	return text, nil
}

// Close stops the cache cleanup goroutine.
func (f *Fetcher) Close() { f.cache.Close() }

var skipTags = map[string]bool{"script": true, "style": true, "noscript": true}

// ExtractText parses an HTML document and returns its visible text with runs of
// whitespace collapsed to single spaces, capped at MaxPageChars.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return truncateRunes(strings.Join(strings.Fields(strings.Join(parts, " ")), " "), MaxPageChars), nil
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
