// Package learnhub fetches, summarizes and translates investor-education articles.
package learnhub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"investor-education/internal/config"
	"investor-education/internal/data"
)

// DemoURL is the SEBI circulars page used by the quick demo.
const DemoURL = "https://www.sebi.gov.in/legal/circulars"

const (
	// unsummarizedChars bounds the text sent for translation without a summary.
	unsummarizedChars = 5000
	// originalChars bounds the echoed original text.
	originalChars = 1500
)

var ErrEmptyInput = errors.New("enter a URL or paste some text")

// FetchError wraps a failure to download the source page.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// Request is one Learn Hub job. URL wins over Text when both are set.
type Request struct {
	URL       string `json:"url"`
	Text      string `json:"text"`
	Lang      string `json:"lang"`
	Summarize bool   `json:"summarize"`
	Sentences int    `json:"sentences"`
}

type Result struct {
	Lang       string `json:"lang"`
	Summarized bool   `json:"summarized"`
	// Original is the text that was translated, truncated for display.
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

type Hub struct {
	fetcher      *Fetcher
	translator   Translator
	summaries    *data.Cache[string]
	translations *data.Cache[string]
	log          *zap.Logger
}

func New(fetcher *Fetcher, translator Translator, textTTL time.Duration, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if translator == nil {
		translator = DisabledTranslator{}
	}
	return &Hub{
		fetcher:      fetcher,
		translator:   translator,
		summaries:    data.NewCache[string](textTTL),
		translations: data.NewCache[string](textTTL),
		log:          logger,
	}
}

// NewFromConfig wires the fetcher and the configured translator. A Gemini translator
// without an API key is replaced by the disabled one and logged.
func NewFromConfig(ctx context.Context, cfg config.LearnHubConfig, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	var tr Translator = DisabledTranslator{}
	if strings.EqualFold(cfg.Translator, "gemini") {
		g, err := NewGeminiTranslator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			logger.Warn("learnhub: translation disabled", zap.Error(err))
		} else {
			tr = g
		}
	}
	return New(NewFetcher(cfg.FetchTimeout, cfg.FetchTTL, logger), tr, cfg.TextTTL, logger)
}

// Process resolves the source text, optionally summarizes it, and translates it.
// Translation failures never fail the request; they come back as a visible message.
func (h *Hub) Process(ctx context.Context, req Request) (Result, error) {
	lang := strings.ToLower(strings.TrimSpace(req.Lang))
	if lang == "" {
		lang = "hi"
	}
	if _, ok := Languages[lang]; !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Lang)
	}

	var source string
	switch {
	case strings.TrimSpace(req.URL) != "":
		url := strings.TrimSpace(req.URL)
		text, err := h.fetcher.Fetch(ctx, url)
		if err != nil {
			return Result{}, &FetchError{URL: url, Err: err}
		}
		source = text
	case strings.TrimSpace(req.Text) != "":
		source = strings.TrimSpace(req.Text)
	default:
		return Result{}, ErrEmptyInput
	}

	var toTranslate string
	if req.Summarize {
		toTranslate = h.summarize(source, ClampSentences(req.Sentences))
	} else {
		toTranslate = truncateRunes(source, unsummarizedChars)
	}

	return Result{
		Lang:       lang,
		Summarized: req.Summarize,
		Original:   displayOriginal(toTranslate),
		Translated: h.translate(ctx, toTranslate, lang),
	}, nil
}

func (h *Hub) summarize(text string, n int) string {
	key := data.CacheKey("summary", text, fmt.Sprint(n))
	if s, ok := h.summaries.Get(key); ok {
		return s
	}
	s := Summarize(text, n)
	h.summaries.Set(key, s)
	return s
}

func (h *Hub) translate(ctx context.Context, text, lang string) string {
	key := data.CacheKey("translate", text, lang)
	if s, ok := h.translations.Get(key); ok {
		return s
	}
	out, err := h.translator.Translate(ctx, text, lang)
	if err != nil {
		h.log.Warn("learnhub: translation failed", zap.String("lang", lang), zap.Error(err))
		return "Translation error: " + err.Error()
	}
	h.translations.Set(key, out)
	return out
}

// Close stops the cache cleanup goroutines.
func (h *Hub) Close() {
	h.summaries.Close()
	h.translations.Close()
	if h.fetcher != nil {
		h.fetcher.Close()
	}
}

func displayOriginal(s string) string {
	if len([]rune(s)) <= originalChars {
		return s
	}
	return truncateRunes(s, originalChars) + "…"
}
