package learnhub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Languages maps supported target codes to the names used in prompts.
var Languages = map[string]string{
	"hi": "Hindi",
	"bn": "Bengali",
	"ta": "Tamil",
}

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrTranslationDisabled = errors.New("translation is not configured")
)

// Translator turns English text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}

// GeminiTranslator translates through the Gemini API.
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

func NewGeminiTranslator(ctx context.Context, apiKey, model string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiTranslator{client: client, model: model}, nil
}

func (g *GeminiTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	name, ok := Languages[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(translatePrompt(text, name)), nil)
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return out, nil
}

func translatePrompt(text, language string) string {
	return fmt.Sprintf("Translate the following text into %s. Reply with the translation only, "+
		"keeping numbers, tickers and proper nouns unchanged.\n\n%s", language, text)
}

// DisabledTranslator is used when no translation backend is configured.
type DisabledTranslator struct{}

func (DisabledTranslator) Translate(context.Context, string, string) (string, error) {
	return "", ErrTranslationDisabled
}
