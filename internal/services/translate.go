package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const DefaultTranslateURL = "https://deep-translate1.p.rapidapi.com"

// Translator calls the RapidAPI deep-translate service.
type Translator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
}

func NewTranslator(apiKey, baseURL string, httpClient *http.Client, retry RetryPolicy) *Translator {
	if baseURL == "" {
		baseURL = DefaultTranslateURL
	}
	return &Translator{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		retry:      retry,
	}
}

func (t *Translator) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" || target == "" {
		return "", fmt.Errorf("translate: %w: empty text or target", types.ErrInvalidInput)
	}

	body, err := sjson.Set("", "q", text)
	if err != nil {
		return "", err
	}
	body, _ = sjson.Set(body, "source", "auto")
	body, _ = sjson.Set(body, "target", target)

	var translated string
	err = RunWithRetry(ctx, t.retry, func(ctx context.Context) error {
		req, err := rapidAPIRequest(ctx, http.MethodPost, t.baseURL+"/language/translate/v2", t.apiKey, strings.NewReader(body))
		if err != nil {
			return err
		}
		res, err := doJSON(t.httpClient, req, "translate")
		if err != nil {
			return err
		}
		tr := res.Get("data.translations.translatedText")
		if tr.IsArray() {
			tr = tr.Get("0")
		}
		if !tr.Exists() {
			tr = res.Get("data.translations.0.translatedText")
		}
		translated = tr.String()
		return nil
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(translated) == "" {
		return "", fmt.Errorf("translate: %w", types.ErrEmptyResult)
	}
	return translated, nil
}
