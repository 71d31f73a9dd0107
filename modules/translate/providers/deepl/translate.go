package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/candinya/rss-translate-layer/modules/translate"
	"go.uber.org/zap"
)

type deepLRequestBody struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
}

type deepLResponseBody struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func (t *dl) Translate(ctx context.Context, text string, lang string) (string, error) {
	reqBody := &deepLRequestBody{
		Text:       []string{text},
		TargetLang: strings.ToUpper(lang),
	}

	t.l.Debug("translate request", zap.String("provider", providerName), zap.Any("body", reqBody))

	reqBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", t.fail(0, fmt.Errorf("failed to marshal request body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(reqBodyBytes))
	if err != nil {
		return "", t.fail(0, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+t.key)

	res, err := t.client.Do(req)
	if err != nil {
		return "", t.fail(0, fmt.Errorf("failed to execute request: %w", err))
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", t.fail(res.StatusCode, fmt.Errorf("%s: %s", statusReason(res.StatusCode), strings.TrimSpace(string(detail))))
	}

	var resBody deepLResponseBody
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return "", t.fail(res.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(resBody.Translations) == 0 {
		return "", t.fail(res.StatusCode, fmt.Errorf("response contains no translations"))
	}

	t.l.Debug("translate response", zap.String("provider", providerName), zap.Any("body", resBody))

	return resBody.Translations[0].Text, nil
}

func (t *dl) fail(status int, err error) error {
	return &translate.ProviderError{
		Provider:   providerName,
		StatusCode: status,
		Err:        err,
	}
}

func statusReason(status int) string {
	switch status {
	case http.StatusForbidden:
		return "authorization failed"
	case http.StatusTooManyRequests:
		return "too many requests"
	case 456:
		return "quota exceeded"
	default:
		return "unexpected status"
	}
}
