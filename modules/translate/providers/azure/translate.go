package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/candinya/rss-translate-layer/modules/translate"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type azureRequestItem struct {
	Text string `json:"text"`
}

// One element per request item, each with one translation per target.
type azureResponseBody []struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (t *az) Translate(ctx context.Context, text string, lang string) (string, error) {
	reqBodyBytes, err := json.Marshal([]azureRequestItem{{Text: text}})
	if err != nil {
		return "", t.fail(0, fmt.Errorf("failed to marshal request body: %w", err))
	}

	query := url.Values{}
	query.Set("api-version", apiVersion)
	query.Set("to", ToLanguageTag(lang))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/translate?"+query.Encode(), bytes.NewReader(reqBodyBytes))
	if err != nil {
		return "", t.fail(0, fmt.Errorf("failed to create request: %w", err))
	}

	traceID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", t.key)
	if t.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	}
	req.Header.Set("X-ClientTraceId", traceID)

	t.l.Debug("translate request", zap.String("provider", providerName), zap.String("trace", traceID), zap.String("to", query.Get("to")))

	res, err := t.client.Do(req)
	if err != nil {
		return "", t.fail(0, fmt.Errorf("failed to execute request: %w", err))
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", t.fail(res.StatusCode, fmt.Errorf("unexpected status (trace %s)", traceID))
	}

	var resBody azureResponseBody
	if err := json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return "", t.fail(res.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	if len(resBody) == 0 || len(resBody[0].Translations) == 0 {
		return "", t.fail(res.StatusCode, fmt.Errorf("response contains no translations"))
	}

	t.l.Debug("translate response", zap.String("provider", providerName), zap.String("trace", traceID), zap.Any("body", resBody))

	return resBody[0].Translations[0].Text, nil
}

func (t *az) fail(status int, err error) error {
	return &translate.ProviderError{
		Provider:   providerName,
		StatusCode: status,
		Err:        err,
	}
}

// ToLanguageTag converts codes such as "EN-GB" into BCP 47 tags ("en-GB").
func ToLanguageTag(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	return tag.String()
}
