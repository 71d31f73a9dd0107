package providers

import (
	"fmt"
	"time"

	"github.com/candinya/rss-translate-layer/modules/translate"
	"github.com/candinya/rss-translate-layer/modules/translate/providers/azure"
	"github.com/candinya/rss-translate-layer/modules/translate/providers/deepl"
	"github.com/candinya/rss-translate-layer/types"
	"go.uber.org/zap"
)

// NewTranslator builds the adapter for a provider slot. The fallback slot
// returns nil without error when it is not configured.
func NewTranslator(id translate.ProviderID, cfg *types.ConfigTranslate, timeout time.Duration, l *zap.Logger) (translate.Provider, error) {
	switch id {
	case translate.Primary:
		return deepl.New(&cfg.DeepL, timeout, l)
	case translate.Fallback:
		if cfg.Azure == nil {
			return nil, nil
		}
		return azure.New(cfg.Azure, timeout, l)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", id)
	}
}
