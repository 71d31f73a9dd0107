package deepl

import (
	"fmt"
	"net/http"
	"time"

	"github.com/candinya/rss-translate-layer/modules/translate"
	"github.com/candinya/rss-translate-layer/types"
	"go.uber.org/zap"
)

const providerName = "deepl"

var _ translate.Provider = (*dl)(nil)

type dl struct {
	l *zap.Logger

	client *http.Client
	url    string
	key    string
}

// New prepares the DeepL session. A missing key is a startup error.
func New(cfg *types.ConfigDeepL, timeout time.Duration, l *zap.Logger) (translate.Provider, error) {
	if cfg.AuthKey == "" {
		return nil, fmt.Errorf("deepl auth key is not set")
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("deepl api url is not set")
	}

	return &dl{
		l:      l,
		client: &http.Client{Timeout: timeout},
		url:    cfg.APIURL,
		key:    cfg.AuthKey,
	}, nil
}
