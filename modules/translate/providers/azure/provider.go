package azure

import (
	"fmt"
	"net/http"
	"time"

	"github.com/candinya/rss-translate-layer/modules/translate"
	"github.com/candinya/rss-translate-layer/types"
	"go.uber.org/zap"
)

const (
	providerName = "azure"
	apiVersion   = "3.0"
)

var _ translate.Provider = (*az)(nil)

type az struct {
	l *zap.Logger

	client   *http.Client
	endpoint string
	key      string
	region   string
}

func New(cfg *types.ConfigAzure, timeout time.Duration, l *zap.Logger) (translate.Provider, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("azure translator key is not set")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure translator endpoint is not set")
	}

	return &az{
		l:        l,
		client:   &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
		key:      cfg.Key,
		region:   cfg.Region,
	}, nil
}
