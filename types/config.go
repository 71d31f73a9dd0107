package types

import (
	"fmt"
	"time"
)

const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	System    ConfigSystem
	Translate ConfigTranslate
	Cache     ConfigCache
	Overrides ConfigOverrides
}

type ConfigSystem struct {
	Debug          bool
	Listen         string
	RequestTimeout time.Duration
	UserAgent      string
}

type ConfigTranslate struct {
	DefaultLang string
	DeepL       ConfigDeepL
	Azure       *ConfigAzure // nil when no fallback key is configured
}

type ConfigDeepL struct {
	AuthKey string
	APIURL  string
}

type ConfigAzure struct {
	Key      string
	Region   string
	Endpoint string
}

type ConfigCache struct {
	Backend   string
	Path      string
	SizeLimit int64
	Redis     struct {
		URL    string
		Prefix string
	}
}

// ConfigOverrides lists the patterns forcing a feed onto the fallback provider.
type ConfigOverrides struct {
	Titles []string `yaml:"titles"`
	Hosts  []string `yaml:"hosts"`
}

func (c *Config) Validate() error {
	if c.Translate.DeepL.AuthKey == "" {
		return fmt.Errorf("DeepL auth key is not set")
	}
	if c.System.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.System.RequestTimeout)
	}

	switch c.Cache.Backend {
	case CacheBackendSQLite:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache path is empty")
		}
		if c.Cache.SizeLimit <= 0 {
			return fmt.Errorf("cache size limit must be positive, got %d", c.Cache.SizeLimit)
		}
	case CacheBackendRedis:
		if c.Cache.Redis.URL == "" {
			return fmt.Errorf("redis url is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("unsupported cache backend: %s", c.Cache.Backend)
	}

	return nil
}
