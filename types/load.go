package types

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

const (
	deepLFreeAPIURL = "https://api-free.deepl.com/v2/translate"
	deepLProAPIURL  = "https://api.deepl.com/v2/translate"
)

type rawConfig struct {
	Listen         string        `long:"listen" env:"LISTEN" default:":5000" description:"HTTP listen address"`
	Debug          bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
	RequestTimeout time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"10s" description:"Timeout for upstream fetch and translation calls"`
	UserAgent      string        `long:"user-agent" env:"USER_AGENT" default:"curl/8.15.0" description:"User agent sent when fetching source feeds"`
	DefaultLang    string        `long:"default-lang" env:"DEFAULT_LANG" default:"EN-GB" description:"Target language when the request has no lang parameter"`

	DeepLAuthKey string `long:"deepl-auth-key" env:"DEEPL_AUTH_KEY" required:"true" description:"DeepL API auth key"`
	DeepLAPIURL  string `long:"deepl-api-url" env:"DEEPL_API_URL" description:"DeepL translate endpoint (derived from the key when empty)"`

	AzureKey      string `long:"azure-key" env:"AZURE_TRANSLATOR_KEY" description:"Azure Translator subscription key (enables the fallback provider)"`
	AzureRegion   string `long:"azure-region" env:"AZURE_TRANSLATOR_REGION" description:"Azure Translator resource region"`
	AzureEndpoint string `long:"azure-endpoint" env:"AZURE_TRANSLATOR_ENDPOINT" default:"https://api.cognitive.microsofttranslator.com" description:"Azure Translator endpoint"`

	CacheBackend   string `long:"cache-backend" env:"CACHE_BACKEND" default:"sqlite" choice:"sqlite" choice:"redis" description:"Translation cache backend"`
	CachePath      string `long:"cache-path" env:"CACHE_PATH" default:".translation_cache" description:"Directory of the on-disk translation cache"`
	CacheSizeLimit int64  `long:"cache-size-limit" env:"CACHE_SIZE_LIMIT" default:"1073741824" description:"Size ceiling of the on-disk cache in bytes"`
	RedisURL       string `long:"redis-url" env:"REDIS_URL" description:"Redis URL for the redis cache backend"`
	RedisPrefix    string `long:"redis-prefix" env:"REDIS_PREFIX" default:"rss-translate:" description:"Key prefix for the redis cache backend"`

	OverrideTitles []string `long:"override-title" env:"OVERRIDE_TITLES" env-delim:"," description:"Feed title substring forcing the fallback provider"`
	OverrideHosts  []string `long:"override-host" env:"OVERRIDE_HOSTS" env-delim:"," description:"Feed host or URL token forcing the fallback provider"`
	OverridesFile  string   `long:"overrides-file" env:"OVERRIDES_FILE" description:"YAML file with additional override rules"`
}

// Load parses args and the environment into a validated Config.
// It returns nil, nil when help was requested.
func Load(args []string) (*Config, error) {
	var raw rawConfig

	parser := flags.NewParser(&raw, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Config{
		System: ConfigSystem{
			Debug:          raw.Debug,
			Listen:         raw.Listen,
			RequestTimeout: raw.RequestTimeout,
			UserAgent:      raw.UserAgent,
		},
		Translate: ConfigTranslate{
			DefaultLang: strings.ToUpper(raw.DefaultLang),
			DeepL: ConfigDeepL{
				AuthKey: raw.DeepLAuthKey,
				APIURL:  raw.DeepLAPIURL,
			},
		},
		Cache: ConfigCache{
			Backend:   raw.CacheBackend,
			Path:      raw.CachePath,
			SizeLimit: raw.CacheSizeLimit,
		},
		Overrides: ConfigOverrides{
			Titles: raw.OverrideTitles,
			Hosts:  raw.OverrideHosts,
		},
	}

	if cfg.Translate.DeepL.APIURL == "" {
		cfg.Translate.DeepL.APIURL = deepLAPIURLForKey(raw.DeepLAuthKey)
	}

	if raw.AzureKey != "" {
		cfg.Translate.Azure = &ConfigAzure{
			Key:      raw.AzureKey,
			Region:   raw.AzureRegion,
			Endpoint: strings.TrimRight(raw.AzureEndpoint, "/"),
		}
	}

	cfg.Cache.Redis.URL = raw.RedisURL
	cfg.Cache.Redis.Prefix = raw.RedisPrefix

	if raw.OverridesFile != "" {
		fileOverrides, err := LoadOverridesFile(raw.OverridesFile)
		if err != nil {
			return nil, err
		}
		cfg.Overrides.Titles = append(cfg.Overrides.Titles, fileOverrides.Titles...)
		cfg.Overrides.Hosts = append(cfg.Overrides.Hosts, fileOverrides.Hosts...)
	}

	cfg.Overrides.Titles = cleanPatterns(cfg.Overrides.Titles)
	cfg.Overrides.Hosts = cleanPatterns(cfg.Overrides.Hosts)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadOverridesFile reads override rules from a YAML document.
func LoadOverridesFile(path string) (*ConfigOverrides, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}

	var overrides ConfigOverrides
	if err := yaml.Unmarshal(fileBytes, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file: %w", err)
	}

	return &overrides, nil
}

func deepLAPIURLForKey(key string) string {
	// Free-tier keys carry the ":fx" suffix
	if strings.HasSuffix(key, ":fx") {
		return deepLFreeAPIURL
	}
	return deepLProAPIURL
}

func cleanPatterns(patterns []string) []string {
	var cleaned []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
