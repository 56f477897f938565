package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		Env            string   `yaml:"env"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
		// headers are honored. Empty means the socket peer is the client.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`
	Search      SearchConfig      `yaml:"search"`
	Suggestions SuggestionsConfig `yaml:"suggestions"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Health      struct {
		SlowCacheThreshold time.Duration `yaml:"slow_cache_threshold"`
	} `yaml:"health"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	URI         string `yaml:"uri"`
	DBName      string `yaml:"dbname"`
	PostgresURL string `yaml:"postgres_url"`
}

type RedisConfig struct {
	Host        string `yaml:"host" validate:"required,hostname"`
	Port        int    `yaml:"port" validate:"required,gt=0,lte=65535"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db" validate:"gte=0"`
	PoolSize    int    `yaml:"pool_size"`
	TLSEnabled  bool   `yaml:"tls_enabled"`
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`
}

type SearchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	ResultsTTL  time.Duration `yaml:"results_ttl"`
	FeaturedTTL time.Duration `yaml:"featured_ttl"`
}

type SuggestionsConfig struct {
	Timeout           time.Duration `yaml:"timeout"`
	FanoutTimeout     time.Duration `yaml:"fanout_timeout"`
	CacheEnabled      *bool         `yaml:"cache_enabled"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	PopularTTL        time.Duration `yaml:"popular_ttl"`
	PopularFetchLimit int           `yaml:"popular_fetch_limit"`
	DefaultLimit      int           `yaml:"default_limit"`
	MaxLimit          int           `yaml:"max_limit"`
}

// CachingEnabled reports whether suggestion responses are cached; on unless
// explicitly disabled.
func (s SuggestionsConfig) CachingEnabled() bool {
	return s.CacheEnabled == nil || *s.CacheEnabled
}

// RateLimitScope is one fixed-window budget.
type RateLimitScope struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

type RateLimitConfig struct {
	Public        RateLimitScope `yaml:"public"`
	Authenticated RateLimitScope `yaml:"authenticated"`
	Strict        RateLimitScope `yaml:"strict"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Override with environment variables if set
func applyEnvOverrides(cfg *Config) error {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid SERVER_PORT value: %v", err)
		}
		cfg.Server.Port = portNum
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.Server.TrustedProxies = strings.Split(proxies, ",")
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.Database.DBName = dbname
	}
	if pgURL := os.Getenv("POSTGRES_URL"); pgURL != "" {
		cfg.Database.PostgresURL = pgURL
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		dbNum, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Redis.DB = dbNum
	}
	if tlsEnabled := os.Getenv("REDIS_TLS_ENABLED"); tlsEnabled != "" {
		cfg.Redis.TLSEnabled = tlsEnabled == "true"
	}
	if tlsCertFile := os.Getenv("REDIS_TLS_CERT_FILE"); tlsCertFile != "" {
		cfg.Redis.TLSCertFile = tlsCertFile
	}
	if tlsKeyFile := os.Getenv("REDIS_TLS_KEY_FILE"); tlsKeyFile != "" {
		cfg.Redis.TLSKeyFile = tlsKeyFile
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}
	return nil
}

// Set default values
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverMongo
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "rentals"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}

	if cfg.Search.Timeout == 0 {
		cfg.Search.Timeout = 10 * time.Second
	}
	if cfg.Search.ResultsTTL == 0 {
		cfg.Search.ResultsTTL = 5 * time.Minute
	}
	if cfg.Search.FeaturedTTL == 0 {
		cfg.Search.FeaturedTTL = 15 * time.Minute
	}

	s := &cfg.Suggestions
	if s.Timeout == 0 {
		s.Timeout = 3 * time.Second
	}
	if s.FanoutTimeout == 0 {
		s.FanoutTimeout = s.Timeout * 5 / 6
	}
	if s.CacheTTL == 0 {
		s.CacheTTL = 30 * time.Minute
	}
	if s.PopularTTL == 0 {
		s.PopularTTL = 5 * time.Minute
	}
	if s.PopularFetchLimit == 0 {
		s.PopularFetchLimit = 50
	}
	if s.DefaultLimit == 0 {
		s.DefaultLimit = 8
	}
	if s.MaxLimit == 0 {
		s.MaxLimit = 20
	}

	defaultScope(&cfg.RateLimit.Public, 100, 15*time.Minute)
	defaultScope(&cfg.RateLimit.Authenticated, 200, 15*time.Minute)
	defaultScope(&cfg.RateLimit.Strict, 5, 15*time.Minute)

	if cfg.Health.SlowCacheThreshold == 0 {
		cfg.Health.SlowCacheThreshold = 250 * time.Millisecond
	}
}

func defaultScope(scope *RateLimitScope, maxRequests int, window time.Duration) {
	if scope.MaxRequests == 0 {
		scope.MaxRequests = maxRequests
	}
	if scope.Window == 0 {
		scope.Window = window
	}
}

// Validate checks the loaded configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("REDIS_PORT must be between 1 and 65535")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.Redis.TLSEnabled && c.Redis.TLSCertFile != "" {
		if _, err := os.Stat(c.Redis.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", c.Redis.TLSCertFile)
		}
	}

	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.URI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo driver")
		}
	case DriverPostgres:
		if c.Database.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Suggestions.FanoutTimeout >= c.Suggestions.Timeout {
		return fmt.Errorf("suggestions.fanout_timeout (%s) must be lower than suggestions.timeout (%s)",
			c.Suggestions.FanoutTimeout, c.Suggestions.Timeout)
	}
	if c.Suggestions.DefaultLimit > c.Suggestions.MaxLimit {
		return fmt.Errorf("suggestions.default_limit must not exceed suggestions.max_limit")
	}
	for name, scope := range map[string]RateLimitScope{
		"public":        c.RateLimit.Public,
		"authenticated": c.RateLimit.Authenticated,
		"strict":        c.RateLimit.Strict,
	} {
		if scope.MaxRequests <= 0 || scope.Window < time.Second {
			return fmt.Errorf("rate_limit.%s needs max_requests > 0 and a window of at least 1s", name)
		}
	}
	return nil
}
