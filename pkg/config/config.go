package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration the engine refuses to start with.
// Invalid combinations are never silently corrected.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Enabled         bool          `yaml:"enabled"`
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimitRPS    float64       `yaml:"rate_limit_rps" validate:"gte=0"`
	} `yaml:"server"`
	Source struct {
		Type string `yaml:"type" default:"file" validate:"oneof=file clickhouse"`
		Path string `yaml:"path"`
		From string `yaml:"from"` // optional inclusive bound, RFC3339 or 2006-01-02
		To   string `yaml:"to"`
	} `yaml:"source"`
	Signals struct {
		BuyThreshold      float64  `yaml:"buy_threshold" default:"0.2"`
		SellThreshold     float64  `yaml:"sell_threshold" default:"-0.2"`
		KeywordWeight     float64  `yaml:"keyword_weight" default:"0.6"`
		EmbeddingWeight   float64  `yaml:"embedding_weight" default:"0.4"`
		MarketTimezone    string   `yaml:"market_timezone" default:"America/New_York"`
		LanguageAllowlist []string `yaml:"language_allowlist"`
		MinDailyVolume    int      `yaml:"min_daily_volume" default:"20" validate:"gte=0"`
		MinVolumePct      float64  `yaml:"min_volume_pct" validate:"gte=0,lte=1"`
		OutputPath        string   `yaml:"output_path" default:"signals/daily_aggregated_signals.csv"`
		ConfidenceMode    string   `yaml:"confidence_mode" default:"share" validate:"oneof=share composite"`
		Workers           int      `yaml:"workers" default:"4" validate:"gt=0"`
	} `yaml:"signals"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"trendpulse"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		SinkEnabled      bool          `yaml:"sink_enabled"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"trendpulse.daily_signals"`
		LogTopic     string   `yaml:"log_topic" default:"trendpulse.run_logs"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	Cache struct {
		MemorySize int           `yaml:"memory_size" default:"512"`
		TTL        time.Duration `yaml:"ttl" default:"24h"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file, applies defaults, and
// validates. Validation failures are fatal at startup.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SOURCE_TYPE"); v != "" {
		c.Source.Type = v
	}
	if v := os.Getenv("SOURCE_PATH"); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv("OUTPUT_PATH"); v != "" {
		c.Signals.OutputPath = v
	}
	if v := os.Getenv("MARKET_TIMEZONE"); v != "" {
		c.Signals.MarketTimezone = v
	}
	if v := os.Getenv("LANGUAGE_ALLOWLIST"); v != "" {
		c.Signals.LanguageAllowlist = strings.Split(v, ",")
	}
	if v := os.Getenv("MIN_DAILY_VOLUME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Signals.MinDailyVolume = n
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
}

// Validate checks structural tags plus the cross-field rules the engine
// refuses to run without.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s := &c.Signals
	if math.Abs(s.KeywordWeight+s.EmbeddingWeight-1) > 1e-9 {
		return fmt.Errorf("%w: keyword_weight + embedding_weight must equal 1, got %g + %g",
			ErrInvalid, s.KeywordWeight, s.EmbeddingWeight)
	}
	if s.SellThreshold >= 0 || s.BuyThreshold <= 0 {
		return fmt.Errorf("%w: thresholds must satisfy sell_threshold < 0 < buy_threshold, got [%g, %g]",
			ErrInvalid, s.SellThreshold, s.BuyThreshold)
	}
	if s.SellThreshold >= s.BuyThreshold {
		return fmt.Errorf("%w: sell_threshold %g must be below buy_threshold %g",
			ErrInvalid, s.SellThreshold, s.BuyThreshold)
	}
	if _, err := time.LoadLocation(s.MarketTimezone); err != nil {
		return fmt.Errorf("%w: market_timezone %q: %v", ErrInvalid, s.MarketTimezone, err)
	}

	if c.Source.Type == "file" && c.Source.Path == "" {
		return fmt.Errorf("%w: source.path is required for file source", ErrInvalid)
	}
	if c.Source.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("%w: clickhouse.host is required for clickhouse source", ErrInvalid)
	}
	if c.ClickHouse.SinkEnabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("%w: clickhouse.host is required when sink is enabled", ErrInvalid)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.brokers cannot be empty when kafka is enabled", ErrInvalid)
	}
	return nil
}

// MarketLocation resolves the configured market timezone. Validate has
// already established it loads.
func (c *Config) MarketLocation() *time.Location {
	loc, err := time.LoadLocation(c.Signals.MarketTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
