package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the dashboard server and weatherctl.
// Values come from an optional YAML file; environment variables override it.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	Fields    FieldConfig     `yaml:"fields,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty"`
	Feed      FeedConfig      `yaml:"feed,omitempty"`
	Ingest    IngestConfig    `yaml:"ingest,omitempty"`
	MQTT      MQTTConfig      `yaml:"mqtt,omitempty"`
}

// DashboardConfig configures the dashboard server and its upstream fetch.
type DashboardConfig struct {
	APIURL       string        `yaml:"api_url" validate:"required,url"`
	Port         string        `yaml:"port,omitempty" validate:"required,numeric"`
	FetchTimeout time.Duration `yaml:"fetch_timeout,omitempty" validate:"gte=0"` // 0 = no timeout
}

// FieldConfig names the JSON keys read from each upstream record.
type FieldConfig struct {
	Date     string `yaml:"date,omitempty"`
	High     string `yaml:"high,omitempty"`
	Low      string `yaml:"low,omitempty"`
	Category string `yaml:"category,omitempty"`
}

type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// FeedConfig configures the forecast feed served by weatherctl serve.
type FeedConfig struct {
	Port  string `yaml:"port,omitempty"`
	Limit int    `yaml:"limit,omitempty"`
}

type IngestConfig struct {
	RawDir       string `yaml:"raw_dir,omitempty"`
	ProcessedDir string `yaml:"processed_dir,omitempty"`
}

// MQTTConfig holds broker settings for publishing daily forecasts.
type MQTTConfig struct {
	Broker      string `yaml:"broker,omitempty" validate:"required,hostname_port"`
	TopicPrefix string `yaml:"topic_prefix,omitempty" validate:"required,excludesall=#+"`
	ClientID    string `yaml:"client_id,omitempty" validate:"required"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

var (
	// ErrMissingAPIURL is returned by ValidateDashboard when no upstream is set.
	ErrMissingAPIURL = errors.New("DASHBOARD_API_URL is not set")
	// ErrMissingBroker is returned by ValidateMQTT when no broker is set.
	ErrMissingBroker = errors.New("MQTT_BROKER is not set")
)

var validate = validator.New()

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Default returns a config with every default filled in.
func Default() *Config {
	return &Config{
		Dashboard: DashboardConfig{Port: "8080"},
		Fields: FieldConfig{
			Date:     "date",
			High:     "max_temp",
			Low:      "min_temp",
			Category: "weather_condition",
		},
		Store:  StoreConfig{Path: "data.db"},
		Feed:   FeedConfig{Port: "8081", Limit: 7},
		Ingest: IngestConfig{RawDir: "raw_data/to_process", ProcessedDir: "raw_data/processed"},
		MQTT:   MQTTConfig{TopicPrefix: "weather", ClientID: "weatherctl"},
	}
}

// Load reads the config file at path (a missing file is not an error) and
// then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Dashboard.APIURL, "DASHBOARD_API_URL")
	setString(&c.Dashboard.Port, "PORT")
	setString(&c.Fields.Date, "FIELD_DATE")
	setString(&c.Fields.High, "FIELD_HIGH")
	setString(&c.Fields.Low, "FIELD_LOW")
	setString(&c.Fields.Category, "FIELD_CATEGORY")
	setString(&c.Store.Path, "DB_PATH")
	setString(&c.Feed.Port, "FEED_PORT")
	setString(&c.Ingest.RawDir, "RAW_DIR")
	setString(&c.Ingest.ProcessedDir, "PROCESSED_DIR")
	setString(&c.MQTT.Broker, "MQTT_BROKER")
	setString(&c.MQTT.TopicPrefix, "MQTT_TOPIC_PREFIX")
	setString(&c.MQTT.Username, "MQTT_USERNAME")
	setString(&c.MQTT.Password, "MQTT_PASSWORD")

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing FETCH_TIMEOUT: %w", err)
		}
		c.Dashboard.FetchTimeout = d
	}
	if v := os.Getenv("FEED_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing FEED_LIMIT: %w", err)
		}
		c.Feed.Limit = n
	}
	return nil
}

// ValidateDashboard checks what the dashboard server needs to start.
func (c *Config) ValidateDashboard() error {
	if c.Dashboard.APIURL == "" {
		return ErrMissingAPIURL
	}
	if err := validate.Struct(c.Dashboard); err != nil {
		return fmt.Errorf("invalid dashboard config: %w", err)
	}
	return nil
}

// ValidateMQTT checks what weatherctl publish needs.
func (c *Config) ValidateMQTT() error {
	if c.MQTT.Broker == "" {
		return ErrMissingBroker
	}
	if err := validate.Struct(c.MQTT); err != nil {
		return fmt.Errorf("invalid mqtt config: %w", err)
	}
	return nil
}

// GetFeedLimit returns the number of rows served by the feed, default 7.
func (c *Config) GetFeedLimit() int {
	if c.Feed.Limit <= 0 {
		return 7
	}
	return c.Feed.Limit
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
