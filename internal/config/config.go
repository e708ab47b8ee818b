package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"statwire/internal/assemble"
	"statwire/internal/editorial"
	"statwire/internal/logging"
	"statwire/internal/metric"
)

// Config materialises application configuration. Constructed once at
// process start and handed into every component; nothing reads
// ambient global state afterward.
type Config struct {
	App      AppConfig                `mapstructure:"app"`
	Logging  logging.Config           `mapstructure:"logging"`
	Database DatabaseConfig           `mapstructure:"database"`
	Storage  StorageConfig            `mapstructure:"storage"`
	API      APIConfig                `mapstructure:"api"`
	AI       AIConfig                 `mapstructure:"ai"`
	Datasets map[string]DatasetConfig `mapstructure:"datasets"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates the optional PostgreSQL release archive.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// StorageConfig locates the per-dataset file trees.
type StorageConfig struct {
	Root string `mapstructure:"root"`
}

// APIConfig covers the upstream statistics source.
type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	RegistrationKey string        `mapstructure:"registration_key"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	LookbackYears   int           `mapstructure:"lookback_years"`
}

// AIConfig parameterises the drafting/auditing collaborator.
type AIConfig struct {
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	Temperature  float64 `mapstructure:"temperature"`
	AuditEnabled bool    `mapstructure:"audit_enabled"`
}

// SignalConfig seeds the locked editorial signal for a dataset's
// first release; afterward the production document is authoritative.
type SignalConfig struct {
	State      string `mapstructure:"state"`
	Pressure   string `mapstructure:"pressure"`
	Confidence string `mapstructure:"confidence"`
}

// DatasetConfig describes one publishable dataset.
type DatasetConfig struct {
	Label            string               `mapstructure:"label"`
	ReleaseRule      string               `mapstructure:"release_rule"`
	Metrics          []metric.Definition  `mapstructure:"metrics"`
	Templates        []editorial.Template `mapstructure:"templates"`
	Signal           SignalConfig         `mapstructure:"signal"`
	Source           string               `mapstructure:"source"`
	MethodologyNotes string               `mapstructure:"methodology_notes"`
}

// SeriesIDs returns the unique upstream series the dataset draws on.
func (d DatasetConfig) SeriesIDs() []string {
	seen := make(map[string]bool, len(d.Metrics))
	var ids []string
	for _, def := range d.Metrics {
		if !seen[def.SeriesID] {
			seen[def.SeriesID] = true
			ids = append(ids, def.SeriesID)
		}
	}
	return ids
}

// MetricKeys returns the configured metric keys in definition order.
func (d DatasetConfig) MetricKeys() []string {
	keys := make([]string, 0, len(d.Metrics))
	for _, def := range d.Metrics {
		keys = append(keys, def.Key)
	}
	return keys
}

// Rule returns the parsed release-calendar rule.
func (d DatasetConfig) Rule() assemble.ReleaseRule {
	return assemble.ReleaseRule(d.ReleaseRule)
}

// LockedDefaults builds the first-release locked fields.
func (d DatasetConfig) LockedDefaults() assemble.Locked {
	return assemble.Locked{
		Signal: editorial.Signal{
			State:      editorial.State(d.Signal.State),
			Pressure:   editorial.Pressure(d.Signal.Pressure),
			Confidence: d.Signal.Confidence,
		},
		Source:           d.Source,
		MethodologyNotes: d.MethodologyNotes,
	}
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STATWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "statwire")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("storage.root", "data")

	v.SetDefault("api.base_url", "https://api.bls.gov")
	v.SetDefault("api.request_timeout", "30s")
	v.SetDefault("api.user_agent", "statwire/1.0")
	v.SetDefault("api.lookback_years", 3)

	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.audit_enabled", false)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Storage.Root == "" {
		return fmt.Errorf("storage.root must be configured")
	}
	if c.API.LookbackYears < 3 {
		return fmt.Errorf("api.lookback_years must be at least 3 to cover the trend window")
	}
	for name, ds := range c.Datasets {
		if err := ds.validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (d DatasetConfig) validate(name string) error {
	if d.Label == "" {
		return fmt.Errorf("dataset %s: label is required", name)
	}
	switch assemble.ReleaseRule(d.ReleaseRule) {
	case assemble.RuleFirstFriday, assemble.RuleDay12:
	default:
		return fmt.Errorf("dataset %s: unknown release_rule %q", name, d.ReleaseRule)
	}
	if len(d.Metrics) == 0 {
		return fmt.Errorf("dataset %s: no series identifiers configured", name)
	}
	for _, def := range d.Metrics {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("dataset %s: %w", name, err)
		}
	}
	return nil
}

// Dataset resolves a dataset selector; unknown selectors are a
// configuration error.
func (c *Config) Dataset(name string) (DatasetConfig, error) {
	ds, ok := c.Datasets[name]
	if !ok {
		return DatasetConfig{}, fmt.Errorf("dataset %q not configured", name)
	}
	return ds, nil
}
