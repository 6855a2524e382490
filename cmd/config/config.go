package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ocs-acceptance/internal/infra/schedule"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

// LoadConfig reads the process configuration once. It panics when a config
// file exists but cannot be parsed.
func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		cfg, err := Load(viper.GetViper())
		if err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = cfg
	})

	return configInstance
}

// Load reads the configuration from v. A missing config file is not an
// error: defaults and OCS_ACCEPTANCE_* environment variables apply.
func Load(v *viper.Viper) (AppConfig, error) {
	v.SetEnvPrefix("ocs_acceptance")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("acceptance")
		v.AddConfigPath("config")
		v.AddConfigPath("/config")
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, err
		}
	}

	cfg := AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
		},
		Server: ServerConfig{
			BaseURL: strings.TrimRight(v.GetString("server.base_url"), "/"),
		},
		OCS: OCSConfig{
			APIVersion: v.GetInt("ocs.api_version"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Password: v.GetString("admin.password"),
		},
		Users: UsersConfig{
			DefaultPassword: v.GetString("users.default_password"),
			Aliases:         v.GetStringMapString("users.aliases"),
		},
		Language: LanguageConfig{
			Default: v.GetString("language.default"),
		},
		Fixtures: FixturesConfig{
			MultiLanguageErrors: v.GetString("fixtures.multi_language_errors"),
		},
		HTTP: HTTPConfig{
			Timeout: v.GetDuration("http.timeout"),
		},
		Metrics: MetricsConfig{
			Textfile: v.GetString("metrics.textfile"),
		},
		Tracing: TracingConfig{
			Endpoint: v.GetString("tracing.endpoint"),
		},
		Twin: TwinConfig{
			Address: v.GetString("twin.address"),
		},
		Schedule: ScheduleConfig{
			Cron: v.GetString("schedule.cron"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("ocs.api_version", 1)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin")
	v.SetDefault("users.default_password", "123456")
	v.SetDefault("fixtures.multi_language_errors", "fixtures/multiLanguageErrors.json")
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("twin.address", ":8080")
}

func (c AppConfig) Validate() error {
	if c.Server.BaseURL == "" {
		return errors.New("server.base_url is required")
	}
	if c.OCS.APIVersion != 1 && c.OCS.APIVersion != 2 {
		return fmt.Errorf("ocs.api_version must be 1 or 2, got %d", c.OCS.APIVersion)
	}
	if c.Schedule.Cron != "" {
		if err := schedule.Validate(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}
	return nil
}

type AppConfig struct {
	General  GeneralConfig
	Server   ServerConfig
	OCS      OCSConfig
	Admin    AdminConfig
	Users    UsersConfig
	Language LanguageConfig
	Fixtures FixturesConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
	Twin     TwinConfig
	Schedule ScheduleConfig
}

type GeneralConfig struct {
	LogLevel string
}

type ServerConfig struct {
	BaseURL string
}

type OCSConfig struct {
	APIVersion int
}

type AdminConfig struct {
	Username string
	Password string
}

type UsersConfig struct {
	DefaultPassword string
	// Aliases maps symbolic user names used in features to registered ones.
	Aliases map[string]string
}

type LanguageConfig struct {
	Default string
}

type FixturesConfig struct {
	MultiLanguageErrors string
}

type HTTPConfig struct {
	Timeout time.Duration
}

type MetricsConfig struct {
	// Textfile, when set, receives the request metrics at the end of a run.
	Textfile string
}

type TracingConfig struct {
	// Endpoint is the OTLP gRPC collector. Tracing is off when empty.
	Endpoint string
}

type TwinConfig struct {
	// Address the standalone OCS twin listens on.
	Address string
}

type ScheduleConfig struct {
	// Cron, when set, keeps the runner alive and repeats the suite on
	// every activation. Descriptors such as "@every 15m" are accepted.
	Cron string
}
