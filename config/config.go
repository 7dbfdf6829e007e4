// Package config loads process configuration from the environment. An
// optional .env file is exported into the environment first; variables
// already set take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/hupe1980/taskrouter/logging"
)

// DefaultEnvFile is read when no explicit file is given and it exists.
const DefaultEnvFile = ".env"

// Config is the complete configuration of the task router.
type Config struct {
	Model      ModelConfig      `envconfig:"MODEL"`
	Booking    BookingConfig    `envconfig:"ZOMATO"`
	Scheduling SchedulingConfig `envconfig:"MEETING"`
	Search     SearchConfig     `envconfig:"SERPER"`
	Fetch      FetchConfig      `envconfig:"FETCH"`
	Runner     RunnerConfig     `envconfig:"RUNNER"`
	Log        LogConfig        `envconfig:"LOG"`
}

type ModelConfig struct {
	Provider    string  `envconfig:"PROVIDER" default:"openai"`
	Name        string  `envconfig:"NAME"`
	APIKey      string  `envconfig:"API_KEY"`
	BaseURL     string  `envconfig:"BASE_URL"`
	Temperature float64 `envconfig:"TEMPERATURE" default:"0.2"`
	MaxTokens   int64   `envconfig:"MAX_TOKENS" default:"1024"`
	Stream      bool    `envconfig:"STREAM" default:"false"`
}

type BookingConfig struct {
	SiteURL   string `envconfig:"SITE_URL" default:"https://www.zomato.com"`
	APIURL    string `envconfig:"API_URL" default:"https://api.zomato.com"`
	CityPage  string `envconfig:"CITY_PAGE" default:"/chennai/trending-this-week"`
	Cookie    string `envconfig:"COOKIE"`
	CSRFToken string `envconfig:"CSRF_TOKEN"`
}

type SchedulingConfig struct {
	WebhookURL string        `envconfig:"WEBHOOK_URL"`
	Duration   time.Duration `envconfig:"DURATION" default:"1h"`
}

type SearchConfig struct {
	Endpoint     string `envconfig:"ENDPOINT" default:"https://google.serper.dev/search"`
	APIKey       string `envconfig:"API_KEY"`
	TopResults   int    `envconfig:"TOP_RESULTS" default:"3"`
	ExcerptChars int    `envconfig:"EXCERPT_CHARS" default:"1500"`
}

type FetchConfig struct {
	Kind      string        `envconfig:"KIND" default:"http"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"15s"`
	MaxBytes  int64         `envconfig:"MAX_BYTES" default:"2097152"`
	UserAgent string        `envconfig:"USER_AGENT"`
}

type RunnerConfig struct {
	MaxHistory  int `envconfig:"MAX_HISTORY" default:"20"`
	MaxRounds   int `envconfig:"MAX_ROUNDS" default:"5"`
	MaxParallel int `envconfig:"MAX_PARALLEL" default:"4"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"console"`
}

// New fills a T from the environment using envconfig with the given prefix.
// envFile is exported first when set; otherwise DefaultEnvFile is used if
// present.
func New[T any](prefix, envFile string) (*T, error) {
	if envFile = strings.TrimSpace(envFile); envFile != "" {
		if err := exportEnvironment(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(DefaultEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Load reads and validates the task router configuration.
func Load(envFile string) (*Config, error) {
	conf, err := New[Config]("", envFile)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Model.Provider) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("config: unsupported model provider %q", c.Model.Provider)
	}
	switch strings.ToLower(c.Fetch.Kind) {
	case "http", "chromedp":
	default:
		return fmt.Errorf("config: unsupported fetch kind %q", c.Fetch.Kind)
	}
	if c.Runner.MaxHistory <= 0 {
		return errors.New("config: RUNNER_MAX_HISTORY must be positive")
	}
	if c.Runner.MaxRounds <= 0 {
		return errors.New("config: RUNNER_MAX_ROUNDS must be positive")
	}
	if c.Search.TopResults <= 0 {
		return errors.New("config: SERPER_TOP_RESULTS must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func exportEnvironmentIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(path)
}

func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
