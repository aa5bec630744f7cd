package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the config file is read.
const (
	EnvAPIURL   = "FEEDBACK_API_URL"
	EnvAPIKey   = "FEEDBACK_API_KEY"
	EnvLogLevel = "FEEDBACK_LOG_LEVEL"
	EnvLogFile  = "FEEDBACK_LOG_FILE"
)

// QueueConfig tunes the outbox worker.
type QueueConfig struct {
	Rate       time.Duration `yaml:"rate" validate:"gt=0"`
	Buffer     int           `yaml:"buffer" validate:"gte=1"`
	MaxRetries int           `yaml:"max_retries" validate:"gte=0"`
}

// Config holds client configuration stored at ~/.feedback/config.
type Config struct {
	APIURL     string        `yaml:"api_url,omitempty" validate:"omitempty,url"`
	APIKey     string        `yaml:"api_key,omitempty"`
	Categories []string      `yaml:"categories" validate:"min=1,dive,required"`
	LogLevel   string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFile    string        `yaml:"log_file,omitempty" validate:"required_without=APIURL"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	Queue      QueueConfig   `yaml:"queue"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Categories: []string{"category1", "category2", "category3"},
		LogLevel:   "info",
		LogFile:    LogPath(),
		Timeout:    30 * time.Second,
		Queue: QueueConfig{
			Rate:       time.Second,
			Buffer:     64,
			MaxRetries: 3,
		},
	}
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".feedback", "config")
}

// LogPath returns the default log file, next to the config file. Without
// an api_url this is where submitted records end up.
func LogPath() string {
	return filepath.Join(filepath.Dir(Path()), "feedback.log")
}

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads and parses the config file over the defaults, then applies
// environment overrides. Returns error if missing, insecure or invalid.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg = Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from FEEDBACK_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
