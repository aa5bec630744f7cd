package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gravitrone/feedback-form/internal/api"
	"github.com/gravitrone/feedback-form/internal/config"
	"github.com/gravitrone/feedback-form/internal/logging"
	"github.com/gravitrone/feedback-form/internal/outbox"
)

// Runtime bundles the loaded config with the logger built from it.
type Runtime struct {
	Config *config.Config
	Logger *zap.Logger
}

// LoadRuntime reads .env, the config file and environment overrides, then
// opens the log file.
func LoadRuntime() (*Runtime, error) {
	config.LoadEnv()
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return &Runtime{Config: cfg, Logger: logger}, nil
}

// Client returns a collector client, or nil when no API URL is configured.
func (r *Runtime) Client() *api.Client {
	if r.Config.APIURL == "" {
		return nil
	}
	return api.NewClient(r.Config.APIURL, r.Config.APIKey, r.Config.Timeout)
}

// Sender picks where records go: the configured collector, or the log.
func (r *Runtime) Sender() outbox.Sender {
	if c := r.Client(); c != nil {
		return c
	}
	return outbox.NewLogSender(r.Logger)
}

// QueueOptions maps the queue section of the config onto the outbox.
func (r *Runtime) QueueOptions() outbox.Options {
	return outbox.Options{
		Rate:         r.Config.Queue.Rate,
		Buffer:       r.Config.Queue.Buffer,
		MaxRetries:   r.Config.Queue.MaxRetries,
		DrainTimeout: r.Config.Timeout,
	}
}

// Close flushes buffered log entries.
func (r *Runtime) Close() {
	_ = r.Logger.Sync()
}
