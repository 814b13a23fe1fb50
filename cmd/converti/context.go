package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"converti/internal/config"
	"converti/internal/deps"
	"converti/internal/dispatch"
	"converti/internal/history"
	"converti/internal/jobs"
	"converti/internal/logging"
	"converti/internal/notifications"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
	logErr     error
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// JSONMode reports whether --json was passed.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger writes to the daily log file, and to stderr with --verbose, so that
// command output on stdout stays clean.
func (c *commandContext) logger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logErr = err
			return
		}
		verbose := c.verboseFlag != nil && *c.verboseFlag
		logger, err := logging.NewFromConfig(cfg, verbose)
		if err != nil {
			c.logErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.log = logger
	})
	return c.log, c.logErr
}

func (c *commandContext) locator() (*deps.Locator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	locator, err := dispatch.NewLocator(cfg)
	if err != nil {
		return nil, fmt.Errorf("locate bundled tools: %w", err)
	}
	return locator, nil
}

// session is a running job runner plus the resources it owns.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  *jobs.Runner
	history *history.Store

	cancel context.CancelFunc
	done   chan error
}

// startSession builds the dispatcher and starts a runner under ctx. Callers
// must call stop.
func (c *commandContext) startSession(ctx context.Context) (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	locator, err := c.locator()
	if err != nil {
		return nil, err
	}

	opts := []jobs.Option{
		jobs.WithLogger(logger),
		jobs.WithNotifier(notifications.NewService(cfg)),
	}
	s := &session{cfg: cfg, logger: logger}
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			logging.WarnWithContext(logger, "conversion history unavailable", "history_open_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "conversions will not be recorded"),
			)
		} else {
			s.history = store
			opts = append(opts, jobs.WithRecorder(store))
		}
	}
	if cfg.Conversion.SingleInstance {
		opts = append(opts, jobs.WithLockFile(cfg.LockPath()))
	}

	s.runner = jobs.New(dispatch.NewFromConfig(cfg, locator, logger), opts...)
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() {
		s.done <- s.runner.Run(runCtx)
	}()
	return s, nil
}

func (s *session) stop() {
	s.cancel()
	if err := <-s.done; err != nil {
		s.logger.Warn("job runner stopped with error", logging.Error(err))
	}
	if s.history != nil {
		_ = s.history.Close()
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
