package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeConversion()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	c.Tools.Dir = strings.TrimSpace(c.Tools.Dir)
	if c.Tools.Dir == "" {
		if value, ok := os.LookupEnv(envToolsDir); ok {
			c.Tools.Dir = strings.TrimSpace(value)
		}
	}
	if c.Tools.Dir, err = expandPath(c.Tools.Dir); err != nil {
		return fmt.Errorf("tools.dir: %w", err)
	}
	if c.Tools.FFmpeg, err = expandPath(strings.TrimSpace(c.Tools.FFmpeg)); err != nil {
		return fmt.Errorf("tools.ffmpeg: %w", err)
	}
	if c.Tools.FFprobe, err = expandPath(strings.TrimSpace(c.Tools.FFprobe)); err != nil {
		return fmt.Errorf("tools.ffprobe: %w", err)
	}
	c.Tools.Soffice = strings.TrimSpace(c.Tools.Soffice)
	if c.Tools.Soffice == "" {
		c.Tools.Soffice = defaultSofficeCommand
	}
	if strings.ContainsAny(c.Tools.Soffice, `/\`) || strings.HasPrefix(c.Tools.Soffice, "~") {
		if c.Tools.Soffice, err = expandPath(c.Tools.Soffice); err != nil {
			return fmt.Errorf("tools.soffice: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeConversion() {
	c.Conversion.OutputSuffix = strings.TrimSpace(c.Conversion.OutputSuffix)
	if c.Conversion.JPEGQuality == 0 {
		c.Conversion.JPEGQuality = defaultJPEGQuality
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv(envNtfyTopic); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
