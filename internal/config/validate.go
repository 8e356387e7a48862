package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		return errors.New("paths.download_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q is not a valid host:port: %w", c.Paths.APIBind, err)
	}
	if c.Paths.PublicBaseURL != "" {
		parsed, err := url.Parse(c.Paths.PublicBaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("paths.public_base_url %q must be an absolute URL", c.Paths.PublicBaseURL)
		}
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	parsed, err := url.Parse(c.Transcriber.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("transcriber.base_url %q must be an absolute URL", c.Transcriber.BaseURL)
	}
	return nil
}

func (c *Config) validateDelivery() error {
	if c.Delivery.WebhookURL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Delivery.WebhookURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("delivery.webhook_url %q must be an absolute URL", c.Delivery.WebhookURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not a recognized level", c.Logging.Level)
	}
}
