package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Missing provider
// credentials are not an error here: the features that need them degrade
// at call time instead of blocking the rest of the tool.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.MaxRetries < 0 {
		return errors.New("llm.max_retries must not be negative")
	}
	if c.LLM.RetryInitialDelayMS < 0 {
		return errors.New("llm.retry_initial_delay_ms must not be negative")
	}
	return nil
}

func (c *Config) validateImages() error {
	if c.Images.Width <= 0 || c.Images.Height <= 0 {
		return errors.New("images.width and images.height must be positive")
	}
	if c.Images.TimeoutSeconds < 0 {
		return errors.New("images.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.TTLSeconds < 0 {
		return errors.New("cache.ttl_seconds must not be negative")
	}
	if c.Cache.RedisDB < 0 {
		return errors.New("cache.redis_db must not be negative")
	}
	return nil
}

func (c *Config) validatePublish() error {
	switch c.Publish.PublishStatus {
	case "draft", "published", "scheduled":
		return nil
	default:
		return fmt.Errorf("publish.publish_status must be draft, published, or scheduled, got %q", c.Publish.PublishStatus)
	}
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must not be negative")
	}
	return nil
}
