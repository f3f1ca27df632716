package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func (c *Config) normalize() error {
	// Load a .env file from the working directory when present. Values
	// already set in the process environment win.
	_ = godotenv.Load()

	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLLM()
	c.normalizeImages()
	c.normalizeStorage()
	c.normalizeCache()
	c.normalizeSite()
	c.normalizePublish()
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

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultAPIBind
	}
	if c.Server.Token == "" {
		c.Server.Token = os.Getenv("QUILL_API_TOKEN")
	}
	c.Server.Token = strings.TrimSpace(c.Server.Token)
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("QUILL_LLM_API_KEY")
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = defaultLLMMaxRetries
	}
	if c.LLM.RetryInitialDelayMS == 0 {
		c.LLM.RetryInitialDelayMS = defaultLLMRetryDelayMS
	}
}

func (c *Config) normalizeImages() {
	c.Images.BaseURL = strings.TrimRight(strings.TrimSpace(c.Images.BaseURL), "/")
	if c.Images.BaseURL == "" {
		c.Images.BaseURL = defaultImagesBaseURL
	}
	c.Images.StockBaseURL = strings.TrimRight(strings.TrimSpace(c.Images.StockBaseURL), "/")
	if c.Images.StockBaseURL == "" {
		c.Images.StockBaseURL = defaultImagesStockBaseURL
	}
	if c.Images.Width == 0 {
		c.Images.Width = defaultImageWidth
	}
	if c.Images.Height == 0 {
		c.Images.Height = defaultImageHeight
	}
	if c.Images.TimeoutSeconds == 0 {
		c.Images.TimeoutSeconds = defaultImageTimeoutSeconds
	}
}

func (c *Config) normalizeStorage() {
	if c.Storage.APIURL == "" {
		c.Storage.APIURL = os.Getenv("QUILL_STORAGE_API_URL")
	}
	c.Storage.APIURL = strings.TrimRight(strings.TrimSpace(c.Storage.APIURL), "/")
	if c.Storage.APIKey == "" {
		c.Storage.APIKey = os.Getenv("QUILL_STORAGE_API_KEY")
	}
	c.Storage.APIKey = strings.TrimSpace(c.Storage.APIKey)
}

func (c *Config) normalizeCache() {
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = os.Getenv("QUILL_REDIS_ADDR")
	}
	c.Cache.RedisAddr = strings.TrimSpace(c.Cache.RedisAddr)
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}
}

func (c *Config) normalizeSite() {
	c.Site.Name = strings.TrimSpace(c.Site.Name)
	c.Site.URL = strings.TrimRight(strings.TrimSpace(c.Site.URL), "/")
	c.Site.LogoURL = strings.TrimSpace(c.Site.LogoURL)
}

func (c *Config) normalizePublish() {
	c.Publish.DefaultNiche = strings.TrimSpace(c.Publish.DefaultNiche)
	if c.Publish.DefaultNiche == "" {
		c.Publish.DefaultNiche = defaultPublishNiche
	}
	c.Publish.StyleContext = strings.TrimSpace(c.Publish.StyleContext)
	c.Publish.PublishStatus = strings.ToLower(strings.TrimSpace(c.Publish.PublishStatus))
	if c.Publish.PublishStatus == "" {
		c.Publish.PublishStatus = defaultPublishStatus
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
