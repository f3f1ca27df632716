package config

const (
	defaultDataDir             = "~/.local/share/quill"
	defaultLogDir              = "~/.local/share/quill/logs"
	defaultAPIBind             = "127.0.0.1:7781"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "google/gemini-3-flash-preview"
	defaultLLMTimeoutSeconds   = 120
	defaultLLMMaxRetries       = 3
	defaultLLMRetryDelayMS     = 2000
	defaultImagesBaseURL       = "https://image.pollinations.ai/prompt"
	defaultImagesStockBaseURL  = "https://loremflickr.com"
	defaultImageWidth          = 1200
	defaultImageHeight         = 630
	defaultImageTimeoutSeconds = 15
	defaultCacheTTLSeconds     = 300
	defaultPublishNiche        = "business productivity"
	defaultPublishStatus       = "published"
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Server: Server{
			Bind: defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:             defaultLLMBaseURL,
			Model:               defaultLLMModel,
			TimeoutSeconds:      defaultLLMTimeoutSeconds,
			MaxRetries:          defaultLLMMaxRetries,
			RetryInitialDelayMS: defaultLLMRetryDelayMS,
		},
		Images: Images{
			BaseURL:        defaultImagesBaseURL,
			StockBaseURL:   defaultImagesStockBaseURL,
			Width:          defaultImageWidth,
			Height:         defaultImageHeight,
			TimeoutSeconds: defaultImageTimeoutSeconds,
		},
		Cache: Cache{
			TTLSeconds: defaultCacheTTLSeconds,
		},
		Publish: Publish{
			DefaultNiche:  defaultPublishNiche,
			PublishStatus: defaultPublishStatus,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
