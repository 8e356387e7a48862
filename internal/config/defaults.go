package config

const (
	defaultDownloadDir              = "~/.local/share/fetchd/downloads"
	defaultLogDir                   = "~/.local/share/fetchd/logs"
	defaultAPIBind                  = "127.0.0.1:3001"
	defaultExtractorBinary          = "yt-dlp"
	defaultExtractorTimeoutSeconds  = 900
	defaultTranscriberBaseURL       = "https://api.openai.com/v1"
	defaultTranscriberModel         = "whisper-1"
	defaultTranscriberTimeoutSecs   = 300
	defaultDeliveryTimeoutSeconds   = 30
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Extractor: Extractor{
			Binary:         defaultExtractorBinary,
			TimeoutSeconds: defaultExtractorTimeoutSeconds,
		},
		Transcriber: Transcriber{
			BaseURL:        defaultTranscriberBaseURL,
			Model:          defaultTranscriberModel,
			TimeoutSeconds: defaultTranscriberTimeoutSecs,
		},
		Delivery: Delivery{
			TimeoutSeconds: defaultDeliveryTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
