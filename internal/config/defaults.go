package config

const (
	defaultConfigPath           = "~/.config/converti/config.toml"
	defaultDataDir              = "~/.local/share/converti"
	defaultLogDir               = "~/.local/share/converti/logs"
	defaultSofficeCommand       = "soffice"
	defaultOutputSuffix         = "_converti"
	defaultOverwrite            = true
	defaultJPEGQuality          = 90
	defaultSingleInstance       = true
	defaultHistoryEnabled       = true
	defaultNotifyRequestTimeout = 10
	defaultNotifySuccess        = true
	defaultNotifyFailure        = true
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
	envToolsDir                 = "CONVERTI_TOOLS_DIR"
	envNtfyTopic                = "CONVERTI_NTFY_TOPIC"
	maxToolTimeoutSeconds       = 24 * 60 * 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			Soffice: defaultSofficeCommand,
		},
		Conversion: Conversion{
			OutputSuffix:   defaultOutputSuffix,
			Overwrite:      defaultOverwrite,
			JPEGQuality:    defaultJPEGQuality,
			SingleInstance: defaultSingleInstance,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Success:        defaultNotifySuccess,
			Failure:        defaultNotifyFailure,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
