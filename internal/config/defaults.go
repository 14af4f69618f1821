package config

const (
	defaultDataDir            = "~/.local/share/quaver"
	defaultStagingDir         = "~/.local/share/quaver/staging"
	defaultLogDir             = "~/.local/share/quaver/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultStagingMaxAgeHours = 24
	defaultWatchDebounce      = 5
)

func defaultAudioExtensions() []string {
	return []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".opus"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Import: Import{
			Workers:            0,
			AudioExtensions:    defaultAudioExtensions(),
			StagingMaxAgeHours: defaultStagingMaxAgeHours,
		},
		Watch: Watch{
			Enabled:         false,
			DebounceSeconds: defaultWatchDebounce,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
