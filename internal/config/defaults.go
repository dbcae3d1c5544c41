package config

const (
	defaultLogDir          = "~/.local/share/soundmod/logs"
	defaultContainerName   = "Voice"
	defaultConversion      = "WOWS_WEM_CONVERSION"
	defaultWwiseTimeout    = 1800
	defaultOutputCodepage  = "windows-1251"
	defaultCopyWorkers     = 4
	defaultTempDirName     = "Windows"
	defaultSourcesListName = "MySources.xml"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLogRetention    = 14
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Mod: Mod{
			ContainerName: defaultContainerName,
		},
		Wwise: Wwise{
			Conversion:     defaultConversion,
			TimeoutSeconds: defaultWwiseTimeout,
			OutputCodepage: defaultOutputCodepage,
		},
		Build: Build{
			CopyWorkers: defaultCopyWorkers,
			TempDirName: defaultTempDirName,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}
