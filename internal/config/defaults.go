package config

const (
	defaultStateDir             = "~/.local/share/easel/state"
	defaultExportDir            = "~/easel-exports"
	defaultLogDir               = "~/.local/share/easel/logs"
	defaultReplicateBaseURL     = "https://api.replicate.com"
	defaultRequestTimeout       = 120
	defaultPollInterval         = 2
	defaultGeneratorKey         = "replicate.flux-schnell"
	defaultEditorKey            = "replicate.flux-inpaint"
	defaultCanvasLimit          = 20
	defaultStepRetention        = 50
	defaultMigrationCooldownSec = 30
	defaultMinCoverage          = 0.005
	defaultMaxCoverage          = 0.9
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			ExportDir: defaultExportDir,
			LogDir:    defaultLogDir,
		},
		Providers: Providers{
			ReplicateBaseURL: defaultReplicateBaseURL,
			RequestTimeout:   defaultRequestTimeout,
			PollInterval:     defaultPollInterval,
			DefaultGenerator: defaultGeneratorKey,
			DefaultEditor:    defaultEditorKey,
		},
		Library: Library{
			CanvasLimit:          defaultCanvasLimit,
			StepRetention:        defaultStepRetention,
			MigrationCooldownSec: defaultMigrationCooldownSec,
			SeedDemoAssets:       true,
		},
		Mask: Mask{
			MinCoverage: defaultMinCoverage,
			MaxCoverage: defaultMaxCoverage,
		},
		Notifications: Notifications{
			RequestTimeout: 10,
			Steps:          true,
			Exports:        true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
