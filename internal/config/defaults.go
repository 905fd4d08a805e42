package config

const (
	defaultStagingDir         = "~/.local/share/hushcut/staging"
	defaultOutputDir          = "~/hushcut-output"
	defaultLogDir             = "~/.local/share/hushcut/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultWindowSeconds      = 10.0
	defaultOverlapSeconds     = 2.0
	defaultAdaptiveWeight     = 0.3
	defaultDetectionWorkers   = 4
	defaultDetectionLanguage  = "chinese"
	defaultPaddingSeconds     = 0.5
	defaultOutputSuffix       = "_cleaned"
	defaultTranscriberBinary  = "whisper-ctl"
	defaultTranscriberModel   = "small"
	defaultTranscriberTimeout = 120
	defaultClassifierBinary   = "hushcut-classifier"
	defaultClassifierModel    = "~/.local/share/hushcut/adaptive_model.json"
	defaultClassifierTimeout  = 60
	defaultQueuePollInterval  = 5
	defaultErrorRetryInterval = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Windowing: Windowing{
			WindowSeconds:  defaultWindowSeconds,
			Overlap:        false,
			OverlapSeconds: defaultOverlapSeconds,
		},
		Detection: Detection{
			Fuzzy:          true,
			Adaptive:       false,
			AdaptiveWeight: defaultAdaptiveWeight,
			Workers:        defaultDetectionWorkers,
			Language:       defaultDetectionLanguage,
		},
		Muting: Muting{
			Precise:        true,
			PaddingSeconds: defaultPaddingSeconds,
			OutputSuffix:   defaultOutputSuffix,
		},
		Transcriber: Transcriber{
			Binary:         defaultTranscriberBinary,
			Model:          defaultTranscriberModel,
			TimeoutSeconds: defaultTranscriberTimeout,
		},
		Classifier: Classifier{
			Binary:         defaultClassifierBinary,
			ModelPath:      defaultClassifierModel,
			TimeoutSeconds: defaultClassifierTimeout,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
