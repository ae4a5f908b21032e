package config

const (
	defaultDatabasePath       = "~/.local/share/comicvault/comics_inventory.db"
	defaultLogDir             = "~/.local/share/comicvault/logs"
	defaultComicVineBaseURL   = "https://comicvine.gamespot.com/api"
	defaultComicVineUserAgent = "comicvault/dev"
	defaultRequestIntervalMS  = 2000
	defaultRateLimitBackoffMS = 5000
	defaultNetworkBackoffMS   = 1000
	defaultMaxAttempts        = 3
	defaultTimeoutSeconds     = 30
	defaultCommitEvery        = 10
	defaultScanCommitEvery    = 100
	defaultSizeToleranceBytes = 1024
	defaultProblemTitleLength = 40
	defaultAPIBind            = "127.0.0.1:7488"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// DefaultExtensions lists the comic archive formats picked up by a scan.
func DefaultExtensions() []string {
	return []string{".cbr", ".cbz", ".pdf", ".cbt", ".cb7"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabasePath,
			LogDir:   defaultLogDir,
		},
		ComicVine: ComicVine{
			BaseURL:            defaultComicVineBaseURL,
			UserAgent:          defaultComicVineUserAgent,
			RequestIntervalMS:  defaultRequestIntervalMS,
			RateLimitBackoffMS: defaultRateLimitBackoffMS,
			NetworkBackoffMS:   defaultNetworkBackoffMS,
			MaxAttempts:        defaultMaxAttempts,
			TimeoutSeconds:     defaultTimeoutSeconds,
		},
		Pipeline: Pipeline{
			CommitEvery:     defaultCommitEvery,
			ScanCommitEvery: defaultScanCommitEvery,
			Extensions:      DefaultExtensions(),
		},
		Maintenance: Maintenance{
			SizeToleranceBytes: defaultSizeToleranceBytes,
			ProblemTitleLength: defaultProblemTitleLength,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
