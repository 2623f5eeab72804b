package config

const (
	defaultConfigPath = "~/.config/courtcast/config.toml"

	defaultChannel           = "UCOftbmknBche29CG41v19cA"
	defaultMaxLookback       = 15
	defaultRequestsPerSecond = 2.0

	defaultDataDir = "~/.local/share/courtcast"

	defaultYtdlpPath           = "yt-dlp"
	defaultFfprobePath         = "ffprobe"
	defaultBitrateKbps         = 128
	defaultFetchTimeoutSeconds = 600

	defaultB2Bucket  = "sjc-podcast"
	defaultB2BaseURL = "https://f000.backblazeb2.com/file/sjc-podcast"

	defaultShowTitle       = "SJC Oral Arguments"
	defaultShowDescription = "Oral argument recordings from the Massachusetts Supreme Judicial Court"
	defaultShowLink        = "https://www.mass.gov/orgs/supreme-judicial-court"
	defaultShowAuthor      = "Massachusetts Supreme Judicial Court"
	defaultShowEmail       = "sjc@example.com"
	defaultShowLanguage    = "en"
	defaultShowCategory    = "Government"

	defaultMaxRetries       = 3
	defaultInitialBackoffMS = 1000
	defaultMaxBackoffMS     = 30000

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)
