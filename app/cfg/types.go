package cfg

type Cfg struct {
	// Pipeline data locations
	DataDir   string
	OutputDir string
	PublicDir string

	// Drafting service configuration
	AnthropicAPIKey string
	ModelsFile      string

	// Deduplication
	DedupWindowDays int

	// Server / scheduler configuration
	Serve             bool
	Port              string
	BaseUrl           string
	SchedulerInterval int
	Schedule          string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
