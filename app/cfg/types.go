package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Generation configuration
	OpenAIAPIKey   string
	OpenAIEndpoint string
	Model          string
	OpenAITimeout  int

	// Application configuration
	Port            string
	ProfilePath     string
	APIAccessKey    string
	RefreshInterval int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
