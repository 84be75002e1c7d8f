package cfg

type Cfg struct {
	// Content configuration
	ContentDir     string
	ContentPattern string
	WorkerCount    int

	// HTTP configuration
	Serve        bool
	Port         string
	APIAccessKey string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
