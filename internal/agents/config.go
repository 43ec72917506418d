package agents

// Purpose labels recorded with every model call.
const (
	PurposePath     = "learning_path"
	PurposeProgress = "progress_summary"
	PurposeSchedule = "schedule"
	PurposeAdaptive = "adaptive"
	PurposeSession  = "session_analysis"
)

// Settings holds generation parameters for one agent.
type Settings struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Config holds generation parameters for every agent.
type Config struct {
	Path     Settings `yaml:"path"`
	Progress Settings `yaml:"progress"`
	Schedule Settings `yaml:"schedule"`
	Adaptive Settings `yaml:"adaptive"`
	Session  Settings `yaml:"session"`
}

// DefaultConfig returns the stock temperatures and token limits.
func DefaultConfig() Config {
	return Config{
		Path:     Settings{MaxTokens: 1024, Temperature: 0.3},
		Progress: Settings{MaxTokens: 768, Temperature: 0.3},
		Schedule: Settings{MaxTokens: 1536, Temperature: 0.7},
		Adaptive: Settings{MaxTokens: 768, Temperature: 0.7},
		Session:  Settings{MaxTokens: 2000, Temperature: 0.3},
	}
}
