package coach

// Config holds coaching note generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxConcepts caps how many strengths and areas to improve are sent
	// to the model, each.
	MaxConcepts int
}

// DefaultConfig returns sensible defaults for coaching notes.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   768,
		Temperature: 0.3,
		MaxConcepts: 8,
	}
}
