package explain

import "time"

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one Fetch, retries included. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration
}

// DefaultConfig returns the defaults used by the app.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.4,
		Timeout:     30 * time.Second,
	}
}
