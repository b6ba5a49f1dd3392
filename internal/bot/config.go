package bot

import "time"

// Config represents the configuration for the bot
type Config struct {
	// Maximum number of cards per review session
	SessionLimit int
	// How often the reminder scheduler checks for due reviews
	ReminderInterval time.Duration
	// Maximum number of entries shown by /list
	ListLimit int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *Config {
	return &Config{
		SessionLimit:     20,
		ReminderInterval: time.Minute,
		ListLimit:        50,
	}
}
