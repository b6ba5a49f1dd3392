package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/joho/godotenv"
)

// TestTimeScale is the compression factor used in accelerated test mode:
// one day of scheduled time passes in 86.4 seconds.
const TestTimeScale = 1000

// Config is the application configuration. Test mode and the time scale are
// injected into the clock and engine from here; nothing samples a global
// flag at call sites.
type Config struct {
	TestMode      bool
	TimeScale     int
	DatabasePath  string
	TelegramToken string
	Scheduling    spaced_repetition.Config
}

// Load builds the configuration from the environment, loading a .env file
// if one is present. Test mode switches to the accelerated time scale and
// a separate database file.
func Load(testMode bool) (*Config, error) {
	// A missing .env file is fine; explicit environment wins anyway.
	_ = godotenv.Load()

	cfg := &Config{
		TestMode:   testMode,
		TimeScale:  1,
		Scheduling: spaced_repetition.DefaultConfig(),
	}
	if testMode {
		cfg.TimeScale = TestTimeScale
	}

	if v := os.Getenv("TIME_SCALE"); v != "" && testMode {
		scale, err := strconv.Atoi(v)
		if err != nil || scale <= 0 {
			return nil, fmt.Errorf("invalid TIME_SCALE %q", v)
		}
		cfg.TimeScale = scale
	}

	cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	if cfg.DatabasePath == "" {
		if testMode {
			cfg.DatabasePath = "data/vocab_test.db"
		} else {
			cfg.DatabasePath = "data/vocab.db"
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if v := os.Getenv("LEARNING_STEPS"); v != "" {
		steps, err := parseSteps(v)
		if err != nil {
			return nil, err
		}
		cfg.Scheduling.LearningSteps = steps
	}

	return cfg, nil
}

// parseSteps reads a comma-separated list of step durations in minutes,
// e.g. "1,10,1440".
func parseSteps(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	steps := make([]int, 0, len(parts))
	for _, part := range parts {
		minutes, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid LEARNING_STEPS entry %q", part)
		}
		steps = append(steps, minutes)
	}
	return steps, nil
}
