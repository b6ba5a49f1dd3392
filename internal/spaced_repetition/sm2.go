package spaced_repetition

import (
	"fmt"
	"math"
	"time"

	"github.com/example/vocabtrainer/internal/clock"
	"github.com/example/vocabtrainer/pkg/models"
)

// PassThreshold is the minimum SM-2 quality counted as a successful recall.
const PassThreshold = 3

// Config holds the scheduling parameters. All values are injected; the
// engine carries no compile-time constants.
type Config struct {
	// Learning-step durations in minutes, in order. New entries walk these
	// steps before graduating to the adaptive SM-2 schedule.
	LearningSteps []int
	// Interval in days assigned on graduation from the last learning step.
	GraduationInterval int
	// Easiness factor assigned to new entries.
	InitialEasiness float64
	// Floor below which the easiness factor never drops.
	MinEasiness float64
}

// DefaultConfig returns the reference configuration: Anki-style learning
// steps of 1 minute, 10 minutes and 1 day.
func DefaultConfig() Config {
	return Config{
		LearningSteps:      []int{1, 10, 1440},
		GraduationInterval: 1,
		InitialEasiness:    2.5,
		MinEasiness:        1.3,
	}
}

func (c Config) validate() error {
	if len(c.LearningSteps) == 0 {
		return fmt.Errorf("%w: no learning steps", ErrInvalidConfig)
	}
	for i, m := range c.LearningSteps {
		if m <= 0 {
			return fmt.Errorf("%w: learning step %d is %d minutes", ErrInvalidConfig, i+1, m)
		}
	}
	if c.GraduationInterval < 1 {
		return fmt.Errorf("%w: graduation interval %d days", ErrInvalidConfig, c.GraduationInterval)
	}
	if c.MinEasiness <= 0 {
		return fmt.Errorf("%w: easiness floor %.2f", ErrInvalidConfig, c.MinEasiness)
	}
	if c.InitialEasiness < c.MinEasiness {
		return fmt.Errorf("%w: initial easiness %.2f below floor %.2f",
			ErrInvalidConfig, c.InitialEasiness, c.MinEasiness)
	}
	return nil
}

// SM2 implements the SuperMemo-2 algorithm combined with fixed learning
// steps. Entries start in the learning phase (LearningStep 1..N) and move
// through the configured steps; graduating puts them on the adaptive SM-2
// schedule (LearningStep 0). A lapse in the adaptive phase sends the entry
// back to step 1.
//
// The engine is stateless: ApplyRating is a pure transformation of the
// input state given the rating and the current time.
type SM2 struct {
	cfg   Config
	clock *clock.Clock
}

// New creates an engine from the given config and clock.
func New(cfg Config, clk *clock.Clock) (*SM2, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SM2{cfg: cfg, clock: clk}, nil
}

// Steps returns the number of configured learning steps.
func (s *SM2) Steps() int { return len(s.cfg.LearningSteps) }

// NewScheduleState returns the state for an entry that just entered the
// system: learning step 1, first review after the first step duration.
func (s *SM2) NewScheduleState(now time.Time) models.ScheduleState {
	return models.ScheduleState{
		LearningStep: 1,
		Repetitions:  0,
		IntervalDays: 1,
		Easiness:     s.cfg.InitialEasiness,
		NextReview:   s.clock.Format(s.clock.DueAfter(now, s.cfg.LearningSteps[0], 0)),
	}
}

// ApplyRating computes the next schedule state for the given rating and
// returns it together with a human-readable description of the transition.
// The input state is not mutated.
func (s *SM2) ApplyRating(state models.ScheduleState, rating Rating, now time.Time) (models.ScheduleState, string, error) {
	if !rating.IsValid() {
		return state, "", fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	if state.LearningStep > 0 {
		feedback := s.describeLearning(state, rating)
		return s.applyLearning(state, rating, now), feedback, nil
	}
	return s.applyAdaptive(state, rating, now)
}

// applyLearning handles the fixed-step learning phase.
func (s *SM2) applyLearning(state models.ScheduleState, rating Rating, now time.Time) models.ScheduleState {
	steps := s.cfg.LearningSteps

	switch rating {
	case Forgot:
		state.LearningStep = 1
	case Hard:
		// Repeat the current step.
		if state.LearningStep > len(steps) {
			state.LearningStep = len(steps)
		}
	case Easy:
		if state.LearningStep >= len(steps) {
			// Graduate to the SM-2 schedule. Easiness carries over.
			state.LearningStep = 0
			state.Repetitions = 1
			state.IntervalDays = s.cfg.GraduationInterval
			state.NextReview = s.clock.Format(s.clock.DueAfter(now, 0, s.cfg.GraduationInterval))
			return state
		}
		state.LearningStep++
	}

	state.NextReview = s.clock.Format(s.clock.DueAfter(now, steps[state.LearningStep-1], 0))
	return state
}

// describeLearning produces the feedback line for a learning-phase rating.
func (s *SM2) describeLearning(state models.ScheduleState, rating Rating) string {
	steps := s.cfg.LearningSteps

	switch rating {
	case Forgot:
		return fmt.Sprintf("Reset to step 1 - review in %dmin", steps[0])
	case Hard:
		step := state.LearningStep
		if step > len(steps) {
			step = len(steps)
		}
		return fmt.Sprintf("Repeat step %d - review in %dmin", step, steps[step-1])
	default:
		if state.LearningStep >= len(steps) {
			return fmt.Sprintf("Graduated! Next review in %d day(s)", s.cfg.GraduationInterval)
		}
		next := state.LearningStep + 1
		return fmt.Sprintf("Step %d/%d - review in %dmin", next, len(steps), steps[next-1])
	}
}

// applyAdaptive handles the SM-2 phase.
func (s *SM2) applyAdaptive(state models.ScheduleState, rating Rating, now time.Time) (models.ScheduleState, string, error) {
	quality := rating.Quality()
	newReps, newInterval, newEF := s.NextInterval(quality, state.Repetitions, state.IntervalDays, state.Easiness)

	if quality < PassThreshold {
		// Lapse: back to the learning phase with the penalized easiness.
		first := s.cfg.LearningSteps[0]
		state.LearningStep = 1
		state.Repetitions = 0
		state.IntervalDays = 1
		state.Easiness = newEF
		state.NextReview = s.clock.Format(s.clock.DueAfter(now, first, 0))
		return state, fmt.Sprintf("Back to learning - review in %dmin", first), nil
	}

	state.Repetitions = newReps
	state.IntervalDays = newInterval
	state.Easiness = newEF
	state.NextReview = s.clock.Format(s.clock.DueAfter(now, 0, newInterval))
	return state, fmt.Sprintf("Next review in %d day(s)", newInterval), nil
}

// NextInterval applies the SM-2 formula for a quality score on the full 0-5
// scale and returns the new repetition count, interval in days and easiness
// factor. The three-valued rating only produces qualities 0, 3 and 5, but
// the formula supports finer-grained inputs.
func (s *SM2) NextInterval(quality, repetitions, interval int, easiness float64) (int, int, float64) {
	// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
	q := float64(quality)
	newEF := easiness + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if newEF < s.cfg.MinEasiness {
		newEF = s.cfg.MinEasiness
	}

	if quality < PassThreshold {
		return 0, 1, newEF
	}

	newReps := repetitions + 1
	var newInterval int
	switch newReps {
	case 1:
		newInterval = 1
	case 2:
		newInterval = 6
	default:
		// I(n) = I(n-1) * EF, rounded up.
		newInterval = int(math.Ceil(float64(interval) * newEF))
	}
	return newReps, newInterval, newEF
}
