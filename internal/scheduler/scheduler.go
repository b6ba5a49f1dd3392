package scheduler

import (
	"log"
	"time"

	"github.com/example/vocabtrainer/internal/clock"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/go-co-op/gocron"
)

// DefaultCheckInterval is how often pending reviews are counted.
const DefaultCheckInterval = time.Minute

// Notifier receives due-review notifications
type Notifier interface {
	NotifyDueReviews(count int) error
}

// Scheduler periodically checks for vocabulary entries that are due for
// review and notifies the front end.
type Scheduler struct {
	scheduler *gocron.Scheduler
	clock     *clock.Clock
	repo      *database.VocabRepository
	notifier  Notifier
	interval  time.Duration
}

// New creates a new scheduler instance
func New(clk *clock.Clock, notifier Notifier, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		clock:     clk,
		repo:      database.NewVocabRepository(),
		notifier:  notifier,
		interval:  interval,
	}
}

// Start begins running the due-review check
func (s *Scheduler) Start() {
	s.scheduler.Every(s.interval).Do(s.checkDueReviews)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkDueReviews counts pending entries and notifies if any are due
func (s *Scheduler) checkDueReviews() {
	now := s.clock.Format(time.Now())

	pending, err := s.repo.GetPending(now)
	if err != nil {
		log.Printf("Error checking due reviews: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	if err := s.notifier.NotifyDueReviews(len(pending)); err != nil {
		log.Printf("Error sending due-review notification: %v", err)
	}
}

// RunManualCheck forces an immediate due-review check
func (s *Scheduler) RunManualCheck() error {
	pending, err := s.repo.GetPending(s.clock.Format(time.Now()))
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return s.notifier.NotifyDueReviews(len(pending))
	}
	return nil
}
