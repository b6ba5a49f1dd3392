package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/example/vocabtrainer/internal/clock"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/dictionary"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/internal/translator"
	"github.com/example/vocabtrainer/pkg/models"
)

// CLI is the interactive command-line front end. Rating transitions go
// through the shared scheduling engine; the CLI only reads input and
// renders results.
type CLI struct {
	engine     *spaced_repetition.SM2
	clock      *clock.Clock
	repo       *database.VocabRepository
	dict       *dictionary.Client
	translator *translator.Client
	in         *bufio.Scanner
	out        io.Writer
}

// New creates the CLI front end
func New(engine *spaced_repetition.SM2, clk *clock.Clock, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		engine:     engine,
		clock:      clk,
		repo:       database.NewVocabRepository(),
		dict:       dictionary.New(),
		translator: translator.New(),
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run starts the interactive session and blocks until exit or EOF
func (c *CLI) Run() error {
	fmt.Fprintln(c.out, strings.Repeat("=", 40))
	fmt.Fprintln(c.out, "  Vocabulary Trainer (SM-2)")
	fmt.Fprintln(c.out, strings.Repeat("=", 40))
	if c.clock.TestMode() {
		fmt.Fprintf(c.out, "  *** TEST MODE (%dx speed) ***\n", c.clock.Scale())
		fmt.Fprintln(c.out, strings.Repeat("=", 40))
	}
	fmt.Fprintln(c.out, "Type 'help' for available commands.")
	fmt.Fprintln(c.out)

	for {
		fmt.Fprint(c.out, "> ")
		line, ok := c.readLine()
		if !ok {
			return nil
		}
		command := strings.ToLower(strings.TrimSpace(line))
		if command == "" {
			continue
		}

		switch command {
		case "exit", "quit", "q":
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		case "add":
			c.cmdAdd()
		case "pending":
			c.cmdPending()
		case "review":
			c.cmdReview()
		case "list":
			c.cmdList()
		case "stats":
			c.cmdStats()
		case "clear":
			c.cmdClear()
		case "wait":
			c.cmdWait()
		case "help":
			c.showHelp()
		default:
			fmt.Fprintf(c.out, "Unknown command: %q. Type 'help' for available commands.\n", command)
		}
	}
}

func (c *CLI) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *CLI) prompt(label string) string {
	fmt.Fprint(c.out, label)
	line, _ := c.readLine()
	return strings.TrimSpace(line)
}

func (c *CLI) showHelp() {
	fmt.Fprintln(c.out, `
--- Vocabulary Trainer ---
Commands:
  add     - Add a new word
  pending - Show words due for review
  review  - Start a review session
  list    - List all words
  stats   - Show statistics
  clear   - Delete all words
  help    - Show this help message
  exit    - Quit the program`)
	if c.clock.TestMode() {
		fmt.Fprintln(c.out, "  wait    - Wait N seconds (test mode)")
	}
	fmt.Fprintln(c.out)
}

// cmdAdd adds a new word, looking up its definition and translation
func (c *CLI) cmdAdd() {
	fmt.Fprintln(c.out, "\n--- Add New Word ---")
	word := c.prompt("Word: ")
	if word == "" {
		fmt.Fprintln(c.out, "Word cannot be empty.")
		return
	}

	var pos, meaning string
	fmt.Fprintln(c.out, "  Looking up definition...")
	entry, err := c.dict.Lookup(word)
	if err == nil {
		pos = entry.POS
		meaning = entry.Definition
		fmt.Fprintf(c.out, "  POS: %s\n", pos)
		fmt.Fprintf(c.out, "  Definition: %s\n", meaning)

		if edit := c.prompt("  Accept? (Enter=yes, or type new definition): "); edit != "" {
			meaning = edit
		}
		if edit := c.prompt(fmt.Sprintf("  POS [%s] (Enter=keep, or type new): ", pos)); edit != "" {
			pos = edit
		}
	} else {
		if !errors.Is(err, dictionary.ErrWordNotFound) {
			log.Printf("Dictionary lookup failed: %v", err)
		}
		fmt.Fprintln(c.out, "  (Word not found in dictionary)")
		pos = c.prompt("  POS (e.g., noun, verb, adj): ")
		meaning = c.prompt("  Definition: ")
	}

	if meaning == "" {
		fmt.Fprintln(c.out, "Definition cannot be empty.")
		return
	}

	chinese, err := c.translator.Translate(meaning)
	if err != nil {
		log.Printf("Translation failed: %v", err)
	}

	state := c.engine.NewScheduleState(time.Now())
	v := &models.Vocab{
		Word:          word,
		POS:           pos,
		Meaning:       meaning,
		Chinese:       chinese,
		ScheduleState: state,
	}
	if err := c.repo.Create(v); err != nil {
		if errors.Is(err, database.ErrDuplicateWord) {
			fmt.Fprintf(c.out, "Word %q already exists in the database.\n", word)
			return
		}
		fmt.Fprintf(c.out, "Failed to add word: %v\n", err)
		return
	}

	due, _ := c.clock.Parse(state.NextReview)
	fmt.Fprintf(c.out, "Added: %q (%s) - first review in %s\n", word, pos, c.clock.Remaining(due, time.Now()))
}

// cmdPending shows all words due for review
func (c *CLI) cmdPending() {
	pending, err := c.repo.GetPending(c.clock.Format(time.Now()))
	if err != nil {
		fmt.Fprintf(c.out, "Failed to get pending words: %v\n", err)
		return
	}
	if len(pending) == 0 {
		fmt.Fprintln(c.out, "\nNo words pending for review. Great job!")
		return
	}

	fmt.Fprintf(c.out, "\n--- Pending Reviews: %d word(s) ---\n", len(pending))
	for _, v := range pending {
		fmt.Fprintf(c.out, "  - %s [%s]\n", v.Word, c.describePhase(v.ScheduleState))
	}
}

func (c *CLI) describePhase(state models.ScheduleState) string {
	if state.LearningStep > 0 {
		return fmt.Sprintf("learning (step %d/%d)", state.LearningStep, c.engine.Steps())
	}
	return fmt.Sprintf("reviewing (reps: %d)", state.Repetitions)
}

// cmdReview starts an interactive review session for pending words
func (c *CLI) cmdReview() {
	pending, err := c.repo.GetPending(c.clock.Format(time.Now()))
	if err != nil {
		fmt.Fprintf(c.out, "Failed to get pending words: %v\n", err)
		return
	}
	if len(pending) == 0 {
		fmt.Fprintln(c.out, "\nNo words pending for review. Great job!")
		return
	}

	fmt.Fprintf(c.out, "\n--- Review Session: %d word(s) ---\n", len(pending))
	fmt.Fprintln(c.out, "Rating: (1) Forgot  (2) Hard  (3) Easy  (q) Quit")
	fmt.Fprintln(c.out)

	reviewed := 0
	for _, v := range pending {
		if v.LearningStep > 0 {
			fmt.Fprintf(c.out, "[Learning %d/%d] Word: %s\n", v.LearningStep, c.engine.Steps(), v.Word)
		} else {
			fmt.Fprintf(c.out, "[Review #%d] Word: %s\n", v.Repetitions+1, v.Word)
		}
		c.prompt("  [Press Enter to see meaning...]")
		if v.POS != "" {
			fmt.Fprintf(c.out, "  (%s) %s\n", v.POS, v.Meaning)
		} else {
			fmt.Fprintf(c.out, "  %s\n", v.Meaning)
		}
		if v.Chinese != "" {
			fmt.Fprintf(c.out, "  %s\n", v.Chinese)
		}
		fmt.Fprintln(c.out)

		rating, quit := c.promptRating()
		if quit {
			fmt.Fprintf(c.out, "\nSession ended. Reviewed %d word(s).\n", reviewed)
			return
		}

		state, feedback, err := c.engine.ApplyRating(v.ScheduleState, rating, time.Now())
		if err != nil {
			fmt.Fprintf(c.out, "  Rating failed: %v\n", err)
			continue
		}
		if err := c.repo.UpdateSchedule(v.ID, state); err != nil {
			fmt.Fprintf(c.out, "  Failed to save progress: %v\n", err)
			continue
		}

		reviewed++
		fmt.Fprintf(c.out, "  -> %s\n\n", feedback)
	}

	fmt.Fprintf(c.out, "Session complete! Reviewed %d word(s).\n", reviewed)
}

func (c *CLI) promptRating() (spaced_repetition.Rating, bool) {
	for {
		answer := strings.ToLower(c.prompt("  Your rating (1/2/3/q): "))
		if answer == "q" {
			return 0, true
		}
		if n, err := strconv.Atoi(answer); err == nil {
			if r := spaced_repetition.Rating(n); r.IsValid() {
				return r, false
			}
		}
		fmt.Fprintln(c.out, "  Invalid input. Please enter 1, 2, 3, or q.")
	}
}

// cmdList lists all words with their scheduling state
func (c *CLI) cmdList() {
	entries, err := c.repo.GetAll()
	if err != nil {
		fmt.Fprintf(c.out, "Failed to list words: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "\nNo words in database. Use 'add' to add some!")
		return
	}

	now := time.Now()
	fmt.Fprintf(c.out, "\n--- All Words (%d) ---\n", len(entries))
	for _, v := range entries {
		if v.POS != "" {
			fmt.Fprintf(c.out, "  %s (%s): %s\n", v.Word, v.POS, v.Meaning)
		} else {
			fmt.Fprintf(c.out, "  %s: %s\n", v.Word, v.Meaning)
		}

		remaining := "?"
		if due, err := c.clock.Parse(v.NextReview); err == nil {
			remaining = c.clock.Remaining(due, now)
		} else {
			log.Printf("Stored due time for %q is unreadable: %v", v.Word, err)
		}

		if v.LearningStep > 0 {
			fmt.Fprintf(c.out, "    [Learning step %d/%d] next: %s\n", v.LearningStep, c.engine.Steps(), remaining)
		} else {
			fmt.Fprintf(c.out, "    [SM-2] reps: %d, interval: %dd, EF: %.2f, next: %s\n",
				v.Repetitions, v.IntervalDays, v.Easiness, remaining)
		}
	}
}

// cmdStats shows collection statistics
func (c *CLI) cmdStats() {
	stats, err := c.repo.Stats(c.clock.Format(time.Now()))
	if err != nil {
		fmt.Fprintf(c.out, "Failed to get statistics: %v\n", err)
		return
	}

	fmt.Fprintln(c.out, "\n--- Statistics ---")
	fmt.Fprintf(c.out, "  Total words: %d\n", stats.Total)
	fmt.Fprintf(c.out, "  In learning: %d\n", stats.Learning)
	fmt.Fprintf(c.out, "  Graduated (SM-2): %d\n", stats.Graduated)
	fmt.Fprintf(c.out, "  Pending now: %d\n", stats.Pending)
	if stats.AvgEF > 0 {
		fmt.Fprintf(c.out, "  Average EF (graduated): %.2f\n", stats.AvgEF)
	}
}

// cmdClear deletes all words after confirmation
func (c *CLI) cmdClear() {
	answer := strings.ToLower(c.prompt("Delete ALL words? (yes/no): "))
	if answer != "yes" && answer != "y" {
		fmt.Fprintln(c.out, "Cancelled.")
		return
	}
	count, err := c.repo.DeleteAll()
	if err != nil {
		fmt.Fprintf(c.out, "Failed to clear words: %v\n", err)
		return
	}
	plural := "s"
	if count == 1 {
		plural = ""
	}
	fmt.Fprintf(c.out, "Deleted %d word%s.\n", count, plural)
}

// cmdWait sleeps for a number of real seconds. Only useful in test mode,
// where a second of wall time covers scaled-up scheduled time.
func (c *CLI) cmdWait() {
	if !c.clock.TestMode() {
		fmt.Fprintln(c.out, "Wait command only available in test mode.")
		return
	}

	answer := c.prompt("Wait seconds (or Enter for 1s): ")
	waitTime := 1.0
	if answer != "" {
		parsed, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			fmt.Fprintln(c.out, "Invalid number.")
			return
		}
		waitTime = parsed
	}

	fmt.Fprintf(c.out, "Waiting %.1fs...", waitTime)
	time.Sleep(time.Duration(waitTime * float64(time.Second)))
	fmt.Fprintln(c.out, " done.")
}
