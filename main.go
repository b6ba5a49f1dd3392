package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/vocabtrainer/internal/bot"
	"github.com/example/vocabtrainer/internal/cli"
	"github.com/example/vocabtrainer/internal/clock"
	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/excel"
	"github.com/example/vocabtrainer/internal/scheduler"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
)

func main() {
	testMode := flag.Bool("test", false, "accelerated test mode (1 day = 86.4s)")
	botMode := flag.Bool("bot", false, "run the Telegram bot front end")
	importFile := flag.String("import", "", "import words from an XLSX or CSV file")
	flag.Parse()

	cfg, err := config.Load(*testMode)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	clk, err := clock.New(cfg.TimeScale, cfg.TestMode)
	if err != nil {
		log.Fatalf("Failed to create clock: %v", err)
	}

	engine, err := spaced_repetition.New(cfg.Scheduling, clk)
	if err != nil {
		log.Fatalf("Failed to create scheduling engine: %v", err)
	}

	if err := database.Connect(cfg.DatabasePath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch {
	case *importFile != "":
		runImport(engine, *importFile)
	case *botMode:
		runBot(cfg, engine, clk)
	default:
		c := cli.New(engine, clk, os.Stdin, os.Stdout)
		if err := c.Run(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	}
}

// runImport loads a word list from a spreadsheet file
func runImport(engine *spaced_repetition.SM2, path string) {
	importer := excel.NewImporter(engine)
	result, err := importer.ImportWords(excel.DefaultImportConfig(path))
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Printf("Import finished: %d processed, %d created, %d skipped",
		result.TotalProcessed, result.Created, result.Skipped)
	for _, e := range result.Errors {
		log.Printf("Import error: %s", e)
	}
}

// runBot starts the Telegram front end with due-review reminders and
// shuts down gracefully on SIGINT/SIGTERM.
func runBot(cfg *config.Config, engine *spaced_repetition.SM2, clk *clock.Clock) {
	botConfig := bot.DefaultConfig()
	b, err := bot.New(cfg.TelegramToken, engine, clk, botConfig)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminders := scheduler.New(clk, b, botConfig.ReminderInterval)
	reminders.Start()
	defer reminders.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Bot error: %v", err)
	}
	log.Println("Bot stopped")
}
