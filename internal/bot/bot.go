package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/vocabtrainer/internal/clock"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/dictionary"
	"github.com/example/vocabtrainer/internal/spaced_repetition"
	"github.com/example/vocabtrainer/internal/translator"
	"github.com/example/vocabtrainer/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// reviewSession tracks a chat's ongoing review session
type reviewSession struct {
	IDs     []int64
	Current int
}

// Bot is the Telegram front end. Like the CLI, it submits ratings through
// the shared scheduling engine and never computes transitions itself.
type Bot struct {
	api        *tgbotapi.BotAPI
	engine     *spaced_repetition.SM2
	clock      *clock.Clock
	repo       *database.VocabRepository
	dict       *dictionary.Client
	translator *translator.Client
	config     *Config

	mu       sync.Mutex
	sessions map[int64]*reviewSession
	chats    map[int64]bool
}

// New creates a new bot instance
func New(token string, engine *spaced_repetition.SM2, clk *clock.Clock, config *Config) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	if config == nil {
		config = DefaultConfig()
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	return &Bot{
		api:        api,
		engine:     engine,
		clock:      clk,
		repo:       database.NewVocabRepository(),
		dict:       dictionary.New(),
		translator: translator.New(),
		config:     config,
		sessions:   make(map[int64]*reviewSession),
		chats:      make(map[int64]bool),
	}, nil
}

// Start begins processing updates and blocks until the context is cancelled
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message != nil {
				b.handleMessage(update.Message)
			} else if update.CallbackQuery != nil {
				b.handleCallback(update.CallbackQuery)
			}
		}
	}
}

// NotifyDueReviews implements scheduler.Notifier. Every chat that started
// the bot receives a reminder.
func (b *Bot) NotifyDueReviews(count int) error {
	b.mu.Lock()
	chatIDs := make([]int64, 0, len(b.chats))
	for id := range b.chats {
		chatIDs = append(chatIDs, id)
	}
	b.mu.Unlock()

	plural := "s"
	if count == 1 {
		plural = ""
	}
	text := fmt.Sprintf("You have %d word%s due for review! Use /review to start.", count, plural)

	for _, chatID := range chatIDs {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			return fmt.Errorf("failed to send reminder to chat %d: %w", chatID, err)
		}
	}
	return nil
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() {
		b.send(message.Chat.ID, "I don't understand. Use /help to see available commands.")
		return
	}

	switch message.Command() {
	case "start":
		b.mu.Lock()
		b.chats[message.Chat.ID] = true
		b.mu.Unlock()
		b.send(message.Chat.ID, "Welcome to the vocabulary trainer!\n"+
			"Add words with /add <word>, then review them with /review when they come due.")
	case "help":
		b.send(message.Chat.ID, "Commands:\n"+
			"/add <word> - add a new word\n"+
			"/pending - show words due for review\n"+
			"/review - start a review session\n"+
			"/list - list all words\n"+
			"/stats - show statistics")
	case "add":
		b.handleAdd(message.Chat.ID, strings.TrimSpace(message.CommandArguments()))
	case "pending":
		b.handlePending(message.Chat.ID)
	case "review":
		b.handleReview(message.Chat.ID)
	case "list":
		b.handleList(message.Chat.ID)
	case "stats":
		b.handleStats(message.Chat.ID)
	default:
		b.send(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

// handleAdd looks up the word and stores it in the learning phase
func (b *Bot) handleAdd(chatID int64, word string) {
	if word == "" {
		b.send(chatID, "Usage: /add <word>")
		return
	}

	var pos, meaning string
	entry, err := b.dict.Lookup(word)
	switch {
	case err == nil:
		pos = entry.POS
		meaning = entry.Definition
	case errors.Is(err, dictionary.ErrWordNotFound):
		b.send(chatID, fmt.Sprintf("%q was not found in the dictionary.", word))
		return
	default:
		log.Printf("Dictionary lookup failed for %q: %v", word, err)
		b.send(chatID, "Dictionary lookup failed, try again later.")
		return
	}

	chinese, err := b.translator.Translate(meaning)
	if err != nil {
		log.Printf("Translation failed for %q: %v", word, err)
	}

	state := b.engine.NewScheduleState(time.Now())
	v := &models.Vocab{
		Word:          word,
		POS:           pos,
		Meaning:       meaning,
		Chinese:       chinese,
		ScheduleState: state,
	}
	if err := b.repo.Create(v); err != nil {
		if errors.Is(err, database.ErrDuplicateWord) {
			b.send(chatID, fmt.Sprintf("%q is already in your vocabulary.", word))
			return
		}
		log.Printf("Error creating vocab entry: %v", err)
		b.send(chatID, "Failed to save the word.")
		return
	}

	due, _ := b.clock.Parse(state.NextReview)
	b.send(chatID, fmt.Sprintf("Added %q (%s): %s\nFirst review in %s.",
		word, pos, meaning, b.clock.Remaining(due, time.Now())))
}

func (b *Bot) handlePending(chatID int64) {
	pending, err := b.repo.GetPending(b.clock.Format(time.Now()))
	if err != nil {
		log.Printf("Error getting pending entries: %v", err)
		b.send(chatID, "Failed to check pending reviews.")
		return
	}
	if len(pending) == 0 {
		b.send(chatID, "No words pending for review. Great job!")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Pending reviews: %d word(s)\n", len(pending))
	for _, v := range pending {
		if v.LearningStep > 0 {
			fmt.Fprintf(&sb, "- %s (learning %d/%d)\n", v.Word, v.LearningStep, b.engine.Steps())
		} else {
			fmt.Fprintf(&sb, "- %s (reps: %d)\n", v.Word, v.Repetitions)
		}
	}
	b.send(chatID, sb.String())
}

// handleReview starts a flashcard session over the pending words
func (b *Bot) handleReview(chatID int64) {
	pending, err := b.repo.GetPending(b.clock.Format(time.Now()))
	if err != nil {
		log.Printf("Error getting pending entries: %v", err)
		b.send(chatID, "Failed to start the review session.")
		return
	}
	if len(pending) == 0 {
		b.send(chatID, "No words pending for review. Great job!")
		return
	}
	if len(pending) > b.config.SessionLimit {
		pending = pending[:b.config.SessionLimit]
	}

	session := &reviewSession{IDs: make([]int64, len(pending))}
	for i, v := range pending {
		session.IDs[i] = v.ID
	}

	b.mu.Lock()
	b.sessions[chatID] = session
	b.mu.Unlock()

	b.sendNextCard(chatID)
}

// sendNextCard shows the front of the current flashcard
func (b *Bot) sendNextCard(chatID int64) {
	b.mu.Lock()
	session := b.sessions[chatID]
	b.mu.Unlock()

	if session == nil {
		return
	}
	if session.Current >= len(session.IDs) {
		b.mu.Lock()
		delete(b.sessions, chatID)
		b.mu.Unlock()
		b.send(chatID, fmt.Sprintf("Session complete! Reviewed %d word(s).", len(session.IDs)))
		return
	}

	id := session.IDs[session.Current]
	v, err := b.repo.GetByID(id)
	if err != nil {
		log.Printf("Error loading vocab entry %d: %v", id, err)
		b.advanceSession(chatID)
		return
	}

	var phase string
	if v.LearningStep > 0 {
		phase = fmt.Sprintf("[Learning %d/%d]", v.LearningStep, b.engine.Steps())
	} else {
		phase = fmt.Sprintf("[Review #%d]", v.Repetitions+1)
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s\n%s", phase, v.Word))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Show answer", fmt.Sprintf("show:%d", v.ID)),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending flashcard to chat %d: %v", chatID, err)
	}
}

func (b *Bot) advanceSession(chatID int64) {
	b.mu.Lock()
	if session := b.sessions[chatID]; session != nil {
		session.Current++
	}
	b.mu.Unlock()
	b.sendNextCard(chatID)
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	parts := strings.Split(query.Data, ":")
	chatID := query.Message.Chat.ID

	ack := func(text string) {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, text)); err != nil {
			log.Printf("Error answering callback: %v", err)
		}
	}

	switch parts[0] {
	case "show":
		if len(parts) != 2 {
			ack("")
			return
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			ack("")
			return
		}
		b.showAnswer(chatID, query.Message.MessageID, id)
		ack("")
	case "rate":
		if len(parts) != 3 {
			ack("")
			return
		}
		id, err1 := strconv.ParseInt(parts[1], 10, 64)
		n, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			ack("")
			return
		}
		b.submitRating(chatID, query.Message.MessageID, id, spaced_repetition.Rating(n), ack)
	default:
		ack("")
	}
}

// showAnswer reveals the back of the flashcard with rating buttons
func (b *Bot) showAnswer(chatID int64, messageID int, id int64) {
	v, err := b.repo.GetByID(id)
	if err != nil {
		log.Printf("Error loading vocab entry %d: %v", id, err)
		return
	}

	var sb strings.Builder
	sb.WriteString(v.Word)
	if v.POS != "" {
		fmt.Fprintf(&sb, " (%s)", v.POS)
	}
	fmt.Fprintf(&sb, "\n%s", v.Meaning)
	if v.Chinese != "" {
		fmt.Fprintf(&sb, "\n%s", v.Chinese)
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Forgot", fmt.Sprintf("rate:%d:%d", id, spaced_repetition.Forgot)),
			tgbotapi.NewInlineKeyboardButtonData("Hard", fmt.Sprintf("rate:%d:%d", id, spaced_repetition.Hard)),
			tgbotapi.NewInlineKeyboardButtonData("Easy", fmt.Sprintf("rate:%d:%d", id, spaced_repetition.Easy)),
		),
	)

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, sb.String(), keyboard)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error revealing answer in chat %d: %v", chatID, err)
	}
}

// submitRating applies the rating through the engine and moves the session on
func (b *Bot) submitRating(chatID int64, messageID int, id int64, rating spaced_repetition.Rating, ack func(string)) {
	v, err := b.repo.GetByID(id)
	if err != nil {
		log.Printf("Error loading vocab entry %d: %v", id, err)
		ack("Entry not found")
		return
	}

	state, feedback, err := b.engine.ApplyRating(v.ScheduleState, rating, time.Now())
	if err != nil {
		log.Printf("Error applying rating for entry %d: %v", id, err)
		ack("Invalid rating")
		return
	}
	if err := b.repo.UpdateSchedule(v.ID, state); err != nil {
		log.Printf("Error saving schedule for entry %d: %v", id, err)
		ack("Failed to save progress")
		return
	}

	ack(feedback)

	edit := tgbotapi.NewEditMessageText(chatID, messageID, fmt.Sprintf("%s\n-> %s", v.Word, feedback))
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error updating flashcard in chat %d: %v", chatID, err)
	}

	b.advanceSession(chatID)
}

// handleList lists stored words with their schedule
func (b *Bot) handleList(chatID int64) {
	entries, err := b.repo.GetAll()
	if err != nil {
		log.Printf("Error listing vocab entries: %v", err)
		b.send(chatID, "Failed to list words.")
		return
	}
	if len(entries) == 0 {
		b.send(chatID, "No words yet. Add one with /add <word>.")
		return
	}

	truncated := false
	if len(entries) > b.config.ListLimit {
		entries = entries[:b.config.ListLimit]
		truncated = true
	}

	now := time.Now()
	var sb strings.Builder
	for _, v := range entries {
		remaining := "?"
		if due, err := b.clock.Parse(v.NextReview); err == nil {
			remaining = b.clock.Remaining(due, now)
		}
		if v.LearningStep > 0 {
			fmt.Fprintf(&sb, "%s - learning %d/%d, next: %s\n", v.Word, v.LearningStep, b.engine.Steps(), remaining)
		} else {
			fmt.Fprintf(&sb, "%s - interval %dd, EF %.2f, next: %s\n", v.Word, v.IntervalDays, v.Easiness, remaining)
		}
	}
	if truncated {
		sb.WriteString("...\n")
	}
	b.send(chatID, sb.String())
}

func (b *Bot) handleStats(chatID int64) {
	stats, err := b.repo.Stats(b.clock.Format(time.Now()))
	if err != nil {
		log.Printf("Error getting stats: %v", err)
		b.send(chatID, "Failed to get statistics.")
		return
	}

	text := fmt.Sprintf("Total words: %d\nIn learning: %d\nGraduated (SM-2): %d\nPending now: %d",
		stats.Total, stats.Learning, stats.Graduated, stats.Pending)
	if stats.AvgEF > 0 {
		text += fmt.Sprintf("\nAverage EF (graduated): %.2f", stats.AvgEF)
	}
	b.send(chatID, text)
}
