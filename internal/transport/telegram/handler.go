package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	feedDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/transfer-pulse/internal/modules/feed/service"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	userDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/user/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/config"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
)

const topItems = 10

// Feed is the aggregator as seen by the bot
type Feed interface {
	Snapshot() feedDomain.State
	Refresh(ctx context.Context) error
}

// Sources exposes the registry and the active flags
type Sources interface {
	All() []sourceDomain.Source
	IsActive(id string) bool
	Toggle(id string) (bool, error)
}

// Users gates access to the bot
type Users interface {
	IsAuthorized(userID int64) bool
	Touch(userID int64, username string)
	Seen() []userDomain.User
}

type command func(ctx context.Context, args string) string

// Handler handles Telegram bot interactions
type Handler struct {
	cfg      *config.Config
	feed     Feed
	sources  Sources
	users    Users
	now      func() time.Time
	commands map[string]command
}

// New creates a new Telegram handler
func New(cfg *config.Config, feed Feed, sources Sources, users Users) *Handler {
	h := &Handler{
		cfg:     cfg,
		feed:    feed,
		sources: sources,
		users:   users,
		now:     time.Now,
	}
	h.commands = map[string]command{
		"/start":     h.help,
		"/help":      h.help,
		"/feed":      h.latest(false),
		"/official":  h.latest(true),
		"/breakdown": h.breakdown,
		"/sources":   h.listSources,
		"/toggle":    h.toggle,
		"/refresh":   h.refresh,
		"/users":     h.listUsers,
	}
	return h
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/feed", bot.MatchTypePrefix, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/official", bot.MatchTypePrefix, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/breakdown", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/sources", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/toggle", bot.MatchTypePrefix, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/refresh", bot.MatchTypeExact, h.handleCommand)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/users", bot.MatchTypeExact, h.handleCommand)
}

// HandleUpdate answers anything that is not a registered command
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, "Send /help to see what I can do.")
}

func (h *Handler) handleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	h.send(ctx, b, msg.Chat.ID, h.Execute(ctx, msg.From.ID, msg.From.Username, msg.Text))
}

func (h *Handler) send(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		slog.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

// Execute runs a command line on behalf of a user and returns the reply
func (h *Handler) Execute(ctx context.Context, userID int64, username, text string) string {
	h.users.Touch(userID, username)
	if !h.users.IsAuthorized(userID) {
		return "❌ You are not authorized to use this bot."
	}

	name, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	name, _, _ = strings.Cut(name, "@")

	cmd, ok := h.commands[strings.ToLower(name)]
	if !ok {
		return h.help(ctx, "")
	}
	return cmd(ctx, strings.TrimSpace(args))
}

func (h *Handler) help(_ context.Context, _ string) string {
	return `👋 Welcome to Transfer Pulse!

I collect football transfer news from trusted outlets and reporters.

Available commands:
/help - Show this help message
/feed [query] - Latest items, optionally filtered
/official [query] - Only official signings and loans
/breakdown - Items per label
/sources - List sources and their state
/toggle <source_id> - Enable or disable a source
/refresh - Fetch all active sources now
/users - Who has used the bot since startup

Example:
/feed arsenal`
}

func (h *Handler) latest(officialOnly bool) command {
	return func(_ context.Context, args string) string {
		state := h.feed.Snapshot()
		items := feedService.Visible(state.Items, feedService.Query{Text: args, OfficialOnly: officialOnly})
		return RenderItems(items, state, h.now())
	}
}

func (h *Handler) breakdown(_ context.Context, _ string) string {
	return RenderBreakdown(feedService.Breakdown(h.feed.Snapshot().Items))
}

func (h *Handler) listSources(_ context.Context, _ string) string {
	var text strings.Builder
	text.WriteString("📋 Sources:\n\n")
	for i, src := range h.sources.All() {
		status := "✅"
		if !h.sources.IsActive(src.ID) {
			status = "⏸️"
		}
		text.WriteString(fmt.Sprintf("%s %d. %s\n   ID: %s\n   Type: %s\n\n", status, i+1, src.Name, src.ID, src.Type))
	}
	text.WriteString(fmt.Sprintf("⏱ Auto refresh every %s", h.cfg.RefreshEvery()))
	return text.String()
}

func (h *Handler) toggle(_ context.Context, args string) string {
	id, _, _ := strings.Cut(args, " ")
	if id == "" {
		return "Usage: /toggle <source_id>\nSee /sources for ids."
	}

	active, err := h.sources.Toggle(id)
	if err != nil {
		if errors.Is(err, errors.ErrSourceNotFound) {
			return fmt.Sprintf("❌ Source not found: %s", id)
		}
		return fmt.Sprintf("❌ Failed to toggle source: %v", err)
	}

	if active {
		return fmt.Sprintf("✅ %s enabled. It will be fetched on the next refresh.", id)
	}
	return fmt.Sprintf("⏸️ %s disabled. Its items stay until the next refresh.", id)
}

func (h *Handler) listUsers(_ context.Context, _ string) string {
	return RenderUsers(h.users.Seen(), h.now())
}

func (h *Handler) refresh(ctx context.Context, _ string) string {
	err := h.feed.Refresh(ctx)
	switch {
	case errors.Is(err, errors.ErrRefreshInProgress):
		return "⏳ A refresh is already running."
	case err != nil:
		return "❌ " + feedDomain.FailureMessage
	}
	return fmt.Sprintf("🔄 Refreshed: %d items", len(h.feed.Snapshot().Items))
}
