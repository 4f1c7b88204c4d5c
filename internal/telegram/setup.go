// Package telegram adapts go-telegram/bot to the session and handler layers:
// bot construction, command registration and the connection used by handlers.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/osintworld/sb/internal/bot/handlers"
	"github.com/osintworld/sb/internal/config"
)

// maxShortDescription is Telegram's limit for a bot's short description.
const maxShortDescription = 120

// NewTelegramBot creates a bot for token. go-telegram/bot calls getMe while
// constructing, so an error here means the session could not connect.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Debug("Telegram bot instance created", "token_prefix", TokenPrefix(token))
	return b, nil
}

// TokenPrefix returns a loggable prefix of token.
func TokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}

// RegisterHandlers registers every command on b.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, commands []handlers.Command) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	for _, cmd := range commands {
		if cmd.Handler == nil {
			log.Warn("Skipping registration for nil handler", "command", cmd.Name)
			continue
		}
		b.RegisterHandler(bot.HandlerTypeMessageText, cmd.Name, bot.MatchTypeCommandStartOnly, adapt(cmd.Build(), log))
		log.Debug("Registered handler", "command", cmd.Name, "middleware_count", len(cmd.Middleware))
	}

	log.Info("Registered Telegram handlers", "count", len(commands))
	return nil
}

// PublishCommands advertises the command list in Telegram's command menu.
func PublishCommands(ctx context.Context, b *bot.Bot, commands []handlers.Command) error {
	list := make([]models.BotCommand, 0, len(commands))
	for _, cmd := range commands {
		list = append(list, models.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	if _, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{Commands: list}); err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

// SetPresence publishes the configured status text as the bot's short description.
func SetPresence(ctx context.Context, b *bot.Bot, cfg config.PresenceConfig) error {
	text := PresenceText(cfg)
	if text == "" {
		return nil
	}
	if _, err := b.SetMyShortDescription(ctx, &bot.SetMyShortDescriptionParams{ShortDescription: text}); err != nil {
		return fmt.Errorf("failed to set short description: %w", err)
	}
	return nil
}

// PresenceText joins display text and link, trimmed to Telegram's limit.
func PresenceText(cfg config.PresenceConfig) string {
	text := strings.TrimSpace(strings.Join([]string{cfg.DisplayText, cfg.LinkURL}, " "))
	if utf8.RuneCountInString(text) <= maxShortDescription {
		return text
	}
	return string([]rune(text)[:maxShortDescription])
}

// ParseCommand splits "/name@bot arg1 arg2" into its name and arguments.
// ok is false when text is not a command.
func ParseCommand(text string) (name string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	name = strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", nil, false
	}
	return strings.ToLower(name), fields[1:], true
}

func adapt(h handlers.HandlerFunc, log *slog.Logger) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			log.WarnContext(ctx, "Command update without message or sender", "update_id", update.ID)
			return
		}

		name, args, ok := ParseCommand(update.Message.Text)
		if !ok {
			return
		}

		inv := handlers.Invocation{
			UpdateID: update.ID,
			ChatID:   update.Message.Chat.ID,
			ActorID:  update.Message.From.ID,
			Command:  name,
			Args:     args,
		}
		if err := h(ctx, NewConn(b), inv); err != nil {
			log.ErrorContext(ctx, "Command handler returned error", "command", name, "error", err)
		}
	}
}

// Sender is the subset of *bot.Bot used by Conn.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetMe(ctx context.Context) (*models.User, error)
}

// Conn implements handlers.Conn over a Telegram bot.
type Conn struct {
	b Sender
}

// NewConn wraps b.
func NewConn(b Sender) *Conn {
	return &Conn{b: b}
}

// Send delivers reply to its chat.
func (c *Conn) Send(ctx context.Context, reply handlers.Reply) error {
	params := &bot.SendMessageParams{ChatID: reply.ChatID, Text: reply.Text}
	if reply.HTML {
		params.ParseMode = models.ParseModeHTML
	}
	if _, err := c.b.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message to chat %d: %w", reply.ChatID, err)
	}
	return nil
}

// Latency measures one getMe round trip.
func (c *Conn) Latency(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := c.b.GetMe(ctx); err != nil {
		return 0, fmt.Errorf("getMe: %w", err)
	}
	return time.Since(start), nil
}
