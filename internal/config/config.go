// Package config provides configuration loading, validation, and defaults
// for the bot fleet. It reads config.yaml, applies BOT_* environment
// overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrConfiguration wraps every error returned by Load.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration for the process.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Presence  PresenceConfig  `mapstructure:"presence"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// DatabaseConfig points at the SQLite file shared by every session.
type DatabaseConfig struct {
	Path     string `mapstructure:"path"      validate:"required"`
	PoolSize int64  `mapstructure:"pool_size" validate:"min=1,max=256"`
}

// TelegramConfig holds the credentials source and the privileged identity.
type TelegramConfig struct {
	TokensFile      string        `mapstructure:"tokens_file"       validate:"required"`
	DeveloperID     int64         `mapstructure:"developer_id"      validate:"required,gt=0"`
	ConnectMaxTries uint          `mapstructure:"connect_max_tries" validate:"min=1"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   validate:"min=1s,max=5m"`
}

// PresenceConfig is published as each bot's short description once it connects.
type PresenceConfig struct {
	DisplayText string `mapstructure:"display_text" validate:"max=120"`
	LinkURL     string `mapstructure:"link_url"     validate:"omitempty,url"`
}

// RateLimitConfig bounds how often a user may run the same command.
type RateLimitConfig struct {
	Window   time.Duration `mapstructure:"window"    validate:"min=1s"`
	MaxCalls int           `mapstructure:"max_calls" validate:"min=1"`
}

// SchedulerConfig controls background maintenance jobs.
type SchedulerConfig struct {
	PurgeInterval       time.Duration `mapstructure:"purge_interval"       validate:"min=1s"`
	MaintenanceInterval time.Duration `mapstructure:"maintenance_interval" validate:"min=1m"`
}

// MessagesConfig contains every user-visible reply. Fields ending in a
// format verb are passed through fmt.Sprintf.
type MessagesConfig struct {
	Blacklisted       string `mapstructure:"blacklisted"        validate:"required"`
	NotAuthorized     string `mapstructure:"not_authorized"     validate:"required"`
	DeveloperOnly     string `mapstructure:"developer_only"     validate:"required"`
	RateLimited       string `mapstructure:"rate_limited"       validate:"required"`
	GeneralError      string `mapstructure:"general_error"      validate:"required"`
	Usage             string `mapstructure:"usage"              validate:"required"`
	InvalidUserID     string `mapstructure:"invalid_user_id"    validate:"required"`
	Pong              string `mapstructure:"pong"               validate:"required"`
	UntouchableAdded  string `mapstructure:"untouchable_added"  validate:"required"`
	UntouchableExists string `mapstructure:"untouchable_exists" validate:"required"`
	TouchableRemoved  string `mapstructure:"touchable_removed"  validate:"required"`
	TouchableMissing  string `mapstructure:"touchable_missing"  validate:"required"`
	WhitelistAdded    string `mapstructure:"whitelist_added"    validate:"required"`
	WhitelistExists   string `mapstructure:"whitelist_exists"   validate:"required"`
	WhitelistRemoved  string `mapstructure:"whitelist_removed"  validate:"required"`
	WhitelistMissing  string `mapstructure:"whitelist_missing"  validate:"required"`
	BlacklistAdded    string `mapstructure:"blacklist_added"    validate:"required"`
	BlacklistExists   string `mapstructure:"blacklist_exists"   validate:"required"`
	BlacklistRemoved  string `mapstructure:"blacklist_removed"  validate:"required"`
	BlacklistMissing  string `mapstructure:"blacklist_missing"  validate:"required"`
}

// Load reads configuration from, in increasing priority:
// 1. Default values
// 2. The YAML file at path (optional when it does not exist)
// 3. BOT_* environment variables, e.g. BOT_TELEGRAM_DEVELOPER_ID
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfiguration, path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks struct constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.pool_size", DefaultDBPoolSize)

	v.SetDefault("telegram.tokens_file", DefaultTokensFile)
	// Registered so AutomaticEnv can bind BOT_TELEGRAM_DEVELOPER_ID during Unmarshal.
	v.SetDefault("telegram.developer_id", 0)
	v.SetDefault("telegram.connect_max_tries", DefaultConnectMaxTries)
	v.SetDefault("telegram.request_timeout", DefaultRequestTimeout)

	v.SetDefault("presence.display_text", "")
	v.SetDefault("presence.link_url", "")

	v.SetDefault("rate_limit.window", DefaultRateLimitWindow)
	v.SetDefault("rate_limit.max_calls", DefaultRateLimitMaxCalls)

	v.SetDefault("scheduler.purge_interval", DefaultPurgeInterval)
	v.SetDefault("scheduler.maintenance_interval", DefaultMaintenanceInterval)

	m := DefaultMessages
	v.SetDefault("messages.blacklisted", m.Blacklisted)
	v.SetDefault("messages.not_authorized", m.NotAuthorized)
	v.SetDefault("messages.developer_only", m.DeveloperOnly)
	v.SetDefault("messages.rate_limited", m.RateLimited)
	v.SetDefault("messages.general_error", m.GeneralError)
	v.SetDefault("messages.usage", m.Usage)
	v.SetDefault("messages.invalid_user_id", m.InvalidUserID)
	v.SetDefault("messages.pong", m.Pong)
	v.SetDefault("messages.untouchable_added", m.UntouchableAdded)
	v.SetDefault("messages.untouchable_exists", m.UntouchableExists)
	v.SetDefault("messages.touchable_removed", m.TouchableRemoved)
	v.SetDefault("messages.touchable_missing", m.TouchableMissing)
	v.SetDefault("messages.whitelist_added", m.WhitelistAdded)
	v.SetDefault("messages.whitelist_exists", m.WhitelistExists)
	v.SetDefault("messages.whitelist_removed", m.WhitelistRemoved)
	v.SetDefault("messages.whitelist_missing", m.WhitelistMissing)
	v.SetDefault("messages.blacklist_added", m.BlacklistAdded)
	v.SetDefault("messages.blacklist_exists", m.BlacklistExists)
	v.SetDefault("messages.blacklist_removed", m.BlacklistRemoved)
	v.SetDefault("messages.blacklist_missing", m.BlacklistMissing)
}
