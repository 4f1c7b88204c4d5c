package config

import "time"

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Database defaults
	DefaultDBPath     = "storage.db"
	DefaultDBPoolSize = 8 // Concurrent store operations across all sessions

	// Telegram defaults
	DefaultTokensFile      = "tokens.txt"
	DefaultConnectMaxTries = 8
	DefaultRequestTimeout  = 30 * time.Second

	// Rate limit defaults
	DefaultRateLimitWindow   = time.Minute
	DefaultRateLimitMaxCalls = 5

	// Scheduler defaults
	DefaultPurgeInterval       = 5 * time.Minute
	DefaultMaintenanceInterval = 24 * time.Hour
)

// DefaultMessages holds the reply texts sent when config.yaml does not override them.
var DefaultMessages = MessagesConfig{
	Blacklisted:       "You are blacklisted from using this bot.",
	NotAuthorized:     "You are not authorized to use this bot.",
	DeveloperOnly:     "You are not authorized.",
	RateLimited:       "You are being rate limited. Please wait a moment before trying again.",
	GeneralError:      "There was an error running the %s command.",
	Usage:             "Usage: /%s %s",
	InvalidUserID:     "Please provide a valid numeric user ID.",
	Pong:              "🏓 <b>Pong!</b>\nLatency: %.2f ms",
	UntouchableAdded:  "User with ID %d has been marked as untouchable.",
	UntouchableExists: "User with ID %d was already marked as untouchable.",
	TouchableRemoved:  "User with ID %d is no longer untouchable.",
	TouchableMissing:  "User with ID %d was not marked as untouchable.",
	WhitelistAdded:    "User with ID %d has been whitelisted.",
	WhitelistExists:   "User with ID %d was already whitelisted.",
	WhitelistRemoved:  "User with ID %d has been removed from the whitelist.",
	WhitelistMissing:  "User with ID %d was not on the whitelist.",
	BlacklistAdded:    "User with ID %d has been blacklisted.",
	BlacklistExists:   "User with ID %d was already blacklisted.",
	BlacklistRemoved:  "User with ID %d has been removed from the blacklist.",
	BlacklistMissing:  "User with ID %d was not on the blacklist.",
}
