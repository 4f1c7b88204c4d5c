package handlers

import (
	"github.com/osintworld/sb/internal/database"
)

// RegisterAllCommands returns every command in registration order. The slice
// is built once and handed to every session.
func RegisterAllCommands(deps HandlerDeps) []Command {
	m := deps.Config.Messages
	recoverMW := Recover(deps)
	gated := []Middleware{recoverMW, Gated(deps)}
	devOnly := []Middleware{recoverMW, DeveloperOnly(deps)}

	return []Command{
		{
			Name:        "ping",
			Description: "Show connection latency",
			Handler:     NewPingHandler(deps),
			Middleware:  gated,
		},
		{
			Name:        "untouchable",
			Description: "Mark a user as untouchable (developer only)",
			Handler:     NewFlagAddHandler(deps, database.Untouchable, m.UntouchableAdded, m.UntouchableExists),
			Middleware:  devOnly,
		},
		{
			Name:        "touchable",
			Description: "Remove a user from the untouchable set (developer only)",
			Handler:     NewFlagRemoveHandler(deps, database.Untouchable, m.TouchableRemoved, m.TouchableMissing),
			Middleware:  devOnly,
		},
		{
			Name:        "whitelist",
			Description: "Whitelist a user (developer only)",
			Handler:     NewFlagAddHandler(deps, database.Whitelist, m.WhitelistAdded, m.WhitelistExists),
			Middleware:  devOnly,
		},
		{
			Name:        "unwhitelist",
			Description: "Remove a user from the whitelist (developer only)",
			Handler:     NewFlagRemoveHandler(deps, database.Whitelist, m.WhitelistRemoved, m.WhitelistMissing),
			Middleware:  devOnly,
		},
		{
			Name:        "blacklist",
			Description: "Blacklist a user (developer only)",
			Handler:     NewFlagAddHandler(deps, database.Blacklist, m.BlacklistAdded, m.BlacklistExists),
			Middleware:  devOnly,
		},
		{
			Name:        "unblacklist",
			Description: "Remove a user from the blacklist (developer only)",
			Handler:     NewFlagRemoveHandler(deps, database.Blacklist, m.BlacklistRemoved, m.BlacklistMissing),
			Middleware:  devOnly,
		},
	}
}
