package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/osintworld/sb/internal/database"
)

// flagHandler adds a user to, or removes a user from, one flag set.
type flagHandler struct {
	deps    HandlerDeps
	set     database.FlagSet
	remove  bool
	changed string // reply when the set was modified
	noop    string // reply when the user was already in (or absent from) the set
}

// NewFlagAddHandler returns a handler that adds the user ID argument to set.
func NewFlagAddHandler(deps HandlerDeps, set database.FlagSet, added, existed string) HandlerFunc {
	return flagHandler{deps: deps, set: set, changed: added, noop: existed}.Handle
}

// NewFlagRemoveHandler returns a handler that removes the user ID argument from set.
func NewFlagRemoveHandler(deps HandlerDeps, set database.FlagSet, removed, missing string) HandlerFunc {
	return flagHandler{deps: deps, set: set, remove: true, changed: removed, noop: missing}.Handle
}

func (h flagHandler) Handle(ctx context.Context, conn Conn, inv Invocation) error {
	log := h.deps.Logger.With("handler", inv.Command, "set", h.set)

	if len(inv.Args) != 1 {
		return reply(ctx, conn, inv.ChatID, fmt.Sprintf(h.deps.Config.Messages.Usage, inv.Command, "<user_id>"))
	}
	userID, err := strconv.ParseInt(inv.Args[0], 10, 64)
	if err != nil {
		return reply(ctx, conn, inv.ChatID, h.deps.Config.Messages.InvalidUserID)
	}

	var changed bool
	if h.remove {
		changed, err = h.deps.Store.RemoveFlag(ctx, h.set, userID)
	} else {
		changed, err = h.deps.Store.AddFlag(ctx, h.set, userID)
	}
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "Flag set updated", "target_id", userID, "remove", h.remove, "changed", changed)

	text := h.noop
	if changed {
		text = h.changed
	}
	return reply(ctx, conn, inv.ChatID, fmt.Sprintf(text, userID))
}
