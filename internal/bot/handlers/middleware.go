package handlers

import (
	"context"
	"fmt"

	"github.com/osintworld/sb/internal/access"
)

// Recover turns handler errors and panics into a logged failure and a generic
// notice to the invoker. It never lets one command take the session down.
func Recover(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn Conn, inv Invocation) (err error) {
			log := deps.Logger.With("middleware", "Recover", "command", inv.Command, "user_id", inv.ActorID)

			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic in %s handler: %v", inv.Command, r)
				}
				if err == nil {
					return
				}
				log.ErrorContext(ctx, "Command failed", "error", err, "chat_id", inv.ChatID)
				if sendErr := reply(ctx, conn, inv.ChatID, fmt.Sprintf(deps.Config.Messages.GeneralError, inv.Command)); sendErr != nil {
					log.ErrorContext(ctx, "Failed to send error notice", "error", sendErr, "chat_id", inv.ChatID)
				}
				err = nil
			}()

			return next(ctx, conn, inv)
		}
	}
}

// Gated runs the authorization gate and then the rate limiter. Denials are
// answered here and stop processing. The developer skips both checks.
func Gated(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn Conn, inv Invocation) error {
			log := deps.Logger.With("middleware", "Gated", "command", inv.Command)

			decision, err := deps.Gate.Decide(ctx, inv.ActorID)
			if err != nil {
				return fmt.Errorf("authorization: %w", err)
			}

			switch decision {
			case access.Developer:
				return next(ctx, conn, inv)
			case access.DeniedBlacklisted:
				log.WarnContext(ctx, "Blacklisted user denied", "user_id", inv.ActorID, "chat_id", inv.ChatID)
				return reply(ctx, conn, inv.ChatID, deps.Config.Messages.Blacklisted)
			case access.DeniedNotWhitelisted:
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", inv.ActorID, "chat_id", inv.ChatID)
				return reply(ctx, conn, inv.ChatID, deps.Config.Messages.NotAuthorized)
			}

			limited, err := deps.Limiter.Check(ctx, inv.ActorID, inv.Command)
			if err != nil {
				return err
			}
			if limited {
				return reply(ctx, conn, inv.ChatID, deps.Config.Messages.RateLimited)
			}

			return next(ctx, conn, inv)
		}
	}
}

// DeveloperOnly lets only the configured developer through. It compares the
// actor directly and does not consult the flag sets.
func DeveloperOnly(deps HandlerDeps) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn Conn, inv Invocation) error {
			if !deps.Gate.IsDeveloper(inv.ActorID) {
				deps.Logger.WarnContext(ctx, "Non-developer tried an admin command",
					"middleware", "DeveloperOnly", "command", inv.Command, "user_id", inv.ActorID, "chat_id", inv.ChatID)
				return reply(ctx, conn, inv.ChatID, deps.Config.Messages.DeveloperOnly)
			}
			return next(ctx, conn, inv)
		}
	}
}
