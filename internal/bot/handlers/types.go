// Package handlers contains the bot command handlers, their middleware and
// the registry shared by every session.
package handlers

import (
	"context"
	"time"
)

// Invocation is one command received by a session.
type Invocation struct {
	UpdateID int64
	ChatID   int64
	ActorID  int64
	Command  string
	Args     []string
}

// Reply is a message sent back to the chat an invocation came from.
type Reply struct {
	ChatID int64
	Text   string
	HTML   bool
}

// Conn is the part of a session's platform connection that handlers use.
type Conn interface {
	Send(ctx context.Context, reply Reply) error
	Latency(ctx context.Context) (time.Duration, error)
}

// HandlerFunc runs a command. A returned error is reported to the invoker
// as a generic failure by Recover.
type HandlerFunc func(ctx context.Context, conn Conn, inv Invocation) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// Command binds a name to its handler and middleware.
type Command struct {
	Name        string
	Description string
	Handler     HandlerFunc
	Middleware  []Middleware
}

// Build returns the handler with the command's middleware applied, outermost first.
func (c Command) Build() HandlerFunc {
	h := c.Handler
	for i := len(c.Middleware) - 1; i >= 0; i-- {
		h = c.Middleware[i](h)
	}
	return h
}

func reply(ctx context.Context, conn Conn, chatID int64, text string) error {
	return conn.Send(ctx, Reply{ChatID: chatID, Text: text})
}
