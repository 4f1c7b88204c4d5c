package handlers

import (
	"context"
	"fmt"
	"time"
)

// NewPingHandler returns a handler reporting the session's round-trip latency.
func NewPingHandler(deps HandlerDeps) HandlerFunc {
	return pingHandler{deps}.Handle
}

type pingHandler struct {
	deps HandlerDeps
}

func (h pingHandler) Handle(ctx context.Context, conn Conn, inv Invocation) error {
	latency, err := conn.Latency(ctx)
	if err != nil {
		return fmt.Errorf("measure latency: %w", err)
	}

	ms := float64(latency) / float64(time.Millisecond)
	h.deps.Logger.DebugContext(ctx, "Ping", "handler", "ping", "chat_id", inv.ChatID, "latency_ms", ms)

	return conn.Send(ctx, Reply{
		ChatID: inv.ChatID,
		Text:   fmt.Sprintf(h.deps.Config.Messages.Pong, ms),
		HTML:   true,
	})
}
