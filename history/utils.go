package history

import (
	"context"
	"log/slog"
)

// SafeRead treats an unreachable store as an empty conversation.
func SafeRead(ctx context.Context, h History, sessionId string) []Turn {
	turns, err := h.Read(ctx, sessionId)
	if err != nil {
		slog.WarnContext(ctx, "memory degraded, continuing without history", "session", sessionId, "error", err)
		return []Turn{}
	}

	if turns == nil {
		return []Turn{}
	}

	return turns
}

// SafeAppend logs and drops append failures.
func SafeAppend(ctx context.Context, h History, sessionId string, role string, message string) {
	if err := h.Append(ctx, sessionId, role, message); err != nil {
		slog.WarnContext(ctx, "memory degraded, turn not recorded", "session", sessionId, "role", role, "error", err)
	}
}
