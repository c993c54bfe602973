package logging

import (
	"context"
	"log/slog"
)

// MultiHandler fans every record out to a set of sinks: the session log
// file, optional extra writers (GELF) and the OTel bridge. A failing
// sink never blocks the others.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler builds the fan-out over the given handlers. Nil
// entries are dropped so callers can pass optional sinks directly.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	m := &MultiHandler{handlers: make([]slog.Handler, 0, len(handlers))}
	for _, h := range handlers {
		if h == nil {
			continue
		}
		m.handlers = append(m.handlers, h)
	}
	return m
}

// Enabled reports whether at least one sink wants the level.
func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every enabled sink. Each sink gets its
// own clone; sink errors are swallowed so one broken writer cannot
// silence the rest.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		_ = h.Handle(ctx, r.Clone())
	}
	return nil
}

// WithAttrs applies the attributes to every sink.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: next}
}

// WithGroup opens the group on every sink. An empty name is a no-op,
// matching the slog.Handler contract.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: next}
}
