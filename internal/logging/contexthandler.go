package logging

import (
	"context"
	"log/slog"
)

// ContextProvider supplies the attributes of the run in progress. It is
// called once per record, so records always carry the current case and
// run id rather than the ones captured at logger construction.
type ContextProvider func() []slog.Attr

// ContextHandler decorates an inner handler with the provider's
// attributes.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler wraps inner so every record picks up the provider's
// attributes. A nil provider makes the handler a transparent
// pass-through.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

// Enabled delegates to the inner handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle appends the current run attributes and forwards the record.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs keeps the provider and applies the attributes to the inner
// handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

// WithGroup keeps the provider and opens the group on the inner
// handler. An empty name is a no-op.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}
