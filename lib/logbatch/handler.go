// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logbatch

import (
	"context"
	"log/slog"
	"strings"
)

// Handler is a slog.Handler that flattens records into a Batch. The
// message is followed by the record's attributes as key=value pairs,
// with group names joined by dots.
type Handler struct {
	batch  *Batch
	level  slog.Leveler
	prefix string // preformatted WithAttrs output
	groups string // dotted group path including trailing dot
}

// NewHandler returns a Handler that adds records at or above level to
// batch.
func NewHandler(batch *Batch, level slog.Leveler) *Handler {
	return &Handler{batch: batch, level: level}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var builder strings.Builder
	builder.WriteString(record.Message)
	builder.WriteString(h.prefix)
	record.Attrs(func(attr slog.Attr) bool {
		appendAttr(&builder, h.groups, attr)
		return true
	})
	h.batch.Add(Entry{Level: record.Level, Message: builder.String()})
	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var builder strings.Builder
	builder.WriteString(h.prefix)
	for _, attr := range attrs {
		appendAttr(&builder, h.groups, attr)
	}
	derived := *h
	derived.prefix = builder.String()
	return &derived
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	derived := *h
	derived.groups = h.groups + name + "."
	return &derived
}

func appendAttr(builder *strings.Builder, groups string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := groups
		if attr.Key != "" {
			nested = groups + attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			appendAttr(builder, nested, member)
		}
		return
	}
	builder.WriteByte(' ')
	builder.WriteString(groups)
	builder.WriteString(attr.Key)
	builder.WriteByte('=')
	builder.WriteString(attr.Value.String())
}

// Fanout is a slog.Handler that sends each record to multiple
// underlying handlers. A record is enabled if any sub-handler is
// enabled for that level.
type Fanout []slog.Handler

// Enabled implements slog.Handler.
func (handlers Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler.
func (handlers Fanout) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (handlers Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(Fanout, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

// WithGroup implements slog.Handler.
func (handlers Fanout) WithGroup(name string) slog.Handler {
	derived := make(Fanout, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
