// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for CircuitGuard commands.
//
// The analysis engines under services/ never log. This package serves the
// CLI layer, which keeps results on stdout and diagnostics on stderr so
// analysis output stays pipeable. Everything is built on log/slog: stderr
// gets a text or JSON handler, and an optional LogExporter is attached as
// one more slog handler behind the same level filter, so exported entries
// see exactly the records the terminal does, including attributes added
// with With.
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    Service: "circuitguard",
//	})
//	logger.Info("analysis complete", "circuits", n, "violations", v)
//
// A Logger with Quiet set and no exporter discards everything. Loggers are
// safe for concurrent use.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Level is the minimum severity a Logger reports. Values mirror slog's
// numbering so intermediate levels order correctly.
type Level int

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) slogLevel() slog.Level { return slog.Level(l) }

// Config controls Logger construction. The zero value logs Info and above
// to stderr as text.
type Config struct {
	// Level is the minimum severity to report.
	Level Level

	// Service is stamped on stderr records and exported entries.
	Service string

	// JSON switches the stderr handler from text to JSON records.
	JSON bool

	// Quiet disables stderr output. Exported entries are unaffected, so
	// watch mode can stay silent on the terminal while still shipping
	// logs.
	Quiet bool

	// Exporter receives a LogEntry per record when non-nil.
	Exporter LogExporter
}

// LogEntry is the exporter-facing form of one log record.
type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Service   string
	Attrs     map[string]any
}

// LogExporter ships log entries to an external destination. Export is
// called inline on the logging goroutine with a deadline on ctx, so
// implementations must not block; buffer and flush in Flush instead.
// Flush then Close are called once during Logger.Close.
type LogExporter interface {
	Export(ctx context.Context, entry LogEntry) error
	Flush(ctx context.Context) error
	Close() error
}

// Logger wraps a slog.Logger whose handler chain fans out to stderr and
// the configured exporter.
type Logger struct {
	slog     *slog.Logger
	config   Config
	exporter LogExporter
}

// New builds a Logger from config. Quiet with no exporter yields a logger
// that discards every record.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{Level: config.Level.slogLevel()}

	var handlers []slog.Handler
	if !config.Quiet {
		var stderr slog.Handler
		if config.JSON {
			stderr = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			stderr = slog.NewTextHandler(os.Stderr, opts)
		}
		if config.Service != "" {
			stderr = stderr.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
		}
		handlers = append(handlers, stderr)
	}
	if config.Exporter != nil {
		handlers = append(handlers, &exporterHandler{
			exporter: config.Exporter,
			service:  config.Service,
			min:      config.Level.slogLevel(),
		})
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = discardHandler{}
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}

	return &Logger{
		slog:     slog.New(handler),
		config:   config,
		exporter: config.Exporter,
	}
}

// Default returns the logger one-shot command runs use: Info level, text
// on stderr, service "circuitguard".
func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "circuitguard"})
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a child Logger whose records carry the given attributes.
// The attributes flow through the whole handler chain, exporter included.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:     l.slog.With(args...),
		config:   l.config,
		exporter: l.exporter,
	}
}

// Slog exposes the underlying slog.Logger for call sites that need
// features this wrapper does not surface.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Close flushes and closes the exporter, if any.
func (l *Logger) Close() error {
	if l.exporter == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if err := l.exporter.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush exporter: %w", err))
	}
	if err := l.exporter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close exporter: %w", err))
	}
	return errors.Join(errs...)
}

// discardHandler matches the semantics of slog.DiscardHandler, which
// requires Go 1.24; this module must also build on older toolchains.
// Enabled reports false for every level, so no record is ever handled.
type discardHandler struct{}

func (dh discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (dh discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (dh discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return dh }
func (dh discardHandler) WithGroup(string) slog.Handler             { return dh }

// multiHandler fans one record out to every destination. Every handler
// runs even when an earlier one fails; errors are joined.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// exporterHandler adapts a LogExporter into the slog handler chain.
// Accumulated attributes and group prefixes are flattened into the
// entry's Attrs map with dotted keys.
type exporterHandler struct {
	exporter LogExporter
	service  string
	min      slog.Level
	prefix   string
	attrs    map[string]any
}

func (h *exporterHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *exporterHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.prefix+a.Key] = a.Value.Resolve().Any()
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return h.exporter.Export(ctx, LogEntry{
		Timestamp: ts,
		Level:     Level(r.Level),
		Message:   r.Message,
		Service:   h.service,
		Attrs:     attrs,
	})
}

func (h *exporterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		next.attrs[h.prefix+a.Key] = a.Value.Resolve().Any()
	}
	return next
}

func (h *exporterHandler) WithGroup(name string) slog.Handler {
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *exporterHandler) clone() *exporterHandler {
	attrs := make(map[string]any, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	return &exporterHandler{
		exporter: h.exporter,
		service:  h.service,
		min:      h.min,
		prefix:   h.prefix,
		attrs:    attrs,
	}
}

// NopExporter discards every entry.
type NopExporter struct{}

func (*NopExporter) Export(context.Context, LogEntry) error { return nil }
func (*NopExporter) Flush(context.Context) error            { return nil }
func (*NopExporter) Close() error                           { return nil }

var _ LogExporter = (*NopExporter)(nil)

// BufferedExporter collects entries in memory. Tests use it to assert on
// what a command logged.
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewBufferedExporter() *BufferedExporter { return &BufferedExporter{} }

func (e *BufferedExporter) Export(_ context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

func (e *BufferedExporter) Flush(context.Context) error { return nil }
func (e *BufferedExporter) Close() error                { return nil }

// Entries returns a copy of everything exported so far.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]LogEntry(nil), e.entries...)
}

// WriterExporter writes one formatted line per entry to w.
type WriterExporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterExporter(w io.Writer) *WriterExporter { return &WriterExporter{w: w} }

func (e *WriterExporter) Export(_ context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintf(e.w, "[%s] %s: %s %v\n",
		entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message, entry.Attrs)
	return err
}

func (e *WriterExporter) Flush(context.Context) error { return nil }
func (e *WriterExporter) Close() error                { return nil }
