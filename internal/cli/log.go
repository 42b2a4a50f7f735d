// Package cli implements the logofield command-line interface.
//
// Commands:
//   - place: print raw positions from the placement engine
//   - layout: compute a tenant layout and write it as JSON
//   - render: render a layout file or tenant splash to SVG, HTML, JSON, DOT, PNG or PDF
//   - pin, unpin: freeze or release a tenant's layout
//   - serve: run the HTTP service
//   - tenants: list configured tenants
//   - cache: manage the entity, layout and artifact cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so concurrent renders can tag their output
// with the tenant name.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger: timestamps as HH:MM:SS.cc, filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took, e.g. "Rendered 12 tenants (1.234s)".
// It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// forTenant attaches a child of l that tags every line with the tenant.
func forTenant(ctx context.Context, l *log.Logger, tenant string) context.Context {
	return withLogger(ctx, l.With("tenant", tenant))
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
