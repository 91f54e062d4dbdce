// Package analytics records daily usage counters. Recording is best effort:
// the flow never fails a user interaction because the counters could not be
// written.
package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"avatarbot/internal/domain"
	"avatarbot/internal/infra"
	"avatarbot/internal/sqlinline"
)

// Recorder receives one event per finished composition attempt.
type Recorder interface {
	RecordComposition(ctx context.Context, mode domain.Mode, success bool)
}

// PGRecorder upserts per-day, per-mode counters into Postgres.
type PGRecorder struct {
	pool   *pgxpool.Pool
	logger infra.Logger
}

// NewPGRecorder constructs the recorder.
func NewPGRecorder(pool *pgxpool.Pool, logger *infra.Logger) *PGRecorder {
	r := &PGRecorder{pool: pool}
	if logger != nil {
		r.logger = *logger
	}
	return r
}

// RecordComposition increments the day's counters for the mode. Failures are
// logged and swallowed.
func (r *PGRecorder) RecordComposition(ctx context.Context, mode domain.Mode, success bool) {
	day := time.Now().UTC().Format("2006-01-02")
	compositions, failures := 0, 0
	if success {
		compositions = 1
	} else {
		failures = 1
	}
	if _, err := r.pool.Exec(ctx, sqlinline.QUsageIncrement, day, string(mode), compositions, failures); err != nil {
		r.logger.Warn().Err(err).Str("mode", string(mode)).Msg("analytics: increment failed")
	}
}

// Noop discards every event. Used when no database is configured.
type Noop struct{}

func (Noop) RecordComposition(context.Context, domain.Mode, bool) {}

var _ Recorder = (*PGRecorder)(nil)
var _ Recorder = Noop{}
