package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kidstime/kidstime/internal/auth/store"
	"github.com/kidstime/kidstime/pkg/jwtx"
)

// Housekeeping periodically prunes refresh-token ledger rows whose tokens
// expired on their own; without it, rows for principals that never log in
// again accumulate forever.
type Housekeeping struct {
	store    store.Store
	log      *slog.Logger
	interval time.Duration
	maxAge   time.Duration
}

// NewHousekeeping builds a sweeper. maxAge must match the configured
// refresh-token lifetime: only rows older than that hold tokens which can
// no longer verify.
func NewHousekeeping(st store.Store, log *slog.Logger, interval, maxAge time.Duration) *Housekeeping {
	if interval <= 0 {
		interval = time.Hour
	}
	if maxAge <= 0 {
		maxAge = jwtx.DefaultRefreshTokenTTL
	}
	return &Housekeeping{
		store:    st,
		log:      log,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run sweeps the ledgers every interval until ctx is cancelled. Call in its
// own goroutine.
func (h *Housekeeping) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.sweep(ctx)
		}
	}
}

func (h *Housekeeping) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-h.maxAge)

	if err := h.store.AdminTokens().DeleteStale(ctx, cutoff); err != nil {
		h.log.WarnContext(ctx, "admin ledger sweep failed", "error", err)
	}
	if err := h.store.UserTokens().DeleteStale(ctx, cutoff); err != nil {
		h.log.WarnContext(ctx, "user ledger sweep failed", "error", err)
	}
}
