package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhubert/qa-hipchat-notifications/internal/hipchat"
	"github.com/jhubert/qa-hipchat-notifications/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// HistoryFetcher reads a room's latest messages. *hipchat.RoomAPI implements it.
type HistoryFetcher interface {
	GetRecentHistory(ctx context.Context, roomID string, opts hipchat.Params) (hipchat.Params, error)
}

var _ HistoryFetcher = (*hipchat.RoomAPI)(nil)

// PollerConfig describes one room history poller.
type PollerConfig struct {
	Store    *state.Store
	History  HistoryFetcher
	Room     string
	Interval time.Duration // zero uses the default
	Logger   zerolog.Logger
	OnPoll   WatchFunc // optional
}

// StartPoller launches a background goroutine that refreshes the store,
// backing off while HipChat is failing. It returns immediately; the returned
// channel closes once the goroutine exits after ctx is cancelled.
func StartPoller(ctx context.Context, cfg PollerConfig) <-chan struct{} {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			snap := refresh(ctx, cfg)
			if ctx.Err() != nil {
				return
			}
			timer.Reset(calculateBackoff(snap.ConsecutiveFailures, interval))
		}
	}()
	return done
}

func refresh(ctx context.Context, cfg PollerConfig) state.Snapshot {
	body, err := cfg.History.GetRecentHistory(ctx, cfg.Room, nil)
	var items []hipchat.HistoryItem
	if err == nil {
		items, err = hipchat.DecodeHistory(body)
	}
	if err != nil && ctx.Err() != nil {
		return cfg.Store.Snapshot()
	}
	fresh := cfg.Store.Update(cfg.Room, items, err)
	snap := cfg.Store.Snapshot()
	if err != nil {
		cfg.Logger.Warn().Err(err).Str("room", cfg.Room).Int("failures", snap.ConsecutiveFailures).Msg("history poll failed")
	}
	if cfg.OnPoll != nil {
		cfg.OnPoll(fresh, snap)
	}
	return snap
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
