package workers

import (
	"context"
	"log/slog"
	"meeting-lab/contract"
	"time"
)

type Sweeper interface {
	Sweep(now time.Time) int
}

// InviteSweeper periodically removes expired invite codes.
type InviteSweeper struct {
	log      *slog.Logger
	sweeper  Sweeper
	clock    contract.Clock
	interval time.Duration
}

func NewInviteSweeper(log *slog.Logger, sweeper Sweeper, clock contract.Clock, interval time.Duration) *InviteSweeper {
	return &InviteSweeper{log: log, sweeper: sweeper, clock: clock, interval: interval}
}

func (w *InviteSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping invite sweeper")
			return nil
		case <-ticker.C:
			if n := w.sweeper.Sweep(w.clock.Now()); n > 0 {
				w.log.Debug("Invites swept", "count", n)
			}
		}
	}
}
