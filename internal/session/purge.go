package session

import (
	"context"
	"log/slog"
	"time"
)

// Purger is a backend that can drop expired entries itself. Redis expires
// keys on its own and does not need one.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// RunPurger calls p.Purge every interval until ctx is done.
func RunPurger(ctx context.Context, p Purger, every time.Duration, log *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := p.Purge(ctx); err != nil {
				log.Error("purge sessions", "err", err)
			} else if n > 0 {
				log.Info("purged expired sessions", "entries", n)
			}
		}
	}
}
