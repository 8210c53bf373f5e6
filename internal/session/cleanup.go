package session

import (
	"context"
	"time"

	"pico-editor/internal/logging"
)

// StartCleanup purges expired sessions every interval until ctx is done.
// It blocks; run it on its own goroutine.
func StartCleanup(ctx context.Context, store Store, interval time.Duration, log logging.Logger) {
	if interval <= 0 {
		log.Info("session cleanup disabled")
		return
	}
	log.Info("session cleanup starting", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runCleanup(ctx, store, log)

	for {
		select {
		case <-ctx.Done():
			log.Info("session cleanup shutting down")
			return
		case <-ticker.C:
			runCleanup(ctx, store, log)
		}
	}
}

func runCleanup(ctx context.Context, store Store, log logging.Logger) {
	start := time.Now()
	n, err := store.Purge(ctx, start)
	if err != nil {
		log.Error("session purge failed", "err", err)
		return
	}
	if n > 0 {
		log.Info("expired sessions purged", "deleted", n, "duration_ms", time.Since(start).Milliseconds())
	}
}
