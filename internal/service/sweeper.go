package service

import (
	"context"
	"log"
	"time"
)

// StartSweeper runs SweepExpired on a fixed interval until ctx is cancelled.
// It returns a channel that closes when the loop has exited, so shutdown can
// wait for an in-flight sweep to finish.
func StartSweeper(ctx context.Context, svc PasteService, interval time.Duration, batchSize int) <-chan struct{} {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := svc.SweepExpired(ctx, batchSize)
				if err != nil {
					log.Printf("sweep cycle failed: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("sweep removed %d expired pastes", n)
				}
			}
		}
	}()
	return done
}
