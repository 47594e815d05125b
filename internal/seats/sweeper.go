package seats

import (
	"context"
	"time"

	"gatepass/internal/notifications"
	"gatepass/pkg/logger"
)

// Sweeper periodically releases RESERVED seats whose hold expired without a
// payment arriving. A released seat simply becomes FREE again; the pending
// registration remains and may retry with another seat. Each sweep that
// frees seats announces itself on the event stream.
type Sweeper struct {
	repo      Repository
	publisher notifications.Publisher
	interval  time.Duration
	log       *logger.Logger
	done      chan struct{}
}

func NewSweeper(repo Repository, publisher notifications.Publisher, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		repo:      repo,
		publisher: publisher,
		interval:  interval,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or the context is cancelled
func (sw *Sweeper) Start(ctx context.Context) {
	go sw.run(ctx)
}

// Stop terminates the sweep loop
func (sw *Sweeper) Stop() {
	close(sw.done)
}

func (sw *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sw.sweep(ctx)
		case <-sw.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sw *Sweeper) sweep(ctx context.Context) {
	sweptAt := time.Now()
	released, err := sw.repo.ReleaseExpired(ctx, sweptAt)
	if err != nil {
		sw.log.ErrorWithContext(ctx, "Failed to release expired reservations", err, nil)
		return
	}
	if released == 0 {
		return
	}

	sw.log.LogSeatsReleased(ctx, released)
	if sw.publisher != nil {
		evt := notifications.SeatsReleasedEvent{Released: released, SweptAt: sweptAt}
		if err := sw.publisher.SeatsReleased(ctx, evt); err != nil {
			sw.log.ErrorWithContext(ctx, "failed to publish seats.released", err, nil)
		}
	}
}
