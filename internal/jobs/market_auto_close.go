package jobs

import (
	"context"
	"log"
	"sync"
	"time"

	"betting-platform/internal/metrics"
	"betting-platform/internal/models"
)

// DefaultCloseInterval bounds the worst-case staleness between a market's
// scheduled close and its observed closure.
const DefaultCloseInterval = 60 * time.Second

// Store is the storage surface the auto-closer needs. The discovery
// queries must only return rows with status=open and close_time at or
// before now, so an already-closed market or match is never selected
// twice.
type Store interface {
	ListOpenMarketsPastCloseTime(ctx context.Context, now time.Time) ([]models.Market, error)
	UpdateMarketStatus(ctx context.Context, marketID uint, status models.MarketStatus) error
	ListOpenMatchesPastCloseTime(ctx context.Context, now time.Time) ([]models.Match, error)
	UpdateMatchStatus(ctx context.Context, matchID uint, status models.MarketStatus) error
}

// MarketAutoCloser moves markets and matches whose close time has elapsed
// from open to closed on a fixed interval. One instance per process;
// create it in main and hand the same instance to whatever needs Stop().
type MarketAutoCloser struct {
	store    Store
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewMarketAutoCloser creates an auto-closer. A non-positive interval falls
// back to DefaultCloseInterval.
func NewMarketAutoCloser(store Store, interval time.Duration) *MarketAutoCloser {
	if interval <= 0 {
		interval = DefaultCloseInterval
	}
	return &MarketAutoCloser{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Start begins the polling loop: one immediate sweep, then one per interval.
// Calling Start while already running is a no-op.
func (ac *MarketAutoCloser) Start() {
	ac.mu.Lock()
	if ac.running {
		ac.mu.Unlock()
		log.Println("[Market Auto-Close] Scheduler already running")
		return
	}
	ac.running = true
	ac.stopChan = make(chan struct{})
	ac.done = make(chan struct{})
	stop, done := ac.stopChan, ac.done
	ac.mu.Unlock()

	log.Printf("[Market Auto-Close] Starting scheduler - checking every %v for markets to auto-close", ac.interval)

	go func() {
		defer close(done)

		ac.tick()

		ticker := time.NewTicker(ac.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ac.tick()
			case <-stop:
				log.Println("[Market Auto-Close] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop halts the polling loop and waits for an in-flight sweep to finish.
// Safe to call when not running.
func (ac *MarketAutoCloser) Stop() {
	ac.mu.Lock()
	if !ac.running {
		ac.mu.Unlock()
		return
	}
	ac.running = false
	stop, done := ac.stopChan, ac.done
	ac.mu.Unlock()

	close(stop)
	<-done
}

// Running reports whether the polling loop is active.
func (ac *MarketAutoCloser) Running() bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.running
}

// tick runs one sweep over markets, then matches. Every failure is logged
// and swallowed here: a bad row must not stop its siblings, and a bad
// query must not stop the schedule.
func (ac *MarketAutoCloser) tick() {
	start := time.Now()
	ctx := context.Background()
	now := ac.now()

	var tickErr error

	markets, err := ac.store.ListOpenMarketsPastCloseTime(ctx, now)
	if err != nil {
		log.Printf("[Market Auto-Close] Error checking markets: %v", err)
		tickErr = err
	} else if len(markets) > 0 {
		log.Printf("[Market Auto-Close] Found %d market(s) to auto-close", len(markets))

		for _, market := range markets {
			err := ac.store.UpdateMarketStatus(ctx, market.ID, models.MarketStatusClosed)
			metrics.RecordMarketClose(err)
			if err != nil {
				log.Printf("[Market Auto-Close] Failed to auto-close market %d: %v", market.ID, err)
				continue
			}

			log.Printf("[Market Auto-Close] Auto-closed market %q (ID: %d, type: %s, scheduled close: %v)",
				market.Name, market.ID, market.Type, market.CloseTime.Format(time.RFC3339))
		}
	}

	matches, err := ac.store.ListOpenMatchesPastCloseTime(ctx, now)
	if err != nil {
		log.Printf("[Market Auto-Close] Error checking matches: %v", err)
		if tickErr == nil {
			tickErr = err
		}
	} else if len(matches) > 0 {
		log.Printf("[Market Auto-Close] Found %d match(es) to auto-close", len(matches))

		for _, match := range matches {
			err := ac.store.UpdateMatchStatus(ctx, match.ID, models.MarketStatusClosed)
			metrics.RecordMatchClose(err)
			if err != nil {
				log.Printf("[Market Auto-Close] Failed to auto-close match %d: %v", match.ID, err)
				continue
			}

			log.Printf("[Market Auto-Close] Auto-closed match %s vs %s (ID: %d, scheduled close: %v)",
				match.TeamA, match.TeamB, match.ID, match.CloseTime.Format(time.RFC3339))
		}
	}

	metrics.RecordTick(time.Since(start), tickErr)
}
