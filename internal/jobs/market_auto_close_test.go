package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"betting-platform/internal/models"
)

// fakeMarketStore mimics the repository's discovery contract: only open
// markets and matches at or past their close time are returned, so a
// closed row drops out of later sweeps on its own.
type fakeMarketStore struct {
	mu      sync.Mutex
	markets map[uint]*models.Market
	matches map[uint]*models.Match

	listErr    error
	failUpdate map[uint]error

	listCalls   int
	updateCalls int
}

func newFakeMarketStore(markets ...*models.Market) *fakeMarketStore {
	s := &fakeMarketStore{
		markets:    make(map[uint]*models.Market),
		matches:    make(map[uint]*models.Match),
		failUpdate: make(map[uint]error),
	}
	for _, m := range markets {
		s.markets[m.ID] = m
	}
	return s
}

func (s *fakeMarketStore) addMatch(m *models.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = m
}

func (s *fakeMarketStore) ListOpenMarketsPastCloseTime(_ context.Context, now time.Time) ([]models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Market
	for _, m := range s.markets {
		if m.Status == models.MarketStatusOpen && !m.CloseTime.After(now) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMarketStore) UpdateMarketStatus(_ context.Context, marketID uint, status models.MarketStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if err := s.failUpdate[marketID]; err != nil {
		return err
	}
	m, ok := s.markets[marketID]
	if !ok {
		return fmt.Errorf("market %d not found", marketID)
	}
	m.Status = status
	return nil
}

func (s *fakeMarketStore) ListOpenMatchesPastCloseTime(_ context.Context, now time.Time) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Match
	for _, m := range s.matches {
		if m.Status == models.MarketStatusOpen && !m.CloseTime.After(now) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *fakeMarketStore) UpdateMatchStatus(_ context.Context, matchID uint, status models.MarketStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return fmt.Errorf("match %d not found", matchID)
	}
	m.Status = status
	return nil
}

func (s *fakeMarketStore) status(id uint) models.MarketStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markets[id].Status
}

func (s *fakeMarketStore) matchStatus(id uint) models.MarketStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[id].Status
}

func openMarket(id uint, closeTime time.Time) *models.Market {
	return &models.Market{
		ID:        id,
		Name:      fmt.Sprintf("Market %d", id),
		Type:      "dishawar",
		CloseTime: closeTime,
		Status:    models.MarketStatusOpen,
	}
}

func openMatch(id uint, closeTime time.Time) *models.Match {
	return &models.Match{
		ID:        id,
		TeamA:     "India",
		TeamB:     "Australia",
		OddTeamA:  250,
		OddTeamB:  160,
		CloseTime: closeTime,
		Status:    models.MarketStatusOpen,
	}
}

func TestTickClosesElapsedMarkets(t *testing.T) {
	now := time.Now()
	store := newFakeMarketStore(
		openMarket(1, now.Add(-time.Second)),
		openMarket(2, now.Add(time.Hour)),
	)

	ac := NewMarketAutoCloser(store, time.Minute)
	ac.now = func() time.Time { return now }
	ac.tick()

	if got := store.status(1); got != models.MarketStatusClosed {
		t.Errorf("elapsed market status = %s, want closed", got)
	}
	if got := store.status(2); got != models.MarketStatusOpen {
		t.Errorf("future market status = %s, want open", got)
	}
}

func TestTickClosesElapsedMatches(t *testing.T) {
	now := time.Now()
	store := newFakeMarketStore()
	store.addMatch(openMatch(1, now.Add(-time.Hour)))
	store.addMatch(openMatch(2, now.Add(time.Hour)))
	resulted := openMatch(3, now.Add(-time.Hour))
	resulted.Status = models.MarketStatusResulted
	store.addMatch(resulted)

	ac := NewMarketAutoCloser(store, time.Minute)
	ac.now = func() time.Time { return now }
	ac.tick()

	if got := store.matchStatus(1); got != models.MarketStatusClosed {
		t.Errorf("elapsed match status = %s, want closed", got)
	}
	if got := store.matchStatus(2); got != models.MarketStatusOpen {
		t.Errorf("future match status = %s, want open", got)
	}
	if got := store.matchStatus(3); got != models.MarketStatusResulted {
		t.Errorf("resulted match status = %s, want resulted", got)
	}

	// The status filter removes the closed match from later sweeps.
	ac.tick()
	if got := store.matchStatus(1); got != models.MarketStatusClosed {
		t.Errorf("match status after second tick = %s, want closed", got)
	}
}

func TestTickLeavesNonOpenMarketsAlone(t *testing.T) {
	now := time.Now()
	closed := openMarket(1, now.Add(-time.Hour))
	closed.Status = models.MarketStatusClosed
	resulted := openMarket(2, now.Add(-time.Hour))
	resulted.Status = models.MarketStatusResulted
	store := newFakeMarketStore(closed, resulted)

	ac := NewMarketAutoCloser(store, time.Minute)
	ac.now = func() time.Time { return now }
	ac.tick()

	if store.updateCalls != 0 {
		t.Errorf("update calls = %d, want 0", store.updateCalls)
	}
	if store.status(1) != models.MarketStatusClosed || store.status(2) != models.MarketStatusResulted {
		t.Error("non-open market statuses changed")
	}
}

func TestTickIdempotent(t *testing.T) {
	now := time.Now()
	store := newFakeMarketStore(openMarket(1, now.Add(-time.Minute)))

	ac := NewMarketAutoCloser(store, time.Minute)
	ac.now = func() time.Time { return now }

	ac.tick()
	if store.updateCalls != 1 {
		t.Fatalf("update calls after first tick = %d, want 1", store.updateCalls)
	}

	// The status filter removes the market from discovery, so a second
	// sweep performs no updates.
	ac.tick()
	if store.updateCalls != 1 {
		t.Errorf("update calls after second tick = %d, want 1", store.updateCalls)
	}
}

func TestTickIsolatesPerMarketFailures(t *testing.T) {
	now := time.Now()
	store := newFakeMarketStore(
		openMarket(1, now.Add(-time.Minute)),
		openMarket(2, now.Add(-time.Minute)),
		openMarket(3, now.Add(-time.Minute)),
	)
	store.failUpdate[2] = errors.New("transient storage fault")

	ac := NewMarketAutoCloser(store, time.Minute)
	ac.now = func() time.Time { return now }
	ac.tick()

	if got := store.status(1); got != models.MarketStatusClosed {
		t.Errorf("market 1 status = %s, want closed", got)
	}
	if got := store.status(2); got != models.MarketStatusOpen {
		t.Errorf("failing market status = %s, want open (retried next tick)", got)
	}
	if got := store.status(3); got != models.MarketStatusClosed {
		t.Errorf("market 3 status = %s, want closed", got)
	}

	// The failed market is still eligible on the next sweep.
	delete(store.failUpdate, 2)
	ac.tick()
	if got := store.status(2); got != models.MarketStatusClosed {
		t.Errorf("market 2 status after retry = %s, want closed", got)
	}
}

func TestTickSurvivesQueryFailure(t *testing.T) {
	now := time.Now()
	store := newFakeMarketStore(openMarket(1, now.Add(-time.Minute)))
	store.listErr = errors.New("connection refused")

	ac := NewMarketAutoCloser(store, time.Minute)
	ac.now = func() time.Time { return now }
	ac.tick()

	if store.updateCalls != 0 {
		t.Errorf("update calls after failed query = %d, want 0", store.updateCalls)
	}

	// Recovery on the next interval.
	store.mu.Lock()
	store.listErr = nil
	store.mu.Unlock()
	ac.tick()
	if got := store.status(1); got != models.MarketStatusClosed {
		t.Errorf("market status after recovery = %s, want closed", got)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	store := newFakeMarketStore()
	ac := NewMarketAutoCloser(store, time.Hour)

	ac.Start()
	defer ac.Stop()
	ac.Start() // no-op, must not spawn a second loop

	if !ac.Running() {
		t.Fatal("scheduler not running after Start")
	}

	// Only the immediate sweep of the single loop has run.
	deadline := time.After(time.Second)
	for {
		store.mu.Lock()
		calls := store.listCalls
		store.mu.Unlock()
		if calls == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("list calls = %d, want 1", calls)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStopIsSafeWhenNotRunning(t *testing.T) {
	ac := NewMarketAutoCloser(newFakeMarketStore(), time.Hour)

	ac.Stop() // never started

	ac.Start()
	ac.Stop()
	ac.Stop() // already stopped

	if ac.Running() {
		t.Error("scheduler reports running after Stop")
	}
}

func TestRestartAfterStop(t *testing.T) {
	now := time.Now()
	store := newFakeMarketStore(openMarket(1, now.Add(-time.Minute)))

	ac := NewMarketAutoCloser(store, time.Hour)
	ac.now = func() time.Time { return now }

	ac.Start()
	ac.Stop()

	if got := store.status(1); got != models.MarketStatusClosed {
		t.Fatalf("market status after first run = %s, want closed", got)
	}

	ac.Start()
	defer ac.Stop()
	if !ac.Running() {
		t.Error("scheduler not running after restart")
	}
}
