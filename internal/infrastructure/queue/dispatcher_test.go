package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/members-only/internal/core/domain"
)

type stubAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	err    error
	block  chan struct{}
}

func (s *stubAuditRepo) InsertEvent(_ context.Context, event *domain.AuthEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return s.err
}

func (s *stubAuditRepo) snapshot() []domain.AuthEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AuthEvent(nil), s.events...)
}

func TestDispatcher_PersistsAllEventsOnStop(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	d.Start()

	for i := 0; i < 50; i++ {
		d.Record(domain.AuthEvent{Type: domain.EventLoginSucceeded, UserID: "u-1"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := len(repo.snapshot()); got != 50 {
		t.Fatalf("expected 50 persisted events, got %d", got)
	}
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	d.Start()

	order := []domain.AuthEventType{
		domain.EventRegistered,
		domain.EventLoginSucceeded,
		domain.EventMembershipGranted,
		domain.EventMembershipRevoked,
		domain.EventLoggedOut,
	}
	for _, typ := range order {
		d.Record(domain.AuthEvent{Type: typ, UserID: "u-42"})
	}
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	got := repo.snapshot()
	if len(got) != len(order) {
		t.Fatalf("expected %d events, got %d", len(order), len(got))
	}
	for i, typ := range order {
		if got[i].Type != typ {
			t.Fatalf("event %d: expected %s, got %s", i, typ, got[i].Type)
		}
	}
}

func TestDispatcher_ShardIndexDeterministic(t *testing.T) {
	d := NewDispatcher(8, &stubAuditRepo{}, zerolog.Nop())

	first := d.shardIndex("u-1")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("u-1"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &stubAuditRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_RecordAfterStopIsDropped(t *testing.T) {
	repo := &stubAuditRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	d.Record(domain.AuthEvent{Type: domain.EventLoggedOut, UserID: "u-1"})

	if got := len(repo.snapshot()); got != 0 {
		t.Fatalf("expected no persisted events, got %d", got)
	}
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestDispatcher_RecordNeverBlocks(t *testing.T) {
	repo := &stubAuditRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*2; i++ {
			d.Record(domain.AuthEvent{Type: domain.EventLoginFailed, Username: "bob"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}

	close(repo.block)
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := len(repo.snapshot()); got > channelBuffer+1 {
		t.Fatalf("expected overflow to be dropped, persisted %d", got)
	}
}

func TestDispatcher_RepositoryErrorDoesNotStopWorker(t *testing.T) {
	repo := &stubAuditRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()

	d.Record(domain.AuthEvent{Type: domain.EventRegistered, UserID: "u-1"})
	d.Record(domain.AuthEvent{Type: domain.EventLoginSucceeded, UserID: "u-1"})
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := len(repo.snapshot()); got != 2 {
		t.Fatalf("expected both events attempted, got %d", got)
	}
}

func TestDispatcher_StopHonoursContext(t *testing.T) {
	repo := &stubAuditRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Start()
	d.Record(domain.AuthEvent{Type: domain.EventRegistered, UserID: "u-1"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(repo.block)
}
