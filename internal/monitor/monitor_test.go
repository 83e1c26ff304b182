package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
)

type fakeLister struct {
	mu       sync.Mutex
	postings []ozon.Posting
	err      error
	calls    int
}

func (f *fakeLister) ListPostings(_ context.Context, status string, limit int) ([]ozon.Posting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.postings, nil
}

func (f *fakeLister) set(postings []ozon.Posting) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postings = postings
}

type fakeNotifier struct {
	mu      sync.Mutex
	batches [][]ozon.Posting
}

func (f *fakeNotifier) NotifyNewPostings(_ context.Context, postings []ozon.Posting) {
	f.mu.Lock()
	defer f.mu.Unlock()
	batch := make([]ozon.Posting, len(postings))
	copy(batch, postings)
	f.batches = append(f.batches, batch)
}

func (f *fakeNotifier) all() []ozon.Posting {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ozon.Posting
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func postings(numbers ...string) []ozon.Posting {
	out := make([]ozon.Posting, len(numbers))
	for i, n := range numbers {
		out[i] = ozon.Posting{PostingNumber: n}
	}
	return out
}

func TestCheckOnceNotifiesOnlyUnseen(t *testing.T) {
	lister := &fakeLister{postings: postings("A", "B")}
	store := NewMemoryStore()
	notifier := &fakeNotifier{}
	m := New(lister, store, notifier, time.Minute, quietLogger())

	ctx := context.Background()
	if err := store.Mark(ctx, "A"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	m.CheckOnce(ctx)

	got := notifier.all()
	if len(got) != 1 || got[0].PostingNumber != "B" {
		t.Fatalf("notified %+v, want only B", got)
	}

	// Next check finds nothing new.
	m.CheckOnce(ctx)
	if len(notifier.all()) != 1 {
		t.Errorf("re-notified already seen postings")
	}
}

func TestCheckOnceBatchesNotifications(t *testing.T) {
	lister := &fakeLister{postings: postings("1", "2", "3", "4", "5", "6", "7")}
	notifier := &fakeNotifier{}
	m := New(lister, NewMemoryStore(), notifier, time.Minute, quietLogger())

	m.CheckOnce(context.Background())

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(notifier.batches))
	}
	if len(notifier.batches[0]) != 5 || len(notifier.batches[1]) != 2 {
		t.Errorf("batch sizes %d/%d, want 5/2", len(notifier.batches[0]), len(notifier.batches[1]))
	}
}

func TestCheckOnceSurvivesListError(t *testing.T) {
	lister := &fakeLister{err: errors.New("boom")}
	notifier := &fakeNotifier{}
	m := New(lister, NewMemoryStore(), notifier, time.Minute, quietLogger())

	m.CheckOnce(context.Background())

	if len(notifier.all()) != 0 {
		t.Error("notified despite list error")
	}
	stats := m.Stats(context.Background())
	if stats.Checks != 1 {
		t.Errorf("checks = %d, want 1", stats.Checks)
	}
}

func TestStartSeedsWithoutNotifying(t *testing.T) {
	lister := &fakeLister{postings: postings("X", "Y")}
	store := NewMemoryStore()
	notifier := &fakeNotifier{}
	m := New(lister, store, notifier, time.Hour, quietLogger())

	m.Start(context.Background())
	defer m.Stop()

	deadline := time.After(2 * time.Second)
	for {
		n, _ := store.Count(context.Background())
		if n == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("seed did not mark existing postings")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(notifier.all()) != 0 {
		t.Error("seed pass should not notify")
	}
	if !m.Running() {
		t.Error("Running() = false after Start")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	m := New(&fakeLister{}, NewMemoryStore(), &fakeNotifier{}, time.Hour, quietLogger())
	m.Start(context.Background())
	m.Stop()
	m.Stop()
	if m.Running() {
		t.Error("still running after Stop")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	seen, err := s.Seen(ctx, "A")
	if err != nil || seen {
		t.Fatalf("Seen before Mark = %v, %v", seen, err)
	}
	if err := s.Mark(ctx, "A"); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	seen, _ = s.Seen(ctx, "A")
	if !seen {
		t.Error("Seen after Mark = false")
	}
	n, _ := s.Count(ctx)
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}
