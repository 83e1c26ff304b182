// Package monitor polls the Seller API for fresh FBS postings and
// hands unseen ones to a notifier.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sellertools/ozon-fbs-bot/internal/ozon"
)

const (
	defaultInterval = 300 * time.Second
	defaultBatch    = 5
	maxPostings     = 100
)

// Notifier receives batches of postings that were not seen before.
type Notifier interface {
	NotifyNewPostings(ctx context.Context, postings []ozon.Posting)
}

// MultiNotifier fans one batch out to several notifiers.
func MultiNotifier(notifiers ...Notifier) Notifier {
	return multiNotifier(notifiers)
}

type multiNotifier []Notifier

func (m multiNotifier) NotifyNewPostings(ctx context.Context, postings []ozon.Posting) {
	for _, n := range m {
		n.NotifyNewPostings(ctx, postings)
	}
}

// Lister is the slice of the ozon client the monitor needs.
type Lister interface {
	ListPostings(ctx context.Context, status string, limit int) ([]ozon.Posting, error)
}

// Stats is a snapshot of the monitor state.
type Stats struct {
	Running   bool
	Checks    int64
	NewFound  int64
	SeenTotal int64
	LastCheck time.Time
	Interval  time.Duration
}

// Monitor runs the polling loop.
type Monitor struct {
	client   Lister
	store    SeenStore
	notifier Notifier
	interval time.Duration
	batch    int
	log      *logrus.Entry

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	checks    int64
	newFound  int64
	lastCheck time.Time
}

func New(client Lister, store SeenStore, notifier Notifier, interval time.Duration, log *logrus.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Monitor{
		client:   client,
		store:    store,
		notifier: notifier,
		interval: interval,
		batch:    defaultBatch,
		log:      log.WithField("component", "monitor"),
	}
}

// SetBatchSize overrides the notification batch size. Call before
// Start.
func (m *Monitor) SetBatchSize(n int) {
	if n > 0 {
		m.batch = n
	}
}

// Start launches the polling loop. It is a no-op when already running.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(loopCtx)
	m.log.WithField("interval", m.interval).Info("monitor started")
}

// Stop halts the loop and waits for it to drain.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.log.Info("monitor stopped")
}

// Running reports whether the loop is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancel != nil
}

// Stats returns a snapshot of the monitor counters.
func (m *Monitor) Stats(ctx context.Context) Stats {
	seen, err := m.store.Count(ctx)
	if err != nil {
		m.log.WithError(err).Warn("seen store count failed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Running:   m.cancel != nil,
		Checks:    m.checks,
		NewFound:  m.newFound,
		SeenTotal: seen,
		LastCheck: m.lastCheck,
		Interval:  m.interval,
	}
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	// Seed the seen set on the first pass so a cold start does not
	// announce the existing backlog as new.
	m.seed(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckOnce(ctx)
		}
	}
}

func (m *Monitor) seed(ctx context.Context) {
	postings, err := m.client.ListPostings(ctx, ozon.StatusAwaitingPackaging, maxPostings)
	if err != nil {
		m.log.WithError(err).Error("seed: list postings failed")
		return
	}
	for _, p := range postings {
		if err := m.store.Mark(ctx, p.PostingNumber); err != nil {
			m.log.WithError(err).WithField("posting", p.PostingNumber).Warn("seed: mark failed")
		}
	}
	m.log.WithField("postings", len(postings)).Info("seen set seeded")
}

// CheckOnce performs a single poll. Errors are logged, never fatal to
// the loop.
func (m *Monitor) CheckOnce(ctx context.Context) {
	m.mu.Lock()
	m.checks++
	m.lastCheck = time.Now()
	m.mu.Unlock()

	postings, err := m.client.ListPostings(ctx, ozon.StatusAwaitingPackaging, maxPostings)
	if err != nil {
		m.log.WithError(err).Error("list postings failed")
		return
	}

	var fresh []ozon.Posting
	for _, p := range postings {
		seen, err := m.store.Seen(ctx, p.PostingNumber)
		if err != nil {
			m.log.WithError(err).WithField("posting", p.PostingNumber).Warn("seen lookup failed")
			continue
		}
		if seen {
			continue
		}
		fresh = append(fresh, p)
		if err := m.store.Mark(ctx, p.PostingNumber); err != nil {
			m.log.WithError(err).WithField("posting", p.PostingNumber).Warn("mark failed")
		}
	}
	if len(fresh) == 0 {
		return
	}

	m.mu.Lock()
	m.newFound += int64(len(fresh))
	m.mu.Unlock()
	m.log.WithField("new", len(fresh)).Info("new postings found")

	for start := 0; start < len(fresh); start += m.batch {
		end := start + m.batch
		if end > len(fresh) {
			end = len(fresh)
		}
		m.notifier.NotifyNewPostings(ctx, fresh[start:end])
	}
}
