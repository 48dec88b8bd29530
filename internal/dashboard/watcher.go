package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/project-pal/project-pal-backend/internal/projects/domain"
	"github.com/project-pal/project-pal-backend/internal/projects/repository"
)

// Watcher mirrors the portfolio for the read-only surface. It subscribes to
// the store's change channel and replaces its whole in-memory snapshot per
// notification; no merging, last writer wins. A missed notification is
// healed by the full reload performed on every (re)subscribe.
type Watcher struct {
	client *redis.Client
	repo   *repository.Repo

	mu   sync.RWMutex
	snap domain.Snapshot

	subMu       sync.Mutex
	subscribers map[chan domain.Snapshot]struct{}
}

func NewWatcher(client *redis.Client, repo *repository.Repo) *Watcher {
	return &Watcher{
		client:      client,
		repo:        repo,
		subscribers: map[chan domain.Snapshot]struct{}{},
	}
}

// Snapshot returns the current mirrored state.
func (w *Watcher) Snapshot() domain.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snap
}

// Subscribe registers a listener for snapshot replacements. The returned
// cancel func must be called when the listener goes away. Delivery is
// best-effort: a slow listener misses intermediate snapshots, never blocks
// the watcher.
func (w *Watcher) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 1)
	w.subMu.Lock()
	w.subscribers[ch] = struct{}{}
	w.subMu.Unlock()

	cancel := func() {
		w.subMu.Lock()
		delete(w.subscribers, ch)
		w.subMu.Unlock()
	}
	return ch, cancel
}

// Run blocks until ctx is cancelled, keeping the mirror current. On a
// subscription failure it backs off and resubscribes, reloading from the
// store each time.
func (w *Watcher) Run(ctx context.Context) {
	for {
		if err := w.watch(ctx); err != nil {
			log.Printf("[warn] channel=%s error=%v resubscribing", repository.EventsChannel, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (w *Watcher) watch(ctx context.Context) error {
	// Full reload first so a notification missed while disconnected cannot
	// leave the mirror stale.
	snap, err := w.repo.Load(ctx)
	if err != nil {
		return err
	}
	w.replace(snap)

	sub := w.client.Subscribe(ctx, repository.EventsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	log.Printf("[info] channel=%s subscribed", repository.EventsChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			snap, err := repository.Decode([]byte(msg.Payload))
			if err != nil {
				log.Printf("[warn] channel=%s error=%v skipping payload", repository.EventsChannel, err)
				continue
			}
			w.replace(snap)
		}
	}
}

func (w *Watcher) replace(snap domain.Snapshot) {
	w.mu.Lock()
	w.snap = snap
	w.mu.Unlock()

	w.subMu.Lock()
	for ch := range w.subscribers {
		// Replace an undelivered older snapshot instead of queuing behind it.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
	w.subMu.Unlock()
}
