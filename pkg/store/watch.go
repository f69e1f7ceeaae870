package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tableflip.dev/slotboard/pkg/logging"
)

// EventType describes the nature of a change notification.
type EventType int

const (
	// EventChanged indicates the blob was written.
	EventChanged EventType = iota
	// EventRemoved indicates the blob disappeared.
	EventRemoved
)

// Event is emitted by Watch when the watched blob changes on disk.
type Event struct {
	Type EventType
	Key  string
}

// Watch streams change events for key until ctx is cancelled. Bursts of
// writes are coalesced into one event. The channel is closed once ctx is done
// or the watcher fails.
func (p *persistence) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	log := logging.Component("store")
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("watcher close")
			}
		})
	}
	if err := watcher.Add(p.basePath); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", p.basePath, err)
	}

	target := filepath.Clean(filepath.Join(p.basePath, keyToPathTransform(key).FileName))
	events := make(chan Event, 8)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// The consumer is behind; it will reread the blob anyway.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("watch error")
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				typ := EventChanged
				if evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
						typ = EventRemoved
					}
				}
				throttle.Enqueue(Event{Type: typ, Key: key}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces rapid change notifications so a reader reloads once
// per burst of writes instead of once per write. The last event type wins.
// Nothing is sent once Stop has returned.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]EventType
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[string]EventType),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.pending[ev.Key] = ev.Type
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

// flush sends under the lock so Stop cannot return mid-send; send must not
// block.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = make(map[string]EventType)
	t.timer = nil
	if t.stopped {
		return
	}
	for key, typ := range pending {
		send(Event{Type: typ, Key: key})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
