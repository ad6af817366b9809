// Package stream watches growing dataset files and delivers append ticks.
//
// A streamed source is periodically re-read by the data-source
// collaborator; this package only decides when a re-read is due, either
// because fsnotify reported a write or because the fallback polling
// interval elapsed. The append callback runs on the watcher's own
// goroutine, so it must hand the re-read off to the control thread (a
// queued task the UI loop drains) and must not touch the model directly:
// the registry and the assignment tree are single-threaded and give no
// protection against a concurrent reader.
//
// The one hard rule is the removal fence: a tick must never run
// concurrently with an integrity pass for a source being removed. The
// application root calls Suspend before computing the pass and Resume
// after; Suspend blocks until any in-flight tick delivery has returned.
package stream

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/plotdeck/plotdeck/internal/model"
)

// DefaultPollInterval is the fallback re-read cadence for filesystems
// where fsnotify events are unreliable (network mounts, some containers).
const DefaultPollInterval = 2 * time.Second

// AppendFunc is called when a streamed source is due for a re-read. It
// runs on the watcher goroutine: implementations hand the work off to the
// control thread rather than calling into the model here.
type AppendFunc func(sourceID int, path string)

// Watcher tracks the streamed sources by id.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	onAppend  AppendFunc
	interval  time.Duration
	paths     map[int]string // source id -> file path
	ids       map[string]int // file path -> source id
	suspended map[int]bool
	allOff    bool
	done      chan struct{}
	wg        sync.WaitGroup
	log       *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithPollInterval overrides the fallback polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.interval = d }
}

// WithLogger sets the watcher's logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// New creates a Watcher and starts its delivery loop.
func New(onAppend AppendFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("stream watcher: %w", err)
	}
	w := &Watcher{
		fsw:       fsw,
		onAppend:  onAppend,
		interval:  DefaultPollInterval,
		paths:     make(map[int]string),
		ids:       make(map[string]int),
		suspended: make(map[int]bool),
		done:      make(chan struct{}),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watch starts streaming a source from the given file.
func (w *Watcher) Watch(sourceID int, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if old, ok := w.paths[sourceID]; ok {
		w.fsw.Remove(old)
		delete(w.ids, old)
	}
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("watch source %d: %w", sourceID, err)
	}
	w.paths[sourceID] = path
	w.ids[path] = sourceID
	w.log.Debug("streaming source", "id", sourceID, "path", path)
	return nil
}

// Unwatch stops streaming a source. Unknown ids are a no-op.
func (w *Watcher) Unwatch(sourceID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.unwatchLocked(sourceID)
}

func (w *Watcher) unwatchLocked(sourceID int) {
	if path, ok := w.paths[sourceID]; ok {
		w.fsw.Remove(path)
		delete(w.paths, sourceID)
		delete(w.ids, path)
		delete(w.suspended, sourceID)
	}
}

// Suspend stops tick delivery for the given sources, or for every source
// when ids is empty. It blocks until any in-flight delivery has returned,
// so on return no tick is running for a suspended source.
func (w *Watcher) Suspend(ids []int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(ids) == 0 {
		w.allOff = true
		return
	}
	for _, id := range ids {
		w.suspended[id] = true
	}
}

// Resume re-enables tick delivery for everything still watched.
func (w *Watcher) Resume() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.allOff = false
	w.suspended = make(map[int]bool)
}

// Remap retargets watchers after an integrity pass: removed sources are
// unwatched, survivors move to their new ids. Must run between Suspend
// and Resume, against the same plan the engine applied.
func (w *Watcher) Remap(p model.Plan) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := make(map[int]string, len(w.paths))
	for id, path := range w.paths {
		if p.Removed[id] {
			w.fsw.Remove(path)
			delete(w.ids, path)
			continue
		}
		newID, ok := p.OldToNew[id]
		if !ok {
			w.fsw.Remove(path)
			delete(w.ids, path)
			continue
		}
		next[newID] = path
		w.ids[path] = newID
	}
	w.paths = next
	w.suspended = make(map[int]bool)
}

// Close stops the delivery loop and releases the fsnotify watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				w.deliverPath(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("stream watch error", "error", err)
		case <-ticker.C:
			w.deliverAll()
		}
	}
}

// deliverPath fires the append callback for one path. The mutex is held
// across the callback on purpose: it is what makes Suspend a fence.
func (w *Watcher) deliverPath(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.ids[path]
	if !ok || w.allOff || w.suspended[id] {
		return
	}
	w.onAppend(id, path)
}

func (w *Watcher) deliverAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.allOff {
		return
	}
	for id, path := range w.paths {
		if w.suspended[id] {
			continue
		}
		w.onAppend(id, path)
	}
}
