package autosave

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vikrantan5/PenSilc/internal/document"
	"github.com/vikrantan5/PenSilc/internal/metrics"
)

const DefaultDelay = 3 * time.Second

// SavedLinger is how long the saved status shows before returning to idle.
const SavedLinger = 2 * time.Second

type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
)

// Store is the part of the persistence gateway the saver needs.
type Store interface {
	SaveScene(ctx context.Context, noteID string, scene document.SceneData) error
}

// Timer is satisfied by *time.Timer.
type Timer interface {
	Stop() bool
}

type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Option func(*Saver)

func WithDelay(d time.Duration) Option {
	return func(s *Saver) {
		if d > 0 {
			s.delay = d
		}
	}
}

func WithAfterFunc(fn AfterFunc) Option {
	return func(s *Saver) { s.afterFunc = fn }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(s *Saver) { s.metrics = c }
}

// WithStatusHook registers a callback for status transitions. It runs on the
// goroutine performing the save.
func WithStatusHook(fn func(Status)) Option {
	return func(s *Saver) { s.onStatus = fn }
}

// Saver debounces scene changes of one note into gateway writes. Every change
// restarts the countdown; a write only happens after a quiet period and only
// when the encoded scene differs from the last one written.
type Saver struct {
	store     Store
	noteID    string
	delay     time.Duration
	afterFunc AfterFunc
	metrics   *metrics.Collector
	onStatus  func(Status)

	mu        sync.Mutex
	timer     Timer
	settle    Timer
	pending   *document.SceneData
	lastSaved string
	status    Status
	stopped   bool
}

func NewSaver(store Store, noteID string, opts ...Option) *Saver {
	s := &Saver{
		store:     store,
		noteID:    noteID,
		delay:     DefaultDelay,
		afterFunc: realAfterFunc,
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Baseline records a scene as already persisted, typically the one just
// loaded, so reopening a note does not write it back unchanged.
func (s *Saver) Baseline(scene document.SceneData) error {
	data, err := document.EncodeScene(scene)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	s.mu.Lock()
	s.lastSaved = string(data)
	s.mu.Unlock()
	return nil
}

// Schedule replaces the pending scene and restarts the countdown.
func (s *Saver) Schedule(scene document.SceneData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.pending = &scene
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.afterFunc(s.delay, s.fire)
}

func (s *Saver) fire() {
	if err := s.Flush(context.Background()); err != nil {
		slog.Error("autosave failed", "error", err, "note", s.noteID)
	}
}

// Flush writes the pending scene now, cancelling the countdown. It is a no-op
// when nothing is pending.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	scene := s.pending
	s.pending = nil
	s.mu.Unlock()

	if scene == nil {
		return nil
	}
	return s.save(ctx, *scene)
}

func (s *Saver) save(ctx context.Context, scene document.SceneData) error {
	data, err := document.EncodeScene(scene)
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	encoded := string(data)

	s.mu.Lock()
	if encoded == s.lastSaved {
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.AutosaveSkips.Inc()
		}
		return nil
	}
	s.mu.Unlock()

	s.setStatus(StatusSaving)
	if s.metrics != nil {
		s.metrics.AutosaveAttempts.Inc()
	}

	if err := s.store.SaveScene(ctx, s.noteID, scene); err != nil {
		if s.metrics != nil {
			s.metrics.AutosaveFailures.Inc()
		}
		s.setStatus(StatusIdle)
		return fmt.Errorf("save scene: %w", err)
	}

	s.mu.Lock()
	s.lastSaved = encoded
	s.mu.Unlock()
	s.setStatus(StatusSaved)

	s.mu.Lock()
	if s.settle != nil {
		s.settle.Stop()
	}
	if !s.stopped {
		s.settle = s.afterFunc(SavedLinger, s.settleIdle)
	}
	s.mu.Unlock()
	return nil
}

// settleIdle drops a lingering saved status back to idle. A newer save in
// progress keeps its own status.
func (s *Saver) settleIdle() {
	s.mu.Lock()
	if s.status != StatusSaved {
		s.mu.Unlock()
		return
	}
	s.status = StatusIdle
	s.settle = nil
	s.mu.Unlock()
	if s.onStatus != nil {
		s.onStatus(StatusIdle)
	}
}

func (s *Saver) setStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
	if s.onStatus != nil {
		s.onStatus(st)
	}
}

func (s *Saver) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Pending reports whether a change is waiting for its countdown.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Stop cancels the countdown and ignores later changes. A save already in
// progress runs to completion.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.settle != nil {
		s.settle.Stop()
		s.settle = nil
	}
}
