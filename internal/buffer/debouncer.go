// Package buffer coalesces rapid-fire inbound fragments from one sender
// into a single combined message before the conversation pipeline runs.
package buffer

import (
	"strings"
	"sync"
	"time"

	"github.com/bellavida/clinic-concierge/pkg/logging"
)

// Separator joins buffered fragments into one combined message.
const Separator = ". "

// Timer is a cancellable scheduled task handle.
type Timer interface {
	Stop() bool
}

// Scheduler arms a one-shot task after a delay. The seam exists so tests
// can fire flushes without real time passing.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemScheduler returns a Scheduler backed by time.AfterFunc.
func SystemScheduler() Scheduler { return realScheduler{} }

// FlushFunc receives the combined message once a sender's quiet period
// elapses. It runs on the timer goroutine, synchronously: a sender has at
// most one pipeline run in flight at a time on the inbound path.
type FlushFunc func(senderID, combined string)

// A sender's entry is Idle (absent from the map) or Buffering (present,
// one armed timer). New fragments while Buffering are absorbed into the
// same batch; the timer is never reset or extended.
type entry struct {
	fragments []string
	timer     Timer
}

// Debouncer batches inbound fragments per sender with a fixed quiet period.
type Debouncer struct {
	quiet  time.Duration
	sched  Scheduler
	flush  FlushFunc
	logger *logging.Logger

	mu      sync.Mutex
	pending map[string]*entry
}

// New creates a debouncer with the given quiet period.
func New(quiet time.Duration, sched Scheduler, flush FlushFunc, logger *logging.Logger) *Debouncer {
	if quiet <= 0 {
		quiet = 10 * time.Second
	}
	if sched == nil {
		sched = SystemScheduler()
	}
	if flush == nil {
		panic("buffer: flush func cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Debouncer{
		quiet:   quiet,
		sched:   sched,
		flush:   flush,
		logger:  logger,
		pending: make(map[string]*entry),
	}
}

// OnIncoming enqueues a fragment for the sender, arming a flush if none is
// pending. Empty fragments are ignored.
func (d *Debouncer) OnIncoming(senderID, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.pending[senderID]
	if ok {
		e.fragments = append(e.fragments, text)
		return
	}

	e = &entry{fragments: []string{text}}
	d.pending[senderID] = e
	e.timer = d.sched.AfterFunc(d.quiet, func() {
		d.fire(senderID)
	})
	d.logger.Debug("buffer armed", "sender", senderID, "quiet_period", d.quiet.String())
}

// fire joins the sender's fragments, resets the entry to Idle, and hands
// the combined message to the pipeline. The flush callback runs outside
// the lock so pipeline work never blocks other senders' enqueues.
func (d *Debouncer) fire(senderID string) {
	d.mu.Lock()
	e, ok := d.pending[senderID]
	if !ok {
		d.mu.Unlock()
		return
	}
	combined := strings.Join(e.fragments, Separator)
	delete(d.pending, senderID)
	d.mu.Unlock()

	d.logger.Info("buffer flushed", "sender", senderID, "fragments", len(e.fragments))
	d.flush(senderID, combined)
}

// Stop cancels all armed flushes. Buffered fragments are dropped; used only
// on shutdown.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, e := range d.pending {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(d.pending, id)
	}
}
