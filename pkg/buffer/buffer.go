// Package buffer implements the producer/consumer byte-slice queue
// described in spec.md §4.1: an unbounded, zero-copy FIFO of
// producer-written slices with a blocking N-byte reader, fed by any
// number of producer goroutines and drained by exactly one consumer
// goroutine (the decoder's cursor).
//
// The linked list of unread slices follows the same element/next shape
// as golang.org/x/crypto/ssh's internal buffer (see
// _examples/moriyoshi-crypto/ssh/buffer.go): each write appends one
// node, each read walks nodes from the head and slices off their
// consumed prefix in place. Where that implementation serializes
// access through a dispatcher goroutine and a channel of closures, this
// one uses the plain mutex+condition-variable pattern spec.md asks for
// directly (PINBuffer's ObjC original holds an NSCondition around the
// same FIFO).
package buffer

import (
	"sync"

	"github.com/user/pinmsgpack"
)

// State is the monotonic lifecycle of a Buffer: open -> completed, or
// open -> errored. It never moves back to open.
type State int32

const (
	StateOpen State = iota
	StateCompleted
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCompleted:
		return "completed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// node is one producer-written slice queued for consumption. buf is
// trimmed in place as its prefix is consumed by Read.
type node struct {
	buf  []byte
	next *node
}

// Buffer is a single-consumer, multi-producer queue of immutable byte
// slices. See the package doc and spec.md §4.1 for the full contract.
type Buffer struct {
	mu   sync.Mutex
	cond *sync.Cond

	head, tail *node
	unread     int

	state    State
	preserve bool
	history  [][]byte

	reading bool // detects a second concurrent Read call

	logger pinmsgpack.Logger
}

// New returns an empty, open Buffer that does not preserve written data.
func New() *Buffer {
	return NewBuffer(false)
}

// NewBuffer returns an empty, open Buffer. When preserveData is true,
// every slice ever written remains retrievable via AllData for the
// buffer's lifetime (spec.md's "preserve mode", intended for debugging
// only: it keeps every write alive even after it has been consumed).
func NewBuffer(preserveData bool) *Buffer {
	b := &Buffer{
		state:    StateOpen,
		preserve: preserveData,
		logger:   pinmsgpack.NopLogger{},
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// SetLogger attaches a logger used for debug traces on state
// transitions (Close) and write volume. Not safe to call concurrently
// with Write/Close.
func (b *Buffer) SetLogger(logger pinmsgpack.Logger) {
	if logger == nil {
		logger = pinmsgpack.NopLogger{}
	}
	b.logger = logger
}

// State returns the buffer's current lifecycle state.
func (b *Buffer) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Write appends data to the tail of the queue. data must not be
// modified after this call returns: the Buffer keeps the slice header,
// not a copy (spec.md's zero-copy requirement). Zero-length writes are
// a no-op. Writes after the buffer has left the open state are
// silently discarded -- producers are fire-and-forget and never see a
// write fail. Safe to call concurrently from any number of goroutines.
func (b *Buffer) Write(data []byte) {
	if len(data) == 0 {
		return
	}

	b.mu.Lock()
	if b.state != StateOpen {
		b.mu.Unlock()
		return
	}

	n := &node{buf: data}
	if b.tail == nil {
		b.head = n
	} else {
		b.tail.next = n
	}
	b.tail = n
	b.unread += len(data)

	if b.preserve {
		b.history = append(b.history, data)
	}
	unread := b.unread
	b.mu.Unlock()

	b.logger.Debug("buffer write", "bytes", len(data), "unread", unread)
	b.cond.Broadcast()
}

// Close transitions the buffer out of the open state: completed=true
// moves it to StateCompleted, completed=false to StateErrored. Any
// blocked Read wakes and re-evaluates. Second and later calls are
// no-ops (the transition is one-shot).
func (b *Buffer) Close(completed bool) {
	b.mu.Lock()
	if b.state != StateOpen {
		b.mu.Unlock()
		return
	}
	if completed {
		b.state = StateCompleted
	} else {
		b.state = StateErrored
	}
	state := b.state
	b.mu.Unlock()

	b.logger.Debug("buffer closed", "state", state.String())
	b.cond.Broadcast()
}

// Read blocks the calling goroutine until either len(dst) bytes are
// available -- in which case it copies them into dst, advances the
// read cursor, and returns true -- or the buffer leaves the open state
// with fewer than len(dst) bytes remaining, in which case it returns
// false without consuming anything. Read must only ever be called from
// one goroutine at a time; a second concurrent call panics rather than
// racing, since spec.md's contract ("all reads must be from the same
// thread") is a precondition, not a case this package silently
// tolerates.
func (b *Buffer) Read(dst []byte) bool {
	need := len(dst)

	b.mu.Lock()
	if b.reading {
		b.mu.Unlock()
		panic("pinmsgpack/buffer: concurrent Read calls are not supported")
	}
	b.reading = true
	defer func() { b.reading = false }()
	defer b.mu.Unlock()

	for {
		if b.state != StateOpen && b.unread < need {
			return false
		}
		if b.unread >= need {
			b.copyLocked(dst)
			return true
		}
		b.cond.Wait()
	}
}

// ReadAll returns every remaining unread byte as one contiguous slice.
// It is only legal once the buffer has been closed; ok is false (and
// the result nil) if the buffer is still open. Must not be interleaved
// with Read.
func (b *Buffer) ReadAll() (data []byte, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen {
		return nil, false
	}
	out := make([]byte, b.unread)
	b.copyLocked(out)
	return out, true
}

// AllData returns the concatenation of every slice ever written, for
// as long as the buffer was constructed with preserveData. ok is false
// if preserve mode was not enabled. Calling this while the buffer is
// still open is permitted (it is intended for debugging) but may
// observe a snapshot concurrent with in-flight writes.
func (b *Buffer) AllData() (data []byte, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.preserve {
		return nil, false
	}
	total := 0
	for _, s := range b.history {
		total += len(s)
	}
	out := make([]byte, 0, total)
	for _, s := range b.history {
		out = append(out, s...)
	}
	return out, true
}

// Unread reports the number of bytes currently queued but not yet
// consumed. Intended for metrics/diagnostics, not flow control: its
// value is stale the instant the lock is released.
func (b *Buffer) Unread() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

// copyLocked fills dst from the queue, dropping fully-consumed nodes.
// Caller must hold b.mu and must have already verified b.unread >=
// len(dst).
func (b *Buffer) copyLocked(dst []byte) {
	for len(dst) > 0 {
		if len(b.head.buf) == 0 {
			b.head = b.head.next
			if b.head == nil {
				b.tail = nil
			}
			continue
		}
		k := copy(dst, b.head.buf)
		dst = dst[k:]
		b.head.buf = b.head.buf[k:]
		b.unread -= k
	}
}
