package domain

import (
	"iter"
	"sync"
	"time"
)

// HeaderStatus tracks whether a header's isolated cost is known.
type HeaderStatus uint8

const (
	// HeaderUntimed means no measurement has been attempted.
	HeaderUntimed HeaderStatus = iota
	// HeaderMeasured means the isolated compile succeeded and Timing is valid.
	HeaderMeasured
	// HeaderFailed means the isolated compile was attempted and failed.
	HeaderFailed
)

func (s HeaderStatus) String() string {
	switch s {
	case HeaderMeasured:
		return "measured"
	case HeaderFailed:
		return "failed"
	default:
		return "untimed"
	}
}

// Header is the aggregate record for one header identity, shared by every
// node that names it.
type Header struct {
	// ID is the path exactly as the compiler printed it.
	ID       FileID
	RefCount int
	Timing   TimingResult
	Status   HeaderStatus
}

// Timed reports whether a measurement was attempted, successful or not.
func (h Header) Timed() bool {
	return h.Status != HeaderUntimed
}

// Measured reports whether the header has a usable timing.
func (h Header) Measured() bool {
	return h.Status == HeaderMeasured
}

// CPUTime returns the measured cpu time and whether it is known.
func (h Header) CPUTime() (time.Duration, bool) {
	if !h.Measured() {
		return 0, false
	}
	return h.Timing.CPUTime(), true
}

type occurrence struct {
	header FileID
	source FileID
}

// Registry maps header identities to their shared records.
// Records are created on first reference and never removed.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	headers map[FileID]*Header
	order   []FileID
	counted map[occurrence]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		headers: make(map[FileID]*Header),
		counted: make(map[occurrence]struct{}),
	}
}

func (r *Registry) recordLocked(id FileID) *Header {
	h, ok := r.headers[id]
	if !ok {
		h = &Header{ID: id}
		r.headers[id] = h
		r.order = append(r.order, id)
	}
	return h
}

// RegisterOccurrence notes that source includes id. The reference count is
// bumped at most once per (id, source) pair; the return value reports whether
// this call bumped it.
func (r *Registry) RegisterOccurrence(id, source FileID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.recordLocked(id)
	key := occurrence{header: id, source: source}
	if _, ok := r.counted[key]; ok {
		return false
	}
	r.counted[key] = struct{}{}
	h.RefCount++
	return true
}

// Get returns a copy of the record for id, creating it if needed.
func (r *Registry) Get(id FileID) Header {
	r.mu.RLock()
	if h, ok := r.headers[id]; ok {
		defer r.mu.RUnlock()
		return *h
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.recordLocked(id)
}

// RecordTiming stores a measurement. A non-OK result marks the header failed.
func (r *Registry) RecordTiming(id FileID, res TimingResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := r.recordLocked(id)
	if res.OK() {
		h.Timing = res
		h.Status = HeaderMeasured
		return
	}
	h.Timing = FailedTiming()
	h.Status = HeaderFailed
}

// Len returns the number of distinct header identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All yields copies of every record in first-seen order.
func (r *Registry) All() iter.Seq[Header] {
	r.mu.RLock()
	snapshot := make([]Header, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, *r.headers[id])
	}
	r.mu.RUnlock()

	return func(yield func(Header) bool) {
		for _, h := range snapshot {
			if !yield(h) {
				return
			}
		}
	}
}
