package scenario

import (
	"sync"
	"time"
)

type RunStatus int

const (
	RunStatusRunning RunStatus = iota
	RunStatusPassed
	RunStatusFailed
)

func (s RunStatus) String() string {
	switch s {
	case RunStatusRunning:
		return "running"
	case RunStatusPassed:
		return "passed"
	case RunStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunRecord describes one execution of a scenario.
type RunRecord struct {
	ID       string
	Scenario string
	Status   RunStatus
	Start    time.Time
	End      time.Time
	Err      error
	Tracked  int
}

func (r *RunRecord) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// History keeps the most recent run records of a runner.
type History struct {
	mu      sync.RWMutex
	records []*RunRecord
	byID    map[string]*RunRecord
	limit   int
}

func newHistory(limit int) *History {
	return &History{
		byID:  make(map[string]*RunRecord),
		limit: limit,
	}
}

func (h *History) add(rec *RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	h.byID[rec.ID] = rec

	if h.limit > 0 && len(h.records) > h.limit {
		h.evictOldest()
	}
}

func (h *History) evictOldest() {
	oldest := h.records[0]
	h.records = h.records[1:]
	delete(h.byID, oldest.ID)
}

func (h *History) Get(id string) *RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byID[id]
}

// Records returns the retained records, oldest first.
func (h *History) Records() []*RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*RunRecord, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) Last() *RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.records) == 0 {
		return nil
	}
	return h.records[len(h.records)-1]
}

func (h *History) Filter(predicate func(*RunRecord) bool) []*RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var result []*RunRecord
	for _, rec := range h.records {
		if predicate(rec) {
			result = append(result, rec)
		}
	}
	return result
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}
