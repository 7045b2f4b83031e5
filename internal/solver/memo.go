package solver

import (
	"hash/maphash"
	"sync"
	"sync/atomic"
)

const memoStripes = 64

// memo caches win/loss verdicts by canonical board key. Entries are only ever
// written for fully searched positions, so a hit is always exact.
type memo struct {
	seed    maphash.Seed
	stripes [memoStripes]memoStripe
	size    atomic.Int64
	max     int64
}

type memoStripe struct {
	mu sync.RWMutex
	m  map[string]bool
}

func newMemo(maxEntries int) *memo {
	t := &memo{seed: maphash.MakeSeed(), max: int64(maxEntries)}
	for i := range t.stripes {
		t.stripes[i].m = make(map[string]bool)
	}
	return t
}

func (t *memo) stripe(key string) *memoStripe {
	return &t.stripes[maphash.String(t.seed, key)%memoStripes]
}

func (t *memo) get(key string) (losing, ok bool) {
	s := t.stripe(key)
	s.mu.RLock()
	losing, ok = s.m[key]
	s.mu.RUnlock()
	return losing, ok
}

// put stores a verdict unless the table is full. Full tables still answer
// lookups; new positions are simply recomputed.
func (t *memo) put(key string, losing bool) {
	if t.max > 0 && t.size.Load() >= t.max {
		return
	}
	s := t.stripe(key)
	s.mu.Lock()
	if _, ok := s.m[key]; !ok {
		s.m[key] = losing
		t.size.Add(1)
	}
	s.mu.Unlock()
}

func (t *memo) len() int { return int(t.size.Load()) }

func (t *memo) clear() {
	for i := range t.stripes {
		s := &t.stripes[i]
		s.mu.Lock()
		s.m = make(map[string]bool)
		s.mu.Unlock()
	}
	t.size.Store(0)
}
