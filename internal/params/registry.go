package params

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Registry caches parsed parameter sets by width. Construction for a given
// width runs at most once at a time; failures are not cached.
type Registry struct {
	src Source

	mu     sync.RWMutex
	cache  map[int]*Parameters
	group  singleflight.Group
	builds atomic.Int64
}

// NewRegistry returns an empty registry reading from src.
func NewRegistry(src Source) *Registry {
	return &Registry{src: src, cache: make(map[int]*Parameters)}
}

// For returns the shared parameter set for width.
func (r *Registry) For(width int) (*Parameters, error) {
	r.mu.RLock()
	p, ok := r.cache[width]
	r.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := r.group.Do(strconv.Itoa(width), func() (any, error) {
		r.mu.RLock()
		p, ok := r.cache[width]
		r.mu.RUnlock()
		if ok {
			return p, nil
		}
		row, err := r.src.Row(width)
		if err != nil {
			return nil, err
		}
		r.builds.Add(1)
		p, err = Parse(row)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[width] = p
		r.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Parameters), nil
}

// Builds reports how many parameter sets have been parsed so far.
func (r *Registry) Builds() int64 {
	return r.builds.Load()
}

var defaultRegistry atomic.Pointer[Registry]

func init() {
	defaultRegistry.Store(NewRegistry(GrainSource{}))
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry.Load()
}

// SetDefaultSource replaces the process-wide registry with an empty one
// reading from src.
func SetDefaultSource(src Source) {
	defaultRegistry.Store(NewRegistry(src))
}

// For is Default().For(width).
func For(width int) (*Parameters, error) {
	return Default().For(width)
}
