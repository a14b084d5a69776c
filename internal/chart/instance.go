// Package chart renders the two dashboard charts. Each adapter owns at
// most one rendered chart; a redraw releases the old one before the new
// one is built.
package chart

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrReleased = errors.New("chart instance released")

// Instance is one rendered chart image.
type Instance struct {
	ID       uint64
	Kind     string
	png      []byte
	released atomic.Bool
}

func (i *Instance) PNG() ([]byte, error) {
	if i.released.Load() {
		return nil, ErrReleased
	}
	return i.png, nil
}

func (i *Instance) Release() {
	i.released.Store(true)
}

func (i *Instance) Released() bool {
	return i.released.Load()
}

// slot is the owned, optional handle an adapter keeps its chart in.
type slot struct {
	kind    string
	mu      sync.RWMutex
	current *Instance
	nextID  uint64
}

// replace releases the held instance, then builds and stores a new one.
// A nil png from build leaves the slot empty.
func (s *slot) replace(build func() ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Release()
		s.current = nil
	}

	png, err := build()
	if err != nil {
		return err
	}
	if png == nil {
		return nil
	}

	s.nextID++
	s.current = &Instance{ID: s.nextID, Kind: s.kind, png: png}
	return nil
}

func (s *slot) Current() (*Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.current != nil
}

// Close releases whatever the adapter holds.
func (s *slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Release()
		s.current = nil
	}
}
