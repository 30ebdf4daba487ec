package boardkit

import (
	"context"
	"sync"
)

// MemoryElementStore is an in-process element list with a change counter and
// change callbacks. It is the default ElementStore for a Board and is safe
// for concurrent use, so a network sync layer may write to it from another
// goroutine while the input loop reads.
type MemoryElementStore struct {
	mu        sync.RWMutex
	elements  []Element
	index     map[string]int
	version   uint64
	listeners []func()
}

// NewMemoryElementStore creates a store holding a copy of elements.
func NewMemoryElementStore(elements ...Element) *MemoryElementStore {
	s := &MemoryElementStore{}
	s.replace(elements)
	return s
}

func (s *MemoryElementStore) replace(elements []Element) {
	s.elements = append([]Element(nil), elements...)
	s.reindex()
}

func (s *MemoryElementStore) reindex() {
	s.index = make(map[string]int, len(s.elements))
	for i, e := range s.elements {
		s.index[e.ID] = i
	}
}

// Elements returns a copy of the element list.
func (s *MemoryElementStore) Elements(context.Context) ([]Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Element(nil), s.elements...), nil
}

// Element returns the element with the given id.
func (s *MemoryElementStore) Element(id string) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Element{}, false
	}
	return s.elements[i], true
}

// Version returns the change counter.
func (s *MemoryElementStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// OnChange registers fn to run after every change. Callbacks run on the
// writing goroutine without the store lock held.
func (s *MemoryElementStore) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// changed bumps the version and returns the listeners to notify. Call with
// the lock held.
func (s *MemoryElementStore) changed() []func() {
	s.version++
	return append([]func(){}, s.listeners...)
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}

// Set replaces the whole element list.
func (s *MemoryElementStore) Set(elements []Element) {
	s.mu.Lock()
	s.replace(elements)
	l := s.changed()
	s.mu.Unlock()
	notify(l)
}

// Upsert adds e, or replaces the element with the same id.
func (s *MemoryElementStore) Upsert(e Element) {
	s.mu.Lock()
	if i, ok := s.index[e.ID]; ok {
		s.elements[i] = e
	} else {
		s.index[e.ID] = len(s.elements)
		s.elements = append(s.elements, e)
	}
	l := s.changed()
	s.mu.Unlock()
	notify(l)
}

// Delete removes the element with the given id. Reports whether it existed.
func (s *MemoryElementStore) Delete(id string) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.elements = append(s.elements[:i], s.elements[i+1:]...)
	s.reindex()
	l := s.changed()
	s.mu.Unlock()
	notify(l)
	return true
}

// Move sets the position of element id. Reports whether it existed.
func (s *MemoryElementStore) Move(id string, position Vec2) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.elements[i].Position = position
	l := s.changed()
	s.mu.Unlock()
	notify(l)
	return true
}

// UpdateParents applies every parent change or, if any id is unknown, none.
func (s *MemoryElementStore) UpdateParents(_ context.Context, changes map[string]string) error {
	s.mu.Lock()
	for id := range changes {
		if _, ok := s.index[id]; !ok {
			s.mu.Unlock()
			return NewError(ErrCodeNodeNotFound, "element %q does not exist", id)
		}
	}
	for id, parentID := range changes {
		s.elements[s.index[id]].ParentID = parentID
	}
	l := s.changed()
	s.mu.Unlock()
	notify(l)
	return nil
}
