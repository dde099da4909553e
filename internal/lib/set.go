package lib

import (
	"sort"
	"sync"
)

// Set is thread-safe and can be passed by value.
type Set struct {
	data map[string]struct{}
	mu   *sync.RWMutex
}

func NewSet(elems ...string) Set {
	s := Set{
		data: make(map[string]struct{}, len(elems)),
		mu:   &sync.RWMutex{},
	}
	for _, e := range elems {
		s.data[e] = struct{}{}
	}
	return s
}

// Add inserts every elem and reports how many were not already present.
func (s Set) Add(elems ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, elem := range elems {
		if _, ok := s.data[elem]; !ok {
			s.data[elem] = struct{}{}
			added++
		}
	}
	return added
}

// Remove deletes every elem and reports how many were present.
func (s Set) Remove(elems ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, elem := range elems {
		if _, ok := s.data[elem]; ok {
			delete(s.data, elem)
			removed++
		}
	}
	return removed
}

func (s Set) Contains(elem string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.data[elem]
	return exists
}

// Sorted returns the elements in ascending order.
func (s Set) Sorted() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elements := make([]string, 0, len(s.data))
	for elem := range s.data {
		elements = append(elements, elem)
	}
	sort.Strings(elements)

	return elements
}
