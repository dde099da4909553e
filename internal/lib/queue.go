package lib

import (
	"sync"
)

// Queue is an unbounded thread-safe FIFO and should be held as a pointer.
type Queue[T any] struct {
	items []T
	mu    *sync.Mutex
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		items: []T{},
		mu:    &sync.Mutex{},
	}
}

func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Dequeue pops from the front of the queue, ok is false when it's empty.
func (q *Queue[T]) Dequeue() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return item, false
	}

	item = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
