package lavalink

import (
	"math/rand"
	"sync"
)

// Queue is the ordered list of tracks pending for one guild. All methods are
// safe for concurrent use.
type Queue struct {
	mu    sync.RWMutex
	items []Track
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{items: make([]Track, 0)}
}

// Add appends tracks to the back of the queue.
func (q *Queue) Add(tracks ...Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, tracks...)
}

// Next removes and returns the track at the front of the queue.
func (q *Queue) Next() (Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Track{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// List returns a copy of the queued tracks.
func (q *Queue) List() []Track {
	q.mu.RLock()
	defer q.mu.RUnlock()

	result := make([]Track, len(q.items))
	copy(result, q.items)
	return result
}

// Size returns the number of queued tracks.
func (q *Queue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Clear removes every queued track.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
}

// Remove removes the track at the given index.
func (q *Queue) Remove(index int) (Track, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.items) {
		return Track{}, ErrQueueIndexOutOfRange
	}
	removed := q.items[index]
	q.items = append(q.items[:index], q.items[index+1:]...)
	return removed, nil
}

// DropFirst removes up to n tracks from the front of the queue and returns
// how many were removed.
func (q *Queue) DropFirst(n int) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 {
		return 0
	}
	if n >= len(q.items) {
		dropped := len(q.items)
		q.items = q.items[:0]
		return dropped
	}
	q.items = q.items[n:]
	return n
}

// Shuffle randomizes the order of the queued tracks.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()

	rand.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}
