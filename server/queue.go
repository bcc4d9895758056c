// File: server/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-sock/socket"
	"github.com/momentics/hioload-sock/sockaddr"
)

// pending is an accepted connection waiting for a worker.
type pending struct {
	conn *socket.StreamSocket
	peer sockaddr.Address
}

// connQueue is a bounded FIFO between the accept loop and the workers.
type connQueue struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	q        *queue.Queue
	capacity int
	closed   bool
}

func newConnQueue(capacity int) *connQueue {
	cq := &connQueue{q: queue.New(), capacity: capacity}
	cq.nonEmpty = sync.NewCond(&cq.mu)
	return cq
}

// Push enqueues p. It returns false when the queue is full or closed; the
// caller keeps ownership of p in that case.
func (cq *connQueue) Push(p pending) bool {
	cq.mu.Lock()
	defer cq.mu.Unlock()
	if cq.closed || cq.q.Length() >= cq.capacity {
		return false
	}
	cq.q.Add(p)
	cq.nonEmpty.Signal()
	return true
}

// Pop blocks until an item is available. After Close it drains the
// remaining items and then reports false.
func (cq *connQueue) Pop() (pending, bool) {
	cq.mu.Lock()
	defer cq.mu.Unlock()
	for cq.q.Length() == 0 {
		if cq.closed {
			return pending{}, false
		}
		cq.nonEmpty.Wait()
	}
	return cq.q.Remove().(pending), true
}

// Close wakes all waiting workers.
func (cq *connQueue) Close() {
	cq.mu.Lock()
	defer cq.mu.Unlock()
	cq.closed = true
	cq.nonEmpty.Broadcast()
}

// Len returns the number of waiting connections.
func (cq *connQueue) Len() int {
	cq.mu.Lock()
	defer cq.mu.Unlock()
	return cq.q.Length()
}
