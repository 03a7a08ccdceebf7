// Implements the WaitQueue, which holds the customers waiting for a server at
// one node. Customers are enqueued on arrival when every server is busy.

package sim

// WaitQueue is a FIFO queue of visits waiting to start service.
type WaitQueue struct {
	queue []*visit
}

// Enqueue adds a visit to the back of the queue.
func (wq *WaitQueue) Enqueue(v *visit) {
	wq.queue = append(wq.queue, v)
}

// Len returns the number of waiting visits.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// Peek returns the visit at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *visit {
	if len(wq.queue) == 0 {
		return nil
	}
	return wq.queue[0]
}

// Dequeue removes and returns the visit at the front of the queue.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Dequeue() *visit {
	if len(wq.queue) == 0 {
		return nil
	}
	v := wq.queue[0]
	wq.queue[0] = nil
	wq.queue = wq.queue[1:]
	return v
}
