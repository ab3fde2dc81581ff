package midi

import (
	"github.com/plugrt/plugrt/pkg/framework/debug"
)

// QueueCapacity is the fixed number of pending messages a Queue holds.
// The bound keeps enqueue allocation-free on the render timeline; overflow
// drops the message rather than growing.
const QueueCapacity = 511

type queueEntry struct {
	offset int64 // absolute frame offset since the last Initialize
	seq    uint64
	msg    Message
}

// Queue is a fixed-capacity priority queue delivering MIDI messages in
// time order across arbitrary buffer splits.
//
// Messages are stamped with an absolute frame counter on Enqueue and drained
// in non-decreasing time order by NextMessages. Messages sharing a timestamp
// come back in enqueue order.
//
// The queue carries no internal synchronization: the host wrapper must keep
// MIDI delivery and audio rendering on one logical timeline per instance.
type Queue struct {
	heap          [QueueCapacity]queueEntry
	size          int
	seq           uint64
	framesElapsed int64
}

// NewQueue returns an empty queue with its frame counter at zero.
func NewQueue() *Queue {
	return &Queue{}
}

// Initialize resets the frame counter and drops all pending messages.
// Called whenever the host re-initializes processing, which invalidates any
// previously stamped timestamps.
func (q *Queue) Initialize() {
	q.size = 0
	q.seq = 0
	q.framesElapsed = 0
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	return q.size
}

// Enqueue stamps msg with the absolute frame counter and inserts it.
// msg.Offset is relative to "now", i.e. the start of the next delivery span;
// negative offsets clamp to it. When the queue is full the message is
// dropped (debug builds assert).
func (q *Queue) Enqueue(msg Message) {
	if q.size >= QueueCapacity {
		debug.Assert(false, "midi queue overflow, message dropped")
		return
	}
	stamp := q.framesElapsed + int64(msg.Offset)
	if stamp < q.framesElapsed {
		// A negative message offset would land in an already-rendered span;
		// deliver at the start of the next one instead.
		stamp = q.framesElapsed
	}
	q.seq++
	q.heap[q.size] = queueEntry{
		offset: stamp,
		seq:    q.seq,
		msg:    msg,
	}
	q.siftUp(q.size)
	q.size++
}

// NextMessages appends to dst every pending message whose absolute offset
// falls within [framesElapsed, framesElapsed+frames), rewritten to a
// frame-relative offset in [0, frames), and returns the extended slice.
// Messages come back sorted by time, enqueue-order stable per timestamp.
// The frame counter advances by frames unconditionally.
//
// dst must have enough capacity for the drained batch; callers on the render
// path pass a preallocated slice to keep this allocation-free.
func (q *Queue) NextMessages(frames int32, dst []Message) []Message {
	limit := q.framesElapsed + int64(frames)
	for q.size > 0 && q.heap[0].offset < limit {
		e := q.extractMin()
		// Every stamp is >= the frame counter at enqueue time, and each drain
		// raises the counter only to its prior limit, so rel is in [0, frames).
		m := e.msg
		m.Offset = int32(e.offset - q.framesElapsed)
		dst = append(dst, m)
	}
	q.framesElapsed = limit
	return dst
}

// FramesElapsed returns the absolute frame counter since the last Initialize.
func (q *Queue) FramesElapsed() int64 {
	return q.framesElapsed
}

func (q *Queue) less(i, j int) bool {
	if q.heap[i].offset != q.heap[j].offset {
		return q.heap[i].offset < q.heap[j].offset
	}
	return q.heap[i].seq < q.heap[j].seq
}

func (q *Queue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.less(i, parent) {
			return
		}
		q.heap[i], q.heap[parent] = q.heap[parent], q.heap[i]
		i = parent
	}
}

func (q *Queue) siftDown(i int) {
	for {
		left := 2*i + 1
		if left >= q.size {
			return
		}
		smallest := left
		if right := left + 1; right < q.size && q.less(right, left) {
			smallest = right
		}
		if !q.less(smallest, i) {
			return
		}
		q.heap[i], q.heap[smallest] = q.heap[smallest], q.heap[i]
		i = smallest
	}
}

func (q *Queue) extractMin() queueEntry {
	e := q.heap[0]
	q.size--
	q.heap[0] = q.heap[q.size]
	q.siftDown(0)
	return e
}
