// This file is part of sidekicknet.
//
// sidekicknet is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sidekicknet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with sidekicknet.  If not, see <https://www.gnu.org/licenses/>.

// Package queue implements the fixed capacity byte queues shared between the
// bus handler and the scheduler. There are two of them in a running system:
// inbound (network to host) and outbound (host to network).
//
// A queue is a flat array with a length and a read cursor. It never wraps;
// instead it is physically reset to offset zero once it has been fully
// drained, which keeps it from creeping towards its capacity during a long
// session. Push and Pop never allocate.
package queue

// DefaultCapacity is large enough for the largest HTTP response the userport
// fetch command is expected to carry.
const DefaultCapacity = 512 * 1024

// ByteQueue is a fixed capacity byte queue. The invariant is:
//
//	cursor <= length <= capacity
type ByteQueue struct {
	buffer []byte
	length int
	cursor int
}

// NewByteQueue is the preferred method of initialisation for the ByteQueue
// type.
func NewByteQueue(capacity int) *ByteQueue {
	return &ByteQueue{
		buffer: make([]byte, capacity),
	}
}

// resetIfDrained moves the queue back to offset zero if every byte has been
// read.
func (q *ByteQueue) resetIfDrained() {
	if q.cursor == q.length {
		q.cursor = 0
		q.length = 0
	}
}

// Push a single byte. Returns false if the queue is full.
func (q *ByteQueue) Push(b byte) bool {
	q.resetIfDrained()
	if q.length >= len(q.buffer) {
		return false
	}
	q.buffer[q.length] = b
	q.length++
	return true
}

// PushBytes pushes as many bytes as will fit and returns the number pushed.
func (q *ByteQueue) PushBytes(p []byte) int {
	q.resetIfDrained()
	n := copy(q.buffer[q.length:], p)
	q.length += n
	return n
}

// PushString is a convenience wrapper for PushBytes.
func (q *ByteQueue) PushString(s string) int {
	q.resetIfDrained()
	n := copy(q.buffer[q.length:], s)
	q.length += n
	return n
}

// Pop the next byte. The second return value is false if the queue is empty.
func (q *ByteQueue) Pop() (byte, bool) {
	if q.cursor >= q.length {
		q.resetIfDrained()
		return 0, false
	}
	b := q.buffer[q.cursor]
	q.cursor++
	return b, true
}

// Drain returns up to max unread bytes, advancing the cursor past them. The
// returned slice refers to the queue's storage and is only valid until the
// next Push.
func (q *ByteQueue) Drain(max int) []byte {
	if q.cursor >= q.length {
		q.resetIfDrained()
		return nil
	}
	n := q.length - q.cursor
	if max > 0 && n > max {
		n = max
	}
	p := q.buffer[q.cursor : q.cursor+n]
	q.cursor += n
	return p
}

// Len returns the number of unread bytes.
func (q *ByteQueue) Len() int {
	return q.length - q.cursor
}

// Empty returns true if there are no unread bytes.
func (q *ByteQueue) Empty() bool {
	return q.cursor >= q.length
}

// Reset discards all bytes.
func (q *ByteQueue) Reset() {
	q.cursor = 0
	q.length = 0
}

// Cursor returns the physical read cursor.
func (q *ByteQueue) Cursor() int {
	return q.cursor
}

// Length returns the physical length of the queue. Not the same as Len()
// unless the cursor is at zero.
func (q *ByteQueue) Length() int {
	return q.length
}

// Capacity returns the fixed capacity of the queue.
func (q *ByteQueue) Capacity() int {
	return len(q.buffer)
}
