// Copyright 2021 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package randqueue is a queue whose items come out in uniformly random order.
//
// Enqueue, Dequeue and Sample are O(1). Every traversal started with Begin or
// Range walks a freshly shuffled order of the current items.
//
// A Queue is not safe for concurrent use.
package randqueue

import (
	"errors"

	"github.com/bytedance/gopkg/lang/fastrand"
)

// ErrEmpty is returned by Dequeue and Sample on an empty queue.
var ErrEmpty = errors.New("randqueue: queue is empty")

// Rand is the source of randomness of a Queue. *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a uniformly distributed integer in [0, n). n > 0.
	Intn(n int) int
}

type fastRand struct{}

func (fastRand) Intn(n int) int { return fastrand.Intn(n) }

type options struct {
	rnd      Rand
	capacity int
}

// Option configures a Queue at construction time.
type Option func(o *options)

// WithRand makes the queue draw its randomness from r. The default source is
// shared process-wide and cannot be seeded.
func WithRand(r Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rnd = r
		}
	}
}

// WithCapacity preallocates room for n items.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// Queue is a randomized queue.
type Queue[K any] struct {
	items []K
	rnd   Rand
}

// New returns an empty queue.
func New[K any](opts ...Option) *Queue[K] {
	o := options{rnd: fastRand{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Queue[K]{
		items: make([]K, 0, o.capacity),
		rnd:   o.rnd,
	}
}

// Enqueue adds item to the queue.
func (q *Queue[K]) Enqueue(item K) {
	q.items = append(q.items, item)
}

// Dequeue removes and returns an item chosen uniformly at random.
//
// The last item is moved into the freed position, so the order of the
// remaining items, and any index remembered by a traversal, changes.
func (q *Queue[K]) Dequeue() (K, error) {
	var zero K
	n := len(q.items)
	if n == 0 {
		return zero, ErrEmpty
	}
	i := q.rnd.Intn(n)
	item := q.items[i]
	q.items[i] = q.items[n-1]
	q.items[n-1] = zero
	q.items = q.items[:n-1]
	return item, nil
}

// Sample returns an item chosen uniformly at random without removing it.
func (q *Queue[K]) Sample() (K, error) {
	if len(q.items) == 0 {
		var zero K
		return zero, ErrEmpty
	}
	return q.items[q.rnd.Intn(len(q.items))], nil
}

// Len returns the number of items in the queue.
func (q *Queue[K]) Len() int {
	return len(q.items)
}

// Empty reports whether the queue holds no items.
func (q *Queue[K]) Empty() bool {
	return len(q.items) == 0
}

// Range calls f for each item in a freshly shuffled order. If f returns
// false, range stops the iteration. f must not modify the queue.
func (q *Queue[K]) Range(f func(item K) bool) {
	for it := q.Begin(); !it.Done(); it.Next() {
		if !f(it.Value()) {
			break
		}
	}
}

// perm returns a random permutation of [0, n) followed by End.
func (q *Queue[K]) perm(n int) []int {
	order := make([]int, n+1)
	for i := 0; i < n; i++ {
		j := q.rnd.Intn(i + 1)
		order[i] = order[j]
		order[j] = i
	}
	order[n] = End
	return order
}
