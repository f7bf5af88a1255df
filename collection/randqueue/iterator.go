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

package randqueue

// End is the index an Iterator reports once it has visited every item. It
// never matches the position of an item.
const End = -1

// Iterator walks the items of a Queue in a random order fixed when the
// iterator is created.
//
// The iterator remembers indexes, not items: Value reads the queue as it is
// now. Enqueue or Dequeue during a traversal may make a remembered index
// point at another item or past the end, and Value then panics with an index
// out of range.
type Iterator[K any] struct {
	q     *Queue[K]
	order []int
	pos   int
}

// Begin returns an iterator over a new random permutation of the items.
func (q *Queue[K]) Begin() *Iterator[K] {
	return &Iterator[K]{q: q, order: q.perm(len(q.items))}
}

// End returns an iterator positioned past the last item.
func (q *Queue[K]) End() *Iterator[K] {
	return &Iterator[K]{q: q, order: []int{End}}
}

// Index returns the queue index the iterator points to, or End.
func (it *Iterator[K]) Index() int {
	return it.order[it.pos]
}

// Done reports whether the traversal is over.
func (it *Iterator[K]) Done() bool {
	return it.order[it.pos] == End
}

// Next advances to the next index. It is a no-op once Done.
func (it *Iterator[K]) Next() {
	if !it.Done() {
		it.pos++
	}
}

// Value returns the item currently stored at Index.
func (it *Iterator[K]) Value() K {
	return it.q.items[it.order[it.pos]]
}

// Equal reports whether both iterators belong to the same queue and point to
// the same index. Every finished traversal equals End.
func (it *Iterator[K]) Equal(other *Iterator[K]) bool {
	return it.q == other.q && it.Index() == other.Index()
}
