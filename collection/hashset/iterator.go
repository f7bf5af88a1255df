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

package hashset

// Iterator is a cursor over the keys of a Set in slot order.
//
// An iterator remembers the table generation it was created for. Once the
// set rebuilds its table the iterator is stale: Key panics with
// ErrStaleIterator and Valid reports false.
type Iterator[K any] struct {
	set *Set[K]
	pos int
	gen uint64
}

// Begin returns an iterator to the first key in slot order, or End if the set
// is empty.
func (s *Set[K]) Begin() Iterator[K] {
	return s.seek(0)
}

// End returns the iterator one past the last slot.
func (s *Set[K]) End() Iterator[K] {
	return Iterator[K]{set: s, pos: len(s.slots), gen: s.gen}
}

// seek returns an iterator to the first occupied slot at or after pos.
func (s *Set[K]) seek(pos int) Iterator[K] {
	for pos < len(s.slots) && s.slots[pos].status != occupied {
		pos++
	}
	return Iterator[K]{set: s, pos: pos, gen: s.gen}
}

func (it Iterator[K]) check(s *Set[K]) {
	if it.set != s || it.gen != s.gen {
		panic(ErrStaleIterator)
	}
}

// Stale reports whether the set rebuilt its table after the iterator was
// created.
func (it Iterator[K]) Stale() bool {
	return it.set == nil || it.gen != it.set.gen
}

// Valid reports whether the iterator points to a live key.
func (it Iterator[K]) Valid() bool {
	return !it.Stale() && it.pos < len(it.set.slots) && it.set.slots[it.pos].status == occupied
}

// Key returns the key the iterator points to.
func (it Iterator[K]) Key() K {
	if it.Stale() {
		panic(ErrStaleIterator)
	}
	if it.pos >= len(it.set.slots) {
		panic(ErrEndIterator)
	}
	sl := &it.set.slots[it.pos]
	if sl.status != occupied {
		panic(ErrStaleIterator)
	}
	return sl.key
}

// Next returns an iterator to the following key. Next of End is End.
func (it Iterator[K]) Next() Iterator[K] {
	if it.Stale() {
		panic(ErrStaleIterator)
	}
	if it.pos >= len(it.set.slots) {
		return it
	}
	return it.set.seek(it.pos + 1)
}

// Equal reports whether both iterators point to the same slot of the same
// table. An iterator from before a rebuild never equals one from after it.
func (it Iterator[K]) Equal(other Iterator[K]) bool {
	return it.set == other.set && it.gen == other.gen && it.pos == other.pos
}
