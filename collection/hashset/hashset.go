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

// Package hashset is an open-addressing hash set with pluggable collision
// resolution.
//
// Keys live directly in a flat slot table. Removed keys leave a tombstone
// behind so that later probe walks still reach keys stored past them; the
// tombstones are reclaimed whenever the table is rebuilt. The table is rebuilt
// before an insert would push the share of non-empty slots above one half.
//
// A Set is not safe for concurrent use.
package hashset

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrCapacityOverflow is returned by Reserve and Rehash when the
	// requested table would exceed the maximum number of slots.
	ErrCapacityOverflow = errors.New("hashset: capacity overflow")
	// ErrStaleIterator is the panic value for reading through an iterator
	// that was invalidated by a rebuild or whose key was removed.
	ErrStaleIterator = errors.New("hashset: stale iterator")
	// ErrEndIterator is the panic value for reading through an end iterator.
	ErrEndIterator = errors.New("hashset: read past end")
	// ErrProbeExhausted is the panic value for a probe walk that visited as
	// many slots as the table holds without reaching an empty one. Only a
	// Policy whose Size breaks its contract can cause it.
	ErrProbeExhausted = errors.New("hashset: probe sequence exhausted")
)

// maxCapacity bounds the number of slots of any table.
const maxCapacity = math.MaxInt32

type status uint8

const (
	empty status = iota
	occupied
	tombstone
)

type slot[K any] struct {
	key    K
	status status
}

// Set is an open-addressing hash set.
//
// Every rebuild (automatic growth, Reserve, Rehash, Clear, Swap) moves the
// keys into a fresh table and invalidates all iterators issued before it.
// Since Add may grow the table, any Add invalidates outstanding iterators
// too. Remove only invalidates iterators positioned on the removed key.
type Set[K any] struct {
	slots      []slot[K]
	live       int
	tombstones int
	gen        uint64

	hash   Hasher[K]
	equal  Equal[K]
	policy Policy
}

// New returns an empty set of comparable keys, hashed with hash/maphash and
// compared with ==.
func New[K comparable](opts ...Option) *Set[K] {
	return newSet(comparableHasher[K](), comparableEqual[K], opts)
}

// NewWithHasher returns an empty set of comparable keys that uses hash
// instead of the default hasher.
func NewWithHasher[K comparable](hash Hasher[K], opts ...Option) *Set[K] {
	return newSet(hash, comparableEqual[K], opts)
}

// NewFunc returns an empty set for arbitrary key types. equal(a, b) must
// imply hash(a) == hash(b).
func NewFunc[K any](hash Hasher[K], equal Equal[K], opts ...Option) *Set[K] {
	return newSet(hash, equal, opts)
}

// Of returns a set holding the given keys.
func Of[K comparable](keys ...K) *Set[K] {
	opts := []Option{}
	if len(keys) > 0 {
		opts = append(opts, WithCapacity(4*len(keys)))
	}
	s := New[K](opts...)
	s.AddAll(keys...)
	return s
}

func newSet[K any](hash Hasher[K], equal Equal[K], opts []Option) *Set[K] {
	if hash == nil || equal == nil {
		panic("hashset: nil hasher or equality")
	}
	o := buildOptions(opts)
	s := &Set[K]{
		hash:   hash,
		equal:  equal,
		policy: o.policy,
	}
	if o.capacity > 0 {
		n := s.policy.Size(min(o.capacity, maxCapacity))
		if n < o.capacity || n > maxCapacity {
			panic(ErrCapacityOverflow)
		}
		s.slots = make([]slot[K], n)
	}
	return s
}

// home returns the start of the probe walk for key.
func (s *Set[K]) home(key K, capacity int) Probe {
	return Probe{Pos: int(s.hash(key) % uint64(capacity)), Step: 1}
}

// lookup walks the probe sequence of key. It returns the slot holding key and
// true, or the slot where key should be stored and false. Tombstones are
// passed over, but the first one seen is preferred as the insertion slot.
func (s *Set[K]) lookup(key K) (int, bool) {
	n := len(s.slots)
	if n == 0 {
		return -1, false
	}
	free := -1
	p := s.home(key, n)
	for i := 0; i < n; i++ {
		sl := &s.slots[p.Pos]
		switch sl.status {
		case empty:
			if free < 0 {
				free = p.Pos
			}
			return free, false
		case occupied:
			if s.equal(sl.key, key) {
				return p.Pos, true
			}
		case tombstone:
			if free < 0 {
				free = p.Pos
			}
		}
		s.policy.Next(&p, n)
	}
	panic(ErrProbeExhausted)
}

// place stores key in the first empty slot of its walk in a table that holds
// no tombstones and does not contain key.
func (s *Set[K]) place(key K) {
	n := len(s.slots)
	p := s.home(key, n)
	for i := 0; i < n; i++ {
		if s.slots[p.Pos].status == empty {
			s.slots[p.Pos] = slot[K]{key: key, status: occupied}
			return
		}
		s.policy.Next(&p, n)
	}
	panic(ErrProbeExhausted)
}

// targetCapacity is the capacity of a rebuild that leaves room for extra more
// keys at a load of one quarter.
func (s *Set[K]) targetCapacity(extra int) (int, error) {
	if extra < 0 {
		return 0, fmt.Errorf("%w: negative reserve %d", ErrCapacityOverflow, extra)
	}
	if s.live > maxCapacity/4 || extra > maxCapacity/4-s.live {
		return 0, fmt.Errorf("%w: %d keys", ErrCapacityOverflow, extra)
	}
	n := s.policy.Size(max(len(s.slots), 4*(s.live+extra)))
	if n < 4*(s.live+extra) || n > maxCapacity {
		return 0, fmt.Errorf("%w: %d keys", ErrCapacityOverflow, extra)
	}
	return n, nil
}

// rebuild moves every live key into a fresh table of the given capacity.
func (s *Set[K]) rebuild(capacity int) {
	old := s.slots
	s.slots = make([]slot[K], capacity)
	s.tombstones = 0
	s.gen++
	for i := range old {
		if old[i].status == occupied {
			s.place(old[i].key)
		}
	}
}

// grow rebuilds the table if one more key would push it past half full.
func (s *Set[K]) grow() {
	if len(s.slots) == 0 {
		s.rebuild(s.policy.Size(defaultCapacity))
		return
	}
	if 2*(s.live+s.tombstones+1) <= len(s.slots) {
		return
	}
	n, err := s.targetCapacity(1)
	if err != nil {
		panic(err)
	}
	s.rebuild(n)
}

func (s *Set[K]) insert(key K) (int, bool) {
	s.grow()
	pos, found := s.lookup(key)
	if found {
		return pos, false
	}
	if s.slots[pos].status == tombstone {
		s.tombstones--
	}
	s.slots[pos] = slot[K]{key: key, status: occupied}
	s.live++
	return pos, true
}

// Add adds key to the set. It returns false if an equal key was already
// present, in which case the set holds the same keys as before.
//
// The growth check runs before the lookup, so Add may rebuild the table, and
// invalidate every iterator, even when it returns false.
func (s *Set[K]) Add(key K) bool {
	_, ok := s.insert(key)
	return ok
}

// AddAll adds every key and returns how many of them were new.
func (s *Set[K]) AddAll(keys ...K) int {
	n := 0
	for _, k := range keys {
		if s.Add(k) {
			n++
		}
	}
	return n
}

// Emplace builds a key with build and adds it. It returns an iterator to the
// stored key, or to the equal key already present, and whether the key was
// added.
func (s *Set[K]) Emplace(build func() K) (Iterator[K], bool) {
	pos, ok := s.insert(build())
	return Iterator[K]{set: s, pos: pos, gen: s.gen}, ok
}

// Remove removes key from the set and returns the number of keys removed,
// which is 0 or 1.
func (s *Set[K]) Remove(key K) int {
	pos, found := s.lookup(key)
	if !found {
		return 0
	}
	s.slots[pos] = slot[K]{status: tombstone}
	s.live--
	s.tombstones++
	return 1
}

// RemoveAt removes the key it points to and returns an iterator to the next
// key.
func (s *Set[K]) RemoveAt(it Iterator[K]) Iterator[K] {
	it.check(s)
	if it.pos < len(s.slots) && s.slots[it.pos].status == occupied {
		s.slots[it.pos] = slot[K]{status: tombstone}
		s.live--
		s.tombstones++
	}
	return it.Next()
}

// RemoveRange removes the keys in [first, last) and returns last.
func (s *Set[K]) RemoveRange(first, last Iterator[K]) Iterator[K] {
	last.check(s)
	for it := first; !it.Equal(last) && it.pos < len(s.slots); {
		it = s.RemoveAt(it)
	}
	return last
}

// Contains reports whether key is in the set.
func (s *Set[K]) Contains(key K) bool {
	_, found := s.lookup(key)
	return found
}

// Count returns the number of keys equal to key, which is 0 or 1.
func (s *Set[K]) Count(key K) int {
	if s.Contains(key) {
		return 1
	}
	return 0
}

// Find returns an iterator to key, or End if key is absent.
func (s *Set[K]) Find(key K) Iterator[K] {
	pos, found := s.lookup(key)
	if !found {
		return s.End()
	}
	return Iterator[K]{set: s, pos: pos, gen: s.gen}
}

// EqualRange returns the range of keys equal to key: empty if key is absent,
// a single key otherwise.
func (s *Set[K]) EqualRange(key K) (Iterator[K], Iterator[K]) {
	first := s.Find(key)
	if first.pos >= len(s.slots) {
		return first, first
	}
	return first, first.Next()
}

// Reserve rebuilds the table with room for extra more keys beyond the current
// ones, reclaiming all tombstones. The table never shrinks.
func (s *Set[K]) Reserve(extra int) error {
	n, err := s.targetCapacity(extra)
	if err != nil {
		return err
	}
	s.rebuild(n)
	return nil
}

// Rehash rebuilds the table without growing it, reclaiming all tombstones.
// It fails with ErrCapacityOverflow when the rebuild would need more than the
// maximum number of slots.
func (s *Set[K]) Rehash() error {
	return s.Reserve(0)
}

// Clear removes all keys and keeps the capacity.
func (s *Set[K]) Clear() {
	if len(s.slots) > 0 {
		s.slots = make([]slot[K], len(s.slots))
	}
	s.live = 0
	s.tombstones = 0
	s.gen++
}

// Swap exchanges the contents of s and other, including their hashers,
// equality functions and policies.
func (s *Set[K]) Swap(other *Set[K]) {
	if s == other {
		return
	}
	gen := max(s.gen, other.gen) + 1
	*s, *other = *other, *s
	s.gen, other.gen = gen, gen
}

// Clone returns a copy of s with the same hasher, equality and policy.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{
		slots:      slices.Clone(s.slots),
		live:       s.live,
		tombstones: s.tombstones,
		hash:       s.hash,
		equal:      s.equal,
		policy:     s.policy,
	}
}

// Equal reports whether s and other hold the same keys, regardless of where
// the keys sit in either table.
func (s *Set[K]) Equal(other *Set[K]) bool {
	if s == other {
		return true
	}
	if s.live != other.live {
		return false
	}
	return s.subsetOf(other) && other.subsetOf(s)
}

func (s *Set[K]) subsetOf(other *Set[K]) bool {
	for i := range s.slots {
		if s.slots[i].status == occupied && !other.Contains(s.slots[i].key) {
			return false
		}
	}
	return true
}

// Range calls f sequentially for each key present in the set, in slot order.
// If f returns false, range stops the iteration.
func (s *Set[K]) Range(f func(key K) bool) {
	for i := range s.slots {
		if s.slots[i].status != occupied {
			continue
		}
		if !f(s.slots[i].key) {
			break
		}
	}
}

// Keys returns the keys in slot order.
func (s *Set[K]) Keys() []K {
	keys := make([]K, 0, s.live)
	s.Range(func(key K) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Len returns the number of keys in the set.
func (s *Set[K]) Len() int {
	return s.live
}

// Empty reports whether the set holds no keys.
func (s *Set[K]) Empty() bool {
	return s.live == 0
}

// Capacity returns the number of slots in the table.
func (s *Set[K]) Capacity() int {
	return len(s.slots)
}

// Tombstones returns the number of slots left behind by removed keys that
// have not been reclaimed yet.
func (s *Set[K]) Tombstones() int {
	return s.tombstones
}

// LoadFactor returns the share of slots that are not empty, tombstones
// included.
func (s *Set[K]) LoadFactor() float64 {
	if len(s.slots) == 0 {
		return 0
	}
	return float64(s.live+s.tombstones) / float64(len(s.slots))
}

// MaxLoadFactor returns the load factor above which the table is rebuilt.
func (s *Set[K]) MaxLoadFactor() float64 {
	return 0.5
}
