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

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policies = map[string]Policy{
	"linear":    Linear{},
	"quadratic": Quadratic{},
}

// checkInvariants verifies the slot counters against the table.
func checkInvariants[K any](t *testing.T, s *Set[K]) {
	t.Helper()
	var live, dead int
	for _, sl := range s.slots {
		switch sl.status {
		case occupied:
			live++
		case tombstone:
			dead++
		}
	}
	require.Equal(t, live, s.live, "live count")
	require.Equal(t, dead, s.tombstones, "tombstone count")
	require.LessOrEqual(t, 2*(s.live+s.tombstones), len(s.slots), "load bound")
	if s.live > 0 {
		require.NotZero(t, len(s.slots))
	}
}

func TestContainsEvens(t *testing.T) {
	s := New[int]()
	for i := 0; i < 5; i++ {
		assert.True(t, s.Add(2*i))
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, i%2 == 0, s.Contains(i), "Contains(%d)", i)
	}
	assert.Equal(t, 5, s.Len())
}

func TestAddDuplicate(t *testing.T) {
	s := New[int]()
	assert.True(t, s.Add(5))
	assert.False(t, s.Add(5))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Count(5))
	assert.Equal(t, 0, s.Count(6))
}

func TestRemoveAndReAdd(t *testing.T) {
	s := Of(0, 2, 4, 6, 8)
	before := s.Len()

	assert.Equal(t, 1, s.Remove(4))
	assert.False(t, s.Contains(4))
	assert.Equal(t, before-1, s.Len())
	assert.Equal(t, 1, s.Tombstones())

	assert.True(t, s.Add(4))
	assert.True(t, s.Contains(4))
	assert.Equal(t, before, s.Len())
	checkInvariants(t, s)
}

func TestRemoveAbsent(t *testing.T) {
	s := Of(1, 2, 3)
	assert.Equal(t, 0, s.Remove(42))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.Tombstones())
	for _, k := range []int{1, 2, 3} {
		assert.True(t, s.Contains(k))
	}
}

func TestGrowthKeepsKeys(t *testing.T) {
	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			s := New[int](WithPolicy(p))
			capacity := s.Capacity()
			grown := 0
			for i := 0; i < 1000; i++ {
				require.True(t, s.Add(i*7919))
				if s.Capacity() != capacity {
					grown++
					capacity = s.Capacity()
					assert.LessOrEqual(t, s.LoadFactor(), 0.5, "after growth to %d", capacity)
				}
			}
			assert.Greater(t, grown, 0)
			for i := 0; i < 1000; i++ {
				require.True(t, s.Contains(i*7919), "key %d", i*7919)
			}
			assert.Equal(t, 1000, s.Len())
			checkInvariants(t, s)
		})
	}
}

func TestQuadraticUsesPrimeTables(t *testing.T) {
	s := New[int](WithPolicy(Quadratic{}))
	assert.Equal(t, 101, s.Capacity())
	for i := 0; i < 500; i++ {
		s.Add(i)
		require.True(t, isPrime(s.Capacity()), "capacity %d", s.Capacity())
	}
}

func TestCollidingKeysSkipTombstones(t *testing.T) {
	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			s := NewFunc(func(int) uint64 { return 0 }, func(a, b int) bool { return a == b }, WithPolicy(p))
			s.AddAll(1, 2, 3)
			require.Equal(t, 1, s.Remove(2))

			assert.True(t, s.Contains(3), "key past the tombstone must be found")
			assert.False(t, s.Add(3))
			assert.Equal(t, 1, s.Tombstones())

			assert.True(t, s.Add(2))
			assert.Equal(t, 0, s.Tombstones(), "tombstone reused")
			checkInvariants(t, s)
		})
	}
}

func TestRehashReclaimsTombstones(t *testing.T) {
	s := New[int]()
	for i := 0; i < 40; i++ {
		s.Add(i)
	}
	for i := 0; i < 40; i += 2 {
		s.Remove(i)
	}
	assert.Equal(t, 20, s.Tombstones())
	capacity := s.Capacity()

	require.NoError(t, s.Rehash())
	assert.Equal(t, 0, s.Tombstones())
	assert.Equal(t, capacity, s.Capacity())
	for i := 0; i < 40; i++ {
		assert.Equal(t, i%2 == 1, s.Contains(i))
	}
	checkInvariants(t, s)
}

func TestChurnStaysBounded(t *testing.T) {
	s := New[int](WithCapacity(16))
	for i := 0; i < 10000; i++ {
		s.Add(i)
		s.Remove(i)
		checkInvariants(t, s)
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 16, s.Capacity(), "tombstones are reclaimed in place")
}

func TestReserve(t *testing.T) {
	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			s := New[int](WithPolicy(p))
			s.AddAll(1, 2, 3)
			require.NoError(t, s.Reserve(100))
			assert.GreaterOrEqual(t, s.Capacity(), 4*103)
			assert.LessOrEqual(t, s.LoadFactor(), 0.5)
			for _, k := range []int{1, 2, 3} {
				assert.True(t, s.Contains(k))
			}
			checkInvariants(t, s)

			capacity := s.Capacity()
			for _, extra := range []int{-1, maxCapacity/4 - 2, math.MaxInt / 4, math.MaxInt} {
				assert.ErrorIs(t, s.Reserve(extra), ErrCapacityOverflow, "Reserve(%d)", extra)
			}
			assert.Equal(t, 3, s.Len())
			assert.Equal(t, capacity, s.Capacity(), "failed reserve leaves the table alone")
			checkInvariants(t, s)
		})
	}
}

func TestRehashOverflow(t *testing.T) {
	s := New[int](WithCapacity(0))
	s.live = maxCapacity/4 + 1
	assert.ErrorIs(t, s.Rehash(), ErrCapacityOverflow)
	assert.Equal(t, 0, s.Capacity())
}

func TestAddDuplicateMayRebuild(t *testing.T) {
	s := New[int](WithCapacity(8))
	s.AddAll(0, 1, 2, 3)
	require.Equal(t, 8, s.Capacity())
	it := s.Find(2)

	assert.False(t, s.Add(0))
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 20, s.Capacity(), "the growth check runs before the lookup")
	assert.True(t, it.Stale())
	for _, k := range []int{0, 1, 2, 3} {
		assert.True(t, s.Contains(k))
	}
	checkInvariants(t, s)
}

func TestLazyAllocation(t *testing.T) {
	s := New[string](WithCapacity(0))
	assert.Equal(t, 0, s.Capacity())
	assert.False(t, s.Contains("a"))
	assert.Equal(t, 0, s.Remove("a"))
	assert.Equal(t, 0.0, s.LoadFactor())
	assert.True(t, s.Find("a").Equal(s.End()))

	assert.True(t, s.Add("a"))
	assert.Equal(t, defaultCapacity, s.Capacity())
}

func TestEqual(t *testing.T) {
	a := New[int](WithCapacity(8))
	b := New[int](WithCapacity(300), WithPolicy(Quadratic{}))
	for i := 0; i < 50; i++ {
		a.Add(i)
		b.Add(49 - i)
	}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.NotEqual(t, a.Capacity(), b.Capacity())

	b.Remove(10)
	assert.False(t, a.Equal(b))
	b.Add(100)
	assert.False(t, a.Equal(b), "same size, different keys")
	assert.True(t, a.Equal(a))
	assert.True(t, New[int]().Equal(New[int](WithCapacity(0))))
}

func TestEqualRange(t *testing.T) {
	s := Of(3, 5, 7)

	first, last := s.EqualRange(4)
	assert.True(t, first.Equal(last))

	first, last = s.EqualRange(5)
	require.False(t, first.Equal(last))
	assert.Equal(t, 5, first.Key())
	assert.True(t, first.Next().Equal(last))
}

func TestIterator(t *testing.T) {
	s := Of(10, 20, 30, 40)
	var got []int
	for it := s.Begin(); !it.Equal(s.End()); it = it.Next() {
		require.True(t, it.Valid())
		got = append(got, it.Key())
	}
	assert.Equal(t, s.Keys(), got)
	assert.ElementsMatch(t, []int{10, 20, 30, 40}, got)

	end := s.End()
	assert.True(t, end.Next().Equal(end))
	assert.PanicsWithValue(t, ErrEndIterator, func() { end.Key() })
	assert.False(t, New[int]().Begin().Equal(New[int]().Begin()), "iterators of different sets differ")
}

func TestIteratorInvalidation(t *testing.T) {
	s := Of(1, 2, 3)
	it := s.Find(2)
	require.True(t, it.Valid())

	other := s.Find(3)
	s.Remove(2)
	assert.False(t, it.Valid())
	assert.PanicsWithValue(t, ErrStaleIterator, func() { it.Key() })
	assert.Equal(t, 3, other.Key(), "remove keeps other iterators usable")

	require.NoError(t, s.Reserve(1000))
	assert.True(t, other.Stale())
	assert.False(t, other.Valid())
	assert.PanicsWithValue(t, ErrStaleIterator, func() { other.Key() })
	assert.PanicsWithValue(t, ErrStaleIterator, func() { other.Next() })
	assert.PanicsWithValue(t, ErrStaleIterator, func() { s.RemoveAt(other) })

	var zero Iterator[int]
	assert.False(t, zero.Valid())

	end := s.End()
	s.Clear()
	assert.False(t, end.Equal(s.End()), "a stale end differs from the current one")
	assert.PanicsWithValue(t, ErrStaleIterator, func() { s.RemoveRange(s.Begin(), end) })
}

func TestRemoveAtAndRange(t *testing.T) {
	s := Of(1, 2, 3, 4, 5)
	it := s.Find(3)
	next := s.RemoveAt(it)
	assert.False(t, s.Contains(3))
	assert.Equal(t, 4, s.Len())
	if next.Valid() {
		assert.NotEqual(t, 3, next.Key())
	}

	last := s.RemoveRange(s.Begin(), s.End())
	assert.True(t, last.Equal(s.End()))
	assert.True(t, s.Empty())
	assert.Equal(t, 5, s.Tombstones())
	checkInvariants(t, s)
}

func TestEmplace(t *testing.T) {
	s := New[string]()
	calls := 0
	build := func() string {
		calls++
		return "key"
	}
	it, ok := s.Emplace(build)
	require.True(t, ok)
	assert.Equal(t, "key", it.Key())

	it2, ok := s.Emplace(build)
	assert.False(t, ok)
	assert.True(t, it.Equal(it2))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, s.Len())
}

func TestClearSwapClone(t *testing.T) {
	a := Of(1, 2, 3)
	b := Of(7)
	it := a.Begin()

	a.Swap(b)
	assert.Equal(t, 1, a.Len())
	assert.True(t, a.Contains(7))
	assert.Equal(t, 3, b.Len())
	assert.True(t, it.Stale())

	c := b.Clone()
	assert.True(t, c.Equal(b))
	c.Add(4)
	assert.False(t, b.Contains(4))

	capacity := b.Capacity()
	b.Clear()
	assert.True(t, b.Empty())
	assert.Equal(t, capacity, b.Capacity())
	assert.False(t, b.Contains(1))
	assert.True(t, c.Contains(1))
	checkInvariants(t, b)
}

func TestCustomHashers(t *testing.T) {
	strs := NewWithHasher(String[string])
	strs.AddAll("alpha", "beta", "alpha")
	assert.Equal(t, 2, strs.Len())
	assert.True(t, strs.Contains("beta"))

	bs := NewFunc(Bytes, bytes.Equal)
	assert.True(t, bs.Add([]byte("x")))
	assert.False(t, bs.Add([]byte("x")))
	assert.True(t, bs.Contains([]byte{'x'}))

	type id uint16
	ids := NewWithHasher(Integer[id], WithPolicy(Quadratic{}))
	for i := 0; i < 300; i++ {
		ids.Add(id(i))
	}
	assert.Equal(t, 300, ids.Len())
	assert.NotEqual(t, Integer(1), Integer(2))
}

// TestRandomizedBehaviour cross-checks the set against a Go map over a long
// random mix of adds and removes on a small key space, so that tombstones
// accumulate and get reclaimed many times.
func TestRandomizedBehaviour(t *testing.T) {
	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			seed := uint64(time.Now().UnixNano())
			t.Logf("random seed %d", seed)
			r := rand.New(rand.NewPCG(seed, seed))

			s := New[int](WithCapacity(4), WithPolicy(p))
			model := map[int]bool{}
			for i := 0; i < 20000; i++ {
				k := r.IntN(512)
				if r.IntN(3) == 0 {
					want := 0
					if model[k] {
						want = 1
					}
					require.Equal(t, want, s.Remove(k), "Remove(%d)", k)
					delete(model, k)
				} else {
					require.Equal(t, !model[k], s.Add(k), "Add(%d)", k)
					model[k] = true
				}
				require.Equal(t, len(model), s.Len())
				if i%997 == 0 {
					checkInvariants(t, s)
				}
			}
			for k := 0; k < 512; k++ {
				require.Equal(t, model[k], s.Contains(k), "Contains(%d)", k)
			}
			checkInvariants(t, s)
		})
	}
}
