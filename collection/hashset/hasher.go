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
	"hash/maphash"

	"github.com/cespare/xxhash/v2"

	"github.com/GGXXLL/containers/internal/constraint"
)

// Hasher maps a key to a 64-bit hash. Keys that are equal must hash equally.
type Hasher[K any] func(key K) uint64

// Equal reports whether two keys are the same key.
type Equal[K any] func(a, b K) bool

// comparableHasher returns a hasher for any comparable type, seeded once per
// set.
func comparableHasher[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

func comparableEqual[K comparable](a, b K) bool {
	return a == b
}

// String hashes string-like keys with xxhash.
func String[K ~string](key K) uint64 {
	return xxhash.Sum64String(string(key))
}

// Bytes hashes byte slices with xxhash. Pair it with bytes.Equal.
func Bytes(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// Integer hashes integer keys with the splitmix64 finalizer, so that
// sequential keys spread across the table.
func Integer[K constraint.Integer](key K) uint64 {
	x := uint64(key)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
