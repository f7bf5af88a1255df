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

import "math"

// Probe is the state of a single probe walk. It lives only for the duration
// of one lookup, insert or remove.
type Probe struct {
	Pos  int
	Step int
}

// Policy resolves collisions by choosing the next slot of a probe walk.
//
// Next must be deterministic and depend only on p and capacity.
// Size returns the smallest capacity >= n for which a walk is guaranteed to
// reach an empty slot while at most half of the table is in use; the set only
// allocates tables of that size. A result below n means no such capacity fits
// in an int.
type Policy interface {
	Next(p *Probe, capacity int)
	Size(n int) int
}

// Linear probes slots one after another. It visits every slot once per cycle
// for any capacity.
type Linear struct{}

func (Linear) Next(p *Probe, capacity int) {
	p.Pos = (p.Pos + 1) % capacity
}

func (Linear) Size(n int) int { return n }

// Quadratic probes at offsets 1, 4, 9, ... from the home slot: the k-th
// increment is 2k-1.
//
// The sequence only covers half of the slots when the capacity is prime, and
// far fewer for most other capacities, so Size rounds every table up to a
// prime.
type Quadratic struct{}

func (Quadratic) Next(p *Probe, capacity int) {
	p.Pos = (p.Pos + 2*p.Step - 1) % capacity
	p.Step++
}

func (Quadratic) Size(n int) int {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for !isPrime(n) {
		if n > math.MaxInt-2 {
			return -1
		}
		n += 2
	}
	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
