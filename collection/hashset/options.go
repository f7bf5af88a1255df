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

// defaultCapacity is the table size used when no capacity hint is given.
const defaultCapacity = 100

type options struct {
	capacity int
	policy   Policy
}

// Option configures a Set at construction time.
type Option func(o *options)

// WithCapacity sets the initial number of slots. The table is rounded up to
// whatever the collision policy requires. A capacity of zero defers the
// allocation to the first insert. Construction panics with
// ErrCapacityOverflow when n exceeds the largest supported table.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.capacity = n
	}
}

// WithPolicy sets the collision policy. The default is Linear.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		if p != nil {
			o.policy = p
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		capacity: defaultCapacity,
		policy:   Linear{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
