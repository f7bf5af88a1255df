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

package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/GGXXLL/containers/collection/hashset"
	"github.com/GGXXLL/containers/collection/randqueue"
)

func (d *demo) run(w io.Writer) {
	d.setExample(w)
	fmt.Fprint(w, "\n\n")
	d.queueExample(w)
}

func (d *demo) setExample(w io.Writer) {
	fmt.Fprint(w, "set example:\n\n")
	set := hashset.New[int](hashset.WithPolicy(d.policy))
	for i := 0; i < d.count; i++ {
		set.Add(2 * i)
		fmt.Fprintf(w, "add %d\n", 2*i)
	}
	fmt.Fprintln(w)

	for i := 0; i < 2*d.count; i++ {
		if set.Contains(i) {
			fmt.Fprintf(w, "set contains %d\n", i)
		} else {
			fmt.Fprintf(w, "set doesn't contain %d\n", i)
		}
	}
	fmt.Fprintln(w)
	d.logger.Debug("set stats",
		zap.Int("len", set.Len()),
		zap.Int("capacity", set.Capacity()),
		zap.Float64("loadFactor", set.LoadFactor()))

	fmt.Fprintln(w, "set example end")
}

func (d *demo) queueExample(w io.Writer) {
	fmt.Fprint(w, "rand queue example:\n\n")
	var opts []randqueue.Option
	if d.rnd != nil {
		opts = append(opts, randqueue.WithRand(d.rnd))
	}
	q := randqueue.New[int](opts...)
	for i := 0; i < d.count; i++ {
		q.Enqueue(2 * i)
		fmt.Fprintf(w, "enqueue %d\n", 2*i)
	}
	fmt.Fprintln(w)

	for _, run := range []string{"first", "second"} {
		fmt.Fprintf(w, "%s iterator runs: \n", run)
		q.Range(func(item int) bool {
			fmt.Fprintf(w, "%d ", item)
			return true
		})
		fmt.Fprint(w, "\n\n")
	}
	d.logger.Debug("queue stats", zap.Int("len", q.Len()))

	fmt.Fprintln(w, "rand queue example end")
}
