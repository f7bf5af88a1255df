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
	"math/rand"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GGXXLL/containers/collection/hashset"
	"github.com/GGXXLL/containers/collection/randqueue"
	"github.com/GGXXLL/containers/internal/log"
)

type config struct {
	count   int
	probing string
	seed    int64
	verbose bool
}

func newRootCmd() *cobra.Command {
	cfg := &config{}
	cmd := &cobra.Command{
		Use:           "containers-demo",
		Short:         "Print sample operations on a hash set and a randomized queue",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := log.New(cfg.verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck
			d, err := newDemo(cfg, logger)
			if err != nil {
				return err
			}
			d.run(cmd.OutOrStdout())
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&cfg.count, "count", "n", 5, "number of values to insert and enqueue")
	flags.StringVar(&cfg.probing, "probing", "linear", "collision policy of the set: linear or quadratic")
	flags.Int64Var(&cfg.seed, "seed", 0, "seed for the queue; 0 picks a random order every run")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "log container statistics")
	return cmd
}

type demo struct {
	count  int
	policy hashset.Policy
	rnd    randqueue.Rand
	logger *zap.Logger
}

func newDemo(cfg *config, logger *zap.Logger) (*demo, error) {
	if cfg.count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", cfg.count)
	}
	d := &demo{count: cfg.count, logger: logger}
	switch cfg.probing {
	case "linear":
		d.policy = hashset.Linear{}
	case "quadratic":
		d.policy = hashset.Quadratic{}
	default:
		return nil, fmt.Errorf("unknown probing %q, want linear or quadratic", cfg.probing)
	}
	if cfg.seed != 0 {
		d.rnd = rand.New(rand.NewSource(cfg.seed))
	}
	return d, nil
}
