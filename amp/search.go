package amp

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/hexaflex/intcode/asm"
	"github.com/hexaflex/intcode/devices"
)

// Result describes the outcome of a search.
type Result struct {
	Signal    int64            // Largest terminal signal found.
	Phases    []int64          // Permutation that produced Signal.
	Stages    []Stage          // Per-amplifier report for Phases.
	Evaluated int              // Permutations run.
	Failed    int              // Permutations that failed under SkipFailed.
	Errors    devices.ErrorSet // Failures, in permutation order.
}

// DefaultPhases returns the conventional phase settings: 0 through 4, or
// 5 through 9 for feedback networks.
func DefaultPhases(feedback bool) []int64 {
	if feedback {
		return []int64{5, 6, 7, 8, 9}
	}
	return []int64{0, 1, 2, 3, 4}
}

// Search runs the network once for every permutation of phases and returns
// the largest terminal signal. Ties go to the permutation that comes first
// in lexicographic order, regardless of parallelism.
func Search(ctx context.Context, program []int64, phases []int64, feedback bool, opts ...Option) (*Result, error) {
	if err := validatePhases(phases); err != nil {
		return nil, err
	}

	net := NewNetwork(program, feedback, opts...)
	log := net.logger.With("feedback", feedback)

	var (
		mu       sync.Mutex
		res      Result
		best     = -1
		failures = make(map[int]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(net.parallelism)

	permutations(phases, func(index int, p []int64) bool {
		if gctx.Err() != nil {
			return false
		}

		order := slices.Clone(p)
		g.Go(func() error {
			stages, err := net.Stages(gctx, order)

			mu.Lock()
			defer mu.Unlock()
			res.Evaluated++

			if err != nil {
				err = errors.Wrapf(err, "phases %v", order)
				if net.policy == AbortOnError {
					return err
				}
				log.Warn("permutation failed", "phases", order, "err", err)
				failures[index] = err
				res.Failed++
				return nil
			}

			signal := stages[len(stages)-1].Output
			log.Debug("permutation", "phases", order, "signal", signal)

			if best < 0 || signal > res.Signal || (signal == res.Signal && index < best) {
				best = index
				res.Signal = signal
				res.Phases = order
				res.Stages = stages
			}
			return nil
		})
		return true
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := make([]int, 0, len(failures))
	for k := range failures {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		res.Errors.Append(failures[k])
	}

	if best < 0 {
		return &res, errors.Wrapf(res.Errors, "all %d permutations failed", res.Failed)
	}

	log.Info("search complete",
		"signal", res.Signal,
		"phases", res.Phases,
		"evaluated", res.Evaluated,
		"failed", res.Failed)
	return &res, nil
}

// MaxSignal parses program text and returns the largest terminal signal over
// every permutation of phases.
func MaxSignal(ctx context.Context, text string, phases []int64, feedback bool, opts ...Option) (int64, error) {
	program, err := asm.Parse(text)
	if err != nil {
		return 0, err
	}

	res, err := Search(ctx, program, phases, feedback, opts...)
	if err != nil {
		return 0, err
	}
	return res.Signal, nil
}

// validatePhases requires a non-empty set of distinct values.
func validatePhases(phases []int64) error {
	if len(phases) == 0 {
		return errors.Wrap(ErrInvalidPhases, "empty set")
	}

	sorted := slices.Clone(phases)
	slices.Sort(sorted)
	if len(slices.Compact(sorted)) != len(phases) {
		return errors.Wrapf(ErrInvalidPhases, "duplicate values in %v", phases)
	}
	return nil
}
