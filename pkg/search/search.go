// Package search finds the smallest double-array size that admits a
// feasible layout, by probing candidate sizes in parallel and narrowing a
// bracket around the smallest feasible one.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/koeppl/yasco-da/pkg/dafile"
	"github.com/koeppl/yasco-da/pkg/daencode"
	"github.com/koeppl/yasco-da/pkg/dasolve"
	"github.com/koeppl/yasco-da/pkg/trie"
)

// ErrNoFeasibleSize is returned when no probed size in [Lo, Hi) was found
// feasible. Hi itself is never probed.
var ErrNoFeasibleSize = errors.New("search: no feasible size in range")

// Options configures FindSmallest.
type Options struct {
	// Lo and Hi bound the search range; Hi itself must be known feasible
	// (it is never probed).
	Lo, Hi int
	// Workers bounds how many sizes are probed concurrently per round.
	Workers int
	// Timeout bounds each individual probe; zero means no per-probe
	// timeout.
	Timeout time.Duration
	// InputPath, if non-empty, is used to name a cache file per probed
	// size via dafile.CachePath, mirroring the original solver's
	// "<input>.sat-size=<N>.json" convention.
	InputPath string
}

type probeResult struct {
	size int
	ok   bool
	res  *dasolve.Result
}

// FindSmallest narrows [opts.Lo, opts.Hi] to the smallest array size
// admitting a feasible layout for mat, probing multiple candidate sizes
// concurrently per round (one errgroup barrier per round), per
// SPEC_FULL.md §4.5 (grounded on the original solver's calc_subopt2
// bracketing search). opts.Hi is assumed feasible and is never probed; if
// no probed size below it is feasible, FindSmallest returns
// ErrNoFeasibleSize, since no decoded layout is available for opts.Hi.
func FindSmallest(ctx context.Context, mat *trie.Matrix, opts Options, log *logrus.Logger) (int, *dasolve.Result, error) {
	if log == nil {
		log = logrus.New()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	ng, ok := opts.Lo-1, opts.Hi
	var best *dasolve.Result

	for ok-ng > 1 {
		step := (ok - ng) / (workers + 1)
		if step < 1 {
			step = 1
		}
		var sizes []int
		for x := 0; x < workers; x++ {
			y := ng + (x+1)*step
			if y < ok {
				sizes = append(sizes, y)
			}
		}
		if len(sizes) == 0 {
			break
		}
		log.WithFields(logrus.Fields{"ng": ng, "ok": ok, "sizes": sizes}).Info("probing round")

		results, err := probeAll(ctx, mat, sizes, opts, log)
		if err != nil {
			return 0, nil, err
		}
		sort.Slice(results, func(i, j int) bool { return results[i].size < results[j].size })

		var firstOK = -1
		for i, r := range results {
			if r.ok {
				firstOK = i
				break
			}
		}
		if firstOK == -1 {
			ng = sizes[len(sizes)-1]
			continue
		}
		ok = results[firstOK].size
		best = results[firstOK].res
		if firstOK > 0 {
			ng = results[firstOK-1].size
		}
	}

	if best == nil {
		return 0, nil, fmt.Errorf("%w: [%d,%d]", ErrNoFeasibleSize, opts.Lo, opts.Hi)
	}
	return ok, best, nil
}

// probeAll runs Solve for every candidate size concurrently. g.SetLimit
// caps in-flight probes at opts.Workers even though the caller already
// bounds len(sizes) to that same figure per round, matching the teacher's
// own defensive use of SetLimit alongside a bounded work list.
func probeAll(ctx context.Context, mat *trie.Matrix, sizes []int, opts Options, log *logrus.Logger) ([]probeResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	out := make([]probeResult, len(sizes))

	for i, size := range sizes {
		i, size := i, size
		g.Go(func() error {
			probeCtx := gctx
			var cancel context.CancelFunc
			if opts.Timeout > 0 {
				probeCtx, cancel = context.WithTimeout(gctx, opts.Timeout)
				defer cancel()
			}
			res, err := dasolve.Solve(probeCtx, mat, size, dasolve.Feasibility, log)
			switch {
			case err == nil:
				if werr := writeCache(opts, size, res); werr != nil {
					return werr
				}
				out[i] = probeResult{size: size, ok: true, res: res}
			case errors.Is(err, dasolve.ErrUnsat), errors.Is(err, dasolve.ErrTimeout), errors.Is(err, daencode.ErrInvalidBound):
				// A too-small candidate size is infeasible, not a search
				// error: probing the lower end of a bracket routinely
				// lands below some node's maxChar, which Encode rejects
				// before ever building a clause.
				out[i] = probeResult{size: size, ok: false}
			default:
				return fmt.Errorf("probe size %d: %w", size, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range out {
		if r.ok && r.res != nil {
			log.WithField("size", r.size).Debug("probe feasible")
		}
	}
	return out, nil
}

// writeCache persists a probed result for size under opts.InputPath's
// cache-naming convention, if InputPath is set. The files are only
// written; nothing in this package reads them back.
func writeCache(opts Options, size int, res *dasolve.Result) error {
	if opts.InputPath == "" {
		return nil
	}
	return dafile.WriteFile(dafile.CachePath(opts.InputPath, size), res)
}
