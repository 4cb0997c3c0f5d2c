// Package dasolve drives a gini solver over an encoded double-array layout
// problem, in either feasibility or cardinality-minimizing mode, and
// decodes a satisfying model back into base/check arrays.
package dasolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/sirupsen/logrus"

	"github.com/koeppl/yasco-da/pkg/daencode"
	"github.com/koeppl/yasco-da/pkg/trie"
)

// Mode selects between plain feasibility and minimizing the number of used
// slots.
type Mode int

const (
	// Feasibility asks only whether a layout of size N exists.
	Feasibility Mode = iota
	// Minimize asks for a layout of size N using as few slots as possible.
	Minimize
)

var (
	// ErrUnsat is returned when no layout exists at the requested size.
	ErrUnsat = errors.New("dasolve: unsatisfiable")
	// ErrTimeout is returned when the solver does not finish before ctx's
	// deadline.
	ErrTimeout = errors.New("dasolve: solver timed out")
	// ErrSlotConflict indicates a decode-time invariant violation: two
	// edges claimed the same slot. This signals an encoder bug, not a bad
	// input.
	ErrSlotConflict = errors.New("dasolve: slot already occupied")
	// ErrModelExtractionFailed indicates an expected literal was absent
	// from a model that gini reported as satisfying.
	ErrModelExtractionFailed = errors.New("dasolve: expected literal missing from model")
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// Result is a decoded double array. A nil entry means the slot is
// unreserved.
type Result struct {
	Base  []*int
	Check []*int
}

// Solve encodes mat at array size n and invokes gini in the requested
// mode, returning the decoded double array. If ctx carries a deadline and
// the solver has not produced a result by then, Solve returns ErrTimeout.
func Solve(ctx context.Context, mat *trie.Matrix, n int, mode Mode, log *logrus.Logger) (*Result, error) {
	if log == nil {
		log = logrus.New()
	}

	enc, err := daencode.Encode(mat, n)
	if err != nil {
		return nil, err
	}
	lm := enc.Manager
	log.WithFields(logrus.Fields{
		"n_arr":    n,
		"n_nodes":  mat.N(),
		"literals": lm.Top(),
	}).Info("registered constraints")

	g := gini.New()
	lm.Circuit().ToCnfFrom(g, enc.Top)
	g.Add(enc.Top)
	g.Add(0)

	var outcome int
	switch mode {
	case Feasibility:
		outcome, err = solveOutcome(ctx, g)
	case Minimize:
		outcome, err = minimize(ctx, g, lm, n, log)
	default:
		return nil, fmt.Errorf("dasolve: unknown mode %d", mode)
	}
	if err != nil {
		return nil, err
	}
	if outcome == unsatisfiable {
		return nil, ErrUnsat
	}

	return decode(lm, mat, n, g)
}

// solveOutcome runs a single Solve(), bounded by ctx's deadline if any,
// using gini's own Try(duration) rather than a cancellation goroutine, so
// the underlying solver releases its own resources on timeout.
func solveOutcome(ctx context.Context, g *gini.Gini) (int, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return g.Solve(), nil
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 0, ErrTimeout
	}
	res := g.Try(remaining)
	if res == 0 {
		return 0, ErrTimeout
	}
	return res, nil
}

// minimize finds a model minimizing the number of true used(p) literals.
// This is gini's idiomatic substitute for a standalone MaxSAT engine: a
// sorting-network cardinality constraint over the objective's literals,
// with the bound raised linearly from 0 until the first satisfiable one,
// mirroring the
// teacher's CardinalityConstrainer-driven search
// (operator-lifecycle-manager's solver.solve).
func minimize(ctx context.Context, g *gini.Gini, lm *daencode.LiteralManager, n int, log *logrus.Logger) (int, error) {
	usedLits := make([]z.Lit, n)
	for p := 0; p < n; p++ {
		m, err := lm.ID(daencode.UsedKey(p))
		if err != nil {
			return 0, err
		}
		usedLits[p] = m
	}
	cs := lm.CardinalityConstrainer(g, usedLits)

	for w := 0; w <= cs.N(); w++ {
		g.Assume(cs.Leq(w))
		outcome, err := solveOutcome(ctx, g)
		if err != nil {
			return 0, err
		}
		if outcome == satisfiable {
			log.WithField("used_slots", w).Info("minimize converged")
			return satisfiable, nil
		}
	}
	return unsatisfiable, nil
}

// decode reconstructs base/check arrays from a satisfying model, per
// SPEC_FULL.md §4.4. nid2base is read directly off the model; the array
// index of each node is then built by a single pass over mat's base-bearing
// nodes, which must appear in parent-before-child order (true of any trie
// matrix produced by a standard BFS/DFS build).
func decode(lm *daencode.LiteralManager, mat *trie.Matrix, n int, model interface{ Value(z.Lit) bool }) (*Result, error) {
	baseNodes := mat.BaseNodes()

	nid2base := make(map[int]int, len(baseNodes))
	for _, u := range baseNodes {
		maxChar := int(mat.MaxChar(u))
		found := false
		for p := 0; p < n-maxChar; p++ {
			m, err := lm.ID(daencode.BaseKey(u, p))
			if err != nil {
				return nil, err
			}
			if model.Value(m) {
				nid2base[u] = p
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: base(%d,*)", ErrModelExtractionFailed, u)
		}
	}

	barr := make([]*int, n)
	carr := make([]*int, n)
	nid2idx := map[int]int{0: 0}

	for _, u := range baseNodes {
		parIdx, ok := nid2idx[u]
		if !ok {
			return nil, fmt.Errorf("dasolve: node %d has no assigned array index; trie matrix must order parents before children", u)
		}
		base := nid2base[u]
		b := base
		barr[parIdx] = &b
		for _, e := range mat.Nodes[u] {
			slot := base + int(e.Label)
			if barr[slot] != nil || carr[slot] != nil {
				return nil, fmt.Errorf("%w: slot %d", ErrSlotConflict, slot)
			}
			idx := parIdx
			carr[slot] = &idx
			nid2idx[e.Child] = slot
		}
	}

	return &Result{Base: barr, Check: carr}, nil
}
