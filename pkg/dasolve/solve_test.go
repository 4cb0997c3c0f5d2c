package dasolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/koeppl/yasco-da/pkg/daencode"
	"github.com/koeppl/yasco-da/pkg/trie"
)

func mat(nodes ...[]trie.Edge) *trie.Matrix {
	return &trie.Matrix{Nodes: nodes}
}

func deref(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func derefAll(ps []*int) []interface{} {
	out := make([]interface{}, len(ps))
	for i, p := range ps {
		out[i] = deref(p)
	}
	return out
}

// Scenario 1: trivial root-only trie.
func TestSolveRootOnly(t *testing.T) {
	m := mat(nil)
	res, err := Solve(context.Background(), m, 1, Feasibility, nil)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{0}, derefAll(res.Base))
	assert.Equal(t, []interface{}{nil}, derefAll(res.Check))
}

// Scenario 2: single edge.
func TestSolveSingleEdge(t *testing.T) {
	m := mat(
		[]trie.Edge{{Label: 1, Child: 1}},
		nil,
	)
	res, err := Solve(context.Background(), m, 2, Feasibility, nil)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{0, nil}, derefAll(res.Base))
	assert.Equal(t, []interface{}{nil, 0}, derefAll(res.Check))
}

// Scenario 3: two siblings, labels 1 and 2.
func TestSolveTwoSiblings(t *testing.T) {
	m := mat(
		[]trie.Edge{{Label: 1, Child: 1}, {Label: 2, Child: 2}},
		nil,
		nil,
	)
	res, err := Solve(context.Background(), m, 3, Feasibility, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, *res.Base[0])
	assert.Nil(t, res.Base[1])
	assert.Nil(t, res.Base[2])
	assert.Equal(t, 0, *res.Check[1])
	assert.Equal(t, 0, *res.Check[2])
	assert.Nil(t, res.Check[0])
}

// Scenario 4 (resolved, see DESIGN.md): N too small to give node 0 any
// valid base position is InvalidBound, not Unsat.
func TestSolveInvalidBoundNotUnsat(t *testing.T) {
	m := mat(
		[]trie.Edge{{Label: 1, Child: 1}, {Label: 2, Child: 2}},
		nil,
		nil,
	)
	_, err := Solve(context.Background(), m, 2, Feasibility, nil)
	assert.ErrorIs(t, err, daencode.ErrInvalidBound)
}

// A genuine SAT-level collision: N is large enough for node 0 to have a
// valid base position, but not large enough to fit both children from any
// of those positions.
func TestSolveUnsatGenuineCollision(t *testing.T) {
	m := mat(
		[]trie.Edge{{Label: 1, Child: 1}, {Label: 3, Child: 2}},
		nil,
		nil,
	)
	// maxChar=3, so valid base positions are p=0 only (0 <= p < 4-3=1).
	// Edges land at 0+1=1 and 0+3=3, which both fit in N=4 ... shrink N
	// further by disallowing room for the second child: N=3 leaves no
	// valid base position at all (InvalidBound), so instead force a
	// genuine collision using two internal nodes whose only valid base
	// positions collide.
	_ = m
	m2 := mat(
		[]trie.Edge{{Label: 1, Child: 1}},
		[]trie.Edge{{Label: 1, Child: 2}},
		nil,
	)
	// Root must sit at base 0 (I6). Node 1 is reachable only via check(0,1)
	// (root's edge), so node 1 occupies array index 1, but node 1 is also
	// internal and needs a base position in [0, N-1). With N=1 there is no
	// valid base position for node 1 at all, which is again InvalidBound;
	// pick N=2 so node 1 has exactly one candidate position (p=0), which
	// collides with the root's own reserved slot arithmetic once forced to
	// decode consistently -- Unsat is the correct outcome when no
	// consistent assignment exists given the fixed root anchor.
	_, err := Solve(context.Background(), m2, 2, Feasibility, nil)
	assert.ErrorIs(t, err, ErrUnsat)
}

// Scenario 5: chain of depth 2.
func TestSolveChainDepth2(t *testing.T) {
	m := mat(
		[]trie.Edge{{Label: 1, Child: 1}},
		[]trie.Edge{{Label: 1, Child: 2}},
		nil,
	)
	res, err := Solve(context.Background(), m, 3, Feasibility, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, *res.Base[0])
	assert.Equal(t, 1, *res.Base[1])
	assert.Equal(t, 0, *res.Check[1])
	assert.Equal(t, 1, *res.Check[2])
}

// Scenario 6: minimize mode. The literal base/check entries must be
// present only at slots 0, 1, 3 (see DESIGN.md for why "used" itself is
// not asserted here).
func TestSolveMinimize(t *testing.T) {
	m := mat(
		[]trie.Edge{{Label: 1, Child: 1}, {Label: 3, Child: 2}},
		nil,
		nil,
	)
	res, err := Solve(context.Background(), m, 5, Minimize, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, *res.Base[0])
	assert.Nil(t, res.Base[1])
	assert.Nil(t, res.Base[2])
	assert.Equal(t, 0, *res.Check[1])
	assert.Equal(t, 0, *res.Check[3])
	assert.Nil(t, res.Check[2])
	assert.Nil(t, res.Check[4])
	assert.Nil(t, res.Base[4])
}
