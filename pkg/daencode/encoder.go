package daencode

import (
	"errors"
	"fmt"

	"github.com/go-air/gini/z"

	"github.com/koeppl/yasco-da/pkg/trie"
)

// ErrInvalidBound is returned by Encode when n is too small to hold even a
// single node's children, or is non-positive.
var ErrInvalidBound = errors.New("daencode: invalid array size")

// Encoding is the output of Encode: a populated LiteralManager plus a
// single literal naming the conjunction of every clause emitted for the
// double-array layout problem. Asserting Top (and converting the
// manager's circuit to CNF) is equivalent to the distilled spec's "pass
// clauses to a CDCL solver".
type Encoding struct {
	Manager *LiteralManager
	Top     z.Lit
	Root    int
	N       int
}

// root is always node 0 per the trie matrix's data model.
const root = 0

// Encode builds the literal manager and full constraint circuit for the
// double-array layout problem over mat at candidate size n, per
// SPEC_FULL.md §4.3 (distilled spec §4.3, clauses E1-E6).
func Encode(mat *trie.Matrix, n int) (*Encoding, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidBound, n)
	}
	for _, u := range mat.InternalNodes() {
		if n <= int(mat.MaxChar(u)) {
			return nil, fmt.Errorf("%w: n=%d <= maxChar(%d)=%d", ErrInvalidBound, n, u, mat.MaxChar(u))
		}
	}

	nNodes := mat.N()
	lm := NewLiteralManager(nNodes * n / 4)
	c := lm.Circuit()

	// Allocation order is deterministic and reproducible, per §4.3:
	// 1. base(u,p) for every internal u. The root always gets a base
	// variable even if it has no children yet, since I6 fixes
	// base(root,0) true unconditionally (distilled-spec scenario 1: a
	// root-only trie still has a defined base[0]).
	internal := mat.BaseNodes()
	for _, u := range internal {
		maxChar := int(mat.MaxChar(u))
		for p := 0; p < n-maxChar; p++ {
			if _, err := lm.NewID(BaseKey(u, p)); err != nil {
				return nil, err
			}
		}
	}

	// 2. check(u,p) for every (u,p) in [0,nNodes)x[0,n).
	for u := 0; u < nNodes; u++ {
		for p := 0; p < n; p++ {
			if _, err := lm.NewID(CheckKey(u, p)); err != nil {
				return nil, err
			}
		}
	}

	// 3. used(p) for every p in [0,n).
	for p := 0; p < n; p++ {
		if _, err := lm.NewID(UsedKey(p)); err != nil {
			return nil, err
		}
	}

	var conjuncts []z.Lit

	// (E1) Base-to-check propagation. Per the resolved Open Question
	// (SPEC_FULL.md §11), the parent node u names the check slot: an edge
	// (c,v) from u means check(u, p+c), not check(v, p+c).
	for _, u := range internal {
		maxChar := int(mat.MaxChar(u))
		for p := 0; p < n-maxChar; p++ {
			baseLit, err := lm.ID(BaseKey(u, p))
			if err != nil {
				return nil, err
			}
			for _, e := range mat.Nodes[u] {
				checkLit, err := lm.ID(CheckKey(u, p+int(e.Label)))
				if err != nil {
					return nil, err
				}
				conjuncts = append(conjuncts, imply(c, baseLit, checkLit))
			}
		}
	}

	// (E2) Exactly-one base per internal node.
	for _, u := range internal {
		maxChar := int(mat.MaxChar(u))
		xs := make([]z.Lit, 0, n-maxChar)
		for p := 0; p < n-maxChar; p++ {
			m, err := lm.ID(BaseKey(u, p))
			if err != nil {
				return nil, err
			}
			xs = append(xs, m)
		}
		conjuncts = append(conjuncts, exactlyOne(lm, xs))
	}

	// (E3) Per-slot uniqueness: at most one check(u,p) true for each p.
	for p := 0; p < n; p++ {
		checks := make([]z.Lit, nNodes)
		for u := 0; u < nNodes; u++ {
			m, err := lm.ID(CheckKey(u, p))
			if err != nil {
				return nil, err
			}
			checks[u] = m
		}
		cs := c.CardSort(checks)
		conjuncts = append(conjuncts, cs.Leq(1))
	}

	// (E4) used-definition.
	for u := 0; u < nNodes; u++ {
		for p := 0; p < n; p++ {
			checkLit, err := lm.ID(CheckKey(u, p))
			if err != nil {
				return nil, err
			}
			usedLit, err := lm.ID(UsedKey(p))
			if err != nil {
				return nil, err
			}
			conjuncts = append(conjuncts, imply(c, checkLit, usedLit))
		}
	}

	// (E5) used-monotonicity.
	for p := 1; p < n; p++ {
		used0, err := lm.ID(UsedKey(p))
		if err != nil {
			return nil, err
		}
		used1, err := lm.ID(UsedKey(p - 1))
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, imply(c, used0, used1))
	}

	// (E6) root anchoring.
	rootBase, err := lm.ID(BaseKey(root, 0))
	if err != nil {
		return nil, fmt.Errorf("%w: root has no base(root,0) literal, is root internal for n=%d?", err, n)
	}
	conjuncts = append(conjuncts, rootBase)

	return &Encoding{
		Manager: lm,
		Top:     c.Ands(conjuncts...),
		Root:    root,
		N:       n,
	}, nil
}
