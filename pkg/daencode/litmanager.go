package daencode

import (
	"errors"
	"fmt"

	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// ErrDuplicateKey is returned by NewID when a key has already been bound to
// a variable.
var ErrDuplicateKey = errors.New("daencode: duplicate key")

// ErrUnknownKey is returned by ID when a key has not been bound to a
// variable.
var ErrUnknownKey = errors.New("daencode: unknown key")

// LiteralManager is a keyed allocator mapping structured Keys to gini
// variables (z.Lit), with CNF combinators layered on top of the embedded
// circuit. It owns gini's variable pool for the lifetime of a single
// encode+solve invocation; no variable is ever released mid-run.
type LiteralManager struct {
	c      *logic.C
	lits   map[Key]z.Lit
	keys   map[z.Lit]Key
	nextAux int
}

// NewLiteralManager returns an empty LiteralManager with capacity hint
// capHint for the underlying circuit.
func NewLiteralManager(capHint int) *LiteralManager {
	return &LiteralManager{
		c:    logic.NewCCap(capHint),
		lits: make(map[Key]z.Lit, capHint),
		keys: make(map[z.Lit]Key, capHint),
	}
}

// Circuit returns the underlying combinational circuit builder, needed by
// combinators and by CardinalityConstrainer.
func (lm *LiteralManager) Circuit() *logic.C {
	return lm.c
}

// NewID allocates a fresh variable for key and returns its positive
// literal. It fails with ErrDuplicateKey if key is already bound.
func (lm *LiteralManager) NewID(key Key) (z.Lit, error) {
	if _, ok := lm.lits[key]; ok {
		return z.LitNull, fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	m := lm.c.Lit()
	lm.lits[key] = m
	lm.keys[m] = key
	return m, nil
}

// ID returns the literal bound to key. It fails with ErrUnknownKey if key
// has not been allocated.
func (lm *LiteralManager) ID(key Key) (z.Lit, error) {
	m, ok := lm.lits[key]
	if !ok {
		return z.LitNull, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return m, nil
}

// Has reports whether key has been allocated.
func (lm *LiteralManager) Has(key Key) bool {
	_, ok := lm.lits[key]
	return ok
}

// KeyOf returns the Key bound to literal m, or false if none exists.
func (lm *LiteralManager) KeyOf(m z.Lit) (Key, bool) {
	k, ok := lm.keys[m]
	return k, ok
}

// Top returns the largest variable index allocated so far.
func (lm *LiteralManager) Top() int {
	return lm.c.Len()
}

// NewAux allocates an anonymous auxiliary variable with category
// CategoryAux and a monotonically increasing index.
func (lm *LiteralManager) NewAux() z.Lit {
	key := Key{Category: CategoryAux, Aux: lm.nextAux}
	lm.nextAux++
	m, err := lm.NewID(key)
	if err != nil {
		// nextAux is private and monotonically increasing, so this key
		// can never already be bound.
		panic(err)
	}
	return m
}

// CardinalityConstrainer constructs a sorting network over ms and teaches
// its encoding to g (a panic results if called under a gini test scope).
// This is the package's delegation point to the cardinality library, per
// SPEC_FULL.md's literal-manager design: the sorting network's own fresh
// variables are allocated from the same circuit as every other variable in
// lm, so they can never collide with manager-allocated IDs.
func (lm *LiteralManager) CardinalityConstrainer(g inter.Adder, ms []z.Lit) *logic.CardSort {
	clen := lm.c.Len()
	cs := lm.c.CardSort(ms)
	marks := make([]int8, clen, lm.c.Len())
	for i := range marks {
		marks[i] = 1
	}
	for w := 0; w <= cs.N(); w++ {
		marks, _ = lm.c.CnfSince(g, marks, cs.Leq(w))
	}
	return cs
}
