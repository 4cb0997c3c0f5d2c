package daencode

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// imply returns a literal equivalent to (x implies y). Gini's *logic.C
// performs structural hashing and Tseitin naming internally, so unlike the
// Python original's hand-rolled pysat_if/pysat_or/pysat_and, there is no
// separate "return the clauses" step: the returned literal already names
// the sub-formula, and callers assert it by conjoining it into the
// top-level formula literal (see Encode in encoder.go).
func imply(c *logic.C, x, y z.Lit) z.Lit {
	return c.Implies(x, y)
}

// atLeastOne returns a literal equivalent to the disjunction of xs.
func atLeastOne(c *logic.C, xs []z.Lit) z.Lit {
	return c.Ors(xs...)
}

// exactlyOne returns a literal equivalent to "exactly one of xs is true",
// composing an at-most-one sorting network (its fresh variables come from
// lm's shared circuit, so they can never collide with manager-allocated
// IDs) with atLeastOne.
func exactlyOne(lm *LiteralManager, xs []z.Lit) z.Lit {
	c := lm.Circuit()
	cs := c.CardSort(xs)
	return c.And(cs.Leq(1), atLeastOne(c, xs))
}
