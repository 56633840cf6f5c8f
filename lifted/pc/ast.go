package pc

import (
	"fmt"

	"github.com/dalzilio/rudd"
)

// BinOp is the connective of a binary formula node
type BinOp int

const (
	OpAnd BinOp = iota
	OpOr
)

// Formula is the abstract syntax of a presence-condition expression.
// It exists only long enough to be canonicalised into a BDD; the engine
// works with interned PresenceCondition handles.
type Formula interface {
	fmt.Stringer

	// toBDD builds the canonical BDD for the formula. The caller holds
	// the universe lock.
	toBDD(u *Universe) rudd.Node
}

// Primitive is the constant True or False
type Primitive struct {
	Value bool
}

func (p *Primitive) String() string {
	if p.Value {
		return "True"
	}
	return "False"
}

func (p *Primitive) toBDD(u *Universe) rudd.Node {
	return u.bdd.From(p.Value)
}

// Feature is a single feature variable
type Feature struct {
	Name string
	Var  int // index in the universe's feature table
}

func (f *Feature) String() string {
	return f.Name
}

func (f *Feature) toBDD(u *Universe) rudd.Node {
	return u.bdd.Ithvar(f.Var)
}

// Neg is the negation of a sub-formula
type Neg struct {
	Sub Formula
}

func (n *Neg) String() string {
	return "!" + n.Sub.String()
}

func (n *Neg) toBDD(u *Universe) rudd.Node {
	return u.bdd.Not(n.Sub.toBDD(u))
}

// Bin is a conjunction or disjunction of two sub-formulas
type Bin struct {
	Op       BinOp
	Lhs, Rhs Formula
}

func (b *Bin) String() string {
	op := " /\\ "
	if b.Op == OpOr {
		op = " \\/ "
	}
	return "(" + b.Lhs.String() + op + b.Rhs.String() + ")"
}

func (b *Bin) toBDD(u *Universe) rudd.Node {
	if b.Op == OpAnd {
		return u.bdd.And(b.Lhs.toBDD(u), b.Rhs.toBDD(u))
	}
	return u.bdd.Or(b.Lhs.toBDD(u), b.Rhs.toBDD(u))
}
