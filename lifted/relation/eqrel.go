package relation

import (
	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
)

// Derived is a tuple generated by closure computation, together with
// the condition under which it is implied.
type Derived struct {
	Fields []lifted.Val
	PC     *pc.PresenceCondition
}

// Extend reports the knowledge implied by inserting a tuple. A plain
// relation implies nothing beyond the tuple itself.
func (r *Relation) Extend(fields []lifted.Val, cond *pc.PresenceCondition) []Derived {
	return []Derived{{Fields: append([]lifted.Val(nil), fields...), PC: cond}}
}

// EqRelation is a binary relation maintained under reflexive, symmetric
// and transitive closure. Inserting (a, b) also inserts (a, a), (a, b),
// (b, a), (b, b), and for every stored pair sharing an element with
// {a, b} whose condition is jointly satisfiable, the transitive pairs
// under the conjunction of both conditions. All generated pairs funnel
// through the ordinary insertion path, so duplicates merge their
// conditions as usual.
//
// Closure computation walks the stored records, so insertion is linear
// in the relation size. This is the naive baseline; a union-find keyed
// by presence condition could replace it without changing observable
// behaviour.
type EqRelation struct {
	*Relation
}

// NewEq creates an empty equivalence relation (always arity 2).
func NewEq() *EqRelation {
	return &EqRelation{Relation: New(2)}
}

// Insert adds a pair and closes the relation over it.
func (e *EqRelation) Insert(fields []lifted.Val, cond *pc.PresenceCondition) {
	for _, d := range e.Extend(fields, cond) {
		e.Relation.Insert(d.Fields, d.PC)
	}
}

// Extend computes the pairs implied by inserting (a, b) given the
// current contents, without modifying the relation.
func (e *EqRelation) Extend(fields []lifted.Val, cond *pc.PresenceCondition) []Derived {
	if cond == nil {
		panic("nil presence condition")
	}
	a, b := fields[0], fields[1]

	out := []Derived{
		{Fields: []lifted.Val{a, a}, PC: cond},
		{Fields: []lifted.Val{a, b}, PC: cond},
		{Fields: []lifted.Val{b, a}, PC: cond},
		{Fields: []lifted.Val{b, b}, PC: cond},
	}

	for _, rec := range e.Relation.Records() {
		x, y := rec.Fields[0], rec.Fields[1]
		if x != a && x != b && y != a && y != b {
			continue
		}
		if !cond.ConjSAT(rec.PC) {
			continue
		}
		joint := cond.Conjoin(rec.PC)
		out = append(out,
			Derived{Fields: []lifted.Val{x, a}, PC: joint},
			Derived{Fields: []lifted.Val{x, b}, PC: joint},
			Derived{Fields: []lifted.Val{y, a}, PC: joint},
			Derived{Fields: []lifted.Val{y, b}, PC: joint},
			Derived{Fields: []lifted.Val{a, x}, PC: joint},
			Derived{Fields: []lifted.Val{a, y}, PC: joint},
			Derived{Fields: []lifted.Val{b, x}, PC: joint},
			Derived{Fields: []lifted.Val{b, y}, PC: joint},
		)
	}
	return out
}

// ExtendWith inserts the pairs implied by every pair of another
// relation. The implied pairs are collected first, then inserted, so
// each is computed against this relation's contents before the call;
// pairs implied only by chaining two pairs of the other relation (such
// as (1, 3) from (1, 2) and (2, 3)) are not generated.
func (e *EqRelation) ExtendWith(other *Relation) {
	var all []Derived
	for _, rec := range other.Records() {
		all = append(all, e.Extend(rec.Fields, rec.PC)...)
	}
	for _, d := range all {
		e.Relation.Insert(d.Fields, d.PC)
	}
}
