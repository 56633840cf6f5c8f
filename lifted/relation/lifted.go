package relation

import (
	"fmt"
	"sync"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
)

// LiftedRelation partitions a relation by presence condition: a mapping
// from interned condition handles to ordinary relations. It is the
// per-configuration view of the same mathematical object a merged
// relation summarises by disjunction; preferred when downstream
// consumers iterate one configuration at a time.
type LiftedRelation struct {
	arity int

	mu    sync.Mutex
	parts map[*pc.PresenceCondition]*Relation
	keys  []*pc.PresenceCondition // insertion order, for deterministic iteration
}

// Partition is one non-empty sub-relation and the condition it holds
// under.
type Partition struct {
	PC  *pc.PresenceCondition
	Rel *Relation
}

// RangeProbe is the answer of a range query against one partition.
type RangeProbe struct {
	PC      *pc.PresenceCondition
	Records Iterator
}

// NewLifted creates an empty lifted relation of the given arity.
func NewLifted(arity int) *LiftedRelation {
	return &LiftedRelation{
		arity: arity,
		parts: make(map[*pc.PresenceCondition]*Relation),
	}
}

// Arity returns the column count.
func (l *LiftedRelation) Arity() int {
	return l.arity
}

// Insert routes a tuple to the partition of its condition, constructing
// the partition on first use. Unsatisfiable conditions are dropped.
func (l *LiftedRelation) Insert(fields []lifted.Val, cond *pc.PresenceCondition) {
	if cond == nil {
		panic("nil presence condition")
	}
	if len(fields) != l.arity {
		panic(fmt.Sprintf("tuple arity %d does not match relation arity %d", len(fields), l.arity))
	}
	if !cond.SAT() {
		return
	}
	l.partition(cond).Insert(fields, cond)
}

// partition returns the sub-relation for a condition, creating it on
// first use.
func (l *LiftedRelation) partition(cond *pc.PresenceCondition) *Relation {
	l.mu.Lock()
	defer l.mu.Unlock()
	rel, ok := l.parts[cond]
	if !ok {
		rel = New(l.arity)
		l.parts[cond] = rel
		l.keys = append(l.keys, cond)
	}
	return rel
}

// Size returns the total tuple count across all partitions.
func (l *LiftedRelation) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, rel := range l.parts {
		n += rel.Size()
	}
	return n
}

// Empty reports whether no partition holds a tuple.
func (l *LiftedRelation) Empty() bool {
	return l.Size() == 0
}

// Partitions returns the non-empty sub-relations in creation order.
func (l *LiftedRelation) Partitions() []Partition {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Partition
	for _, cond := range l.keys {
		if rel := l.parts[cond]; !rel.Empty() {
			out = append(out, Partition{PC: cond, Rel: rel})
		}
	}
	return out
}

// Iterate walks every partition's records in partition creation order.
func (l *LiftedRelation) Iterate() Iterator {
	var parts []Iterator
	for _, p := range l.Partitions() {
		parts = append(parts, p.Rel.Iterate())
	}
	return NewConcatIterator(parts...)
}

// EqualRange answers a range probe per configuration: one entry per
// non-empty partition whose index matches the query, letting the caller
// iterate each configuration without post-filtering.
func (l *LiftedRelation) EqualRange(key lifted.SearchColumns, values []lifted.Val) []RangeProbe {
	var out []RangeProbe
	for _, p := range l.Partitions() {
		it := p.Rel.EqualRange(key, values)
		if !it.Next() {
			continue
		}
		// re-run the probe so the caller sees the full range
		out = append(out, RangeProbe{PC: p.PC, Records: p.Rel.EqualRange(key, values)})
	}
	return out
}

// Purge empties every partition and forgets the partition keys.
func (l *LiftedRelation) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rel := range l.parts {
		rel.Purge()
	}
	l.parts = make(map[*pc.PresenceCondition]*Relation)
	l.keys = nil
}
