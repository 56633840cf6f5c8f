package relation

import (
	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
)

// Record is an immutable tuple together with the presence condition
// under which it exists. Fields borrows directly from the owning
// relation's block store; the PC handle is shared with the intern table.
// A duplicate insert replaces the PC by disjunction, nothing else is
// ever mutated.
type Record struct {
	Arity  int
	Fields []lifted.Val
	PC     *pc.PresenceCondition
}

// Field returns the value in column i.
func (r *Record) Field(i int) lifted.Val {
	return r.Fields[i]
}
