// Package streams defines the boundary contract for ingesting and
// emitting tuples with presence conditions, plus the built-in file and
// BadgerDB backends. Concrete stream implementations are selected by
// the "IO" directive name through the factory registry.
package streams

import (
	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
	"github.com/liftdl/lifted-datalog/lifted/relation"
)

// Inserter is the slice of a relation a read stream needs: base
// relations, equivalence relations and lifted relations all satisfy it.
type Inserter interface {
	Arity() int
	Insert(fields []lifted.Val, cond *pc.PresenceCondition)
}

// Source is the slice of a relation a write stream needs.
type Source interface {
	Arity() int
	Size() int
	Iterate() relation.Iterator
	NullaryPC() *pc.PresenceCondition
}

// ReadStream produces (fields, pc) tuples and feeds them to a relation.
// Streams are single-pass.
type ReadStream interface {
	// ReadAll inserts every tuple the stream yields. Tuples with
	// malformed presence conditions are diagnosed and skipped.
	ReadAll(rel Inserter) error

	// Close releases the underlying resource
	Close() error
}

// WriteStream enumerates a relation's records and emits each one.
// Streams are single-pass.
type WriteStream interface {
	// WriteAll emits every record; nullary relations go through the
	// nullary path.
	WriteAll(rel Source) error

	// Close flushes and releases the underlying resource
	Close() error
}

// IODirectives carries the key/value options that select and configure
// a concrete stream, e.g. IO, filename, delimiter.
type IODirectives map[string]string

// Get returns a directive value.
func (d IODirectives) Get(name string) (string, bool) {
	v, ok := d[name]
	return v, ok
}

// GetOr returns a directive value or a default.
func (d IODirectives) GetOr(name, def string) string {
	if v, ok := d[name]; ok {
		return v
	}
	return def
}

// Has reports whether a directive is present.
func (d IODirectives) Has(name string) bool {
	_, ok := d[name]
	return ok
}

// SymbolMask marks which columns of a relation hold symbol ids that
// must be resolved through the symbol table on IO.
type SymbolMask struct {
	symbolic []bool
}

// NewSymbolMask creates a mask of the given arity with the listed
// columns marked symbolic.
func NewSymbolMask(arity int, symbolicCols ...int) SymbolMask {
	m := SymbolMask{symbolic: make([]bool, arity)}
	for _, c := range symbolicCols {
		m.symbolic[c] = true
	}
	return m
}

// Arity returns the column count of the mask.
func (m SymbolMask) Arity() int {
	return len(m.symbolic)
}

// IsSymbol reports whether column i holds a symbol id.
func (m SymbolMask) IsSymbol(i int) bool {
	return m.symbolic[i]
}
