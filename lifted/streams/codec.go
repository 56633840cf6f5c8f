package streams

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
	"github.com/liftdl/lifted-datalog/lifted/relation"
)

// nullaryMark is the field column emitted for tuples of arity 0.
const nullaryMark = "()"

// formatFields renders a tuple's columns, resolving symbolic columns
// through the symbol table.
func formatFields(fields []lifted.Val, mask SymbolMask, symtab *lifted.SymbolTable) []string {
	out := make([]string, len(fields))
	for i, v := range fields {
		if mask.IsSymbol(i) {
			if name, ok := symtab.Name(v); ok {
				out[i] = name
				continue
			}
		}
		out[i] = strconv.FormatInt(int64(v), 10)
	}
	return out
}

// formatRecord renders a record as one delimited line, the presence
// condition last in source syntax.
func formatRecord(rec *relation.Record, mask SymbolMask, symtab *lifted.SymbolTable, delim string) string {
	cols := formatFields(rec.Fields, mask, symtab)
	return strings.Join(cols, delim) + delim + rec.PC.String()
}

// formatNullary renders the nullary tuple with its merged condition.
func formatNullary(cond *pc.PresenceCondition, delim string) string {
	if cond == nil {
		return nullaryMark
	}
	return nullaryMark + delim + cond.String()
}

// parseLine decodes one delimited line into a tuple and its condition.
// A missing condition column means the tuple holds unconditionally. A
// malformed condition yields a nil condition with no error: the
// universe has already diagnosed it and the caller skips the tuple.
func parseLine(line string, arity int, mask SymbolMask, symtab *lifted.SymbolTable,
	u *pc.Universe, delim string) ([]lifted.Val, *pc.PresenceCondition, error) {

	parts := strings.Split(line, delim)
	if arity == 0 {
		if parts[0] != nullaryMark {
			return nil, nil, fmt.Errorf("expected %q for nullary tuple, found %q", nullaryMark, parts[0])
		}
		parts = parts[1:]
		if len(parts) == 0 {
			return nil, u.MakeTrue(), nil
		}
		cond, err := u.ParseText(strings.Join(parts, delim))
		if err != nil {
			return nil, nil, nil
		}
		return nil, cond, nil
	}

	if len(parts) < arity || len(parts) > arity+1 {
		return nil, nil, fmt.Errorf("expected %d columns, found %d", arity, len(parts))
	}

	fields := make([]lifted.Val, arity)
	for i := 0; i < arity; i++ {
		if mask.IsSymbol(i) {
			fields[i] = symtab.Intern(parts[i])
			continue
		}
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("column %d: %w", i, err)
		}
		fields[i] = lifted.Val(n)
	}

	if len(parts) == arity {
		return fields, u.MakeTrue(), nil
	}
	cond, err := u.ParseText(parts[arity])
	if err != nil {
		return nil, nil, nil
	}
	return fields, cond, nil
}
