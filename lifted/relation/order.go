package relation

import (
	"strconv"
	"strings"

	"github.com/liftdl/lifted-datalog/lifted"
)

// Order describes the sorting order of tuples within an index: a
// sequence of distinct column indices defining a lexicographic
// comparison.
type Order struct {
	columns []uint8
}

// NewOrder creates an order over the given columns.
func NewOrder(cols ...int) Order {
	var o Order
	for _, c := range cols {
		o.Append(c)
	}
	return o
}

// OrderForSearch decodes a column mask into an order over the
// participating columns (ascending) and the suffix of excluded columns
// (ascending) needed to complete it.
func OrderForSearch(key lifted.SearchColumns, arity int) (Order, []int) {
	var order Order
	var suffix []int
	for i := 0; i < arity; i++ {
		if key.Covers(i) {
			order.Append(i)
		} else {
			suffix = append(suffix, i)
		}
	}
	return order, suffix
}

// Append adds a column to the end of the order. Appending a column the
// order already covers is a programming error.
func (o *Order) Append(col int) {
	if o.Covers(col) {
		panic("order already covers column " + strconv.Itoa(col))
	}
	o.columns = append(o.columns, uint8(col))
}

// Column returns the column at position i of the order.
func (o Order) Column(i int) int {
	return int(o.columns[i])
}

// Size returns the number of columns in the order.
func (o Order) Size() int {
	return len(o.columns)
}

// Covers reports whether the order contains the given column.
func (o Order) Covers(col int) bool {
	for _, c := range o.columns {
		if int(c) == col {
			return true
		}
	}
	return false
}

// IsComplete reports whether the order covers the columns 0..size-1.
func (o Order) IsComplete() bool {
	for i := range o.columns {
		if !o.Covers(i) {
			return false
		}
	}
	return true
}

// IsPrefixOf reports whether this order is a column-wise prefix of the
// other.
func (o Order) IsPrefixOf(other Order) bool {
	if len(o.columns) > len(other.columns) {
		return false
	}
	for i := range o.columns {
		if o.columns[i] != other.columns[i] {
			return false
		}
	}
	return true
}

// IsCompatible reports whether the first |o| columns of the other order
// are a permutation of this one. A range probe on o's columns can then
// be answered by seeking on the other order.
func (o Order) IsCompatible(other Order) bool {
	if len(o.columns) > len(other.columns) {
		return false
	}
	for i := range o.columns {
		if !o.Covers(int(other.columns[i])) {
			return false
		}
	}
	return true
}

// Less orders orders lexicographically on their column vectors, for use
// as a map key.
func (o Order) Less(other Order) bool {
	n := len(o.columns)
	if len(other.columns) < n {
		n = len(other.columns)
	}
	for i := 0; i < n; i++ {
		if o.columns[i] != other.columns[i] {
			return o.columns[i] < other.columns[i]
		}
	}
	return len(o.columns) < len(other.columns)
}

// Key returns a compact map key for the order.
func (o Order) Key() string {
	return string(o.columns)
}

// String renders the order as "[c0,c1,...]".
func (o Order) String() string {
	parts := make([]string, len(o.columns))
	for i, c := range o.columns {
		parts[i] = strconv.Itoa(int(c))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
