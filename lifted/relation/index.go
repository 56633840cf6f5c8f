package relation

import (
	"sync"

	"github.com/google/btree"
)

// btreeDegree matches the node fan-out used for all relation indexes.
const btreeDegree = 32

// Index is a sorted multi-index over record references: a B-tree
// ordered by the lexicographic comparator its Order induces. Records
// equal on every ordered column are equal keys, so the owning relation
// must guarantee at most one record per tuple identity (it does, via
// merge-on-duplicate).
//
// An index created by a relation shares that relation's lock: every
// traversal (Find, Exists, Range, Scan, Size) takes the read side, so
// probing a handed-out index never overlaps an in-flight insertion.
// Mutations (Insert, InsertAll, Purge) take no lock themselves; they
// are only ever called under the relation's write lock.
type Index struct {
	order Order
	mu    *sync.RWMutex // owning relation's lock, nil for a standalone index
	set   *btree.BTreeG[*Record]
}

// NewIndex creates an empty standalone index sorted by the given order.
func NewIndex(order Order) *Index {
	idx := &Index{order: order}
	idx.set = btree.NewG[*Record](btreeDegree, func(a, b *Record) bool {
		return idx.compare(a, b) < 0
	})
	return idx
}

// Order returns the column order the index is sorted by.
func (idx *Index) Order() Order {
	return idx.order
}

// compare applies the lexicographic comparison over the ordered columns.
func (idx *Index) compare(x, y *Record) int {
	for i := 0; i < idx.order.Size(); i++ {
		col := idx.order.Column(i)
		if x.Fields[col] < y.Fields[col] {
			return -1
		}
		if x.Fields[col] > y.Fields[col] {
			return 1
		}
	}
	return 0
}

func (idx *Index) rlock() {
	if idx.mu != nil {
		idx.mu.RLock()
	}
}

func (idx *Index) runlock() {
	if idx.mu != nil {
		idx.mu.RUnlock()
	}
}

// Insert adds a record to the index. The record must not already be
// present under its tuple identity. Called under the owning relation's
// write lock.
func (idx *Index) Insert(rec *Record) {
	idx.set.ReplaceOrInsert(rec)
}

// InsertAll bulk-loads records, used when an index is created over an
// already populated relation. Called under the owning relation's write
// lock.
func (idx *Index) InsertAll(recs []*Record) {
	for _, rec := range recs {
		idx.set.ReplaceOrInsert(rec)
	}
}

// Find returns the stored record matching rec on every ordered column.
func (idx *Index) Find(rec *Record) (*Record, bool) {
	idx.rlock()
	defer idx.runlock()
	return idx.find(rec)
}

// find is the lock-free lookup used by the relation's writer, which
// already holds the write side.
func (idx *Index) find(rec *Record) (*Record, bool) {
	return idx.set.Get(rec)
}

// Exists reports whether a record with rec's ordered key is present.
func (idx *Index) Exists(rec *Record) bool {
	idx.rlock()
	defer idx.runlock()
	return idx.set.Has(rec)
}

// Size returns the number of records in the index.
func (idx *Index) Size() int {
	idx.rlock()
	defer idx.runlock()
	return idx.set.Len()
}

// Purge removes all records. Called under the owning relation's write
// lock.
func (idx *Index) Purge() {
	idx.set.Clear(false)
}

// Scan visits every record in index order until fn returns false. The
// callback runs under the relation's read lock and must not write to
// the owning relation.
func (idx *Index) Scan(fn func(*Record) bool) {
	idx.rlock()
	defer idx.runlock()
	idx.set.Ascend(fn)
}

// Range returns the records in [lowerBound(low), upperBound(high)).
// The bounds are probe records whose ordered-key prefix delimits the
// range; suffix columns are don't-cares filled with the domain extrema.
// A reversed range (high < low) is empty. The walk runs under the
// relation's read lock; the returned iterator is a materialized
// snapshot.
func (idx *Index) Range(low, high *Record) Iterator {
	idx.rlock()
	defer idx.runlock()
	var recs []*Record
	idx.set.AscendGreaterOrEqual(low, func(r *Record) bool {
		if idx.compare(high, r) < 0 {
			return false
		}
		recs = append(recs, r)
		return true
	})
	return NewSliceIterator(recs)
}

// EqualRange returns the records whose ordered key equals rec's.
func (idx *Index) EqualRange(rec *Record) Iterator {
	return idx.Range(rec, rec)
}
