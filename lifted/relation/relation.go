package relation

import (
	"fmt"
	"sync"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
)

// blockSize is the number of domain words per storage block. Tuples are
// laid out contiguously inside a block and never straddle two.
const blockSize = 1024

// Relation is append-only tuple storage with lifted semantics: every
// tuple carries a presence condition, a duplicate insert merges the
// conditions by disjunction, and a tuple whose condition is
// unsatisfiable is never stored. Ordered indexes over the records are
// created lazily from column masks.
//
// A relation is the synchronisation unit: the single writer holds the
// write side of the relation's lock for the whole insertion, readers
// take the read side for the whole traversal. Indexes handed out by
// the GetIndex family share the same lock, so probing one never
// overlaps an in-flight write.
type Relation struct {
	arity int

	mu        sync.RWMutex
	blocks    [][]lifted.Val
	records   []*Record
	indexes   map[string]*Index
	indexList []*Index // creation order, scanned for compatibility
	total     *Index
	numTuples int
	nullaryPC *pc.PresenceCondition
}

// New creates an empty relation of the given arity.
func New(arity int) *Relation {
	if arity < 0 || arity > blockSize {
		panic(fmt.Sprintf("unsupported relation arity %d", arity))
	}
	return &Relation{
		arity:   arity,
		indexes: make(map[string]*Index),
	}
}

// Arity returns the column count of the relation.
func (r *Relation) Arity() int {
	return r.arity
}

// Size returns the number of contained tuples.
func (r *Relation) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.numTuples
}

// Empty reports whether the relation has no tuples.
func (r *Relation) Empty() bool {
	return r.Size() == 0
}

// Insert adds a tuple under the given presence condition. Inserting an
// unsatisfiable condition is a no-op; inserting a duplicate tuple
// replaces the stored record's condition with the disjunction of the
// old and new ones. Every existing index sees the new record before
// Insert returns.
func (r *Relation) Insert(fields []lifted.Val, cond *pc.PresenceCondition) {
	if cond == nil {
		panic("nil presence condition")
	}
	if len(fields) != r.arity {
		panic(fmt.Sprintf("tuple arity %d does not match relation arity %d", len(fields), r.arity))
	}
	if !cond.SAT() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.arity == 0 {
		r.numTuples = 1
		if r.nullaryPC == nil {
			r.nullaryPC = cond
		} else {
			r.nullaryPC = r.nullaryPC.Disjoin(cond)
		}
		return
	}

	total := r.totalLocked()
	if existing, ok := total.find(&Record{Arity: r.arity, Fields: fields}); ok {
		if existing.PC != cond {
			existing.PC = existing.PC.Disjoin(cond)
		}
		return
	}

	slot := r.allocLocked(fields)
	rec := &Record{Arity: r.arity, Fields: slot, PC: cond}
	r.records = append(r.records, rec)
	for _, idx := range r.indexList {
		idx.Insert(rec)
	}
	r.numTuples++
}

// allocLocked appends a tuple to the next free slot of the block store,
// growing it by one block when the previous block is full.
func (r *Relation) allocLocked(fields []lifted.Val) []lifted.Val {
	perBlock := blockSize / r.arity
	blockIndex := r.numTuples / perBlock
	tupleIndex := (r.numTuples % perBlock) * r.arity

	if blockIndex == len(r.blocks) {
		r.blocks = append(r.blocks, make([]lifted.Val, blockSize))
	}

	slot := r.blocks[blockIndex][tupleIndex : tupleIndex+r.arity : tupleIndex+r.arity]
	copy(slot, fields)
	return slot
}

// Merge inserts every tuple of another relation, funnelling through the
// duplicate-merge path so presence conditions union correctly. The
// other relation is read through its own locked accessors; it may have
// its own writer.
func (r *Relation) Merge(other *Relation) {
	if r.arity != other.arity {
		panic(fmt.Sprintf("cannot merge relation of arity %d into arity %d", other.arity, r.arity))
	}
	if r.arity == 0 {
		if cond := other.NullaryPC(); cond != nil {
			r.Insert(nil, cond)
		}
		return
	}
	for _, rec := range other.Records() {
		r.Insert(rec.Fields, rec.PC)
	}
}

// Purge clears the block store and every index, resetting the tuple
// count to zero. Outstanding records and iterators become invalid.
func (r *Relation) Purge() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks = nil
	r.records = nil
	for _, idx := range r.indexList {
		idx.Purge()
	}
	r.numTuples = 0
	r.nullaryPC = nil
}

// TotalSearch returns the column mask covering every column.
func (r *Relation) TotalSearch() lifted.SearchColumns {
	return lifted.TotalSearch(r.arity)
}

// GetIndex returns an index for the masked columns. The mask is decoded
// into a complete order (participating columns in ascending position,
// then the rest); an existing index with a compatible order is reused,
// otherwise a fresh index is built from the record list. All complete
// orders of one arity are compatible with each other, so once any index
// exists it is returned for every mask, and its order need not begin
// with the masked columns. The returned index shares this relation's
// lock, so its probe operations are safe against a concurrent writer.
func (r *Relation) GetIndex(key lifted.SearchColumns) *Index {
	order := r.searchOrder(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCompatibleLocked(order)
}

// GetIndexCached behaves like GetIndex but first tries a previously
// returned index: when the decoded order is still compatible with the
// cached index's order it is reused without touching the index map.
// This is the hot path for an evaluation loop probing the same relation
// repeatedly; the reused index still serialises its probes through the
// relation's lock.
func (r *Relation) GetIndexCached(key lifted.SearchColumns, cached *Index) *Index {
	if cached == nil {
		return r.GetIndex(key)
	}
	if r.searchOrder(key).IsCompatible(cached.Order()) {
		return cached
	}
	return r.GetIndex(key)
}

// GetIndexByOrder returns the index sorted by exactly the given order,
// creating it if absent.
func (r *Relation) GetIndexByOrder(order Order) *Index {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.indexes[order.Key()]; ok {
		return idx
	}
	return r.createLocked(order)
}

// searchOrder decodes a mask into the complete order it denotes.
func (r *Relation) searchOrder(key lifted.SearchColumns) Order {
	order, suffix := OrderForSearch(key, r.arity)
	for _, col := range suffix {
		order.Append(col)
	}
	return order
}

// getCompatibleLocked reuses any stored index whose order is compatible
// with the requested one, creating a new index otherwise.
func (r *Relation) getCompatibleLocked(order Order) *Index {
	for _, idx := range r.indexList {
		if order.IsCompatible(idx.Order()) {
			return idx
		}
	}
	return r.createLocked(order)
}

// createLocked builds a new index sharing the relation's lock and
// bulk-populates it.
func (r *Relation) createLocked(order Order) *Index {
	idx := NewIndex(order)
	idx.mu = &r.mu
	idx.InsertAll(r.records)
	r.indexes[order.Key()] = idx
	r.indexList = append(r.indexList, idx)
	return idx
}

// totalLocked returns the cached all-columns index, creating it on
// first use.
func (r *Relation) totalLocked() *Index {
	if r.total == nil {
		r.total = r.getCompatibleLocked(r.searchOrder(r.TotalSearch()))
	}
	return r.total
}

// ensureTotal returns the cached total index, taking the write lock
// only on the creation path.
func (r *Relation) ensureTotal() *Index {
	r.mu.RLock()
	total := r.total
	r.mu.RUnlock()
	if total != nil {
		return total
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalLocked()
}

// Lookup returns the stored record for a tuple, if present. For nullary
// relations the boolean reports whether the relation is non-empty and
// the record is nil.
func (r *Relation) Lookup(fields []lifted.Val) (*Record, bool) {
	if r.arity == 0 {
		r.mu.RLock()
		defer r.mu.RUnlock()
		return nil, r.numTuples > 0
	}
	return r.ensureTotal().Find(&Record{Arity: r.arity, Fields: fields})
}

// Exists reports whether a tuple is present.
func (r *Relation) Exists(fields []lifted.Val) bool {
	_, ok := r.Lookup(fields)
	return ok
}

// GetPC returns the presence condition a tuple is stored under, or nil
// if the tuple is absent. For nullary relations it is the disjunction
// of every inserted condition.
func (r *Relation) GetPC(fields []lifted.Val) *pc.PresenceCondition {
	if r.arity == 0 {
		return r.NullaryPC()
	}
	rec, ok := r.Lookup(fields)
	if !ok {
		return nil
	}
	return rec.PC
}

// NullaryPC returns the merged condition of a nullary relation, nil
// when empty or non-nullary.
func (r *Relation) NullaryPC() *pc.PresenceCondition {
	if r.arity != 0 {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nullaryPC
}

// EqualRange returns the records matching the probe values on the
// masked columns, answered through the index sorted by exactly the
// order the mask decodes to. The walk itself runs under the relation's
// read lock inside Range.
func (r *Relation) EqualRange(key lifted.SearchColumns, values []lifted.Val) Iterator {
	idx := r.GetIndexByOrder(r.searchOrder(key))
	low, high := SearchRecords(r.arity, key, values)
	return idx.Range(low, high)
}

// Records returns the interned record list in insertion order. The
// slice is append-only; a snapshot taken between writes stays valid.
func (r *Relation) Records() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records
}

// Iterate returns a forward iterator over the records in insertion
// order.
func (r *Relation) Iterate() Iterator {
	return NewSliceIterator(r.Records())
}

// SearchRecords builds the low and high probe records for a range
// query: participating columns carry the probe values, the remaining
// columns are filled with the domain minimum and maximum respectively.
func SearchRecords(arity int, key lifted.SearchColumns, values []lifted.Val) (low, high *Record) {
	lo := make([]lifted.Val, arity)
	hi := make([]lifted.Val, arity)
	for i := 0; i < arity; i++ {
		if key.Covers(i) {
			lo[i] = values[i]
			hi[i] = values[i]
		} else {
			lo[i] = lifted.MinVal
			hi[i] = lifted.MaxVal
		}
	}
	return &Record{Arity: arity, Fields: lo}, &Record{Arity: arity, Fields: hi}
}
