package relation

// Iterator provides forward, non-mutating access to records. It is
// stable against concurrent reads and invalidated by any write to the
// owning relation.
type Iterator interface {
	// Next advances to the next record
	Next() bool

	// Record returns the current record
	Record() *Record

	// Close releases any resources
	Close() error
}

// sliceIterator walks a materialized record slice
type sliceIterator struct {
	recs []*Record
	pos  int
}

// NewSliceIterator creates an iterator over a record slice
func NewSliceIterator(recs []*Record) Iterator {
	return &sliceIterator{recs: recs, pos: -1}
}

func (it *sliceIterator) Next() bool {
	if it.pos+1 >= len(it.recs) {
		return false
	}
	it.pos++
	return true
}

func (it *sliceIterator) Record() *Record {
	return it.recs[it.pos]
}

func (it *sliceIterator) Close() error {
	return nil
}

// concatIterator chains several iterators
type concatIterator struct {
	parts []Iterator
	cur   int
}

// NewConcatIterator creates an iterator that exhausts each part in turn
func NewConcatIterator(parts ...Iterator) Iterator {
	return &concatIterator{parts: parts}
}

func (it *concatIterator) Next() bool {
	for it.cur < len(it.parts) {
		if it.parts[it.cur].Next() {
			return true
		}
		it.cur++
	}
	return false
}

func (it *concatIterator) Record() *Record {
	return it.parts[it.cur].Record()
}

func (it *concatIterator) Close() error {
	var err error
	for _, p := range it.parts {
		if cerr := p.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
