package streams

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
)

// BadgerStore is a persistent fact store backed by BadgerDB. Facts are
// kept under tuple-encoded keys so a prefix scan yields one relation in
// tuple order; values carry the same delimited line the file streams
// use, presence condition included.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a fact store at the given path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable BadgerDB logs
	opts.DetectConflicts = false
	opts.ValueThreshold = 1 << 10 // fact lines are small, keep them in the LSM tree

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Reader returns a read stream over one relation's facts.
func (s *BadgerStore) Reader(relName string, mask SymbolMask, symtab *lifted.SymbolTable,
	u *pc.Universe) *BadgerReadStream {
	return &BadgerReadStream{store: s, relName: relName, mask: mask, symtab: symtab, u: u}
}

// Writer returns a write stream storing one relation's facts. A stored
// tuple's fact is overwritten; facts stored earlier for tuples the
// written relation does not hold are kept.
func (s *BadgerStore) Writer(relName string, mask SymbolMask, symtab *lifted.SymbolTable) *BadgerWriteStream {
	return &BadgerWriteStream{store: s, relName: relName, mask: mask, symtab: symtab}
}

// keyPrefix returns the key prefix for a relation.
func keyPrefix(relName string) []byte {
	return append([]byte(relName), 0)
}

// encodeKey builds the key for a tuple: relation prefix, then each
// field big-endian with the sign bit flipped so byte order matches
// numeric order.
func encodeKey(relName string, fields []lifted.Val) []byte {
	key := keyPrefix(relName)
	for _, v := range fields {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(int64(v))^(1<<63))
		key = append(key, buf[:]...)
	}
	return key
}

// BadgerReadStream reads one relation's facts from a BadgerStore.
type BadgerReadStream struct {
	store   *BadgerStore
	relName string
	mask    SymbolMask
	symtab  *lifted.SymbolTable
	u       *pc.Universe
	ownsDB  bool
}

// ReadAll inserts every stored fact into the relation. Facts with
// malformed conditions are diagnosed and skipped, like the file stream.
func (s *BadgerReadStream) ReadAll(rel Inserter) error {
	prefix := keyPrefix(s.relName)
	return s.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				fields, cond, err := parseLine(string(val), rel.Arity(), s.mask, s.symtab, s.u, defaultDelimiter)
				if err != nil {
					return fmt.Errorf("corrupt fact for relation %s: %w", s.relName, err)
				}
				if cond == nil {
					// unparseable condition, already diagnosed
					return nil
				}
				rel.Insert(fields, cond)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the store when the stream owns it.
func (s *BadgerReadStream) Close() error {
	if s.ownsDB {
		return s.store.Close()
	}
	return nil
}

// BadgerWriteStream writes one relation's facts into a BadgerStore.
type BadgerWriteStream struct {
	store   *BadgerStore
	relName string
	mask    SymbolMask
	symtab  *lifted.SymbolTable
	ownsDB  bool
}

// WriteAll stores every record of the relation.
func (s *BadgerWriteStream) WriteAll(rel Source) error {
	return s.store.db.Update(func(txn *badger.Txn) error {
		if rel.Arity() == 0 {
			if rel.Size() == 0 {
				return nil
			}
			line := formatNullary(rel.NullaryPC(), defaultDelimiter)
			return txn.Set(encodeKey(s.relName, nil), []byte(line))
		}

		it := rel.Iterate()
		defer it.Close()
		for it.Next() {
			rec := it.Record()
			line := formatRecord(rec, s.mask, s.symtab, defaultDelimiter)
			if err := txn.Set(encodeKey(s.relName, rec.Fields), []byte(line)); err != nil {
				return fmt.Errorf("failed to write fact: %w", err)
			}
		}
		return nil
	})
}

// Close closes the store when the stream owns it.
func (s *BadgerWriteStream) Close() error {
	if s.ownsDB {
		return s.store.Close()
	}
	return nil
}
