package streams

import (
	"fmt"
	"sync"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
)

// ReadStreamFactory converts IO directives into a concrete read stream.
type ReadStreamFactory interface {
	Name() string
	GetReader(io IODirectives, mask SymbolMask, symtab *lifted.SymbolTable,
		u *pc.Universe) (ReadStream, error)
}

// WriteStreamFactory converts IO directives into a concrete write
// stream.
type WriteStreamFactory interface {
	Name() string
	GetWriter(io IODirectives, mask SymbolMask, symtab *lifted.SymbolTable) (WriteStream, error)
}

var (
	factoryMu      sync.RWMutex
	readFactories  = make(map[string]ReadStreamFactory)
	writeFactories = make(map[string]WriteStreamFactory)
)

// RegisterReadFactory installs a read-stream factory under its name.
func RegisterReadFactory(f ReadStreamFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	readFactories[f.Name()] = f
}

// RegisterWriteFactory installs a write-stream factory under its name.
func RegisterWriteFactory(f WriteStreamFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	writeFactories[f.Name()] = f
}

// GetReader builds a read stream for the directives, selected by the
// "IO" directive (default "file").
func GetReader(io IODirectives, mask SymbolMask, symtab *lifted.SymbolTable,
	u *pc.Universe) (ReadStream, error) {

	name := io.GetOr("IO", "file")
	factoryMu.RLock()
	f, ok := readFactories[name]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown IO directive %q", name)
	}
	return f.GetReader(io, mask, symtab, u)
}

// GetWriter builds a write stream for the directives, selected by the
// "IO" directive (default "file").
func GetWriter(io IODirectives, mask SymbolMask, symtab *lifted.SymbolTable) (WriteStream, error) {
	name := io.GetOr("IO", "file")
	factoryMu.RLock()
	f, ok := writeFactories[name]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown IO directive %q", name)
	}
	return f.GetWriter(io, mask, symtab)
}

type fileReadFactory struct{}

func (fileReadFactory) Name() string { return "file" }

func (fileReadFactory) GetReader(io IODirectives, mask SymbolMask, symtab *lifted.SymbolTable,
	u *pc.Universe) (ReadStream, error) {

	path, ok := io.Get("filename")
	if !ok {
		return nil, fmt.Errorf("file IO requires a filename directive")
	}
	return NewFileReadStream(path, mask, symtab, u, io.GetOr("delimiter", defaultDelimiter))
}

type fileWriteFactory struct{}

func (fileWriteFactory) Name() string { return "file" }

func (fileWriteFactory) GetWriter(io IODirectives, mask SymbolMask,
	symtab *lifted.SymbolTable) (WriteStream, error) {

	path, ok := io.Get("filename")
	if !ok {
		return nil, fmt.Errorf("file IO requires a filename directive")
	}
	return NewFileWriteStream(path, mask, symtab, io.GetOr("delimiter", defaultDelimiter))
}

type badgerReadFactory struct{}

func (badgerReadFactory) Name() string { return "badger" }

func (badgerReadFactory) GetReader(io IODirectives, mask SymbolMask, symtab *lifted.SymbolTable,
	u *pc.Universe) (ReadStream, error) {

	path, ok := io.Get("dbpath")
	if !ok {
		return nil, fmt.Errorf("badger IO requires a dbpath directive")
	}
	name, ok := io.Get("relation")
	if !ok {
		return nil, fmt.Errorf("badger IO requires a relation directive")
	}
	store, err := OpenBadgerStore(path)
	if err != nil {
		return nil, err
	}
	stream := store.Reader(name, mask, symtab, u)
	stream.ownsDB = true
	return stream, nil
}

type badgerWriteFactory struct{}

func (badgerWriteFactory) Name() string { return "badger" }

func (badgerWriteFactory) GetWriter(io IODirectives, mask SymbolMask,
	symtab *lifted.SymbolTable) (WriteStream, error) {

	path, ok := io.Get("dbpath")
	if !ok {
		return nil, fmt.Errorf("badger IO requires a dbpath directive")
	}
	name, ok := io.Get("relation")
	if !ok {
		return nil, fmt.Errorf("badger IO requires a relation directive")
	}
	store, err := OpenBadgerStore(path)
	if err != nil {
		return nil, err
	}
	stream := store.Writer(name, mask, symtab)
	stream.ownsDB = true
	return stream, nil
}

func init() {
	RegisterReadFactory(fileReadFactory{})
	RegisterWriteFactory(fileWriteFactory{})
	RegisterReadFactory(badgerReadFactory{})
	RegisterWriteFactory(badgerWriteFactory{})
}
