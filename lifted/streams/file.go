package streams

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
)

// defaultDelimiter separates columns in fact files.
const defaultDelimiter = "\t"

// FileReadStream reads delimited fact files: one tuple per line, the
// presence condition in the optional last column.
type FileReadStream struct {
	file   *os.File
	mask   SymbolMask
	symtab *lifted.SymbolTable
	u      *pc.Universe
	delim  string
}

// NewFileReadStream opens a fact file for reading.
func NewFileReadStream(path string, mask SymbolMask, symtab *lifted.SymbolTable,
	u *pc.Universe, delim string) (*FileReadStream, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fact file: %w", err)
	}
	if delim == "" {
		delim = defaultDelimiter
	}
	return &FileReadStream{file: f, mask: mask, symtab: symtab, u: u, delim: delim}, nil
}

// ReadAll inserts every well-formed tuple into the relation. Lines with
// malformed columns or conditions are diagnosed on stderr and skipped.
func (s *FileReadStream) ReadAll(rel Inserter) error {
	scanner := bufio.NewScanner(s.file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields, cond, err := parseLine(line, rel.Arity(), s.mask, s.symtab, s.u, s.delim)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s:%d: %v\n",
				color.YellowString("skipping tuple"), s.file.Name(), lineNo, err)
			continue
		}
		if cond == nil {
			// unparseable condition, already diagnosed
			continue
		}
		rel.Insert(fields, cond)
	}
	return scanner.Err()
}

// Close closes the underlying file.
func (s *FileReadStream) Close() error {
	return s.file.Close()
}

// FileWriteStream writes delimited fact files in the same format the
// read stream accepts, so emitted relations round-trip.
type FileWriteStream struct {
	file   *os.File
	w      *bufio.Writer
	mask   SymbolMask
	symtab *lifted.SymbolTable
	delim  string
}

// NewFileWriteStream creates (or truncates) a fact file for writing.
func NewFileWriteStream(path string, mask SymbolMask, symtab *lifted.SymbolTable,
	delim string) (*FileWriteStream, error) {

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create fact file: %w", err)
	}
	if delim == "" {
		delim = defaultDelimiter
	}
	return &FileWriteStream{file: f, w: bufio.NewWriter(f), mask: mask, symtab: symtab, delim: delim}, nil
}

// WriteAll emits every record of the relation, one line each.
func (s *FileWriteStream) WriteAll(rel Source) error {
	if rel.Arity() == 0 {
		if rel.Size() > 0 {
			return s.WriteNullary(rel.NullaryPC())
		}
		return nil
	}
	it := rel.Iterate()
	defer it.Close()
	for it.Next() {
		if _, err := s.w.WriteString(formatRecord(it.Record(), s.mask, s.symtab, s.delim) + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteNullary emits the nullary tuple.
func (s *FileWriteStream) WriteNullary(cond *pc.PresenceCondition) error {
	_, err := s.w.WriteString(formatNullary(cond, s.delim) + "\n")
	return err
}

// Close flushes and closes the underlying file.
func (s *FileWriteStream) Close() error {
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
