package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/liftdl/lifted-datalog/lifted"
	"github.com/liftdl/lifted-datalog/lifted/pc"
	"github.com/liftdl/lifted-datalog/lifted/relation"
	"github.com/liftdl/lifted-datalog/lifted/render"
	"github.com/liftdl/lifted-datalog/lifted/streams"
)

func main() {
	var featureList string
	var fmPath string
	var eqList string
	var dbPath string
	var outDir string
	var noColor bool

	flag.StringVar(&featureList, "features", "", "comma-separated feature variables")
	flag.StringVar(&fmPath, "fm", "", "feature model file (first line holds the formula)")
	flag.StringVar(&eqList, "eq", "", "comma-separated relations treated as equivalence relations")
	flag.StringVar(&dbPath, "db", "", "also store loaded relations in a Badger fact store")
	flag.StringVar(&outDir, "out", "", "also write loaded relations as fact files into this directory")
	flag.BoolVar(&noColor, "no-color", false, "disable colored output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] fact-file...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Loads variability-annotated fact files into lifted relations.\n")
		fmt.Fprintf(os.Stderr, "Each line of a fact file holds tab-separated columns followed by a\n")
		fmt.Fprintf(os.Stderr, "presence condition; the relation is named after the file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -features A,B edge.facts\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -features A,B -fm model.prop -eq alias alias.facts\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if noColor {
		color.NoColor = true
	}

	feats := lifted.NewSymbolTable()
	for _, name := range splitList(featureList) {
		feats.Intern(name)
	}

	fmText := ""
	if fmPath != "" {
		text, err := readFeatureModel(fmPath)
		if err != nil {
			log.Fatalf("Failed to read feature model: %v", err)
		}
		fmText = text
		fmt.Printf("Using feature model: %s\n", fmText)
	}

	if err := pc.Init(feats, fmText); err != nil {
		log.Fatalf("Failed to initialise presence conditions: %v", err)
	}
	universe := pc.Default()

	eqNames := make(map[string]bool)
	for _, name := range splitList(eqList) {
		eqNames[name] = true
	}

	symtab := lifted.NewSymbolTable()
	renderer := render.NewRenderer(!noColor, symtab)

	var store *streams.BadgerStore
	if dbPath != "" {
		var err error
		store, err = streams.OpenBadgerStore(dbPath)
		if err != nil {
			log.Fatalf("Failed to open fact store: %v", err)
		}
		defer store.Close()
	}

	for _, path := range flag.Args() {
		name := relationName(path)
		arity, symbolic, err := sniffLayout(path)
		if err != nil {
			log.Fatalf("Failed to inspect %s: %v", path, err)
		}
		mask := streams.NewSymbolMask(arity, symbolicColumns(symbolic)...)

		var rel *relation.Relation
		var target streams.Inserter
		if eqNames[name] {
			if arity != 2 {
				log.Fatalf("Equivalence relation %s must be binary, found arity %d", name, arity)
			}
			eq := relation.NewEq()
			rel, target = eq.Relation, eq
		} else {
			rel = relation.New(arity)
			target = rel
		}

		reader, err := streams.GetReader(
			streams.IODirectives{"IO": "file", "filename": path},
			mask, symtab, universe)
		if err != nil {
			log.Fatalf("Failed to open %s: %v", path, err)
		}
		if err := reader.ReadAll(target); err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}
		reader.Close()

		fmt.Println(renderer.Summary(name, rel))
		fmt.Println(renderer.Table(rel, symbolic))

		if store != nil {
			if err := store.Writer(name, mask, symtab).WriteAll(rel); err != nil {
				log.Fatalf("Failed to store %s: %v", name, err)
			}
		}
		if outDir != "" {
			writer, err := streams.GetWriter(
				streams.IODirectives{"IO": "file", "filename": filepath.Join(outDir, name+".facts")},
				mask, symtab)
			if err != nil {
				log.Fatalf("Failed to create output for %s: %v", name, err)
			}
			if err := writer.WriteAll(rel); err != nil {
				log.Fatalf("Failed to write %s: %v", name, err)
			}
			writer.Close()
		}
	}

	fmt.Printf("Interned %d presence conditions over %d features\n",
		universe.Count(), feats.Size())
}

// splitList splits a comma-separated flag value, dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// relationName derives the relation name from a fact-file path.
func relationName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readFeatureModel returns the first line of the feature-model file.
func readFeatureModel(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", fmt.Errorf("empty feature model file")
	}
	return strings.TrimSpace(scanner.Text()), scanner.Err()
}

// sniffLayout inspects the first data line of a fact file: the last
// column is the presence condition, every other column is symbolic
// unless it parses as an integer.
func sniffLayout(path string) (int, []bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			return 0, nil, fmt.Errorf("fact lines need at least one column and a presence condition")
		}
		arity := len(cols) - 1
		symbolic := make([]bool, arity)
		for i := 0; i < arity; i++ {
			if _, err := strconv.ParseInt(cols[i], 10, 64); err != nil {
				symbolic[i] = true
			}
		}
		return arity, symbolic, nil
	}
	return 0, nil, fmt.Errorf("no fact lines found")
}

// symbolicColumns converts a column flag slice into column indices.
func symbolicColumns(symbolic []bool) []int {
	var cols []int
	for i, s := range symbolic {
		if s {
			cols = append(cols, i)
		}
	}
	return cols
}
