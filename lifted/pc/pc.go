package pc

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/dalzilio/rudd"
	"github.com/fatih/color"

	"github.com/liftdl/lifted-datalog/lifted"
)

// PresenceCondition is an interned handle to a propositional formula
// over feature variables. Handles are hash-consed on the canonical BDD
// root: two logically equivalent conditions are the same pointer, so
// equality is pointer equality. Handles live for the lifetime of their
// Universe.
//
// The text carried by a handle is the formula as first written; it is
// used only for diagnostics and output.
type PresenceCondition struct {
	u    *Universe
	node rudd.Node
	text string
}

// Universe owns the BDD manager, the intern table and the optional
// feature model for one fixed set of feature variables. The feature set
// is frozen at construction: the BDD manager is sized to it.
type Universe struct {
	mu    sync.Mutex
	bdd   *rudd.BDD
	feats *lifted.SymbolTable
	pcs   map[int]*PresenceCondition // keyed by BDD root
	tt    *PresenceCondition
	ff    *PresenceCondition
	fm    *PresenceCondition // feature model, nil if none installed
}

// NewUniverse builds a universe over the given feature variables. If
// fmText is non-empty it is parsed as the feature model: MakeTrue then
// returns the model and every condition interned afterwards is
// implicitly conjoined with it.
func NewUniverse(feats *lifted.SymbolTable, fmText string) (*Universe, error) {
	varnum := feats.Size()
	if varnum == 0 {
		varnum = 1
	}
	bdd, err := rudd.New(varnum, rudd.Nodesize(10000), rudd.Cachesize(5000))
	if err != nil {
		return nil, fmt.Errorf("failed to initialise BDD manager: %w", err)
	}

	u := &Universe{
		bdd:   bdd,
		feats: feats,
		pcs:   make(map[int]*PresenceCondition),
	}
	u.ff = u.intern(bdd.False(), "False")
	u.tt = u.intern(bdd.True(), "True")

	if fmText != "" {
		f, err := ParseFormula(fmText, feats)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feature model: %w", err)
		}
		u.mu.Lock()
		u.fm = u.intern(f.toBDD(u), f.String())
		u.mu.Unlock()
	}
	return u, nil
}

// Features returns the feature-variable table of this universe.
func (u *Universe) Features() *lifted.SymbolTable {
	return u.feats
}

// MakeTrue returns the feature model if one is installed, else the
// distinguished True handle.
func (u *Universe) MakeTrue() *PresenceCondition {
	if u.fm != nil {
		return u.fm
	}
	return u.tt
}

// MakeFalse returns the distinguished False handle.
func (u *Universe) MakeFalse() *PresenceCondition {
	return u.ff
}

// FeatureModel returns the installed feature model, or nil.
func (u *Universe) FeatureModel() *PresenceCondition {
	return u.fm
}

// Count returns the number of distinct interned conditions.
func (u *Universe) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pcs)
}

// Parse interns the condition denoted by a formula. The result is
// conjoined with the feature model when one is installed.
func (u *Universe) Parse(f Formula) *PresenceCondition {
	u.mu.Lock()
	defer u.mu.Unlock()
	node := f.toBDD(u)
	if u.fm != nil {
		node = u.bdd.And(node, u.fm.node)
	}
	return u.intern(node, f.String())
}

// ParseText lexes, parses and interns a textual condition. On malformed
// input it emits a diagnostic to stderr and returns a nil handle;
// callers treat nil as "unparseable, skip this input".
func (u *Universe) ParseText(input string) (*PresenceCondition, error) {
	f, err := ParseFormula(input, u.feats)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("presence condition:"), err)
		return nil, err
	}
	return u.Parse(f), nil
}

// intern returns the handle for a BDD root, creating it on first sight.
// The caller holds u.mu (NewUniverse calls it before the universe is
// shared, which is equivalent).
func (u *Universe) intern(node rudd.Node, text string) *PresenceCondition {
	if node == nil {
		panic(fmt.Sprintf("BDD construction failed for %q: %s", text, u.bdd.Error()))
	}
	if existing, ok := u.pcs[*node]; ok {
		return existing
	}
	cond := &PresenceCondition{u: u, node: node, text: text}
	u.pcs[*node] = cond
	return cond
}

// Conjoin returns the conjunction of two conditions.
func (a *PresenceCondition) Conjoin(b *PresenceCondition) *PresenceCondition {
	if a.IsTrue() {
		return b
	}
	if b.IsTrue() {
		return a
	}
	if a == b {
		return a
	}
	u := a.u
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.intern(u.bdd.And(a.node, b.node), "("+a.text+" /\\ "+b.text+")")
}

// Disjoin returns the disjunction of two conditions.
func (a *PresenceCondition) Disjoin(b *PresenceCondition) *PresenceCondition {
	if a.IsTrue() {
		return a
	}
	if b.IsTrue() {
		return b
	}
	if a == b {
		return a
	}
	u := a.u
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.intern(u.bdd.Or(a.node, b.node), "("+a.text+" \\/ "+b.text+")")
}

// Negate returns the negation of a condition.
func (a *PresenceCondition) Negate() *PresenceCondition {
	u := a.u
	u.mu.Lock()
	defer u.mu.Unlock()
	text := a.text
	if strings.Contains(text, " ") && !strings.HasPrefix(text, "(") {
		text = "(" + text + ")"
	}
	node := u.bdd.Not(a.node)
	if u.fm != nil {
		node = u.bdd.And(node, u.fm.node)
	}
	return u.intern(node, "!"+text)
}

// ConjSAT reports whether the conjunction of two conditions is
// satisfiable, without interning the conjunction.
func (a *PresenceCondition) ConjSAT(b *PresenceCondition) bool {
	u := a.u
	u.mu.Lock()
	defer u.mu.Unlock()
	return !u.bdd.Equal(u.bdd.And(a.node, b.node), u.ff.node)
}

// SAT reports whether the condition is satisfiable.
func (a *PresenceCondition) SAT() bool {
	return a != a.u.ff
}

// IsTrue reports whether the condition is the distinguished True. The
// feature model, when installed, is not True.
func (a *PresenceCondition) IsTrue() bool {
	return a == a.u.tt
}

// Equal reports logical equivalence, which interning reduces to handle
// identity.
func (a *PresenceCondition) Equal(b *PresenceCondition) bool {
	return a == b
}

// String returns the diagnostic text of the condition in the input
// grammar's syntax.
func (a *PresenceCondition) String() string {
	return a.text
}

var (
	stdMu sync.Mutex
	std   *Universe
)

// Init installs the process-wide default universe. It must be called
// exactly once, before any relation operation that parses conditions;
// re-initialisation is an error.
func Init(feats *lifted.SymbolTable, fmText string) error {
	stdMu.Lock()
	defer stdMu.Unlock()
	if std != nil {
		return fmt.Errorf("presence-condition system already initialised")
	}
	u, err := NewUniverse(feats, fmText)
	if err != nil {
		return err
	}
	std = u
	return nil
}

// Default returns the universe installed by Init, or nil.
func Default() *Universe {
	stdMu.Lock()
	defer stdMu.Unlock()
	return std
}
