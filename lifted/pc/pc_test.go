package pc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftdl/lifted-datalog/lifted"
)

func newTestUniverse(t *testing.T, fmText string) *Universe {
	t.Helper()
	u, err := NewUniverse(lifted.NewSymbolTable("A", "B", "C"), fmText)
	require.NoError(t, err)
	return u
}

func mustParse(t *testing.T, u *Universe, text string) *PresenceCondition {
	t.Helper()
	cond, err := u.ParseText(text)
	require.NoError(t, err)
	return cond
}

func TestEquivalentFormulasShareHandle(t *testing.T) {
	u := newTestUniverse(t, "")

	ab := mustParse(t, u, `A /\ B`)
	ba := mustParse(t, u, `B /\ A`)
	require.Same(t, ab, ba)

	deMorgan := mustParse(t, u, `!(!A \/ !B)`)
	require.Same(t, ab, deMorgan)
}

func TestDistinguishedHandles(t *testing.T) {
	u := newTestUniverse(t, "")

	require.Same(t, u.MakeTrue(), mustParse(t, u, "True"))
	require.Same(t, u.MakeFalse(), mustParse(t, u, "False"))
	require.True(t, u.MakeTrue().IsTrue())
	require.True(t, u.MakeTrue().SAT())
	require.False(t, u.MakeFalse().SAT())
}

func TestAlgebraicLaws(t *testing.T) {
	u := newTestUniverse(t, "")
	a := mustParse(t, u, "A")
	tt := u.MakeTrue()
	ff := u.MakeFalse()

	require.Same(t, a, a.Conjoin(tt))
	require.Same(t, a, tt.Conjoin(a))
	require.Same(t, a, a.Conjoin(a))
	require.Same(t, a, a.Disjoin(ff))
	require.Same(t, a, ff.Disjoin(a))
	require.Same(t, a, a.Disjoin(a))
	require.Same(t, tt, a.Disjoin(tt))
	require.Same(t, ff, a.Conjoin(ff))
}

func TestConjoinDisjoinSemantics(t *testing.T) {
	u := newTestUniverse(t, "")
	a := mustParse(t, u, "A")
	b := mustParse(t, u, "B")

	require.Same(t, mustParse(t, u, `A /\ B`), a.Conjoin(b))
	require.Same(t, mustParse(t, u, `A \/ B`), a.Disjoin(b))

	notA := mustParse(t, u, "!A")
	require.Same(t, u.MakeFalse(), a.Conjoin(notA))
	require.Same(t, u.MakeTrue(), a.Disjoin(notA))
}

func TestNegate(t *testing.T) {
	u := newTestUniverse(t, "")
	a := mustParse(t, u, "A")

	require.Same(t, mustParse(t, u, "!A"), a.Negate())
	require.Same(t, a, a.Negate().Negate())
	require.Same(t, u.MakeFalse(), u.MakeTrue().Negate())
}

func TestConjSAT(t *testing.T) {
	u := newTestUniverse(t, "")
	a := mustParse(t, u, "A")
	b := mustParse(t, u, "B")
	notA := mustParse(t, u, "!A")

	require.True(t, a.ConjSAT(b))
	require.False(t, a.ConjSAT(notA))
	require.False(t, a.ConjSAT(u.MakeFalse()))
}

func TestParseUnsatisfiable(t *testing.T) {
	u := newTestUniverse(t, "")
	cond := mustParse(t, u, `A /\ !A`)
	require.Same(t, u.MakeFalse(), cond)
	require.False(t, cond.SAT())
}

func TestPrintRoundTrip(t *testing.T) {
	u := newTestUniverse(t, "")
	for _, text := range []string{
		"A",
		"True",
		"False",
		`A /\ B`,
		`(A \/ B) /\ C`,
		`!(!B \/ C)`,
		"!A",
	} {
		cond := mustParse(t, u, text)
		again := mustParse(t, u, cond.String())
		require.Same(t, cond, again, "round trip of %q via %q", text, cond.String())
	}
}

func TestDerivedTextRoundTrips(t *testing.T) {
	u := newTestUniverse(t, "")
	a := mustParse(t, u, "A")
	b := mustParse(t, u, "B")

	conj := a.Conjoin(b)
	require.Same(t, conj, mustParse(t, u, conj.String()))

	neg := conj.Negate()
	require.Same(t, neg, mustParse(t, u, neg.String()))
}

func TestFeatureModelReinterpretsTrue(t *testing.T) {
	u := newTestUniverse(t, "A")

	fm := u.MakeTrue()
	require.NotNil(t, u.FeatureModel())
	require.Same(t, u.FeatureModel(), fm)
	require.False(t, fm.IsTrue(), "the feature model is not the distinguished True")
	require.True(t, fm.SAT())

	// parsing True now lands on the model
	require.Same(t, fm, mustParse(t, u, "True"))
}

func TestFeatureModelConstrainsParsing(t *testing.T) {
	u := newTestUniverse(t, "A")

	b := mustParse(t, u, "B")
	require.Same(t, mustParse(t, u, `A /\ B`), b)

	// excluded by the model
	require.Same(t, u.MakeFalse(), mustParse(t, u, "!A"))
}

func TestFeatureModelUnsatInput(t *testing.T) {
	u := newTestUniverse(t, `A \/ B`)
	require.Same(t, u.MakeFalse(), mustParse(t, u, `!A /\ !B`))
}

func TestParseTextMalformed(t *testing.T) {
	u := newTestUniverse(t, "")
	cond, err := u.ParseText(`A /\ B \/ C`)
	require.Error(t, err)
	require.Nil(t, cond)
}

func TestCount(t *testing.T) {
	u := newTestUniverse(t, "")
	base := u.Count() // True and False
	require.Equal(t, 2, base)

	mustParse(t, u, "A")
	mustParse(t, u, "A") // interned, no growth
	require.Equal(t, base+1, u.Count())
}

func TestInitInstallsDefaultOnce(t *testing.T) {
	feats := lifted.NewSymbolTable("A")
	if err := Init(feats, ""); err != nil {
		// another test in this binary may have installed it already;
		// re-initialisation must fail either way
		require.Contains(t, err.Error(), "already initialised")
	}
	require.NotNil(t, Default())
	require.Error(t, Init(feats, ""))
}
