package lifted

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolTableIntern(t *testing.T) {
	st := NewSymbolTable()

	a := st.Intern("alpha")
	b := st.Intern("beta")
	require.NotEqual(t, a, b)
	require.Equal(t, a, st.Intern("alpha"))
	require.Equal(t, 2, st.Size())
}

func TestSymbolTableLookup(t *testing.T) {
	st := NewSymbolTable("x", "y")

	id, ok := st.Lookup("y")
	require.True(t, ok)
	require.Equal(t, Val(1), id)

	_, ok = st.Lookup("z")
	require.False(t, ok)
}

func TestSymbolTableName(t *testing.T) {
	st := NewSymbolTable("x")

	name, ok := st.Name(0)
	require.True(t, ok)
	require.Equal(t, "x", name)

	_, ok = st.Name(5)
	require.False(t, ok)
	_, ok = st.Name(-1)
	require.False(t, ok)
}
