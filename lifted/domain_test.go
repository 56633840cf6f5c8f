package lifted

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalSearch(t *testing.T) {
	require.Equal(t, SearchColumns(0), TotalSearch(0))
	require.Equal(t, SearchColumns(0b1), TotalSearch(1))
	require.Equal(t, SearchColumns(0b111), TotalSearch(3))
}

func TestSearchColumnsCovers(t *testing.T) {
	key := SearchColumns(0b101)
	require.True(t, key.Covers(0))
	require.False(t, key.Covers(1))
	require.True(t, key.Covers(2))
	require.False(t, key.Covers(3))
}

func TestCompareTuples(t *testing.T) {
	require.Equal(t, 0, CompareTuples([]Val{1, 2}, []Val{1, 2}))
	require.Equal(t, -1, CompareTuples([]Val{1, 2}, []Val{1, 3}))
	require.Equal(t, 1, CompareTuples([]Val{2, 0}, []Val{1, 9}))
	require.Equal(t, -1, CompareTuples([]Val{MinVal}, []Val{MaxVal}))
}
