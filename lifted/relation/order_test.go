package relation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftdl/lifted-datalog/lifted"
)

func TestOrderBasics(t *testing.T) {
	o := NewOrder(2, 0)
	require.Equal(t, 2, o.Size())
	require.Equal(t, 2, o.Column(0))
	require.Equal(t, 0, o.Column(1))
	require.True(t, o.Covers(0))
	require.True(t, o.Covers(2))
	require.False(t, o.Covers(1))
	require.Equal(t, "[2,0]", o.String())
}

func TestOrderAppendDuplicatePanics(t *testing.T) {
	o := NewOrder(1)
	require.Panics(t, func() { o.Append(1) })
}

func TestOrderIsComplete(t *testing.T) {
	require.True(t, NewOrder().IsComplete())
	require.True(t, NewOrder(0).IsComplete())
	require.True(t, NewOrder(1, 0, 2).IsComplete())
	require.False(t, NewOrder(1).IsComplete())
	require.False(t, NewOrder(0, 2).IsComplete())
}

func TestOrderIsPrefixOf(t *testing.T) {
	require.True(t, NewOrder(0, 1).IsPrefixOf(NewOrder(0, 1, 2)))
	require.True(t, NewOrder().IsPrefixOf(NewOrder(0)))
	require.True(t, NewOrder(0, 1).IsPrefixOf(NewOrder(0, 1)))
	require.False(t, NewOrder(1, 0).IsPrefixOf(NewOrder(0, 1, 2)))
	require.False(t, NewOrder(0, 1, 2).IsPrefixOf(NewOrder(0, 1)))
}

func TestOrderIsCompatible(t *testing.T) {
	// the first |A| columns of B must be a permutation of A
	require.True(t, NewOrder(0, 1).IsCompatible(NewOrder(1, 0, 2)))
	require.True(t, NewOrder(1, 0).IsCompatible(NewOrder(0, 1)))
	require.True(t, NewOrder(1, 0, 2).IsCompatible(NewOrder(0, 1, 2)))
	require.False(t, NewOrder(1).IsCompatible(NewOrder(0, 1, 2)))
	require.False(t, NewOrder(0, 2).IsCompatible(NewOrder(0, 1, 2)))
	require.False(t, NewOrder(0, 1, 2).IsCompatible(NewOrder(0, 1)))
}

func TestOrderLess(t *testing.T) {
	require.True(t, NewOrder(0, 1).Less(NewOrder(0, 2)))
	require.True(t, NewOrder(0).Less(NewOrder(0, 1)))
	require.False(t, NewOrder(0, 1).Less(NewOrder(0, 1)))
	require.False(t, NewOrder(1).Less(NewOrder(0, 2)))
}

func TestOrderForSearch(t *testing.T) {
	order, suffix := OrderForSearch(lifted.SearchColumns(0b101), 3)
	require.Equal(t, "[0,2]", order.String())
	require.Equal(t, []int{1}, suffix)

	order, suffix = OrderForSearch(lifted.TotalSearch(3), 3)
	require.Equal(t, "[0,1,2]", order.String())
	require.Empty(t, suffix)

	order, suffix = OrderForSearch(0, 2)
	require.Equal(t, 0, order.Size())
	require.Equal(t, []int{0, 1}, suffix)
}
