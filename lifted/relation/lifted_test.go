package relation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liftdl/lifted-datalog/lifted"
)

func TestLiftedRoutesByCondition(t *testing.T) {
	u := newUniverse(t, "")
	l := NewLifted(2)

	a := parsePC(t, u, "A")
	b := parsePC(t, u, "B")

	l.Insert([]lifted.Val{1, 2}, a)
	l.Insert([]lifted.Val{3, 4}, a)
	l.Insert([]lifted.Val{1, 2}, b)

	require.Equal(t, 3, l.Size())

	parts := l.Partitions()
	require.Len(t, parts, 2)
	require.Same(t, a, parts[0].PC)
	require.Equal(t, 2, parts[0].Rel.Size())
	require.Same(t, b, parts[1].PC)
	require.Equal(t, 1, parts[1].Rel.Size())
}

func TestLiftedEquivalentConditionsShareRelation(t *testing.T) {
	u := newUniverse(t, "")
	l := NewLifted(1)

	l.Insert([]lifted.Val{1}, parsePC(t, u, `A /\ B`))
	l.Insert([]lifted.Val{2}, parsePC(t, u, `B /\ A`))

	// interning makes equivalent conditions the same partition key
	require.Len(t, l.Partitions(), 1)
	require.Equal(t, 2, l.Size())
}

func TestLiftedSkipsUnsatisfiable(t *testing.T) {
	u := newUniverse(t, "")
	l := NewLifted(1)

	l.Insert([]lifted.Val{1}, parsePC(t, u, `A /\ !A`))
	require.True(t, l.Empty())
	require.Empty(t, l.Partitions())
}

func TestLiftedIterate(t *testing.T) {
	u := newUniverse(t, "")
	l := NewLifted(1)

	l.Insert([]lifted.Val{1}, parsePC(t, u, "A"))
	l.Insert([]lifted.Val{2}, parsePC(t, u, "B"))
	l.Insert([]lifted.Val{3}, parsePC(t, u, "A"))

	require.Equal(t, [][]lifted.Val{{1}, {3}, {2}}, collect(l.Iterate()))
}

func TestLiftedEqualRangePerConfiguration(t *testing.T) {
	u := newUniverse(t, "")
	l := NewLifted(2)

	a := parsePC(t, u, "A")
	b := parsePC(t, u, "B")
	l.Insert([]lifted.Val{1, 10}, a)
	l.Insert([]lifted.Val{1, 20}, b)
	l.Insert([]lifted.Val{2, 10}, a)

	probes := l.EqualRange(0b01, []lifted.Val{1, 0})
	require.Len(t, probes, 2)
	require.Same(t, a, probes[0].PC)
	require.Equal(t, [][]lifted.Val{{1, 10}}, collect(probes[0].Records))
	require.Same(t, b, probes[1].PC)
	require.Equal(t, [][]lifted.Val{{1, 20}}, collect(probes[1].Records))

	// partitions with no match are omitted
	probes = l.EqualRange(0b01, []lifted.Val{2, 0})
	require.Len(t, probes, 1)
	require.Same(t, a, probes[0].PC)
}

func TestLiftedPurgeForgetsPartitions(t *testing.T) {
	u := newUniverse(t, "")
	l := NewLifted(1)

	l.Insert([]lifted.Val{1}, parsePC(t, u, "A"))
	require.Equal(t, 1, l.Size())

	l.Purge()
	require.True(t, l.Empty())
	require.Empty(t, l.Partitions())

	l.Insert([]lifted.Val{2}, parsePC(t, u, "B"))
	require.Equal(t, 1, l.Size())
	require.Len(t, l.Partitions(), 1)
}

func TestLiftedPanicsOnMisuse(t *testing.T) {
	l := NewLifted(2)
	u := newUniverse(t, "")

	require.Panics(t, func() { l.Insert([]lifted.Val{1, 2}, nil) })
	require.Panics(t, func() { l.Insert([]lifted.Val{1}, u.MakeTrue()) })
}
