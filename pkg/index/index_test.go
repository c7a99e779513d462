package index_test

import (
	"testing"

	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/stretchr/testify/require"
)

func TestStartIsZero(t *testing.T) {
	require.Equal(t, uint32(0), index.Start[index.OpKind]().AsU32())
}

func TestMaxOverflowsToNone(t *testing.T) {
	max := index.Max[index.LocalKind]()
	_, ok := max.Next()
	require.False(t, ok, "Next() past Max must report overflow")
}

func TestNextAdvancesByOne(t *testing.T) {
	start := index.Start[index.ConstantKind]()
	next, ok := start.Next()
	require.True(t, ok)
	require.Equal(t, uint32(1), next.AsU32())
}

func TestPreviousSaturatingClampsAtStart(t *testing.T) {
	start := index.Start[index.CaptureKind]()
	require.True(t, start.Equal(start.PreviousSaturating()))
}

func TestDistinctKindsAreDistinctTypes(t *testing.T) {
	// This is primarily a compile-time check: an index.Local cannot be
	// assigned to an index.Constant variable. The runtime assertion just
	// confirms the underlying representations don't silently collide.
	var local index.Local = index.New[index.LocalKind](3)
	var constant index.Constant = index.New[index.ConstantKind](3)
	require.Equal(t, local.AsU32(), constant.AsU32())
}
