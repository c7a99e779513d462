package constant_test

import (
	"testing"

	"github.com/isaacazuelos/kurt/internal/constant"
	"github.com/stretchr/testify/require"
)

func TestInsertDedupesEqualConstants(t *testing.T) {
	p := constant.NewPool()

	a, ok := p.Insert(constant.String("hello"))
	require.True(t, ok)

	b, ok := p.Insert(constant.String("hello"))
	require.True(t, ok)

	require.True(t, a.Equal(b), "inserting the same literal twice must return the same index")
	require.Equal(t, 1, p.Len())
}

func TestInsertDistinguishesKindsAndPayloads(t *testing.T) {
	p := constant.NewPool()

	str, _ := p.Insert(constant.String("1"))
	kw, _ := p.Insert(constant.Keyword("1"))

	require.False(t, str.Equal(kw))
	require.Equal(t, 2, p.Len())
}

func TestTruncateForgetsLaterConstants(t *testing.T) {
	p := constant.NewPool()

	first, _ := p.Insert(constant.Char('a'))
	_, _ = p.Insert(constant.Char('b'))
	require.Equal(t, 2, p.Len())

	p.Truncate(1)
	require.Equal(t, 1, p.Len())

	// Re-inserting 'a' must still resolve to its original index.
	again, ok := p.Insert(constant.Char('a'))
	require.True(t, ok)
	require.True(t, first.Equal(again))

	// 'b' was forgotten, so re-inserting it allocates a fresh slot.
	b2, ok := p.Insert(constant.Char('b'))
	require.True(t, ok)
	require.Equal(t, uint32(1), b2.AsU32())
}
