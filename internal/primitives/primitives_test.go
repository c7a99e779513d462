package primitives_test

import (
	"testing"

	"github.com/isaacazuelos/kurt/internal/primitives"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/object"
	"github.com/isaacazuelos/kurt/pkg/value"
	"github.com/stretchr/testify/require"
)

func nat(n uint64) value.Value { return value.Nat(value.NewU48Unchecked(n)) }
func integer(n int64) value.Value {
	i, ok := value.NewI48(n)
	if !ok {
		panic("out of range")
	}
	return value.Int(i)
}

func TestAddNatsOverflows(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	_, err := d.Add(nat(1), nat(2))
	require.Nil(t, err)

	_, err = d.Add(nat(value.U48Max), nat(1))
	require.NotNil(t, err)
	require.Equal(t, diagnostic.KindNumberTooBig, err.Kind)
}

func TestAddMismatchedKindsIsUnsupported(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	_, err := d.Add(nat(1), value.True)
	require.NotNil(t, err)
	require.Equal(t, diagnostic.KindOperationNotSupported, err.Kind)
}

func TestNegIntAndFloat(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	v, err := d.Neg(integer(5))
	require.Nil(t, err)
	i, _ := v.AsInt()
	require.Equal(t, int64(-5), i.AsI64())

	v, err = d.Neg(value.Float(1.5))
	require.Nil(t, err)
	f, _ := v.AsFloat()
	require.Equal(t, -1.5, f)

	_, err = d.Neg(nat(5))
	require.NotNil(t, err)
}

func TestNotRequiresBool(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	v, err := d.Not(value.True)
	require.Nil(t, err)
	b, _ := v.AsBool()
	require.False(t, b)

	_, err = d.Not(nat(1))
	require.NotNil(t, err)
}

func TestComparisonsRequireSameKind(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	v, err := d.Lt(nat(1), nat(2))
	require.Nil(t, err)
	b, _ := v.AsBool()
	require.True(t, b)

	_, err = d.Lt(nat(1), integer(2))
	require.NotNil(t, err)
}

func TestEqStringsByContent(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	d := primitives.New(h)

	a := h.Allocate(object.NewString("hi"), nil)
	b := h.Allocate(object.NewString("hi"), nil)

	eq := d.Eq(value.Object(a), value.Object(b))
	ok, _ := eq.AsBool()
	require.True(t, ok, "strings with equal content must compare equal")
}

func TestEqListsStructurally(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	d := primitives.New(h)

	la := h.Allocate(object.NewList([]value.Value{nat(1), nat(2)}), nil)
	lb := h.Allocate(object.NewList([]value.Value{nat(1), nat(2)}), nil)
	lc := h.Allocate(object.NewList([]value.Value{nat(1), nat(3)}), nil)

	eqAB := d.Eq(value.Object(la), value.Object(lb))
	ok, _ := eqAB.AsBool()
	require.True(t, ok)

	eqAC := d.Eq(value.Object(la), value.Object(lc))
	ok, _ = eqAC.AsBool()
	require.False(t, ok)
}

func TestEqClosuresByIdentityOnly(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	d := primitives.New(h)

	moduleRef := h.Allocate(object.NewModule(0), nil)
	proto := object.NewPrototype(moduleRef, "f", 0, nil, nil, diagnostic.Span{})
	protoRef := h.Allocate(proto, nil)

	ca := h.Allocate(object.NewClosure(protoRef, nil), nil)
	cb := h.Allocate(object.NewClosure(protoRef, nil), nil)

	eq := d.Eq(value.Object(ca), value.Object(cb))
	ok, _ := eq.AsBool()
	require.False(t, ok, "two distinct closures over the same prototype are not equal")

	eqSelf := d.Eq(value.Object(ca), value.Object(ca))
	ok, _ = eqSelf.AsBool()
	require.True(t, ok)
}

func TestIndexSupportsNegativeListIndex(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	d := primitives.New(h)

	listRef := h.Allocate(object.NewList([]value.Value{nat(10), nat(20), nat(30)}), nil)

	v, err := d.Index(value.Object(listRef), integer(-1))
	require.Nil(t, err)
	n, _ := v.AsNat()
	require.Equal(t, uint64(30), n.AsU64())
}

func TestIndexOutOfRange(t *testing.T) {
	h := heap.New(heap.DefaultOptions())
	d := primitives.New(h)

	listRef := h.Allocate(object.NewList([]value.Value{nat(1)}), nil)

	_, err := d.Index(value.Object(listRef), nat(5))
	require.NotNil(t, err)
	require.Equal(t, diagnostic.KindSubscriptIndexOutOfRange, err.Kind)
}

// Bitwise operators accept Bool, Nat, and Int, matching the original
// runtime's bit_and/bit_or/bit_xor -- not just Nat, as integer literals
// compile to Int48 and never produce a Nat on their own.
func TestBitwiseOnInt(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	v, err := d.BitAnd(integer(6), integer(3))
	require.Nil(t, err)
	n, _ := v.AsInt()
	require.Equal(t, int64(2), n.AsI64())

	v, err = d.BitOr(integer(6), integer(1))
	require.Nil(t, err)
	n, _ = v.AsInt()
	require.Equal(t, int64(7), n.AsI64())

	v, err = d.BitXor(integer(6), integer(3))
	require.Nil(t, err)
	n, _ = v.AsInt()
	require.Equal(t, int64(5), n.AsI64())

	v, err = d.Shl(integer(1), integer(3))
	require.Nil(t, err)
	n, _ = v.AsInt()
	require.Equal(t, int64(8), n.AsI64())
}

func TestBitwiseOnBool(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	v, err := d.BitAnd(value.True, value.False)
	require.Nil(t, err)
	b, _ := v.AsBool()
	require.False(t, b)

	v, err = d.BitOr(value.True, value.False)
	require.Nil(t, err)
	b, _ = v.AsBool()
	require.True(t, b)

	v, err = d.BitXor(value.True, value.True)
	require.Nil(t, err)
	b, _ = v.AsBool()
	require.False(t, b)
}

func TestBitwiseOnNat(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	v, err := d.BitAnd(nat(6), nat(3))
	require.Nil(t, err)
	n, _ := v.AsNat()
	require.Equal(t, uint64(2), n.AsU64())

	v, err = d.Shl(nat(1), nat(3))
	require.Nil(t, err)
	n, _ = v.AsNat()
	require.Equal(t, uint64(8), n.AsU64())

	v, err = d.Shr(nat(8), nat(3))
	require.Nil(t, err)
	n, _ = v.AsNat()
	require.Equal(t, uint64(1), n.AsU64())
}

func TestShrRejectsInt(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	_, err := d.Shr(integer(8), integer(3))
	require.NotNil(t, err)
	require.Equal(t, diagnostic.KindOperationNotSupported, err.Kind)
}

// Pow's Float branch must use true exponentiation (math.Pow), not a
// repeated-multiplication loop that breaks on fractional/negative exponents.
func TestPowFloatUsesMathPow(t *testing.T) {
	d := primitives.New(heap.New(heap.DefaultOptions()))

	v, err := d.Pow(value.Float(2.0), value.Float(0.5))
	require.Nil(t, err)
	f, _ := v.AsFloat()
	require.InDelta(t, 1.4142135623730951, f, 1e-12)

	v, err = d.Pow(value.Float(2.0), value.Float(-1.0))
	require.Nil(t, err)
	f, _ = v.AsFloat()
	require.InDelta(t, 0.5, f, 1e-12)
}
