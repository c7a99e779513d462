// Package primitives implements the VM's operator dispatch table: the
// arithmetic, bitwise, comparison, and subscript operations spec.md §4.1
// and §4.5 assign to the Neg/Not/Add/.../Index opcodes. It sits above both
// pkg/value and pkg/object (and so above pkg/heap) because equality and
// subscripting need to dereference Object-tagged operands, something
// neither lower package may do without creating an import cycle.
package primitives

import (
	"math"

	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/object"
	"github.com/isaacazuelos/kurt/pkg/value"
)

// Dispatcher resolves operator opcodes against Values, dereferencing
// Object-tagged operands through h where needed (equality, subscripting).
type Dispatcher struct {
	h *heap.Heap
}

// New builds a Dispatcher backed by h.
func New(h *heap.Heap) *Dispatcher { return &Dispatcher{h: h} }

func mismatch(a, b value.Value, op string) *diagnostic.RuntimeError {
	return diagnostic.OperationNotSupported(a.Kind().String()+", "+b.Kind().String(), op)
}

func unsupported(v value.Value, op string) *diagnostic.RuntimeError {
	return diagnostic.OperationNotSupported(v.Kind().String(), op)
}

func numberTooBig(op string) *diagnostic.RuntimeError {
	return &diagnostic.RuntimeError{Kind: diagnostic.KindNumberTooBig, Msg: op}
}

// --- unary ---------------------------------------------------------------

// Neg implements unary '-'. It is defined for Int and Float only; negating
// a Nat would leave the result's type representable but semantically
// outside the Nat domain, so it is rejected like any other kind mismatch.
func (d *Dispatcher) Neg(v value.Value) (value.Value, *diagnostic.RuntimeError) {
	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		n, ok := value.NewI48(-i.AsI64())
		if !ok {
			return value.Value{}, numberTooBig("-")
		}
		return value.Int(n), nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		return value.Float(-f), nil
	default:
		return value.Value{}, unsupported(v, "-")
	}
}

// Not implements unary '!', defined only for Bool.
func (d *Dispatcher) Not(v value.Value) (value.Value, *diagnostic.RuntimeError) {
	b, ok := v.AsBool()
	if !ok {
		return value.Value{}, unsupported(v, "!")
	}
	return value.Bool(!b), nil
}

// --- arithmetic ------------------------------------------------------------

type checkedU48Op func(a, b value.U48) (value.U48, bool)
type checkedI48Op func(a, b value.I48) (value.I48, bool)
type float64Op func(a, b float64) float64

func (d *Dispatcher) arith(a, b value.Value, op string, onNat checkedU48Op, onInt checkedI48Op, onFloat float64Op) (value.Value, *diagnostic.RuntimeError) {
	switch {
	case a.IsNat() && b.IsNat():
		na, _ := a.AsNat()
		nb, _ := b.AsNat()
		result, ok := onNat(na, nb)
		if !ok {
			return value.Value{}, numberTooBig(op)
		}
		return value.Nat(result), nil
	case a.IsInt() && b.IsInt():
		ia, _ := a.AsInt()
		ib, _ := b.AsInt()
		result, ok := onInt(ia, ib)
		if !ok {
			return value.Value{}, numberTooBig(op)
		}
		return value.Int(result), nil
	case a.IsFloat() && b.IsFloat():
		fa, _ := a.AsFloat()
		fb, _ := b.AsFloat()
		return value.Float(onFloat(fa, fb)), nil
	default:
		return value.Value{}, mismatch(a, b, op)
	}
}

func (d *Dispatcher) Add(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.arith(a, b, "+", value.U48.CheckedAdd, value.I48.CheckedAdd, func(x, y float64) float64 { return x + y })
}

func (d *Dispatcher) Sub(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.arith(a, b, "-", value.U48.CheckedSub, value.I48.CheckedSub, func(x, y float64) float64 { return x - y })
}

func (d *Dispatcher) Mul(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.arith(a, b, "*", value.U48.CheckedMul, value.I48.CheckedMul, func(x, y float64) float64 { return x * y })
}

func (d *Dispatcher) Div(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.arith(a, b, "/", value.U48.CheckedDiv, value.I48.CheckedDiv, func(x, y float64) float64 { return x / y })
}

func (d *Dispatcher) Rem(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.arith(a, b, "%", value.U48.CheckedRem, value.I48.CheckedRem, func(x, y float64) float64 {
		return x - y*float64(int64(x/y))
	})
}

func (d *Dispatcher) Pow(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.arith(a, b, "**", value.U48.CheckedPow, value.I48.CheckedPow, math.Pow)
}

// --- bitwise ----------------------------------------------------------------

// bitwise implements the three operators (&, |, ^) that accept Bool, Nat,
// and Int operands alike.
func (d *Dispatcher) bitwise(a, b value.Value, op string, onBool func(x, y bool) bool, onNat func(x, y uint64) uint64, onInt func(x, y int64) int64) (value.Value, *diagnostic.RuntimeError) {
	switch {
	case a.IsBool() && b.IsBool():
		ba, _ := a.AsBool()
		bb, _ := b.AsBool()
		return value.Bool(onBool(ba, bb)), nil
	case a.IsNat() && b.IsNat():
		na, _ := a.AsNat()
		nb, _ := b.AsNat()
		return value.Nat(value.NewU48Unchecked(onNat(na.AsU64(), nb.AsU64()))), nil
	case a.IsInt() && b.IsInt():
		ia, _ := a.AsInt()
		ib, _ := b.AsInt()
		return value.Int(value.NewI48Unchecked(onInt(ia.AsI64(), ib.AsI64()))), nil
	default:
		return value.Value{}, mismatch(a, b, op)
	}
}

func (d *Dispatcher) BitAnd(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.bitwise(a, b, "&",
		func(x, y bool) bool { return x && y },
		func(x, y uint64) uint64 { return x & y },
		func(x, y int64) int64 { return x & y })
}

func (d *Dispatcher) BitOr(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.bitwise(a, b, "|",
		func(x, y bool) bool { return x || y },
		func(x, y uint64) uint64 { return x | y },
		func(x, y int64) int64 { return x | y })
}

func (d *Dispatcher) BitXor(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	return d.bitwise(a, b, "^",
		func(x, y bool) bool { return x != y },
		func(x, y uint64) uint64 { return x ^ y },
		func(x, y int64) int64 { return x ^ y })
}

// Shl accepts Nat and Int; Shr, like the original runtime's bit_shr, is
// Nat-only (signed arithmetic shift right has no opcode of its own here).

func (d *Dispatcher) Shl(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	switch {
	case a.IsNat() && b.IsNat():
		na, _ := a.AsNat()
		nb, _ := b.AsNat()
		return value.Nat(value.NewU48Unchecked((na.AsU64() << nb.AsU64()) & value.U48Max)), nil
	case a.IsInt() && b.IsInt():
		ia, _ := a.AsInt()
		ib, _ := b.AsInt()
		if ib.AsI64() < 0 {
			return value.Value{}, numberTooBig("<<")
		}
		n, ok := value.NewI48(ia.AsI64() << uint(ib.AsI64()))
		if !ok {
			return value.Value{}, numberTooBig("<<")
		}
		return value.Int(n), nil
	default:
		return value.Value{}, mismatch(a, b, "<<")
	}
}

func (d *Dispatcher) Shr(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	if !a.IsNat() || !b.IsNat() {
		return value.Value{}, mismatch(a, b, ">>")
	}
	na, _ := a.AsNat()
	nb, _ := b.AsNat()
	return value.Nat(value.NewU48Unchecked(na.AsU64() >> nb.AsU64())), nil
}

// --- comparisons -----------------------------------------------------------

// numericCompare returns -1, 0, or 1 as a is less than, equal to, or
// greater than b for two same-kind numeric Values, or an error if their
// kinds don't match or aren't numeric.
func (d *Dispatcher) numericCompare(a, b value.Value, op string) (int, *diagnostic.RuntimeError) {
	switch {
	case a.IsNat() && b.IsNat():
		na, _ := a.AsNat()
		nb, _ := b.AsNat()
		switch {
		case na.AsU64() < nb.AsU64():
			return -1, nil
		case na.AsU64() > nb.AsU64():
			return 1, nil
		default:
			return 0, nil
		}
	case a.IsInt() && b.IsInt():
		ia, _ := a.AsInt()
		ib, _ := b.AsInt()
		switch {
		case ia.AsI64() < ib.AsI64():
			return -1, nil
		case ia.AsI64() > ib.AsI64():
			return 1, nil
		default:
			return 0, nil
		}
	case a.IsFloat() && b.IsFloat():
		fa, _ := a.AsFloat()
		fb, _ := b.AsFloat()
		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, mismatch(a, b, op)
	}
}

func (d *Dispatcher) Lt(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	c, err := d.numericCompare(a, b, "<")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(c < 0), nil
}

func (d *Dispatcher) Le(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	c, err := d.numericCompare(a, b, "<=")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(c <= 0), nil
}

func (d *Dispatcher) Gt(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	c, err := d.numericCompare(a, b, ">")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(c > 0), nil
}

func (d *Dispatcher) Ge(a, b value.Value) (value.Value, *diagnostic.RuntimeError) {
	c, err := d.numericCompare(a, b, ">=")
	if err != nil {
		return value.Value{}, err
	}
	return value.Bool(c >= 0), nil
}

// Eq implements structural equality: Strings and Keywords compare by
// content, Lists and Tuples compare element-by-element, and every other
// managed class (Closure, Prototype, CaptureCell, Module) compares by heap
// identity, per spec.md §4.5. Eq never errors -- values of different kinds
// are simply unequal.
func (d *Dispatcher) Eq(a, b value.Value) value.Value {
	return value.Bool(d.equal(a, b))
}

// Ne is the negation of Eq.
func (d *Dispatcher) Ne(a, b value.Value) value.Value {
	return value.Bool(!d.equal(a, b))
}

func (d *Dispatcher) equal(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.KindFloat:
		fa, _ := a.AsFloat()
		fb, _ := b.AsFloat()
		return fa == fb
	case value.KindObject:
		ra, _ := a.AsObject()
		rb, _ := b.AsObject()
		return d.equalRefs(ra, rb)
	default:
		return a.Bits() == b.Bits()
	}
}

func (d *Dispatcher) equalRefs(ra, rb heap.Ref) bool {
	if ra == rb {
		return true
	}
	objA, objB := d.h.Get(ra), d.h.Get(rb)
	if objA.ClassID() != objB.ClassID() {
		return false
	}
	switch a := objA.(type) {
	case *object.String:
		b := objB.(*object.String)
		return string(a.Bytes()) == string(b.Bytes())
	case *object.Keyword:
		b := objB.(*object.Keyword)
		return a.Text() == b.Text()
	case *object.List:
		b := objB.(*object.List)
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			ea, _ := a.Get(i)
			eb, _ := b.Get(i)
			if !d.equal(ea, eb) {
				return false
			}
		}
		return true
	case *object.Tuple:
		b := objB.(*object.Tuple)
		if a.Len() != b.Len() {
			return false
		}
		tagA, okA := a.Tag()
		tagB, okB := b.Tag()
		if okA != okB {
			return false
		}
		if okA && !d.equalRefs(tagA, tagB) {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			ea, _ := a.Get(i)
			eb, _ := b.Get(i)
			if !d.equal(ea, eb) {
				return false
			}
		}
		return true
	default:
		// Closures, Prototypes, CaptureCells, Modules: identity only.
		return false
	}
}

// --- subscripting ----------------------------------------------------------

// Index implements the Index opcode's subscript lookup on Lists and
// Tuples. A negative Int index counts from the end, per spec.md's
// "negative list index" testable property.
func (d *Dispatcher) Index(container, idx value.Value) (value.Value, *diagnostic.RuntimeError) {
	if !container.IsObject() {
		return value.Value{}, unsupported(container, "[]")
	}
	ref, _ := container.AsObject()
	obj := d.h.Get(ref)

	var length int
	var get func(int) (value.Value, bool)
	switch o := obj.(type) {
	case *object.List:
		length, get = o.Len(), o.Get
	case *object.Tuple:
		length, get = o.Len(), o.Get
	default:
		return value.Value{}, unsupported(container, "[]")
	}

	i, err := resolveIndex(idx, length)
	if err != nil {
		return value.Value{}, err
	}
	v, ok := get(i)
	if !ok {
		return value.Value{}, &diagnostic.RuntimeError{Kind: diagnostic.KindSubscriptIndexOutOfRange}
	}
	return v, nil
}

func resolveIndex(idx value.Value, length int) (int, *diagnostic.RuntimeError) {
	switch {
	case idx.IsNat():
		n, _ := idx.AsNat()
		return int(n.AsU64()), nil
	case idx.IsInt():
		i, _ := idx.AsInt()
		n := i.AsI64()
		if n < 0 {
			n += int64(length)
		}
		return int(n), nil
	default:
		return 0, unsupported(idx, "[]")
	}
}
