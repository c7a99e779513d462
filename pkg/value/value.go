// Package value implements the 64-bit NaN-boxed Value: the inline
// representation for (), booleans, characters, 48-bit naturals, 48-bit
// signed integers, IEEE-754 doubles, and a handle to a managed object.
//
// The encoding mirrors original_source/src/runtime/src/value/mod.rs
// bit-for-bit (packed mask, tag bits, payload mask); only the Object
// variant differs, carrying a heap.Ref (a slot-table index) in place of a
// raw pointer -- see pkg/heap's package doc for why.
package value

import (
	"math"

	"github.com/isaacazuelos/kurt/pkg/heap"
)

// Value is a trivially-copyable 8-byte word. It carries no ownership of its
// own; when it holds an Object tag, the referenced heap.Heap owns the
// payload.
type Value struct {
	bits uint64
}

// Kind identifies which variant a Value holds. It is a pure function of the
// value's bits.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindChar
	KindNat
	KindInt
	KindFloat
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindChar:
		return "Char"
	case KindNat:
		return "Nat"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Unit is the singleton value of type ().
var Unit = Value{bits: packedMask | uint64(tagUnit)}

// True and False are the two Bool values.
var (
	True  = Value{bits: packedMask | uint64(tagBool) | 1}
	False = Value{bits: packedMask | uint64(tagBool) | 0}
)

// NaN is the single canonical quiet NaN every non-finite float collapses to.
var NaN = Value{bits: safeNaNBits}

// Bool packs a bool as a Value.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Char packs a rune as a Value. The caller is responsible for ensuring c is
// a valid Unicode scalar value; the parser/lexer guarantees this upstream.
func Char(c rune) Value {
	return Value{bits: packedMask | uint64(tagChar) | uint64(uint32(c))}
}

// Nat packs a 48-bit natural as a Value.
func Nat(n U48) Value {
	return Value{bits: (n.AsU64() & payloadMask) | packedMask | uint64(tagNat)}
}

// Int packs a 48-bit signed integer as a Value.
func Int(i I48) Value {
	return Value{bits: (uint64(i.AsI64()) & payloadMask) | packedMask | uint64(tagInt)}
}

// Float packs a float64 as a Value. Any NaN input -- signaling, quiet, with
// any payload -- is canonicalized to the single Value::NaN bit pattern so no
// float ever collides with a packed tag.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return NaN
	}
	return Value{bits: math.Float64bits(f)}
}

// Object packs a heap reference as a Value.
func Object(r heap.Ref) Value {
	return Value{bits: (uint64(r) & payloadMask) | packedMask | uint64(tagObject)}
}

// IsUnit reports whether v is ().
func (v Value) IsUnit() bool { return v.bits == Unit.bits }

// IsBool reports whether v holds a Bool.
func (v Value) IsBool() bool { return isPacked(v.bits) && tagOf(v.bits) == tagBool }

// AsBool returns the boolean held by v, if any.
func (v Value) AsBool() (bool, bool) {
	switch v.bits {
	case True.bits:
		return true, true
	case False.bits:
		return false, true
	default:
		return false, false
	}
}

// IsChar reports whether v holds a Char.
func (v Value) IsChar() bool { return isPacked(v.bits) && tagOf(v.bits) == tagChar }

// AsChar returns the rune held by v, if any.
func (v Value) AsChar() (rune, bool) {
	if !v.IsChar() {
		return 0, false
	}
	return rune(payloadOf(v.bits)), true
}

// IsNat reports whether v holds a Nat.
func (v Value) IsNat() bool { return isPacked(v.bits) && tagOf(v.bits) == tagNat }

// AsNat returns the natural held by v, if any. It is always in
// [0, U48Max].
func (v Value) AsNat() (U48, bool) {
	if !v.IsNat() {
		return U48{}, false
	}
	return NewU48Unchecked(payloadOf(v.bits)), true
}

// IsInt reports whether v holds an Int.
func (v Value) IsInt() bool { return isPacked(v.bits) && tagOf(v.bits) == tagInt }

// AsInt returns the signed integer held by v, if any.
func (v Value) AsInt() (I48, bool) {
	if !v.IsInt() {
		return I48{}, false
	}
	return NewI48Unchecked(int64(payloadOf(v.bits))), true
}

// IsFloat reports whether v holds a Float. This is true for every bit
// pattern that isn't a recognized packed tag, including Value::NaN itself.
func (v Value) IsFloat() bool { return !isPacked(v.bits) }

// AsFloat returns the float64 held by v, if any. For finite inputs to
// Float, AsFloat(Float(f)) is bit-identical to f; any NaN always reads back
// as the single canonical NaN.
func (v Value) AsFloat() (float64, bool) {
	if !v.IsFloat() {
		return 0, false
	}
	return math.Float64frombits(v.bits), true
}

// IsObject reports whether v holds a heap reference.
func (v Value) IsObject() bool { return isPacked(v.bits) && tagOf(v.bits) == tagObject }

// AsObject returns the heap.Ref held by v, if any.
func (v Value) AsObject() (heap.Ref, bool) {
	if !v.IsObject() {
		return 0, false
	}
	return heap.Ref(payloadOf(v.bits)), true
}

// Kind returns which variant v holds.
func (v Value) Kind() Kind {
	if !isPacked(v.bits) {
		return KindFloat
	}
	switch tagOf(v.bits) {
	case tagUnit:
		return KindUnit
	case tagBool:
		return KindBool
	case tagChar:
		return KindChar
	case tagNat:
		return KindNat
	case tagInt:
		return KindInt
	case tagObject:
		return KindObject
	default:
		// tagReserved0/1: never produced by any constructor above.
		return KindUnit
	}
}

// IsTruthy implements spec.md §4.5's per-kind truthiness rule, used by
// BranchFalse.
func (v Value) IsTruthy() bool {
	switch v.Kind() {
	case KindUnit:
		return false
	case KindBool:
		b, _ := v.AsBool()
		return b
	case KindChar:
		c, _ := v.AsChar()
		return c != 0
	case KindNat:
		n, _ := v.AsNat()
		return n.AsU64() != 0
	case KindInt:
		i, _ := v.AsInt()
		return i.AsI64() != 0
	case KindFloat:
		f, _ := v.AsFloat()
		return f != 0.0
	case KindObject:
		return true
	default:
		return false
	}
}

// Bits exposes the raw 64-bit encoding, mostly for tests and debug dumps.
func (v Value) Bits() uint64 { return v.bits }
