// Package opcode defines the fixed, word-sized instruction set the
// compiler emits and the VM interprets: spec.md §4.1 and §6.3.
//
// A single Op packs into 64 bits: 8 bits of opcode discriminant (Code) and
// up to 48 bits of immediate payload, exactly as internal/format packs an
// NK/VK cell's fields into a fixed-layout byte run. Encode/Decode convert to
// and from that packed uint64 word; everywhere else in the compiler and VM
// works with the unpacked Op struct, just as the teacher decodes an NK
// record once into a Go struct rather than re-parsing bytes on every field
// access.
package opcode

import "github.com/isaacazuelos/kurt/pkg/index"

// Code is the 8-bit opcode discriminant.
type Code uint8

const (
	// Control
	Halt Code = iota
	Nop
	Return
	Jump
	BranchFalse

	// Stack
	Pop
	DefineLocal
	CloseCapture

	// Values
	Unit
	True
	False
	Nat48
	Int48
	LoadConstant
	LoadLocal
	LoadCapture
	LoadClosure
	LoadSelf

	// Mutation: writes the top-of-stack value into a local slot or capture
	// cell without popping it, so assignment remains an expression that
	// evaluates to the value it assigned (spec.md §4.3's "writing a
	// capture... symmetric" with LoadLocal/LoadCapture).
	StoreLocal
	StoreCapture

	// Calls
	Call

	// Aggregates
	List
	Tuple

	// Indexing
	Index

	// Arithmetic / logic
	Neg
	Not
	Add
	Sub
	Mul
	Div
	Rem
	Pow
	BitAnd
	BitOr
	BitXor
	Shl
	Shr

	// Comparisons
	Eq
	Ne
	Lt
	Le
	Gt
	Ge

	// Reserved (spec.md §9: "Yield... treated as reserved"). Never emitted
	// by the compiler; the VM rejects it if ever fetched.
	Yield
)

var names = map[Code]string{
	Halt: "Halt", Nop: "Nop", Return: "Return", Jump: "Jump", BranchFalse: "BranchFalse",
	Pop: "Pop", DefineLocal: "DefineLocal", CloseCapture: "CloseCapture",
	Unit: "Unit", True: "True", False: "False", Nat48: "Nat48", Int48: "Int48",
	LoadConstant: "LoadConstant", LoadLocal: "LoadLocal", LoadCapture: "LoadCapture",
	LoadClosure: "LoadClosure", LoadSelf: "LoadSelf",
	StoreLocal: "StoreLocal", StoreCapture: "StoreCapture",
	Call: "Call", List: "List", Tuple: "Tuple", Index: "Index",
	Neg: "Neg", Not: "Not", Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div", Rem: "Rem", Pow: "Pow",
	BitAnd: "BitAnd", BitOr: "BitOr", BitXor: "BitXor", Shl: "Shl", Shr: "Shr",
	Eq: "Eq", Ne: "Ne", Lt: "Lt", Le: "Le", Gt: "Gt", Ge: "Ge",
	Yield: "Yield",
}

func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return "Unknown"
}

const payloadMask uint64 = (1 << 48) - 1

// tuple payload sub-fields: arity in the low 20 bits, a has-tag flag in bit
// 20, and the tag's constant index in the remaining 27 bits.
const (
	tupleArityBits = 20
	tupleArityMask = (1 << tupleArityBits) - 1
	tupleTagFlag   = uint64(1) << tupleArityBits
	tupleTagShift  = tupleArityBits + 1
)

// Op is one decoded instruction: a discriminant plus its immediate operand.
type Op struct {
	code    Code
	payload uint64
}

// Code returns the opcode discriminant.
func (op Op) Code() Code { return op.code }

// Encode packs op into its 64-bit word: 48 bits of payload in the low bits
// and the 8 bits of Code directly above them (bits 48-55); the top byte is
// zero.
func (op Op) Encode() uint64 {
	return (uint64(op.code) << 48) | (op.payload & payloadMask)
}

// Decode unpacks a 64-bit word into an Op.
func Decode(word uint64) Op {
	return Op{code: Code(word >> 48), payload: word & payloadMask}
}

// --- constructors -----------------------------------------------------

func mk(c Code) Op                    { return Op{code: c} }
func mkPayload(c Code, p uint64) Op   { return Op{code: c, payload: p & payloadMask} }
func mkIndex[K any](c Code, i index.Index[K]) Op {
	return mkPayload(c, uint64(i.AsU32()))
}

func MkHalt() Op        { return mk(Halt) }
func MkNop() Op         { return mk(Nop) }
func MkReturn() Op      { return mk(Return) }
func MkPop() Op         { return mk(Pop) }
func MkDefineLocal() Op { return mk(DefineLocal) }
func MkCloseCapture() Op { return mk(CloseCapture) }
func MkUnit() Op  { return mk(Unit) }
func MkTrue() Op  { return mk(True) }
func MkFalse() Op { return mk(False) }
func MkLoadSelf() Op { return mk(LoadSelf) }
func MkIndexOp() Op { return mk(Index) }
func MkNeg() Op { return mk(Neg) }
func MkNot() Op { return mk(Not) }
func MkAdd() Op { return mk(Add) }
func MkSub() Op { return mk(Sub) }
func MkMul() Op { return mk(Mul) }
func MkDiv() Op { return mk(Div) }
func MkRem() Op { return mk(Rem) }
func MkPow() Op { return mk(Pow) }
func MkBitAnd() Op { return mk(BitAnd) }
func MkBitOr() Op  { return mk(BitOr) }
func MkBitXor() Op { return mk(BitXor) }
func MkShl() Op     { return mk(Shl) }
func MkShr() Op     { return mk(Shr) }
func MkEq() Op { return mk(Eq) }
func MkNe() Op { return mk(Ne) }
func MkLt() Op { return mk(Lt) }
func MkLe() Op { return mk(Le) }
func MkGt() Op { return mk(Gt) }
func MkGe() Op { return mk(Ge) }
func MkYield() Op { return mk(Yield) }

func MkJump(target index.Op) Op        { return mkIndex(Jump, target) }
func MkBranchFalse(target index.Op) Op { return mkIndex(BranchFalse, target) }
func MkLoadConstant(i index.Constant) Op { return mkIndex(LoadConstant, i) }
func MkLoadLocal(i index.Local) Op       { return mkIndex(LoadLocal, i) }
func MkLoadCapture(i index.Capture) Op   { return mkIndex(LoadCapture, i) }
func MkLoadClosure(i index.Prototype) Op { return mkIndex(LoadClosure, i) }

func MkStoreLocal(i index.Local) Op     { return mkIndex(StoreLocal, i) }
func MkStoreCapture(i index.Capture) Op { return mkIndex(StoreCapture, i) }

func MkCall(argCount uint32) Op { return mkPayload(Call, uint64(argCount)) }
func MkList(n uint32) Op        { return mkPayload(List, uint64(n)) }

// MkTuple packs an arity and an optional tag constant index into one word.
// n must fit in 20 bits and tag's index (if present) in 27 bits; the
// compiler enforces both via TooManyArguments/TooManyConstants before
// emitting.
func MkTuple(n uint32, tag *index.Constant) Op {
	payload := uint64(n) & tupleArityMask
	if tag != nil {
		payload |= tupleTagFlag
		payload |= uint64(tag.AsU32()) << tupleTagShift
	}
	return mkPayload(Tuple, payload)
}

func MkNat48(n uint64) Op { return mkPayload(Nat48, n) }
func MkInt48(bits uint64) Op { return mkPayload(Int48, bits) }

// --- accessors ----------------------------------------------------------

func (op Op) JumpTarget() index.Op        { return index.New[index.OpKind](uint32(op.payload)) }
func (op Op) LoadConstantIndex() index.Constant { return index.New[index.ConstantKind](uint32(op.payload)) }
func (op Op) LoadLocalIndex() index.Local       { return index.New[index.LocalKind](uint32(op.payload)) }
func (op Op) LoadCaptureIndex() index.Capture   { return index.New[index.CaptureKind](uint32(op.payload)) }
func (op Op) LoadClosureIndex() index.Prototype { return index.New[index.PrototypeKind](uint32(op.payload)) }
func (op Op) StoreLocalIndex() index.Local       { return index.New[index.LocalKind](uint32(op.payload)) }
func (op Op) StoreCaptureIndex() index.Capture   { return index.New[index.CaptureKind](uint32(op.payload)) }
func (op Op) CallArgCount() uint32 { return uint32(op.payload) }
func (op Op) ListCount() uint32    { return uint32(op.payload) }
func (op Op) Nat48Bits() uint64    { return op.payload }
func (op Op) Int48Bits() uint64    { return op.payload }

// TupleArity and TupleTag unpack MkTuple's operand.
func (op Op) TupleArity() uint32 { return uint32(op.payload & tupleArityMask) }

func (op Op) TupleTag() (index.Constant, bool) {
	if op.payload&tupleTagFlag == 0 {
		return index.Constant{}, false
	}
	return index.New[index.ConstantKind](uint32(op.payload >> tupleTagShift)), true
}
