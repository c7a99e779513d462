package opcode

import "fmt"

// Disassemble renders one Op as a human-readable mnemonic line, the same
// shape `kurt disasm` prints and internal/compiler's golden tests compare
// against.
func (op Op) Disassemble() string {
	switch op.code {
	case Jump, BranchFalse:
		return fmt.Sprintf("%-12s %d", op.code, op.JumpTarget().AsU32())
	case LoadConstant:
		return fmt.Sprintf("%-12s %d", op.code, op.LoadConstantIndex().AsU32())
	case LoadLocal:
		return fmt.Sprintf("%-12s %d", op.code, op.LoadLocalIndex().AsU32())
	case LoadCapture:
		return fmt.Sprintf("%-12s %d", op.code, op.LoadCaptureIndex().AsU32())
	case LoadClosure:
		return fmt.Sprintf("%-12s %d", op.code, op.LoadClosureIndex().AsU32())
	case StoreLocal:
		return fmt.Sprintf("%-12s %d", op.code, op.StoreLocalIndex().AsU32())
	case StoreCapture:
		return fmt.Sprintf("%-12s %d", op.code, op.StoreCaptureIndex().AsU32())
	case Call:
		return fmt.Sprintf("%-12s %d", op.code, op.CallArgCount())
	case List:
		return fmt.Sprintf("%-12s %d", op.code, op.ListCount())
	case Nat48:
		return fmt.Sprintf("%-12s %d", op.code, op.Nat48Bits())
	case Int48:
		return fmt.Sprintf("%-12s %d", op.code, int64(op.Int48Bits()))
	case Tuple:
		if tag, ok := op.TupleTag(); ok {
			return fmt.Sprintf("%-12s %d, tag=%d", op.code, op.TupleArity(), tag.AsU32())
		}
		return fmt.Sprintf("%-12s %d", op.code, op.TupleArity())
	default:
		return op.code.String()
	}
}
