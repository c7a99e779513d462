package object

import (
	"github.com/isaacazuelos/kurt/internal/opcode"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/heap"
)

// CaptureDescriptor tells LoadClosure where a capture's cell comes from:
// either a local slot in the enclosing frame, or a capture the enclosing
// closure already holds. This mirrors the original compiler's Capture
// descriptor (function.rs's add_capture, deduped by local_index+is_local).
type CaptureDescriptor struct {
	FromLocal bool
	Index     uint32
}

// Prototype is a compiled function body: its code, its capture layout, and
// a back-reference to the Module it was compiled into (so LoadConstant and
// LoadClosure inside its code can resolve against the right module's
// tables).
type Prototype struct {
	Module         heap.Ref
	Name           string // empty if anonymous
	ParameterCount uint32
	Captures       []CaptureDescriptor
	Code           []opcode.Op
	Span           diagnostic.Span
}

// NewPrototype builds a Prototype belonging to module.
func NewPrototype(module heap.Ref, name string, parameterCount uint32, captures []CaptureDescriptor, code []opcode.Op, span diagnostic.Span) *Prototype {
	return &Prototype{
		Module:         module,
		Name:           name,
		ParameterCount: parameterCount,
		Captures:       captures,
		Code:           code,
		Span:           span,
	}
}

func (p *Prototype) ClassID() heap.ClassID { return ClassPrototype }
func (p *Prototype) Size() int             { return len(p.Code)*8 + len(p.Captures)*8 + len(p.Name) }

// EnqueueGCReferences marks the owning module; the code and capture
// descriptors carry no managed references of their own.
func (p *Prototype) EnqueueGCReferences(w *heap.Worklist) {
	w.Enqueue(p.Module)
}
