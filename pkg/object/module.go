package object

import (
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/isaacazuelos/kurt/pkg/value"
)

// Import names another module this one depends on, by the name given in
// its `import` statement. The VM keeps a loaded module's imports as a list
// and does not resolve them against its loaded-module table.
type Import struct {
	Name string
}

// Export names one of this module's top-level prototypes as visible to
// importers.
type Export struct {
	Name      string
	Prototype index.Prototype
}

// Module is the unit the VM loads and runs: a constant pool materialized
// onto the heap, the compiled functions it defines, and its import/export
// surface. MainPrototype identifies which of Prototypes is the module's
// entry point (spec.md §4.2's MAIN_NAME/MAIN convention).
type Module struct {
	Input         diagnostic.InputID
	Constants     []value.Value
	Prototypes    []heap.Ref // each a Prototype
	MainPrototype index.Prototype
	HasMain       bool
	Exports       []Export
	Imports       []Import
}

// NewModule builds a Module for the given input.
func NewModule(input diagnostic.InputID) *Module {
	return &Module{Input: input}
}

func (m *Module) ClassID() heap.ClassID { return ClassModule }
func (m *Module) Size() int             { return len(m.Constants)*8 + len(m.Prototypes)*4 }

// EnqueueGCReferences marks every Object-tagged constant and every
// prototype the module owns.
func (m *Module) EnqueueGCReferences(w *heap.Worklist) {
	for _, c := range m.Constants {
		if r, ok := c.AsObject(); ok {
			w.Enqueue(r)
		}
	}
	for _, p := range m.Prototypes {
		w.Enqueue(p)
	}
}
