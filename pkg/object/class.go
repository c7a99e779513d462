// Package object defines the managed classes that live behind a Value's
// Object tag: String, Keyword, List, Tuple, Prototype, Closure,
// CaptureCell, and Module. Every class is a plain Go struct; the uniform
// "managed object" discipline spec.md asks for (a fixed header, a tracing
// contract) is provided by pkg/heap, which every class here plugs into by
// implementing heap.Tracer.
package object

import "github.com/isaacazuelos/kurt/pkg/heap"

// The class enum mirrors the Class byte hive/alloc uses to tag NK/VK/LF/...
// cells, but is declared directly against heap.ClassID rather than as a
// distinct type: every class's ClassID() method hands the Tracer interface
// one of these values.
const (
	ClassString heap.ClassID = iota + 1
	ClassKeyword
	ClassList
	ClassTuple
	ClassCaptureCell
	ClassPrototype
	ClassClosure
	ClassModule
)

// ClassName renders a class id for debug printing and panics.
func ClassName(c heap.ClassID) string {
	switch c {
	case ClassString:
		return "String"
	case ClassKeyword:
		return "Keyword"
	case ClassList:
		return "List"
	case ClassTuple:
		return "Tuple"
	case ClassCaptureCell:
		return "CaptureCell"
	case ClassPrototype:
		return "Prototype"
	case ClassClosure:
		return "Closure"
	case ClassModule:
		return "Module"
	default:
		return "Unknown"
	}
}
