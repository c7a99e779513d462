package compiler

import "github.com/isaacazuelos/kurt/pkg/index"

// Options bounds the typed-index spaces a single module compile may use.
// The zero value is not useful on its own; DefaultOptions fills every
// field to its typed index's maximum, following hive/builder's
// Options-struct-with-Default-constructor pattern.
type Options struct {
	// MaxOps is not read by the compiler: the length of a function's code
	// is not checked against it.
	MaxOps        uint32
	MaxConstants  uint32
	MaxLocals     uint32
	MaxParameters uint32
	MaxCaptures   uint32
	MaxArguments  uint32
	MaxFunctions  uint32
	MaxExports    uint32
	MaxImports    uint32

	// StripDebug is not read by the compiler; setting it does not change
	// the compiled output, which always carries each prototype's name and
	// span.
	StripDebug bool
}

// DefaultOptions sets every limit to the corresponding typed index's
// capacity, so a compile only ever fails on a limit the VM's 32-bit
// indices couldn't represent anyway.
func DefaultOptions() Options {
	return Options{
		MaxOps:        index.Max[index.OpKind]().AsU32(),
		MaxConstants:  index.Max[index.ConstantKind]().AsU32(),
		MaxLocals:     index.Max[index.LocalKind]().AsU32(),
		MaxParameters: index.Max[index.LocalKind]().AsU32(),
		MaxCaptures:   index.Max[index.CaptureKind]().AsU32(),
		MaxArguments:  index.Max[index.LocalKind]().AsU32(),
		MaxFunctions:  index.Max[index.PrototypeKind]().AsU32(),
		MaxExports:    index.Max[index.ExportKind]().AsU32(),
		MaxImports:    index.Max[index.ImportKind]().AsU32(),
	}
}
