package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/vm"
	"github.com/isaacazuelos/kurt/pkg/heap"
	"github.com/isaacazuelos/kurt/pkg/object"
	"github.com/isaacazuelos/kurt/pkg/value"
)

// formatValue renders a Value for REPL/run output, dereferencing managed
// objects through the VM's heap as needed.
func formatValue(m *vm.VM, v value.Value) string {
	switch v.Kind() {
	case value.KindUnit:
		return "()"
	case value.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case value.KindChar:
		c, _ := v.AsChar()
		return "'" + string(c) + "'"
	case value.KindNat:
		n, _ := v.AsNat()
		return strconv.FormatUint(n.AsU64(), 10)
	case value.KindInt:
		i, _ := v.AsInt()
		return strconv.FormatInt(i.AsI64(), 10)
	case value.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case value.KindObject:
		ref, _ := v.AsObject()
		return formatObject(m, ref)
	default:
		return "<unknown>"
	}
}

func formatObject(m *vm.VM, ref heap.Ref) string {
	switch o := m.Heap().Get(ref).(type) {
	case *object.String:
		return strconv.Quote(o.Text())
	case *object.Keyword:
		return ":" + o.Text()
	case *object.List:
		parts := make([]string, o.Len())
		for i := range parts {
			el, _ := o.Get(i)
			parts[i] = formatValue(m, el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *object.Tuple:
		parts := make([]string, o.Len())
		for i := range parts {
			el, _ := o.Get(i)
			parts[i] = formatValue(m, el)
		}
		prefix := ""
		if tag, ok := o.Tag(); ok {
			kw := m.Heap().Get(tag).(*object.Keyword)
			prefix = ":" + kw.Text() + " "
		}
		return prefix + "(" + strings.Join(parts, ", ") + ")"
	case *object.Closure:
		return "<closure>"
	default:
		return fmt.Sprintf("<%T>", o)
	}
}

func printDisasm(built compiler.CompiledModule) {
	for i, p := range built.Prototypes {
		fmt.Printf("-- prototype %d: %s --\n", i, p.Name)
		for pc, op := range p.Code {
			fmt.Printf("%4d  %s\n", pc, op.Disassemble())
		}
	}
}
