package object

import "github.com/isaacazuelos/kurt/pkg/heap"

// String is an immutable UTF-8 byte sequence. Its length is derived from
// its own Bytes slice (standing in for "derived from allocation size" in a
// Go implementation where the heap slot, not the object, owns the
// allocation footprint); it holds a trailing NUL for cheap C-string
// interop and references no other managed objects.
type String struct {
	bytes []byte // always NUL-terminated; Bytes()/Text() trim it off
}

// NewString copies s into a new immutable String payload.
func NewString(s string) *String {
	b := make([]byte, len(s)+1)
	copy(b, s)
	// b[len(s)] is already the zero byte.
	return &String{bytes: b}
}

// Text returns the string's content without the trailing NUL.
func (s *String) Text() string { return string(s.bytes[:len(s.bytes)-1]) }

// Bytes returns the UTF-8 payload without the trailing NUL.
func (s *String) Bytes() []byte { return s.bytes[:len(s.bytes)-1] }

// CString returns the payload including its trailing NUL, for C interop.
func (s *String) CString() []byte { return s.bytes }

func (s *String) ClassID() heap.ClassID { return ClassString }
func (s *String) Size() int             { return len(s.bytes) }
func (s *String) EnqueueGCReferences(*heap.Worklist) {
	// Strings hold no references to other managed objects.
}
