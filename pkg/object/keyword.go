package object

import "github.com/isaacazuelos/kurt/pkg/heap"

// Keyword is an interned-by-content atom, e.g. :ok or :error. It is stored
// like a String but tagged with its own class so primitives can dispatch on
// identity-like equality without confusing keywords with text.
type Keyword struct {
	bytes []byte // NUL-terminated, as String
}

// NewKeyword copies s into a new Keyword payload.
func NewKeyword(s string) *Keyword {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &Keyword{bytes: b}
}

// Text returns the keyword's name without its leading ':' or trailing NUL.
func (k *Keyword) Text() string { return string(k.bytes[:len(k.bytes)-1]) }

func (k *Keyword) ClassID() heap.ClassID { return ClassKeyword }
func (k *Keyword) Size() int             { return len(k.bytes) }
func (k *Keyword) EnqueueGCReferences(*heap.Worklist) {
	// Keywords hold no references to other managed objects.
}
