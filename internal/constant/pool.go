package constant

import "github.com/isaacazuelos/kurt/pkg/index"

// Pool is a deduplicated constant table, indexed by index.Constant. This
// adapts hive/index's map-plus-append dedup discipline (e.g. StringIndex /
// UniqueIndex there dedupe names by a composite key) to constants instead
// of registry names: Insert returns the same index.Constant for two equal
// literals.
//
// Pool is truncatable: compile errors roll back a push_syntax call by
// restoring the pool to a previously-recorded length (spec.md §4.2,
// "Resumable compilation").
type Pool struct {
	byKey map[key]index.Constant
	all   []Constant
}

// NewPool creates an empty constant pool.
func NewPool() *Pool {
	return &Pool{byKey: make(map[key]index.Constant)}
}

// Len reports how many distinct constants are currently pooled.
func (p *Pool) Len() int { return len(p.all) }

// Insert adds c to the pool if it isn't already present, returning its
// index.Constant either way. ok is false if the pool is already at
// index.Max[index.ConstantKind] capacity.
func (p *Pool) Insert(c Constant) (index.Constant, bool) {
	k := c.key()
	if i, found := p.byKey[k]; found {
		return i, true
	}

	if len(p.all) >= int(index.Max[index.ConstantKind]().AsU32()) {
		return index.Constant{}, false
	}

	i := index.New[index.ConstantKind](uint32(len(p.all)))
	p.all = append(p.all, c)
	p.byKey[k] = i
	return i, true
}

// Get returns the constant at i, if any.
func (p *Pool) Get(i index.Constant) (Constant, bool) {
	if i.AsUsize() >= len(p.all) {
		return Constant{}, false
	}
	return p.all[i.AsUsize()], true
}

// AsSlice returns every pooled constant in index order. The returned slice
// must not be mutated by the caller.
func (p *Pool) AsSlice() []Constant { return p.all }

// Truncate drops every constant inserted after length n, and forgets their
// dedup-map entries, restoring the pool to an earlier compile-time
// checkpoint.
func (p *Pool) Truncate(n int) {
	for i := n; i < len(p.all); i++ {
		delete(p.byKey, p.all[i].key())
	}
	p.all = p.all[:n]
}
