package canon

// ConstantPool interns literal values the way internal/intern.Types
// interns structural types: a repeated string or big-integer literal
// gets one ConstantId, not one per occurrence (spec.md §4.J).
type ConstantPool struct {
	byKey map[Constant]ConstantId
	byId  []Constant
}

// NewConstantPool returns an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{byKey: make(map[Constant]ConstantId)}
}

// Intern returns c's id, reusing an existing entry for a structurally
// identical constant.
func (p *ConstantPool) Intern(c Constant) ConstantId {
	// -0.0 and +0.0 share one entry, stored as +0.0.
	if c.Kind == ConstFloat && c.FloatVal == 0 {
		c.FloatVal = 0
	}
	if id, ok := p.byKey[c]; ok {
		return id
	}
	id := ConstantId(len(p.byId))
	p.byId = append(p.byId, c)
	p.byKey[c] = id
	return id
}

// Lookup resolves id to its value.
func (p *ConstantPool) Lookup(id ConstantId) Constant { return p.byId[id] }

// Len reports how many distinct constants the pool holds.
func (p *ConstantPool) Len() int { return len(p.byId) }
