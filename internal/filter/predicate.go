package filter

// Predicate is a node of the store-agnostic filter expression tree.
// Stores type-switch over the concrete node types below.
type Predicate interface {
	isPredicate()
}

// And matches when every term matches. An And with no terms matches everything.
type And struct {
	Terms []Predicate
}

// Or matches when at least one term matches.
type Or struct {
	Terms []Predicate
}

// Exact is an exact string equality on Field.
type Exact struct {
	Field string
	Value string
}

// Partial is a case-insensitive substring match on Field.
type Partial struct {
	Field string
	Value string
}

// Range is an inclusive numeric range on Field.
type Range struct {
	Field string
	Min   float64
	Max   float64
}

// Equal is a numeric equality on Field.
type Equal struct {
	Field string
	Value float64
}

func (And) isPredicate()     {}
func (Or) isPredicate()      {}
func (Exact) isPredicate()   {}
func (Partial) isPredicate() {}
func (Range) isPredicate()   {}
func (Equal) isPredicate()   {}

// MatchAll returns the predicate that selects every profile.
func MatchAll() Predicate {
	return And{}
}

// IsMatchAll reports whether p selects every profile without constraints.
func IsMatchAll(p Predicate) bool {
	if p == nil {
		return true
	}
	and, ok := p.(And)
	return ok && len(and.Terms) == 0
}
