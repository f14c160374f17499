package causal

// Kind names an operator for wire formats (snapshots, level files).
type Kind string

const (
	KindEcho        Kind = "echo"
	KindInverse     Kind = "inverse"
	KindConditional Kind = "conditional"
	KindExclusive   Kind = "exclusive"
	KindCascade     Kind = "cascade"
)

// Operator is the closed union of causal edge operators.
//
// The union is deliberately closed: adding an operator means touching every
// exhaustive switch in this package, which the compiler flags via the
// default-case errors below. Runtime string dispatch is never used.
type Operator interface {
	Kind() Kind

	// isOperator restricts implementations to this package.
	isOperator()
}

// Echo copies the source state onto the target verbatim.
type Echo struct{}

// Inverse applies the categorical inverse of the source state.
type Inverse struct{}

// Conditional applies the source state only while the target node's tracked
// condition holds. The condition is re-read at propagation time, never
// cached on the edge.
type Conditional struct{}

// Exclusive marks the target existence-prevented while the source exists.
// Universes lists the bound universe names the prevention covers: a target
// declaring a universe outside the list is untouched. An empty list, or a
// target with no declared universe, binds unconditionally.
type Exclusive struct {
	Universes []string
}

// covers reports whether the binding reaches the target's universe.
func (op Exclusive) covers(universe string) bool {
	if len(op.Universes) == 0 || universe == "" {
		return true
	}
	for _, u := range op.Universes {
		if u == universe {
			return true
		}
	}
	return false
}

// Cascade applies Echo and charges a paradox increment per hop as the change
// chains into the next universe in the configured ordering. Increment of 0
// means "use the coordinator default".
type Cascade struct {
	Increment float64
}

func (Echo) Kind() Kind        { return KindEcho }
func (Inverse) Kind() Kind     { return KindInverse }
func (Conditional) Kind() Kind { return KindConditional }
func (Exclusive) Kind() Kind   { return KindExclusive }
func (Cascade) Kind() Kind     { return KindCascade }

func (Echo) isOperator()        {}
func (Inverse) isOperator()     {}
func (Conditional) isOperator() {}
func (Exclusive) isOperator()   {}
func (Cascade) isOperator()     {}

// Contradiction weights by operator class. Exclusive and Cascade
// contradictions destabilize harder than Echo and Inverse ones.
const (
	weightLight = 4.0
	weightHeavy = 10.0
)

// contradictionWeight returns the paradox magnitude a contradiction through
// this operator contributes.
func contradictionWeight(op Operator) float64 {
	switch op.(type) {
	case Echo, Inverse, Conditional:
		return weightLight
	case Exclusive, Cascade:
		return weightHeavy
	default:
		// Unreachable for the closed union; weigh unknowns heavy so a
		// future operator is never silently cheap.
		return weightHeavy
	}
}
