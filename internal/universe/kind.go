package universe

// Kind names one of the three parallel universes.
type Kind string

const (
	KindPrime    Kind = "prime"
	KindEcho     Kind = "echo"
	KindFracture Kind = "fracture"
)

// Order is the fixed universe ordering. Cascade hops and any per-universe
// iteration follow it so runs are reproducible.
func Order() []Kind {
	return []Kind{KindPrime, KindEcho, KindFracture}
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindPrime, KindEcho, KindFracture:
		return true
	}
	return false
}

// Next returns the successor in the cyclic ordering
// prime -> echo -> fracture -> prime.
func (k Kind) Next() Kind {
	switch k {
	case KindPrime:
		return KindEcho
	case KindEcho:
		return KindFracture
	default:
		return KindPrime
	}
}
