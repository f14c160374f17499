package paradox

// Tier is the named instability range the scalar currently sits in.
// Tiers escalate monotonically with the scalar; there is no hysteresis,
// the same thresholds apply rising and falling.
type Tier int

const (
	TierStable Tier = iota
	TierUnstable
	TierCritical
	TierCollapse
	TierAnnihilation
)

// Tier thresholds. A scalar strictly above a threshold belongs to the
// next tier; exactly 100 is Annihilation.
const (
	thresholdUnstable = 25.0
	thresholdCritical = 50.0
	thresholdCollapse = 75.0
	scalarMax         = 100.0
)

func (t Tier) String() string {
	switch t {
	case TierStable:
		return "stable"
	case TierUnstable:
		return "unstable"
	case TierCritical:
		return "critical"
	case TierCollapse:
		return "collapse"
	case TierAnnihilation:
		return "annihilation"
	default:
		return "unknown"
	}
}

// TierFor maps a scalar value to its tier.
func TierFor(scalar float64) Tier {
	switch {
	case scalar >= scalarMax:
		return TierAnnihilation
	case scalar > thresholdCollapse:
		return TierCollapse
	case scalar > thresholdCritical:
		return TierCritical
	case scalar > thresholdUnstable:
		return TierUnstable
	default:
		return TierStable
	}
}

// TierChange records one threshold crossing.
type TierChange struct {
	From Tier
	To   Tier
}
