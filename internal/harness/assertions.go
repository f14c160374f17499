package harness

import (
	"fmt"

	"github.com/roach88/causality/internal/paradox"
)

// Evaluate checks every scenario assertion against the run result and
// returns all failures, not just the first.
func Evaluate(sc *Scenario, res *Result) []error {
	var errs []error
	for i, a := range sc.Assertions {
		if err := checkAssertion(a, res); err != nil {
			errs = append(errs, fmt.Errorf("assertions[%d] (%s): %w", i, a.Type, err))
		}
	}
	return errs
}

func checkAssertion(a Assertion, res *Result) error {
	switch a.Type {
	case AssertNodeState:
		return checkNodeState(a, res)

	case AssertParadoxScalar:
		if a.Scalar == nil {
			return fmt.Errorf("missing scalar")
		}
		if got := res.Final.Paradox.Scalar; got != *a.Scalar {
			return fmt.Errorf("paradox scalar %g, want %g", got, *a.Scalar)
		}
		return nil

	case AssertParadoxTier:
		got := paradox.TierFor(res.Final.Paradox.Scalar).String()
		if got != a.Tier {
			return fmt.Errorf("paradox tier %s, want %s", got, a.Tier)
		}
		return nil

	case AssertActiveUniverse:
		if res.Final.ActiveUniverse != a.Universe {
			return fmt.Errorf("active universe %s, want %s", res.Final.ActiveUniverse, a.Universe)
		}
		return nil

	case AssertEventCount:
		var n int
		for _, ev := range res.Events {
			if EventType(ev) == a.Event {
				n++
			}
		}
		if n != a.Count {
			return fmt.Errorf("%d %s events, want %d", n, a.Event, a.Count)
		}
		return nil

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func checkNodeState(a Assertion, res *Result) error {
	for _, n := range res.Final.Graph.Nodes {
		if n.ID != a.Node {
			continue
		}
		if a.State != "" && n.State != a.State {
			return fmt.Errorf("node %s state %s, want %s", a.Node, n.State, a.State)
		}
		if a.Exists != nil && n.Exists != *a.Exists {
			return fmt.Errorf("node %s exists=%v, want %v", a.Node, n.Exists, *a.Exists)
		}
		return nil
	}
	return fmt.Errorf("node %s not in final snapshot", a.Node)
}
