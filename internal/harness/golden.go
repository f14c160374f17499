package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/causality/internal/multiverse"
	"github.com/roach88/causality/internal/paradox"
)

// TraceSnapshot is the golden-file shape: the full notification trace
// plus the final state, all deterministically ordered.
type TraceSnapshot struct {
	Scenario string           `json:"scenario"`
	Attempt  string           `json:"attempt"`
	Frames   int64            `json:"frames"`
	Trace    []map[string]any `json:"trace"`
	Final    map[string]any   `json:"final"`
}

func buildSnapshot(res *Result) TraceSnapshot {
	trace := make([]map[string]any, 0, len(res.Events))
	for _, ev := range res.Events {
		trace = append(trace, encodeEvent(ev))
	}

	nodes := make([]map[string]any, 0, len(res.Final.Graph.Nodes))
	for _, n := range res.Final.Graph.Nodes {
		nodes = append(nodes, map[string]any{
			"id":     n.ID,
			"state":  n.State,
			"exists": n.Exists,
		})
	}

	return TraceSnapshot{
		Scenario: res.Scenario,
		Attempt:  res.Attempt,
		Frames:   res.Frames,
		Trace:    trace,
		Final: map[string]any{
			"active_universe": res.Final.ActiveUniverse,
			"player":          map[string]any{"x": res.Final.Player.X, "y": res.Final.Player.Y},
			"paradox": map[string]any{
				"scalar": res.Final.Paradox.Scalar,
				"tier":   paradox.TierFor(res.Final.Paradox.Scalar).String(),
			},
			"nodes": nodes,
		},
	}
}

func encodeEvent(ev multiverse.Event) map[string]any {
	switch n := ev.Notification.(type) {
	case multiverse.NodeStateChanged:
		return map[string]any{
			"type":   "node_state_changed",
			"frame":  ev.Frame,
			"node":   string(n.Node),
			"state":  string(n.NewState),
			"exists": n.Exists,
		}
	case multiverse.ParadoxTierChanged:
		return map[string]any{
			"type":  "paradox_tier_changed",
			"frame": ev.Frame,
			"from":  n.From.String(),
			"to":    n.To.String(),
		}
	case multiverse.UniverseSwitched:
		return map[string]any{
			"type":  "universe_switched",
			"frame": ev.Frame,
			"from":  string(n.From),
			"to":    string(n.To),
			"pos":   map[string]any{"x": n.Pos.X, "y": n.Pos.Y},
		}
	default:
		return map[string]any{"type": "unknown", "frame": ev.Frame}
	}
}

// EventType names a notification for event_count assertions and trace
// output.
func EventType(ev multiverse.Event) string {
	switch ev.Notification.(type) {
	case multiverse.NodeStateChanged:
		return "node_state_changed"
	case multiverse.ParadoxTierChanged:
		return "paradox_tier_changed"
	case multiverse.UniverseSwitched:
		return "universe_switched"
	default:
		return "unknown"
	}
}

// RunWithGolden executes the scenario and compares its trace snapshot
// against testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario) error {
	t.Helper()

	res, err := Run(sc)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(buildSnapshot(res), "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, data)
	return nil
}
