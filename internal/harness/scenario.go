package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/causality/internal/level"
)

// Scenario is one scripted puzzle run.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description,omitempty"`

	// Level is the inline level definition. Exactly one of Level and
	// LevelPath must be set.
	Level *level.Level `yaml:"level,omitempty"`

	// LevelPath points to a level YAML file, relative to the scenario file.
	LevelPath string `yaml:"level_path,omitempty"`

	// DT is the simulated seconds per advanced frame. Defaults to 0.1.
	DT float64 `yaml:"dt,omitempty"`

	// AttemptToken fixes the attempt token for deterministic traces.
	// Defaults to a well-known constant token.
	AttemptToken string `yaml:"attempt_token,omitempty"`

	// Steps execute in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and the notification trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one scripted action. Exactly one of SetState, Switch, Move and
// Advance is set.
type Step struct {
	// SetState queues a node state change for the next advanced frame.
	SetState *SetStateStep `yaml:"set_state,omitempty"`

	// Switch requests a universe switch, applied at the next frame start.
	Switch string `yaml:"switch,omitempty"`

	// Move places the player within the active universe.
	Move *MoveStep `yaml:"move,omitempty"`

	// Advance steps the simulation this many frames.
	Advance int `yaml:"advance,omitempty"`

	// ExpectError names the error code this step must be rejected with
	// (e.g. ON_COOLDOWN). A step with ExpectError set fails the run if it
	// succeeds.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// SetStateStep queues one causal change.
type SetStateStep struct {
	Node  string `yaml:"node"`
	State string `yaml:"state"`
}

// MoveStep repositions the player.
type MoveStep struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Assertion validates the run outcome.
type Assertion struct {
	// Type selects the check: node_state, paradox_scalar, paradox_tier,
	// active_universe, or event_count.
	Type string `yaml:"type"`

	// Node and State/Exists are used by node_state.
	Node   string `yaml:"node,omitempty"`
	State  string `yaml:"state,omitempty"`
	Exists *bool  `yaml:"exists,omitempty"`

	// Scalar is used by paradox_scalar.
	Scalar *float64 `yaml:"scalar,omitempty"`

	// Tier is used by paradox_tier.
	Tier string `yaml:"tier,omitempty"`

	// Universe is used by active_universe.
	Universe string `yaml:"universe,omitempty"`

	// Event and Count are used by event_count.
	Event string `yaml:"event,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertNodeState      = "node_state"
	AssertParadoxScalar  = "paradox_scalar"
	AssertParadoxTier    = "paradox_tier"
	AssertActiveUniverse = "active_universe"
	AssertEventCount     = "event_count"
)

// Parse decodes a scenario, rejecting unknown keys.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario has no name")
	}
	if (sc.Level == nil) == (sc.LevelPath == "") {
		return nil, fmt.Errorf("scenario %s: exactly one of level and level_path required", sc.Name)
	}
	return &sc, nil
}

// LoadFile reads a scenario from path, resolving a relative level_path
// against the scenario's directory.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if sc.LevelPath != "" {
		lp := sc.LevelPath
		if !filepath.IsAbs(lp) {
			lp = filepath.Join(filepath.Dir(path), lp)
		}
		l, err := level.Load(lp)
		if err != nil {
			return nil, err
		}
		sc.Level = l
		sc.LevelPath = ""
	}
	return sc, nil
}
