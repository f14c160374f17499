package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/causality/internal/causal"
	"github.com/roach88/causality/internal/level"
	"github.com/roach88/causality/internal/multiverse"
	"github.com/roach88/causality/internal/paradox"
	"github.com/roach88/causality/internal/universe"
)

// DefaultAttemptToken is the fixed token scenarios run under when none is
// declared, keeping golden traces byte-identical across runs.
const DefaultAttemptToken = "00000000-0000-7000-8000-000000000001"

// DefaultDT is the simulated seconds per advanced frame.
const DefaultDT = 0.1

// Result captures a completed scenario run.
type Result struct {
	Scenario string
	Attempt  string
	Frames   int64
	Events   []multiverse.Event
	Final    multiverse.Snapshot
}

// Run builds the scenario's level, executes the steps, and evaluates the
// assertions. A step outcome that disagrees with its ExpectError clause
// fails the run, as does any assertion.
func Run(sc *Scenario) (*Result, error) {
	if sc.Level == nil {
		return nil, fmt.Errorf("scenario %s: no level (use LoadFile to resolve level_path)", sc.Name)
	}

	tokenStr := sc.AttemptToken
	if tokenStr == "" {
		tokenStr = DefaultAttemptToken
	}
	token, err := uuid.Parse(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: bad attempt token: %w", sc.Name, err)
	}

	coord, err := level.Build(sc.Level, level.WithCoordinatorOptions(
		multiverse.WithTokenSource(func() (uuid.UUID, error) { return token, nil }),
	))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	dt := sc.DT
	if dt <= 0 {
		dt = DefaultDT
	}

	var events []multiverse.Event
	for i, step := range sc.Steps {
		err := runStep(coord, step, dt, &events)
		switch {
		case step.ExpectError == "" && err != nil:
			return nil, fmt.Errorf("scenario %s steps[%d]: %w", sc.Name, i, err)
		case step.ExpectError != "" && err == nil:
			return nil, fmt.Errorf("scenario %s steps[%d]: expected %s, step succeeded", sc.Name, i, step.ExpectError)
		case step.ExpectError != "" && codeOf(err) != step.ExpectError:
			return nil, fmt.Errorf("scenario %s steps[%d]: expected %s, got %w", sc.Name, i, step.ExpectError, err)
		}
	}

	res := &Result{
		Scenario: sc.Name,
		Attempt:  token.String(),
		Frames:   coord.Frame(),
		Events:   events,
		Final:    coord.Snapshot(),
	}

	if errs := Evaluate(sc, res); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return res, fmt.Errorf("scenario %s: %d assertion failure(s): %s", sc.Name, len(errs), strings.Join(msgs, "; "))
	}
	return res, nil
}

func runStep(coord *multiverse.Coordinator, s Step, dt float64, events *[]multiverse.Event) error {
	switch {
	case s.SetState != nil:
		return coord.EnqueueChange(causal.NodeID(s.SetState.Node), causal.State(s.SetState.State))
	case s.Switch != "":
		return coord.RequestSwitch(universe.Kind(s.Switch))
	case s.Move != nil:
		return coord.SetPlayerPosition(universe.Pos{X: s.Move.X, Y: s.Move.Y})
	case s.Advance > 0:
		for i := 0; i < s.Advance; i++ {
			if err := coord.Step(dt); err != nil {
				return err
			}
			*events = append(*events, coord.PollNotifications()...)
		}
		return nil
	default:
		return fmt.Errorf("step declares no action")
	}
}

// codeOf extracts the structured error code used by ExpectError matching.
func codeOf(err error) string {
	var ce *multiverse.CoordinatorError
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	var ge *causal.GraphError
	if errors.As(err, &ge) {
		return string(ge.Code)
	}
	var ue *universe.ContainerError
	if errors.As(err, &ue) {
		return string(ue.Code)
	}
	var pe *paradox.ManagerError
	if errors.As(err, &pe) {
		return string(pe.Code)
	}
	return ""
}
