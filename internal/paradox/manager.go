package paradox

import (
	"io"
	"log/slog"
)

// Defaults for passive decay. Decay removes DefaultDecayRate points per
// simulated second, but only after DefaultQuietWindow seconds have passed
// without any contribution.
const (
	DefaultDecayRate   = 0.5
	DefaultQuietWindow = 2.0
)

// Manager owns the paradox scalar, its ledger, and the tier state machine.
// Single-writer: the coordinator is the only mutator, so no locking.
type Manager struct {
	scalar float64
	ledger map[string]float64
	// sources holds contribution source ids in arrival order, for the
	// recent-source diagnostic query.
	sources []string

	tier     Tier
	terminal bool

	// quiet is simulated seconds since the last contribution.
	quiet       float64
	decayRate   float64
	quietWindow float64

	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithDecayRate overrides the passive decay rate in points per second.
func WithDecayRate(rate float64) Option {
	return func(m *Manager) { m.decayRate = rate }
}

// WithQuietWindow overrides the no-contribution window that must elapse
// before passive decay engages.
func WithQuietWindow(seconds float64) Option {
	return func(m *Manager) { m.quietWindow = seconds }
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager at zero paradox, tier Stable.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		ledger:      make(map[string]float64),
		decayRate:   DefaultDecayRate,
		quietWindow: DefaultQuietWindow,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add accumulates a contribution under sourceID, clamping the scalar at
// 100. The returned amount is what was actually applied after clamping,
// and the ledger records that applied amount, not the request.
func (m *Manager) Add(amount float64, sourceID string) (float64, error) {
	if amount <= 0 {
		return 0, NewInvalidAmountError(amount)
	}

	applied := amount
	if m.scalar+applied > scalarMax {
		applied = scalarMax - m.scalar
	}
	m.scalar += applied
	m.ledger[sourceID] += applied
	m.sources = append(m.sources, sourceID)
	m.quiet = 0

	if m.scalar >= scalarMax {
		m.terminal = true
	}

	m.logger.Debug("paradox added",
		"source", sourceID,
		"requested", amount,
		"applied", applied,
		"scalar", m.scalar)
	return applied, nil
}

// Reduce subtracts from the scalar, floored at 0. Reduction does not
// touch the ledger; contributions stay attributed to their sources.
func (m *Manager) Reduce(amount float64, reason string) error {
	if amount <= 0 {
		return NewInvalidAmountError(amount)
	}
	m.scalar -= amount
	if m.scalar < 0 {
		m.scalar = 0
	}
	m.logger.Debug("paradox reduced", "reason", reason, "amount", amount, "scalar", m.scalar)
	return nil
}

// Consume spends accumulated paradox as a resource. Unlike Reduce it
// fails rather than floors when the scalar cannot cover the request.
func (m *Manager) Consume(amount float64, reason string) error {
	if amount <= 0 {
		return NewInvalidAmountError(amount)
	}
	if amount > m.scalar {
		return NewInsufficientParadoxError(amount, m.scalar)
	}
	m.scalar -= amount
	m.logger.Debug("paradox consumed", "reason", reason, "amount", amount, "scalar", m.scalar)
	return nil
}

// Decay advances the quiet timer by dt simulated seconds and, once the
// quiet window has fully elapsed, bleeds the scalar at the decay rate.
// On the frame that crosses the window boundary only the post-window
// fraction of dt decays. Decay is suspended at Collapse and worse; high
// instability does not resolve itself.
func (m *Manager) Decay(dt float64) {
	if dt <= 0 {
		return
	}
	m.quiet += dt
	if m.quiet <= m.quietWindow {
		return
	}
	if TierFor(m.scalar) >= TierCollapse {
		return
	}
	decayable := m.quiet - m.quietWindow
	if decayable > dt {
		decayable = dt
	}
	m.scalar -= m.decayRate * decayable
	if m.scalar < 0 {
		m.scalar = 0
	}
}

// EvaluateTier compares the scalar against the thresholds and commits a
// tier transition if one occurred since the last evaluation. The boolean
// is true only on a crossing, so callers emit exactly one notification
// per threshold crossed, never one per frame.
func (m *Manager) EvaluateTier() (TierChange, bool) {
	next := TierFor(m.scalar)
	if next == m.tier {
		return TierChange{}, false
	}
	change := TierChange{From: m.tier, To: next}
	m.tier = next
	m.logger.Info("paradox tier changed",
		"from", change.From.String(),
		"to", change.To.String(),
		"scalar", m.scalar)
	return change, true
}

// Scalar returns the current instability value.
func (m *Manager) Scalar() float64 { return m.scalar }

// CurrentTier returns the last evaluated tier.
func (m *Manager) CurrentTier() Tier { return m.tier }

// Annihilated reports the terminal condition. It latches when the scalar
// first reaches 100 and survives later reductions.
func (m *Manager) Annihilated() bool { return m.terminal }

// Ledger returns a copy of the per-source contribution totals.
func (m *Manager) Ledger() map[string]float64 {
	out := make(map[string]float64, len(m.ledger))
	for k, v := range m.ledger {
		out[k] = v
	}
	return out
}

// RecentSources returns up to limit contribution source ids, most recent
// first.
func (m *Manager) RecentSources(limit int) []string {
	if limit <= 0 || len(m.sources) == 0 {
		return nil
	}
	if limit > len(m.sources) {
		limit = len(m.sources)
	}
	out := make([]string, 0, limit)
	for i := len(m.sources) - 1; i >= len(m.sources)-limit; i-- {
		out = append(out, m.sources[i])
	}
	return out
}

// Reset returns the manager to zero paradox, tier Stable, empty ledger.
// Used on level reload.
func (m *Manager) Reset() {
	m.scalar = 0
	m.ledger = make(map[string]float64)
	m.sources = nil
	m.tier = TierStable
	m.terminal = false
	m.quiet = 0
}

// Snapshot is the persistence shape for the manager.
type Snapshot struct {
	Scalar float64            `json:"scalar"`
	Ledger map[string]float64 `json:"ledger,omitempty"`
}

// Snapshot exports the scalar and ledger.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{Scalar: m.scalar, Ledger: m.Ledger()}
}

// Restore loads a snapshot, re-deriving tier and terminal state from the
// scalar.
func (m *Manager) Restore(snap Snapshot) {
	m.Reset()
	m.scalar = snap.Scalar
	if m.scalar < 0 {
		m.scalar = 0
	}
	if m.scalar > scalarMax {
		m.scalar = scalarMax
	}
	for k, v := range snap.Ledger {
		m.ledger[k] = v
	}
	m.tier = TierFor(m.scalar)
	m.terminal = m.scalar >= scalarMax
}
