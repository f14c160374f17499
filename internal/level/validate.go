package level

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/causality/internal/universe"
)

//go:embed schema.cue
var levelSchema string

// Validation error codes (V100-V199)
const (
	ErrSchemaViolation    = "V100" // CUE schema rejected the level shape
	ErrDuplicateNode      = "V101" // node id declared twice
	ErrDanglingEdge       = "V102" // edge endpoint not declared
	ErrSelfLoop           = "V103" // edge source equals target
	ErrBadGeometry        = "V104" // geometry rows malformed
	ErrBadSpawnNode       = "V105" // spawn references missing/mismatched node
	ErrDuplicateSpawn     = "V106" // entity spawned twice in one universe
	ErrAnchoredIncomplete = "V107" // anchored entity missing a counterpart
	ErrExclusiveHomes     = "V108" // exclusive entity in several universes unbound
	ErrCascadeOrder       = "V109" // cascade edge skips the cyclic universe order
)

// ValidationError is one level-definition violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors aggregates every violation found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d level violation(s): %s", len(errs), strings.Join(msgs, "; "))
}

// Validate checks the level against the embedded CUE schema and the
// structural rules the schema cannot express. All violations are returned,
// not just the first.
func (l *Level) Validate() []ValidationError {
	errs := l.validateSchema()
	errs = append(errs, l.validateGeometry()...)
	errs = append(errs, l.validateGraph()...)
	errs = append(errs, l.validateSpawns()...)
	return errs
}

func (l *Level) validateSchema() []ValidationError {
	ctx := cuecontext.New()
	schema := ctx.CompileString(levelSchema)
	if err := schema.Err(); err != nil {
		return []ValidationError{{
			Field:   "schema",
			Message: fmt.Sprintf("embedded schema failed to compile: %v", err),
			Code:    ErrSchemaViolation,
		}}
	}

	def := schema.LookupPath(cue.ParsePath("#Level"))
	unified := def.Unify(ctx.Encode(l))
	err := unified.Validate(cue.Concrete(false))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		errs = append(errs, ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: e.Error(),
			Code:    ErrSchemaViolation,
		})
	}
	return errs
}

func (l *Level) validateGeometry() []ValidationError {
	var errs []ValidationError
	for _, k := range universe.Order() {
		def, ok := l.Worlds[string(k)]
		if !ok {
			// The schema already reports the missing universe.
			continue
		}
		if _, err := universe.ParseRows(def.Geometry); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("universes.%s.geometry", k),
				Message: err.Error(),
				Code:    ErrBadGeometry,
			})
		}
	}
	return errs
}

func (l *Level) validateGraph() []ValidationError {
	var errs []ValidationError

	nodeIDs := make(map[string]bool)
	nodeWorld := make(map[string]string)
	for i, n := range l.Nodes {
		if nodeIDs[n.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("nodes[%d].id", i),
				Message: fmt.Sprintf("duplicate node id %q", n.ID),
				Code:    ErrDuplicateNode,
			})
		}
		nodeIDs[n.ID] = true
		nodeWorld[n.ID] = n.Universe
	}

	for i, e := range l.Edges {
		if !nodeIDs[e.Source] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d].source", i),
				Message: fmt.Sprintf("edge references undeclared node %q", e.Source),
				Code:    ErrDanglingEdge,
			})
		}
		if !nodeIDs[e.Target] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d].target", i),
				Message: fmt.Sprintf("edge references undeclared node %q", e.Target),
				Code:    ErrDanglingEdge,
			})
		}
		if e.Source != "" && e.Source == e.Target {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("edges[%d]", i),
				Message: fmt.Sprintf("node %q depends on itself", e.Source),
				Code:    ErrSelfLoop,
			})
		}
		// Cascade hops follow the cyclic universe order; an edge that
		// skips ahead would charge hops the ordering never produces.
		if e.Operator == "cascade" {
			src := universe.Kind(nodeWorld[e.Source])
			tgt := universe.Kind(nodeWorld[e.Target])
			if src.Valid() && tgt.Valid() && tgt != src.Next() {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("edges[%d]", i),
					Message: fmt.Sprintf("cascade from %s must target %s, got %s", src, src.Next(), tgt),
					Code:    ErrCascadeOrder,
				})
			}
		}
	}
	return errs
}

func (l *Level) validateSpawns() []ValidationError {
	var errs []ValidationError

	nodes := make(map[string]NodeDef)
	for _, n := range l.Nodes {
		nodes[n.ID] = n
	}

	seen := make(map[string]bool)
	// universes and node ids per entity, for the persistence rules
	entityWorlds := make(map[string][]string)
	entityNodes := make(map[string][]string)
	entityKind := make(map[string]string)

	for i, s := range l.Spawns {
		key := s.Universe + "/" + s.Entity
		if seen[key] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("spawns[%d]", i),
				Message: fmt.Sprintf("entity %q spawned twice in %s", s.Entity, s.Universe),
				Code:    ErrDuplicateSpawn,
			})
		}
		seen[key] = true
		entityWorlds[s.Entity] = append(entityWorlds[s.Entity], s.Universe)
		entityKind[s.Entity] = s.Persistence

		if s.Node == "" {
			continue
		}
		n, ok := nodes[s.Node]
		if !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("spawns[%d].node", i),
				Message: fmt.Sprintf("spawn references undeclared node %q", s.Node),
				Code:    ErrBadSpawnNode,
			})
			continue
		}
		if n.Universe != s.Universe {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("spawns[%d].node", i),
				Message: fmt.Sprintf("node %q belongs to %s, spawn is in %s", s.Node, n.Universe, s.Universe),
				Code:    ErrBadSpawnNode,
			})
		}
		entityNodes[s.Entity] = append(entityNodes[s.Entity], s.Node)
	}

	exclusiveEdged := make(map[string]bool)
	for _, e := range l.Edges {
		if e.Operator == "exclusive" {
			exclusiveEdged[e.Source] = true
			exclusiveEdged[e.Target] = true
		}
	}

	for entity, worlds := range entityWorlds {
		switch entityKind[entity] {
		case "anchored":
			if len(worlds) != len(universe.Order()) {
				errs = append(errs, ValidationError{
					Field:   "spawns",
					Message: fmt.Sprintf("anchored entity %q must have a counterpart in every universe, found %v", entity, worlds),
					Code:    ErrAnchoredIncomplete,
				})
			}
		case "exclusive":
			if len(worlds) < 2 {
				continue
			}
			bound := false
			for _, id := range entityNodes[entity] {
				if exclusiveEdged[id] {
					bound = true
					break
				}
			}
			if !bound {
				errs = append(errs, ValidationError{
					Field:   "spawns",
					Message: fmt.Sprintf("exclusive entity %q appears in %v without an exclusive edge binding a home universe", entity, worlds),
					Code:    ErrExclusiveHomes,
				})
			}
		}
	}
	return errs
}
