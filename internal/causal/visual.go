package causal

// VisualNode is one node in a visualization export.
type VisualNode struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Exists bool   `json:"exists"`
}

// VisualEdge is one edge in a visualization export.
type VisualEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Operator string `json:"operator"`
}

// VisualData is the deterministic graph dump the causal-sight overlay and
// the CLI trace command render.
type VisualData struct {
	Nodes           []VisualNode `json:"nodes"`
	Edges           []VisualEdge `json:"edges"`
	LastPropagation [][2]NodeID  `json:"last_propagation,omitempty"`
}

// Visual exports the live graph in registration/insertion order.
func (g *Graph) Visual() VisualData {
	var v VisualData
	for h := range g.nodes {
		if !g.alive[h] {
			continue
		}
		n := g.nodes[h]
		v.Nodes = append(v.Nodes, VisualNode{
			ID:     string(n.ID),
			State:  string(n.State),
			Exists: n.Exists,
		})
	}
	for i := range g.edges {
		e := &g.edges[i]
		if e.dead {
			continue
		}
		v.Edges = append(v.Edges, VisualEdge{
			From:     string(e.Source),
			To:       string(e.Target),
			Operator: string(e.Op.Kind()),
		})
	}
	if g.lastPass != nil {
		v.LastPropagation = append(v.LastPropagation, g.lastPass.Path...)
	}
	return v
}
