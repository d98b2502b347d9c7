// Package ptgraph builds the pt-conflict-graph: an auxiliary undirected
// graph over (template, operation, connectedness, in/out) tuples whose
// reachability relation certifies whether a candidate cycle closes. It is
// built fresh for each (o1, p1, t1, h) enumeration round and queried many
// times, so the transitive closure is precomputed once per round as a
// connected-component index rather than recomputed per query.
package ptgraph

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"

	"github.com/dbrobust/txn-robust-check/internal/conflict"
	"github.com/dbrobust/txn-robust-check/internal/model"
)

// GraphNode is a vertex of the pt-conflict-graph. Two nodes with the same
// Template name, Operation.Key(), Conn and K collapse to the same vertex —
// matching the reference's dataclass-identity node semantics.
type GraphNode struct {
	Template  *model.Template
	Operation model.Operation
	Conn      model.Conn
	K         model.InOut
}

// ID returns the deterministic vertex key for this node.
func (n GraphNode) ID() string {
	return fmt.Sprintf("%s\x00%s\x00%d\x00%d", n.Template.Name, n.Operation.Key(), n.Conn, n.K)
}

// Graph is a built pt-conflict-graph together with its precomputed
// reachability (reflexive transitive closure) index.
type Graph struct {
	underlying *core.Graph
	components []component
}

type component struct {
	nodes []GraphNode
}

// Build constructs the pt-conflict-graph for one (o1, p1, t1, h)
// enumeration round over all templates.
func Build(o1, p1 model.Operation, t1 *model.Template, h int, templates *model.TemplateSet) (*Graph, error) {
	if h != 1 && h != 2 {
		return nil, fmt.Errorf("%w: h must be 1 or 2, got %d", model.ErrContractViolation, h)
	}

	underlying := core.NewGraph()
	nodesByID := make(map[string]GraphNode)
	var order []GraphNode

	for _, t := range templates.Templates() {
		for _, op := range t.Operations {
			for _, c := range []model.Conn{model.ConnO, model.ConnP, model.ConnN} {
				for _, k := range []model.InOut{model.In, model.Out} {
					node := GraphNode{Template: t, Operation: op, Conn: c, K: k}
					if !isNodeValid(node, o1, p1, t1) {
						continue
					}
					if _, seen := nodesByID[node.ID()]; seen {
						continue
					}
					nodesByID[node.ID()] = node
					order = append(order, node)
					if err := underlying.AddVertex(node.ID()); err != nil {
						return nil, fmt.Errorf("ptgraph: adding vertex: %w", err)
					}
				}
			}
		}
	}

	for _, n1 := range order {
		for _, n2 := range order {
			if n1.ID() == n2.ID() {
				continue
			}
			if !isEdgeValid(n1, n2, h) {
				continue
			}
			// underlying is undirected and rejects multi-edges: a pair can
			// be valid in both directions (e.g. an E-cross edge one way and
			// an E-intra edge the other), and AddEdge already mirrors the
			// first direction into the adjacency list, so skip if either
			// direction is already present.
			if underlying.HasEdge(n1.ID(), n2.ID()) || underlying.HasEdge(n2.ID(), n1.ID()) {
				continue
			}
			if _, err := underlying.AddEdge(n1.ID(), n2.ID(), 0); err != nil {
				return nil, fmt.Errorf("ptgraph: adding edge: %w", err)
			}
		}
	}

	g := &Graph{underlying: underlying}
	if err := g.computeComponents(nodesByID); err != nil {
		return nil, err
	}
	return g, nil
}

// isNodeValid implements the node-validity predicate: an N-labeled node is
// always valid; an O- or P-labeled node is valid unless some operation of t1
// anchored at the matching label conflicts with an operation sharing the
// node's variable in the node's own template.
func isNodeValid(node GraphNode, o1, p1 model.Operation, t1 *model.Template) bool {
	if node.Conn == model.ConnN {
		return true
	}
	for _, op1 := range t1.Operations {
		matchesAnchor := (node.Conn == model.ConnO && op1.Variable == o1.Variable) ||
			(node.Conn == model.ConnP && op1.Variable == p1.Variable)
		if !matchesAnchor {
			continue
		}
		for _, op := range node.Template.Operations {
			if op.Variable == node.Operation.Variable && conflict.Is(op1, op) {
				return false
			}
		}
	}
	return true
}

// isEdgeValid implements the two edge-validity rule families: E-cross, an
// OUT->IN conflict between two nodes sharing a connectedness label (the two
// nodes may belong to the same template); and E-intra, three variants of the within-template
// transition between a template's IN role and its OUT role.
func isEdgeValid(n1, n2 GraphNode, h int) bool {
	if n1.K == model.Out && n2.K == model.In {
		return n1.Conn == n2.Conn && conflict.Is(n1.Operation, n2.Operation)
	}
	if n1.K == model.In && n2.K == model.Out && n1.Template.Name == n2.Template.Name {
		if n1.Operation.Variable != n2.Operation.Variable && isIntraCrossVariable(n1.Conn, n2.Conn) {
			return true
		}
		if n1.Operation.Variable == n2.Operation.Variable && n1.Conn == n2.Conn {
			return true
		}
		if n1.Operation.Variable == n2.Operation.Variable &&
			n1.Conn == model.ConnO && n2.Conn == model.ConnP && h == 1 {
			return true
		}
	}
	return false
}

func isIntraCrossVariable(c1, c2 model.Conn) bool {
	switch {
	case c1 == model.ConnO && c2 == model.ConnP:
		return true
	case c1 == model.ConnO && c2 == model.ConnN:
		return true
	case c1 == model.ConnN && c2 == model.ConnN:
		return true
	case c1 == model.ConnN && c2 == model.ConnP:
		return true
	default:
		return false
	}
}

func (g *Graph) computeComponents(nodesByID map[string]GraphNode) error {
	ids := make([]string, 0, len(nodesByID))
	for id := range nodesByID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	visited := make(map[string]bool, len(ids))
	for _, id := range ids {
		if visited[id] {
			continue
		}
		result, err := bfs.BFS(g.underlying, id)
		if err != nil {
			return fmt.Errorf("ptgraph: computing reachability from %q: %w", id, err)
		}
		comp := component{nodes: make([]GraphNode, 0, len(result.Order))}
		for _, visitedID := range result.Order {
			visited[visitedID] = true
			comp.nodes = append(comp.nodes, nodesByID[visitedID])
		}
		g.components = append(g.components, comp)
	}
	return nil
}

// Reachable reports whether the reflexive transitive closure contains an
// IN->OUT pair (a, b) with a.Conn == co2, a.Operation conflicting with o2,
// b.Conn == cpn, and b.Operation conflicting with pn. This is the
// Length-greater-than-3 reachability test of the cycle validator: since the
// underlying graph is undirected, its reflexive transitive closure is
// exactly "same connected component", so the check reduces to scanning each
// component once for a matching IN node and a matching OUT node.
func (g *Graph) Reachable(co2 model.Conn, o2 model.Operation, cpn model.Conn, pn model.Operation) bool {
	for _, comp := range g.components {
		var hasIn, hasOut bool
		for _, n := range comp.nodes {
			if !hasIn && n.K == model.In && n.Conn == co2 && conflict.Is(n.Operation, o2) {
				hasIn = true
			}
			if !hasOut && n.K == model.Out && n.Conn == cpn && conflict.Is(n.Operation, pn) {
				hasOut = true
			}
			if hasIn && hasOut {
				return true
			}
		}
	}
	return false
}
