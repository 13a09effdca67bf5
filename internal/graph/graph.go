// Package graph holds the directed social-interaction graph. Nodes are
// forum users carrying their profile columns as attributes; a directed
// edge means the source user initiated an interaction (answer or comment)
// toward the target user.
package graph

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// UserNode is a graph node keyed by the user id. All user columns except
// the id live in the attribute bag.
type UserNode struct {
	UserID int64
	Attrs  map[string]any
}

// ID implements gonum's graph.Node.
func (n *UserNode) ID() int64 { return n.UserID }

// Interaction is a directed, unlabeled edge. It carries an attribute bag
// only so nodes and edges normalize uniformly; the builder leaves it empty.
type Interaction struct {
	F, T  graph.Node
	Attrs map[string]any
}

// From implements gonum's graph.Edge.
func (e *Interaction) From() graph.Node { return e.F }

// To implements gonum's graph.Edge.
func (e *Interaction) To() graph.Node { return e.T }

// ReversedEdge implements gonum's graph.Edge.
func (e *Interaction) ReversedEdge() graph.Edge {
	return &Interaction{F: e.T, T: e.F, Attrs: e.Attrs}
}

// InteractionGraph is a simple directed graph: no parallel edges, and the
// builder never inserts self-loops. It is exclusively owned by the pipeline
// for the duration of a run; no locking.
type InteractionGraph struct {
	g *simple.DirectedGraph
}

// New creates an empty interaction graph
func New() *InteractionGraph {
	return &InteractionGraph{g: simple.NewDirectedGraph()}
}

// SetNode inserts a node for the user id, or replaces the attribute bag if
// the node already exists. Duplicate ids are last-write-wins.
func (ig *InteractionGraph) SetNode(id int64, attrs map[string]any) {
	if existing := ig.g.Node(id); existing != nil {
		existing.(*UserNode).Attrs = attrs
		return
	}
	ig.g.AddNode(&UserNode{UserID: id, Attrs: attrs})
}

// HasNode reports whether a node exists for the user id.
func (ig *InteractionGraph) HasNode(id int64) bool {
	return ig.g.Node(id) != nil
}

// Node returns the node for the user id, or nil.
func (ig *InteractionGraph) Node(id int64) *UserNode {
	if n := ig.g.Node(id); n != nil {
		return n.(*UserNode)
	}
	return nil
}

// AddEdge adds a directed edge from -> to, reporting whether the graph
// changed. Duplicate edges are collapsed. Both endpoints must already be
// nodes: the projections guarantee this, so a missing endpoint means the
// filters and the builder have diverged and the run must fail.
func (ig *InteractionGraph) AddEdge(from, to int64) (bool, error) {
	if from == to {
		return false, fmt.Errorf("self-loop on user %d", from)
	}
	f := ig.g.Node(from)
	if f == nil {
		return false, fmt.Errorf("edge source %d is not a node", from)
	}
	t := ig.g.Node(to)
	if t == nil {
		return false, fmt.Errorf("edge target %d is not a node", to)
	}
	if ig.g.HasEdgeFromTo(from, to) {
		return false, nil
	}
	ig.g.SetEdge(&Interaction{F: f, T: t, Attrs: map[string]any{}})
	return true, nil
}

// HasEdge reports whether a directed edge from -> to exists.
func (ig *InteractionGraph) HasEdge(from, to int64) bool {
	return ig.g.HasEdgeFromTo(from, to)
}

// NodeCount returns the number of nodes.
func (ig *InteractionGraph) NodeCount() int {
	return ig.g.Nodes().Len()
}

// EdgeCount returns the number of edges.
func (ig *InteractionGraph) EdgeCount() int {
	return ig.g.Edges().Len()
}

// Nodes returns all nodes sorted by user id. Sorting keeps downstream
// serialization deterministic.
func (ig *InteractionGraph) Nodes() []*UserNode {
	nodes := make([]*UserNode, 0, ig.g.Nodes().Len())
	it := ig.g.Nodes()
	for it.Next() {
		nodes = append(nodes, it.Node().(*UserNode))
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].UserID < nodes[j].UserID })
	return nodes
}

// Edges returns all edges sorted by (source, target).
func (ig *InteractionGraph) Edges() []*Interaction {
	edges := make([]*Interaction, 0, ig.g.Edges().Len())
	it := ig.g.Edges()
	for it.Next() {
		edges = append(edges, it.Edge().(*Interaction))
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].F.ID() != edges[j].F.ID() {
			return edges[i].F.ID() < edges[j].F.ID()
		}
		return edges[i].T.ID() < edges[j].T.ID()
	})
	return edges
}
