// Package graph holds the class hierarchy as a plain adjacency graph for
// whole-index checks (roots, cycles) and diagram rendering.
package graph

import (
	"sort"

	"github.com/hargabyte/jhier/internal/hierarchy"
)

// Graph represents an in-memory inheritance graph.
type Graph struct {
	// Adjacency list: class -> its superclass
	Edges map[string][]string
	// Reverse adjacency: class -> classes that extend it
	ReverseEdges map[string][]string
}

// BuildFromHierarchy loads the superclass edges recorded in the store.
// Classes with declared methods but no recorded edge become isolated nodes.
func BuildFromHierarchy(s *hierarchy.Store) *Graph {
	g := New()
	for _, edge := range s.Edges() {
		g.AddEdge(edge.Class, edge.Superclass)
	}
	for _, cls := range s.Classes() {
		g.AddNode(cls)
	}
	return g
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Edges:        make(map[string][]string),
		ReverseEdges: make(map[string][]string),
	}
}

// AddNode adds node with no edges if it is not present.
func (g *Graph) AddNode(node string) {
	if _, ok := g.Edges[node]; !ok {
		g.Edges[node] = []string{}
	}
	if _, ok := g.ReverseEdges[node]; !ok {
		g.ReverseEdges[node] = []string{}
	}
}

// AddEdge records that from extends to.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)

	g.Edges[from] = append(g.Edges[from], to)
	g.ReverseEdges[to] = append(g.ReverseEdges[to], from)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Edges)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.Edges {
		count += len(targets)
	}
	return count
}

// Nodes returns all node IDs in the graph, sorted.
func (g *Graph) Nodes() []string {
	nodes := make([]string, 0, len(g.Edges))
	for node := range g.Edges {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Roots returns the classes with no recorded superclass, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for node, targets := range g.Edges {
		if len(targets) == 0 {
			roots = append(roots, node)
		}
	}
	sort.Strings(roots)
	return roots
}

// InDegree returns the number of direct subclasses of node.
func (g *Graph) InDegree(node string) int {
	return len(g.ReverseEdges[node])
}

// Subgraph keeps nodes and the edges between them.
func (g *Graph) Subgraph(nodes []string) *Graph {
	keep := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		keep[n] = true
	}

	sub := New()
	for _, n := range nodes {
		sub.AddNode(n)
	}
	for _, n := range nodes {
		for _, sup := range g.Edges[n] {
			if keep[sup] {
				sub.AddEdge(n, sup)
			}
		}
	}
	return sub
}

// Family returns the subgraph of cls, its ancestors and all its descendants.
func (g *Graph) Family(cls string) *Graph {
	if _, ok := g.Edges[cls]; !ok {
		return New()
	}
	nodes := g.BFS(cls, Up)
	nodes = append(nodes, g.BFS(cls, Down)[1:]...)
	return g.Subgraph(nodes)
}
