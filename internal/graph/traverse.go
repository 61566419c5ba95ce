package graph

import "sort"

// Direction selects which edges a traversal follows.
type Direction int

const (
	// Up follows superclass edges.
	Up Direction = iota
	// Down follows subclass edges.
	Down
)

func (g *Graph) neighbors(node string, dir Direction) []string {
	if dir == Down {
		return g.ReverseEdges[node]
	}
	return g.Edges[node]
}

// BFS returns start and every class reachable from it in breadth-first
// order. Unknown start nodes yield just themselves.
func (g *Graph) BFS(start string, dir Direction) []string {
	order := []string{start}
	seen := map[string]bool{start: true}
	for i := 0; i < len(order); i++ {
		for _, next := range g.neighbors(order[i], dir) {
			if !seen[next] {
				seen[next] = true
				order = append(order, next)
			}
		}
	}
	return order
}

// FindCycles reports whether superclass edges loop back. The returned cycle
// starts and ends with the same class; nodes are tried in sorted order so
// the answer is stable across runs.
func (g *Graph) FindCycles() (bool, []string) {
	done := make(map[string]bool, len(g.Edges))
	onPath := make(map[string]int)
	var path []string

	var visit func(node string) []string
	visit = func(node string) []string {
		onPath[node] = len(path)
		path = append(path, node)
		for _, next := range g.Edges[node] {
			if at, ok := onPath[next]; ok {
				cycle := append([]string(nil), path[at:]...)
				return append(cycle, next)
			}
			if !done[next] {
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		delete(onPath, node)
		done[node] = true
		return nil
	}

	for _, node := range g.Nodes() {
		if done[node] {
			continue
		}
		if cycle := visit(node); cycle != nil {
			return true, cycle
		}
	}
	return false, nil
}

// TopologicalSort orders classes level by level from the roots, each level
// sorted, so a class always follows its superclass. It returns nil when the
// graph has a cycle.
func (g *Graph) TopologicalSort() []string {
	pending := make(map[string]int, len(g.Edges))
	for node, supers := range g.Edges {
		pending[node] = len(supers)
	}

	order := make([]string, 0, len(g.Edges))
	level := g.Roots()
	for len(level) > 0 {
		order = append(order, level...)
		var next []string
		for _, node := range level {
			for _, sub := range g.ReverseEdges[node] {
				if pending[sub]--; pending[sub] == 0 {
					next = append(next, sub)
				}
			}
		}
		sort.Strings(next)
		level = next
	}

	if len(order) != len(g.Edges) {
		return nil
	}
	return order
}
