package metrics

import (
	"math"
	"sort"
)

// PageRankConfig holds the parameters of the rank iteration.
type PageRankConfig struct {
	Damping       float64 // probability of following a superclass link (0.85)
	MaxIterations int
	Tolerance     float64 // stop once no score moves by more than this
}

// DefaultPageRankConfig returns the default PageRank configuration.
func DefaultPageRankConfig() PageRankConfig {
	return PageRankConfig{
		Damping:       0.85,
		MaxIterations: 100,
		Tolerance:     0.0001,
	}
}

// PageRankResult contains the scores and how the iteration ended.
type PageRankResult struct {
	Scores     map[string]float64
	Iterations int
	Converged  bool
	FinalDelta float64 // largest score change in the last iteration
}

// ComputePageRank ranks every class of an adjacency map. Each class links to
// its superclass, so rank flows from subclasses toward heavily extended
// bases. Classes that appear only as targets are ranked too.
func ComputePageRank(links map[string][]string, cfg PageRankConfig) map[string]float64 {
	return ComputePageRankWithInfo(links, cfg).Scores
}

// ComputePageRankWithInfo is ComputePageRank plus convergence details.
func ComputePageRankWithInfo(links map[string][]string, cfg PageRankConfig) PageRankResult {
	if len(links) == 0 {
		return PageRankResult{Converged: true}
	}

	names, index := indexNodes(links)
	n := len(names)

	// out[i] holds the targets of node i; roots have none and their rank is
	// spread over every node.
	out := make([][]int, n)
	for src, targets := range links {
		i := index[src]
		for _, t := range targets {
			out[i] = append(out[i], index[t])
		}
	}

	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / float64(n)
	}
	next := make([]float64, n)

	result := PageRankResult{FinalDelta: 1}
	for iter := 0; iter < cfg.MaxIterations; iter++ {
		dangling := 0.0
		for i, targets := range out {
			if len(targets) == 0 {
				dangling += rank[i]
			}
		}
		base := (1-cfg.Damping)/float64(n) + cfg.Damping*dangling/float64(n)
		for i := range next {
			next[i] = base
		}
		for i, targets := range out {
			if len(targets) == 0 {
				continue
			}
			share := cfg.Damping * rank[i] / float64(len(targets))
			for _, t := range targets {
				next[t] += share
			}
		}

		delta := 0.0
		for i := range rank {
			delta = math.Max(delta, math.Abs(next[i]-rank[i]))
		}
		rank, next = next, rank

		result.Iterations = iter + 1
		result.FinalDelta = delta
		if delta < cfg.Tolerance {
			result.Converged = true
			break
		}
	}

	result.Scores = make(map[string]float64, n)
	for i, name := range names {
		result.Scores[name] = rank[i]
	}
	return result
}

// indexNodes assigns sorted positions to every source and target.
func indexNodes(links map[string][]string) ([]string, map[string]int) {
	index := make(map[string]int)
	for src, targets := range links {
		index[src] = 0
		for _, t := range targets {
			index[t] = 0
		}
	}
	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		index[name] = i
	}
	return names, index
}

// ScaleToMax divides every score by the highest one, so the top class
// scores 1 whatever the size of the hierarchy.
func ScaleToMax(scores map[string]float64) map[string]float64 {
	top := 0.0
	for _, score := range scores {
		top = math.Max(top, score)
	}
	if top == 0 {
		return scores
	}
	scaled := make(map[string]float64, len(scores))
	for node, score := range scores {
		scaled[node] = score / top
	}
	return scaled
}
