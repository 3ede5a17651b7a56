package planner

import (
	"fmt"
	"sort"
)

// gapResult carries per-subject hiring needs after pooling.
type gapResult struct {
	additional map[string]int
	notes      map[string]string
	total      int
}

// resolveGaps computes additional-teacher counts from the unmet demand
// left by the allocator. Rule-linked subjects are grouped into
// connected components so that fractional shortfalls across a family
// round up once, not once per subject; the pooled count lands on a
// single anchor subject and the rest carry an explanatory note.
func resolveGaps(cfg Config, ds *demandSet) *gapResult {
	res := &gapResult{
		additional: make(map[string]int),
		notes:      make(map[string]string),
	}

	adj := cfg.neighbors(ds.has)
	visited := make(map[string]bool)

	for _, key := range ds.sortedKeys() {
		if visited[key] {
			continue
		}
		component := collectComponent(key, adj, visited)

		total := 0
		for _, k := range component {
			total += ds.subjects[k].Remaining
		}
		if total <= 0 {
			for _, k := range component {
				res.additional[k] = 0
			}
			continue
		}

		needed := ceilDiv(total, cfg.capacity())
		res.total += needed

		if len(component) == 1 {
			res.additional[component[0]] = needed
			continue
		}

		anchor := pickAnchor(cfg, component, ds)
		for _, k := range component {
			if k == anchor {
				res.additional[k] = needed
				continue
			}
			res.additional[k] = 0
			if ds.subjects[k].Remaining > 0 {
				res.notes[k] = fmt.Sprintf("hiring need counted under %s", ds.subjects[anchor].Name)
			}
		}
	}

	return res
}

// collectComponent walks the rule graph from the start key with an
// explicit stack, marking visited keys. The result is name-sorted.
func collectComponent(start string, adj map[string][]string, visited map[string]bool) []string {
	component := []string{}
	stack := []string{start}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[k] {
			continue
		}
		visited[k] = true
		component = append(component, k)
		neighbors := append([]string(nil), adj[k]...)
		sort.Strings(neighbors)
		for _, n := range neighbors {
			if !visited[n] {
				stack = append(stack, n)
			}
		}
	}
	sort.Strings(component)
	return component
}

// pickAnchor chooses which subject of a pooled component carries the
// hiring count: the first priority-list entry present, else the
// subject with the greatest remaining hours, ties by name.
func pickAnchor(cfg Config, component []string, ds *demandSet) string {
	inComponent := make(map[string]bool, len(component))
	for _, k := range component {
		inComponent[k] = true
	}
	for _, pref := range cfg.AnchorPriority {
		if inComponent[normalizeKey(pref)] {
			return normalizeKey(pref)
		}
	}

	anchor := component[0]
	for _, k := range component[1:] {
		a, b := ds.subjects[k], ds.subjects[anchor]
		if a.Remaining > b.Remaining || (a.Remaining == b.Remaining && a.Name < b.Name) {
			anchor = k
		}
	}
	return anchor
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
