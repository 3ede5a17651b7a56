package planner

// Rule declares an undirected cross-subject relationship. A teacher
// whose primary subject is one endpoint may support the other, and
// hiring gaps across the pair are pooled.
type Rule struct {
	A string
	B string
}

// Config carries the engine's tunables. It is immutable once handed to
// NewEngine.
type Config struct {
	// StandardCapacity is the weekly hour ceiling for teachers without
	// an extra-hours arrangement.
	StandardCapacity int

	// GapTopN caps the gap-chart subset of subject rows.
	GapTopN int

	// Rules is the static cross-subject adjacency.
	Rules []Rule

	// AnchorPriority orders subjects preferred as the anchor of a
	// pooled hiring component. Earlier entries win.
	AnchorPriority []string
}

// DefaultConfig returns the production rule set and capacity.
func DefaultConfig() Config {
	return Config{
		StandardCapacity: 24,
		GapTopN:          10,
		Rules: []Rule{
			{A: "english", B: "social studies english"},
			{A: "arabic", B: "social studies ksa"},
			{A: "arbic", B: "social studies ksa"},
		},
		AnchorPriority: []string{
			"english",
			"arabic",
			"arbic",
			"social studies english",
			"social studies ksa",
		},
	}
}

func (c Config) capacity() int {
	if c.StandardCapacity > 0 {
		return c.StandardCapacity
	}
	return 24
}

func (c Config) gapTopN() int {
	if c.GapTopN > 0 {
		return c.GapTopN
	}
	return 10
}

// neighbors returns the adjacency restricted to keys present in the
// demand map. Edges with a dangling endpoint are dropped.
func (c Config) neighbors(exists func(string) bool) map[string][]string {
	adj := make(map[string][]string)
	add := func(from, to string) {
		for _, n := range adj[from] {
			if n == to {
				return
			}
		}
		adj[from] = append(adj[from], to)
	}
	for _, r := range c.Rules {
		a := normalizeKey(r.A)
		b := normalizeKey(r.B)
		if a == "" || b == "" || a == b {
			continue
		}
		if !exists(a) || !exists(b) {
			continue
		}
		add(a, b)
		add(b, a)
	}
	return adj
}
