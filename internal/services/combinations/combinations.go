// Package combinations enumerates the Cartesian product of attribute option
// sets, used to pre-populate variant creation.
package combinations

// Axis is one variant-defining attribute: its key and the ordered sequence of
// values a variant may take for it.
type Axis struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// Combination assigns exactly one value to every axis key.
type Combination map[string]string

// Count returns the number of combinations Generate would produce.
func Count(axes []Axis) int {
	n := 1
	for _, ax := range axes {
		n *= len(ax.Values)
	}
	return n
}

// Generate returns every total assignment across the axes, exactly once each,
// in lexicographic order: axes in the given order, values in their given
// order, the last axis varying fastest. No axes yields a single empty
// combination; an axis with no values yields none at all.
func Generate(axes []Axis) []Combination {
	out := make([]Combination, 0, Count(axes))
	Each(axes, func(c Combination) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Each streams combinations in the same order as Generate without holding the
// whole product in memory. Returning false from fn stops the enumeration.
func Each(axes []Axis, fn func(Combination) bool) {
	assign := make(Combination, len(axes))

	var walk func(depth int) bool
	walk = func(depth int) bool {
		if depth == len(axes) {
			out := make(Combination, len(assign))
			for k, v := range assign {
				out[k] = v
			}
			return fn(out)
		}
		ax := axes[depth]
		for _, value := range ax.Values {
			assign[ax.Key] = value
			if !walk(depth + 1) {
				return false
			}
		}
		delete(assign, ax.Key)
		return true
	}
	walk(0)
}
