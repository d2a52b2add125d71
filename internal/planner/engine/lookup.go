package engine

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type suggestion struct {
	id   string
	dist int
}

// SuggestMaterials returns up to limit material IDs whose ID or label is a
// near miss for term, closest first.
func (e *Engine) SuggestMaterials(term string, limit int) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if len(term) < 3 || limit <= 0 {
		return nil
	}

	var cands []suggestion
	for id, m := range e.materials {
		best := -1
		for _, name := range []string{strings.ToLower(id), strings.ToLower(m.Label)} {
			if name == "" {
				continue
			}
			dist := levenshtein.ComputeDistance(term, name)
			if dist > levenshteinLimit(len(name)) {
				continue
			}
			if best < 0 || dist < best {
				best = dist
			}
		}
		if best >= 0 {
			cands = append(cands, suggestion{id: id, dist: best})
		}
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].id < cands[j].id
	})

	out := make([]string, 0, min(limit, len(cands)))
	for _, c := range cands {
		if len(out) == limit {
			break
		}
		out = append(out, c.id)
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
