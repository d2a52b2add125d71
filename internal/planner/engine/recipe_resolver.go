package engine

import (
	"sort"

	"github.com/rsned/raid-planner/pkg/planner"
)

// maxRecipeDepth caps recursion in case the dataset contains a recipe cycle.
const maxRecipeDepth = 32

// ResolveRecipe flattens a material into the base materials it ultimately requires.
// Duplicate base materials are merged by summing counts and entries are sorted by ID.
// A base material resolves to itself with count 1.
func (e *Engine) ResolveRecipe(materialID string) planner.FlattenedRecipe {
	if cached, ok := e.recipes.Get(materialID); ok {
		return planner.FlattenedRecipe{MaterialID: materialID, Entries: cloneEntries(cached)}
	}

	acc := make(map[string]int)
	e.walkRecipe(materialID, 1, acc, make(map[string]bool), 0)

	entries := make([]planner.FlattenedEntry, 0, len(acc))
	for id, count := range acc {
		entries = append(entries, planner.FlattenedEntry{
			MaterialID: id,
			Count:      count,
			Owner:      materialID,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].MaterialID < entries[j].MaterialID
	})

	e.recipes.Add(materialID, entries)
	return planner.FlattenedRecipe{MaterialID: materialID, Entries: cloneEntries(entries)}
}

// walkRecipe adds the base materials below id, scaled by multiplier, to acc.
// path holds the craftable materials on the current branch.
func (e *Engine) walkRecipe(id string, multiplier int, acc map[string]int, path map[string]bool, depth int) {
	m, ok := e.materials[id]
	if !ok {
		e.logger.Warn("material missing from static data, treating as base", "material", id)
		acc[id] += multiplier
		return
	}

	if !m.Craftable {
		acc[id] += multiplier
		return
	}

	if len(m.Recipe) == 0 {
		e.logger.Warn("craftable material has no recipe", "material", id)
		return
	}

	if path[id] || depth >= maxRecipeDepth {
		e.logger.Error("recipe cycle detected", "material", id, "depth", depth)
		return
	}

	path[id] = true
	for _, item := range m.Recipe {
		if item.Count <= 0 {
			continue
		}
		e.walkRecipe(item.MaterialID, multiplier*item.Count, acc, path, depth+1)
	}
	delete(path, id)
}

func cloneEntries(entries []planner.FlattenedEntry) []planner.FlattenedEntry {
	out := make([]planner.FlattenedEntry, len(entries))
	copy(out, entries)
	return out
}
