// Package engine contains the raid planning business logic.
package engine

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rsned/raid-planner/pkg/planner"
)

const (
	// DefaultIterationLimit bounds the scheduler and per-material day loops.
	DefaultIterationLimit = 1000
	// DefaultRecipeCacheSize is the number of flattened recipes kept in memory.
	DefaultRecipeCacheSize = 512
)

// Options configures an Engine.
type Options struct {
	Logger          *slog.Logger
	IterationLimit  int
	RecipeCacheSize int
}

// Engine plans farming raids against a static dataset.
// It is safe for concurrent use once constructed.
type Engine struct {
	materials      map[string]planner.Material
	characters     map[string]planner.CharacterRanks
	locations      map[string]planner.Location
	recipes        *lru.Cache[string, []planner.FlattenedEntry]
	logger         *slog.Logger
	iterationLimit int
}

// New creates an Engine and builds the location catalog from the static data.
func New(data *planner.StaticData, opts Options) (*Engine, error) {
	if data == nil {
		return nil, fmt.Errorf("static data is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := opts.IterationLimit
	if limit <= 0 {
		limit = DefaultIterationLimit
	}
	cacheSize := opts.RecipeCacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultRecipeCacheSize
	}

	cache, err := lru.New[string, []planner.FlattenedEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating recipe cache: %w", err)
	}

	materials := make(map[string]planner.Material, len(data.Materials))
	for id, m := range data.Materials {
		m.Locations = nil
		materials[id] = m
	}

	e := &Engine{
		materials:      materials,
		characters:     data.Characters,
		recipes:        cache,
		logger:         logger,
		iterationLimit: limit,
	}
	if e.characters == nil {
		e.characters = make(map[string]planner.CharacterRanks)
	}

	e.locations = buildLocations(data, materials, logger)
	e.attachLocations()

	for id, m := range e.materials {
		if !m.Craftable {
			continue
		}
		for _, entry := range e.ResolveRecipe(id).Entries {
			m.AllMaterials = append(m.AllMaterials, planner.RecipeItem{
				MaterialID: entry.MaterialID,
				Count:      entry.Count,
			})
		}
		e.materials[id] = m
	}

	logger.Debug("engine ready",
		"materials", len(e.materials),
		"locations", len(e.locations),
		"characters", len(e.characters),
	)

	return e, nil
}

// attachLocations fills each material's location list from the catalog.
func (e *Engine) attachLocations() {
	byReward := make(map[string][]planner.Location)
	for _, loc := range e.locations {
		byReward[loc.Reward] = append(byReward[loc.Reward], loc)
	}

	for id, locs := range byReward {
		m, ok := e.materials[id]
		if !ok {
			continue
		}
		sortByNode(locs)
		m.Locations = make([]string, 0, len(locs))
		for _, loc := range locs {
			m.Locations = append(m.Locations, loc.ID)
		}
		e.materials[id] = m
	}
}

// Material returns a material by ID.
func (e *Engine) Material(id string) (planner.Material, bool) {
	m, ok := e.materials[id]
	return m, ok
}

// Character returns a character's rank upgrade table by ID.
func (e *Engine) Character(id string) (planner.CharacterRanks, bool) {
	c, ok := e.characters[id]
	return c, ok
}
