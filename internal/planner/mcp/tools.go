package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rsned/raid-planner/internal/planner/engine"
	"github.com/rsned/raid-planner/pkg/planner"
)

const (
	searchLimit     = 20
	suggestionLimit = 5
)

// ToolDefinition describes an MCP tool.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema representation.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a schema property.
type Property struct {
	Type                 string              `json:"type,omitempty"`
	Description          string              `json:"description,omitempty"`
	Default              any                 `json:"default,omitempty"`
	Enum                 []string            `json:"enum,omitempty"`
	Minimum              *float64            `json:"minimum,omitempty"`
	Maximum              *float64            `json:"maximum,omitempty"`
	Items                *Property           `json:"items,omitempty"`
	Properties           map[string]Property `json:"properties,omitempty"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties *Property           `json:"additionalProperties,omitempty"`
}

// GetToolDefinitions returns all tool definitions.
func GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		estimateRaidsTool(),
		materialDemandTool(),
		resolveRecipeTool(),
		selectLocationsTool(),
		materialLookupTool(),
	}
}

func rankNames() []string {
	names := make([]string, 0, int(planner.RankDiamond3)+1)
	for r := planner.RankLocked; r <= planner.RankDiamond3; r++ {
		names = append(names, r.String())
	}
	return names
}

func preferenceNames() []string {
	var names []string
	for _, p := range planner.ValidPreferences() {
		if p != planner.PreferenceNone {
			names = append(names, string(p))
		}
	}
	return names
}

func progressProperty() Property {
	return Property{
		Type:                 "object",
		Description:          "Furthest unlocked node per campaign (campaign name -> node number)",
		AdditionalProperties: &Property{Type: "integer"},
	}
}

func preferenceProperty() Property {
	return Property{
		Type:        "string",
		Description: "Which efficiency tier of unlocked locations to farm; omit to use all of them",
		Enum:        preferenceNames(),
	}
}

// planningSchema is shared by estimate_raids and material_demand.
func planningSchema() JSONSchema {
	minEnergy := 1.0
	minPriority := 0.0

	return JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"settings": {
				Type:        "object",
				Description: "Player state used for planning",
				Properties: map[string]Property{
					"daily_energy": {
						Type:        "integer",
						Description: "Energy available per day",
						Minimum:     &minEnergy,
					},
					"campaigns_progress": progressProperty(),
					"preference":         preferenceProperty(),
					"order": {
						Type:        "string",
						Description: "default farms the longest materials first; priority farms goals in priority order",
						Enum:        []string{string(planner.OrderDefault), string(planner.OrderPriority)},
						Default:     string(planner.OrderDefault),
					},
					"inventory": {
						Type:                 "object",
						Description:          "Owned quantity per material ID",
						AdditionalProperties: &Property{Type: "integer"},
					},
					"completed_locations": {
						Type:        "array",
						Description: "Raids already done today; they are kept on day 1 of the plan",
						Items:       &Property{Type: "object"},
					},
				},
				Required: []string{"daily_energy", "campaigns_progress"},
			},
			"goals": {
				Type:        "array",
				Description: "Character upgrade goals",
				Items: &Property{
					Type: "object",
					Properties: map[string]Property{
						"character_id": {Type: "string", Description: "Character ID"},
						"rank_start":   {Type: "string", Description: "Current rank", Enum: rankNames()},
						"rank_end":     {Type: "string", Description: "Target rank", Enum: rankNames()},
						"applied_upgrades": {
							Type:        "array",
							Description: "Upgrades already applied at the current rank",
							Items:       &Property{Type: "string"},
						},
						"priority": {
							Type:        "integer",
							Description: "Lower is farmed first; 0 means no priority",
							Minimum:     &minPriority,
						},
					},
					Required: []string{"character_id", "rank_start", "rank_end"},
				},
			},
		},
		Required: []string{"settings", "goals"},
	}
}

func estimateRaidsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "estimate_raids",
		Description: "Plan the daily raids needed to reach character rank goals. Returns the day-by-day raid schedule, per-material estimates, total energy and total days.",
		InputSchema: planningSchema(),
	}
}

func materialDemandTool() ToolDefinition {
	return ToolDefinition{
		Name:        "material_demand",
		Description: "Resolve character rank goals into the base materials still needed after inventory, with the locations to farm them and the energy each costs.",
		InputSchema: planningSchema(),
	}
}

func resolveRecipeTool() ToolDefinition {
	return ToolDefinition{
		Name:        "resolve_recipe",
		Description: "Flatten a craftable material's recipe down to base materials with total counts.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"material_id": {
					Type:        "string",
					Description: "Material ID to resolve",
				},
			},
			Required: []string{"material_id"},
		},
	}
}

func selectLocationsTool() ToolDefinition {
	return ToolDefinition{
		Name:        "select_locations",
		Description: "Rank the unlocked campaign locations that drop a material by energy per item, and list the ones still locked.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"material_id": {
					Type:        "string",
					Description: "Material ID to farm",
				},
				"campaigns_progress": progressProperty(),
				"preference":         preferenceProperty(),
			},
			Required: []string{"material_id"},
		},
	}
}

func materialLookupTool() ToolDefinition {
	return ToolDefinition{
		Name:        "material_lookup",
		Description: "Look up a material by ID or search term. Returns the material with its recipe and locations, what uses it, and near-miss suggestions when nothing matches.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"material_id": {
					Type:        "string",
					Description: "Exact material ID to look up",
				},
				"search": {
					Type:        "string",
					Description: "Search term for material label or ID (alternative to material_id)",
				},
			},
		},
	}
}

// Tool handlers

// decode unmarshals and validates tool arguments.
func (s *Server) decode(args json.RawMessage, req any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, req); err != nil {
		return &InvalidParamsError{Err: err}
	}
	if err := s.validator.Validate(req); err != nil {
		return &InvalidParamsError{Err: err}
	}
	return nil
}

func (s *Server) decodeEstimate(args json.RawMessage) (planner.EstimateRequest, error) {
	var req planner.EstimateRequest
	if err := s.decode(args, &req); err != nil {
		return req, err
	}
	for _, g := range req.Goals {
		if _, ok := s.engine.Character(g.CharacterID); !ok {
			return req, &NotFoundError{Kind: "character", ID: g.CharacterID}
		}
		if g.RankEnd < g.RankStart {
			return req, &InvalidParamsError{Err: fmt.Errorf(
				"goal for %s ends at %s, before its start %s", g.CharacterID, g.RankEnd, g.RankStart,
			)}
		}
	}
	return req, nil
}

func (s *Server) materialNotFound(id string) error {
	return &NotFoundError{
		Kind:        "material",
		ID:          id,
		Suggestions: s.engine.SuggestMaterials(id, suggestionLimit),
	}
}

func (s *Server) toolEstimateRaids(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := s.decodeEstimate(args)
	if err != nil {
		return nil, err
	}

	est := s.engine.EstimateRankUpgrades(req.Settings, req.Goals)
	return planner.EstimateResponse{
		Estimate: est,
		Summary:  engine.Summarize(est),
	}, nil
}

func (s *Server) toolMaterialDemand(ctx context.Context, args json.RawMessage) (any, error) {
	req, err := s.decodeEstimate(args)
	if err != nil {
		return nil, err
	}

	upgrades := s.engine.GetUpgrades(req.Goals)
	materials, truncations := s.engine.GetAllMaterials(req.Settings, upgrades)
	return planner.MaterialDemandResponse{
		Upgrades:    upgrades,
		Materials:   materials,
		Truncations: truncations,
	}, nil
}

func (s *Server) toolResolveRecipe(ctx context.Context, args json.RawMessage) (any, error) {
	var req planner.ResolveRecipeRequest
	if err := s.decode(args, &req); err != nil {
		return nil, err
	}
	if _, ok := s.engine.Material(req.MaterialID); !ok {
		return nil, s.materialNotFound(req.MaterialID)
	}
	return s.engine.ResolveRecipe(req.MaterialID), nil
}

func (s *Server) toolSelectLocations(ctx context.Context, args json.RawMessage) (any, error) {
	var req planner.SelectLocationsRequest
	if err := s.decode(args, &req); err != nil {
		return nil, err
	}
	if _, ok := s.engine.Material(req.MaterialID); !ok {
		return nil, s.materialNotFound(req.MaterialID)
	}

	candidates := s.engine.MaterialLocations(req.MaterialID)
	return planner.SelectLocationsResponse{
		MaterialID: req.MaterialID,
		Selected:   engine.SelectBestLocations(req.Preference, req.CampaignsProgress, candidates),
		Missing:    engine.MissingLocations(req.CampaignsProgress, candidates),
	}, nil
}

func (s *Server) toolMaterialLookup(ctx context.Context, args json.RawMessage) (any, error) {
	var req planner.MaterialLookupRequest
	if err := s.decode(args, &req); err != nil {
		return nil, err
	}

	switch {
	case req.MaterialID != "":
		m, ok := s.engine.Material(req.MaterialID)
		if !ok {
			return nil, s.materialNotFound(req.MaterialID)
		}
		usedIn, err := s.catalog.GetMaterialsUsing(ctx, req.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("finding uses of %s: %w", req.MaterialID, err)
		}
		return planner.MaterialLookupResponse{Material: &m, UsedIn: usedIn}, nil

	case req.Search != "":
		hits, err := s.catalog.SearchMaterials(ctx, req.Search, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("searching materials: %w", err)
		}
		resp := planner.MaterialLookupResponse{SearchResults: hits}
		if len(hits) == 0 {
			resp.Suggestions = s.engine.SuggestMaterials(req.Search, suggestionLimit)
		}
		return resp, nil

	default:
		return nil, &InvalidParamsError{Err: errors.New("either material_id or search is required")}
	}
}
