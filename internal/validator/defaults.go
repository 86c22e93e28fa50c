package validator

import "github.com/hollowmere/emberfall/internal/domain/model"

// defaultRules is the built-in rule table for the shipped state types.
// MainMenu carries no payload requirements and stays unregistered.
func defaultRules() map[model.StateType]RuleSet {
	return map[model.StateType]RuleSet{
		model.StateExploration: {
			Required: []string{"location", "player_position"},
			FieldTypes: map[string]model.Kind{
				"location":        model.KindString,
				"player_position": model.KindMapping,
			},
		},
		model.StateCombat: {
			Required: []string{"enemies", "player_stats", "combat_round"},
			FieldTypes: map[string]model.Kind{
				"enemies":      model.KindSequence,
				"player_stats": model.KindMapping,
				"combat_round": model.KindNumber,
			},
		},
		model.StateDialogue: {
			Required: []string{"npc_id", "dialogue_id"},
			FieldTypes: map[string]model.Kind{
				"npc_id":      model.KindString,
				"dialogue_id": model.KindString,
				"history":     model.KindSequence,
			},
		},
		model.StateInventory: {
			Required: []string{"items"},
			FieldTypes: map[string]model.Kind{
				"items": model.KindSequence,
				"gold":  model.KindNumber,
			},
		},
		model.StateQuest: {
			Required: []string{"active_quests"},
			FieldTypes: map[string]model.Kind{
				"active_quests":    model.KindSequence,
				"completed_quests": model.KindSequence,
			},
		},
		model.StateShop: {
			Required: []string{"shop_id", "stock"},
			FieldTypes: map[string]model.Kind{
				"shop_id":     model.KindString,
				"stock":       model.KindSequence,
				"player_gold": model.KindNumber,
			},
		},
		model.StateCharacter: {
			Required: []string{"player_stats"},
			FieldTypes: map[string]model.Kind{
				"player_stats": model.KindMapping,
				"level":        model.KindNumber,
			},
		},
	}
}
