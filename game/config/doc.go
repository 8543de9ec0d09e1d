// Package config provides rule set management for Carpet Solitaire.
//
// The config package handles:
//   - Loading rule sets from JSON or YAML files
//   - Rule set validation
//   - Default rule set selection
//   - Rule set discovery and listing
//
// Configuration Format:
//
// Each file in the configs directory holds one rule set:
//
//	name: relaxed
//	description: Five shuffles and no automatic new game
//	shuffle_budget: 5
//	auto_new_game_on_win: false
//
// The file name without its extension is the config ID passed to
// GameService.NewGame. When both classic.json and classic.yaml exist the
// JSON file wins.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadConfig("relaxed")
//	defaultRules := manager.GetDefault()
//
// The default is classic when present, otherwise the first valid rule set,
// otherwise the built-in classic rules.
package config
