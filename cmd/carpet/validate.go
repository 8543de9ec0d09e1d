package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/savegame"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Notes holds informational lines; otherwise it holds
// the problems that were found.
type ValidationResult struct {
	File  string
	Valid bool
	Notes []string
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check save files and rule sets",
		ArgsUsage: "FILE...",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("no files given", 2)
			}

			invalid := 0
			for _, file := range files {
				result := validateFile(file)
				printResult(cmd, result)
				if !result.Valid {
					invalid++
				}
			}

			fmt.Fprintf(cmd.Root().Writer, "\n%d of %d files valid\n", len(files)-invalid, len(files))
			if invalid > 0 {
				return cli.Exit(fmt.Sprintf("%d invalid files", invalid), 1)
			}
			return nil
		},
	}
}

func printResult(cmd *cli.Command, result ValidationResult) {
	w := cmd.Root().Writer
	if result.Valid {
		fmt.Fprintf(w, "✓ %s\n", result.File)
	} else {
		fmt.Fprintf(w, "✗ %s\n", result.File)
	}
	for _, note := range result.Notes {
		fmt.Fprintf(w, "    %s\n", note)
	}
}

// validateFile checks a rule set by its extension, anything else as a save
func validateFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	// .json and .yaml may be either kind
	var rulesErr error
	if engine.IsRulesFile(path) {
		rules, err := engine.LoadRules(path)
		if err == nil {
			result.Notes = append(result.Notes,
				fmt.Sprintf("Rule set: %s", rules.Name),
				fmt.Sprintf("Shuffle budget: %d", rules.ShuffleBudget),
			)
			return result
		}
		rulesErr = err
	}

	result = validateSave(path, result)
	if !result.Valid && rulesErr != nil {
		result.Notes = append(result.Notes, fmt.Sprintf("Not a rule set either: %v", rulesErr))
	}
	return result
}

func validateSave(path string, result ValidationResult) ValidationResult {
	format, err := savegame.FormatOf(path)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	grid, err := savegame.Decode(data, format)
	if err != nil {
		result.Valid = false
		result.Notes = append(result.Notes, err.Error())
		return result
	}

	result.Notes = append(result.Notes,
		fmt.Sprintf("Save (%s)", format),
		fmt.Sprintf("Solved: %d/%d", grid.SolvedCount(), engine.GridSize),
	)
	if grid.IsSolved() {
		result.Notes = append(result.Notes, "Game is won")
	}
	return result
}
