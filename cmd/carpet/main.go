// Command carpet is the terminal client for Carpet Solitaire.
//
//	carpet play               play in the terminal
//	carpet validate FILE...   check save files for corruption
//	carpet analyze [FILE]     summarize a saved grid or a fresh deal
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/carpet-solitaire/game/config"
	"github.com/wricardo/carpet-solitaire/game/engine"
	"github.com/wricardo/carpet-solitaire/game/savegame"
	"github.com/wricardo/carpet-solitaire/game/service"
)

const version = "1.0.0"

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "carpet",
		Usage:   "Carpet Solitaire in the terminal",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			playCommand(),
			validateCommand(),
			analyzeCommand(),
		},
	}
}

// gameFlags are shared by commands that build a local game service
func gameFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config-dir",
			Value:   "configs",
			Usage:   "directory containing rule sets",
			Sources: cli.EnvVars("CONFIG_DIR"),
		},
		&cli.StringFlag{
			Name:    "saves-dir",
			Value:   "saves",
			Usage:   "directory for saved games",
			Sources: cli.EnvVars("SAVES_DIR"),
		},
		&cli.StringFlag{
			Name:    "save-format",
			Value:   "json",
			Usage:   "save file format: json, xml or yaml",
			Sources: cli.EnvVars("SAVE_FORMAT"),
		},
		&cli.StringFlag{
			Name:  "rules",
			Usage: "rule set to play (default: classic)",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "random seed for dealing (0 picks one at random)",
		},
	}
}

// localOptions is what gameFlags resolve to
type localOptions struct {
	ConfigDir  string
	SavesDir   string
	SaveFormat string
	Rules      string
	Seed       uint64
}

func localOptionsFrom(cmd *cli.Command) localOptions {
	return localOptions{
		ConfigDir:  cmd.String("config-dir"),
		SavesDir:   cmd.String("saves-dir"),
		SaveFormat: cmd.String("save-format"),
		Rules:      cmd.String("rules"),
		Seed:       cmd.Uint64("seed"),
	}
}

// newLocalService builds an in-process game service. A missing rule set
// directory falls back to the built-in classic rules.
func newLocalService(opts localOptions, renderer service.Renderer) (service.GameService, error) {
	rules := engine.DefaultRules()
	var configs service.ConfigManager

	manager, err := config.NewManager(opts.ConfigDir)
	if err != nil {
		log.WithError(err).Debug("No rule set directory, using built-in rules")
		if opts.Rules != "" && opts.Rules != rules.Name {
			return nil, fmt.Errorf("rule set %s: %w", opts.Rules, config.ErrConfigNotFound)
		}
	} else {
		configs = manager
		if opts.Rules != "" {
			if err := manager.SetDefault(opts.Rules); err != nil {
				return nil, fmt.Errorf("rule set %s: %w", opts.Rules, err)
			}
		}
		rules = manager.GetDefault()
	}

	format, err := savegame.ParseFormat(opts.SaveFormat)
	if err != nil {
		return nil, err
	}
	store, err := savegame.NewFileStore(opts.SavesDir, format)
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewEngine(rules, seededRand(opts.Seed))
	if err != nil {
		return nil, err
	}

	return service.NewGameService(eng, service.Options{
		Configs:  configs,
		Saves:    store,
		Renderer: renderer,
	}), nil
}

// seededRand returns nil for seed 0 so the engine picks its own seed
func seededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return engine.NewRand(seed)
}
