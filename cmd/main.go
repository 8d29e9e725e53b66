// Command gridiron rates NFL-style teams and quarterbacks with Elo.
//
// serve rates the configured game log and answers queries over HTTP while
// accepting live games. replay rates a log once and prints the table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/adapters/source"
	app "github.com/okian/gridiron/internal/app"
	"github.com/okian/gridiron/internal/config"
	"github.com/okian/gridiron/internal/domain/elo"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gridiron",
		Short:        "Team and quarterback Elo ratings",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newReplayCmd())
	return root
}

// setup initialises logging and loads configuration. Flags override the
// loaded file and environment for the input paths.
func setup(cmd *cobra.Command) (*config.Config, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	for flagName, dst := range map[string]*string{
		"games":    &cfg.GamesPath,
		"stadiums": &cfg.StadiumsPath,
		"draft":    &cfg.DraftPath,
	} {
		if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	return cfg, nil
}

// inputFlags registers the input file flags shared by every command.
func inputFlags(cmd *cobra.Command) {
	cmd.Flags().String("games", "", "game log CSV (overrides games_path)")
	cmd.Flags().String("stadiums", "", "stadium directory YAML (overrides stadiums_path)")
	cmd.Flags().String("draft", "", "draft board CSV (overrides draft_path)")
}

// modelOf builds the forecast model from configuration.
func modelOf(cfg *config.Config) *elo.Model {
	return elo.New(
		elo.WithHomeField(cfg.HomeField),
		elo.WithTravelPerMile(cfg.TravelPerMile),
		elo.WithRestBonus(cfg.RestBonus),
		elo.WithPlayoffMultiplier(cfg.PlayoffMultiplier),
		elo.WithEloToPoints(cfg.EloToPoints),
		elo.WithKFactor(cfg.KFactor),
	)
}

// serviceOptions maps configuration onto the rating service. The game source
// is left to the caller.
func serviceOptions(ctx context.Context, cfg *config.Config) ([]app.Option, error) {
	opts := []app.Option{
		app.WithLogger(logger.Named("service")),
		app.WithModel(modelOf(cfg)),
		app.WithStoreOptions(
			repository.WithInitRating(cfg.InitElo),
			repository.WithLeagueMean(cfg.LeagueMean),
			repository.WithRegressPct(cfg.RegressPct),
		),
		app.WithQBEnabled(cfg.QBEnabled),
		app.WithQBOptions(
			qbvalue.WithRegressPct(cfg.QBRegressPct),
			qbvalue.WithQBGames(cfg.QBGames),
			qbvalue.WithTeamGames(cfg.TeamGames),
			qbvalue.WithEloAdj(cfg.QBEloAdj),
		),
		app.WithDraftCurve(cfg.BestQBVal, cfg.QBValPerPick),
		app.WithIncludePlayoffs(cfg.IncludePlayoffs),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
	}
	if cfg.StadiumsPath != "" {
		dir, err := source.LoadStadiums(ctx, cfg.StadiumsPath)
		if err != nil {
			return nil, fmt.Errorf("load stadiums: %w", err)
		}
		opts = append(opts, app.WithGeocoder(dir))
	}
	if cfg.DraftPath != "" {
		picks, err := source.LoadDraft(ctx, cfg.DraftPath)
		if err != nil {
			return nil, fmt.Errorf("load draft: %w", err)
		}
		opts = append(opts, app.WithDraft(picks))
	}
	return opts, nil
}
