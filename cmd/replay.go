package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/okian/gridiron/internal/adapters/source"
	app "github.com/okian/gridiron/internal/app"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/internal/leaguesim"
)

// simulated serves a generated league as a game source.
type simulated struct {
	league leaguesim.League
}

func (s simulated) Games(context.Context) ([]model.GameRecord, error) {
	out := make([]model.GameRecord, len(s.league.Games))
	copy(out, s.league.Games)
	return out, nil
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rate a game log once and print the power rankings",
		RunE:  runReplay,
	}
	inputFlags(cmd)
	cmd.Flags().String("out", "", "write the rated log as CSV to this path")
	cmd.Flags().Int("top", 32, "number of teams to print")
	cmd.Flags().Bool("simulate", false, "rate a generated league instead of games_path")
	cmd.Flags().Int64("seed", 1, "seed for --simulate")
	cmd.Flags().Int("seasons", 3, "seasons for --simulate")
	return cmd
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	opts, err := serviceOptions(ctx, cfg)
	if err != nil {
		return err
	}
	simulate, _ := cmd.Flags().GetBool("simulate")
	if simulate {
		seed, _ := cmd.Flags().GetInt64("seed")
		seasons, _ := cmd.Flags().GetInt("seasons")
		league := leaguesim.New(leaguesim.WithSeed(seed), leaguesim.WithSeasons(seasons)).Generate()
		opts = append(opts, app.WithGameSource(simulated{league: league}))
		if cfg.DraftPath == "" {
			opts = append(opts, app.WithDraft(league.Draft))
		}
	} else {
		if err := cfg.RequireGames(); err != nil {
			return err
		}
		opts = append(opts, app.WithGameSource(source.NewCSVFile(cfg.GamesPath)))
	}

	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("rate games: %w", err)
	}
	defer svc.Stop(ctx)

	top, _ := cmd.Flags().GetInt("top")
	entries, err := svc.TopN(ctx, top)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printRankings(out, entries)
	printAccuracy(out, svc.Accuracy(ctx))

	if path, _ := cmd.Flags().GetString("out"); path != "" {
		games, err := svc.Games(ctx, 0)
		if err != nil {
			return err
		}
		if err := writeRated(path, games); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %d games to %s\n", len(games), path)
	}
	return nil
}

func printRankings(w io.Writer, entries []types.RatingEntry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Team", "Elo", "Season", "Pending"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, e := range entries {
		pending := ""
		if e.Pending {
			pending = "yes"
		}
		table.Append([]string{
			strconv.Itoa(e.Rank),
			e.TeamID,
			strconv.FormatFloat(e.Rating, 'f', 1, 64),
			strconv.Itoa(e.Season),
			pending,
		})
	}
	table.Render()
}

func printAccuracy(w io.Writer, a types.Accuracy) {
	if a.Games == 0 {
		fmt.Fprintln(w, "no completed games to score")
		return
	}
	fmt.Fprintf(w, "games %d  brier %.4f  log loss %.4f  spread MAE %.2f\n",
		a.Games, a.Brier, a.LogLoss, a.SpreadMAE)
}

func writeRated(path string, games []model.GameRecord) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := source.WriteCSV(fh, games); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
