package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse the game catalog",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesGetCmd())

	return cmd
}

func newGamesListCmd() *cobra.Command {
	var sort string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []GameListing

			if err := client.Get("/api/games?sort="+sort, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sort, "sort", "rating", "Sort order: rating, title")

	return cmd
}

func newGamesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <slug>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameListing

			if err := client.Get("/api/games/"+args[0], &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show games ranked by average rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []GameListing

			path := "/api/leaderboard"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}
			if err := client.Get(path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the top N games")

	return cmd
}
