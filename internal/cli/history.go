package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Your recorded games",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistorySummaryCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded games, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/matches"
			if mode != "" {
				path += "?mode=" + url.QueryEscape(mode)
			}

			var result MatchList
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Only show solo or 1v1 games")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchRecord
			if err := client.Get(cmd.Context(), "/api/v1/matches/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newHistorySummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals across all recorded games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Summary
			if err := client.Get(cmd.Context(), "/api/v1/matches/summary", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
