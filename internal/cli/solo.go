package cli

import (
	"github.com/spf13/cobra"
)

func newSoloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solo",
		Short: "Untimed single-player rounds",
	}

	cmd.AddCommand(newSoloStartCmd())
	cmd.AddCommand(newSoloShowCmd())
	cmd.AddCommand(newSoloWordCmd())
	cmd.AddCommand(newSoloFinishCmd())

	return cmd
}

func newSoloStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a new solo round, discarding any open one",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SoloRound
			if err := client.Post(cmd.Context(), "/api/v1/solo", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSoloShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the open solo round",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SoloRound
			if err := client.Get(cmd.Context(), "/api/v1/solo", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSoloWordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "word <word>",
		Short: "Submit a word to the open solo round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result WordResult
			if err := client.Post(cmd.Context(), "/api/v1/solo/words", map[string]string{"word": args[0]}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSoloFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish",
		Short: "Finish the open solo round and record it",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchRecord
			if err := client.Post(cmd.Context(), "/api/v1/solo/finish", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
