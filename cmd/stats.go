package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show attempts and scores per bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(s)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		stats, err := st.EventRepo().BankStats(ctx)
		if err != nil {
			return fmt.Errorf("bank stats: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No quiz sessions recorded.")
		} else {
			fmt.Printf("%-28s  %-7s  %-9s  %-9s  %-9s  %s\n",
				"Bank", "Started", "Completed", "Abandoned", "Avg", "Best")
			fmt.Println(strings.Repeat("─", 80))
			for _, b := range stats {
				fmt.Printf("%-28s  %-7d  %-9d  %-9d  %-9s  %d/%d\n",
					b.BankID, b.Started, b.Completed, b.Abandoned,
					fmt.Sprintf("%.1f/%d", b.AvgScore, b.Total), b.BestScore, b.Total)
			}
		}

		usage, err := st.EventRepo().LLMUsage(ctx)
		if err != nil {
			return fmt.Errorf("llm usage: %w", err)
		}
		if usage.Requests > 0 {
			fmt.Println()
			fmt.Printf("LLM requests: %d (%d failed), tokens: %d in / %d out\n",
				usage.Requests, usage.Failures, usage.InputTokens, usage.OutputTokens)
		}
		return nil
	},
}
