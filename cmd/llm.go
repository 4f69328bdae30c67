package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbook/internal/llm"
	"github.com/abhisek/quizbook/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM configuration and recorded requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(s)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().LLMRequests(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Printf("%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show which provider and model drafting would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := llm.Resolve()
		if err != nil {
			return err
		}
		var pc llm.ProviderConfig
		switch cfg.Provider {
		case llm.ProviderAnthropic:
			pc = cfg.Anthropic
		case llm.ProviderOpenAI:
			pc = cfg.OpenAI
		case llm.ProviderOpenRouter:
			pc = cfg.OpenRouter
		case llm.ProviderGemini:
			pc = cfg.Gemini
		}

		model := pc.Model
		if model == "" {
			model = "(provider default)"
		}
		fmt.Printf("Provider:  %s\n", cfg.Provider)
		fmt.Printf("Model:     %s\n", model)
		if pc.BaseURL != "" {
			fmt.Printf("Base URL:  %s\n", pc.BaseURL)
		}
		fmt.Printf("API key:   %s\n", maskKey(pc.APIKey))
		fmt.Printf("Attempts:  %d\n", cfg.Retry.MaxAttempts)
		fmt.Printf("Timeout:   %s\n", cfg.Timeout)
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func maskKey(k string) string {
	if len(k) <= 8 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", len(k)-8) + k[len(k)-4:]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. draft)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmConfigCmd)
}
