package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbook/internal/draft"
	"github.com/abhisek/quizbook/internal/llm"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a new question bank with the configured LLM",
	Long: "Asks the configured LLM for a question bank on a topic, checks it against the bank\n" +
		"file rules and writes it as JSON. Review the file before adding it to --banks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		grade, _ := cmd.Flags().GetString("grade")
		count, _ := cmd.Flags().GetInt("count")
		id, _ := cmd.Flags().GetString("id")
		out, _ := cmd.Flags().GetString("out")
		force, _ := cmd.Flags().GetBool("force")
		avoidFrom, _ := cmd.Flags().GetString("avoid-from")

		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}

		req := draft.Request{Topic: topic, Grade: grade, Count: count, ID: id}
		if req.ID == "" {
			req.ID = draft.Slug(grade, topic)
		}
		if out == "" {
			out = req.ID + ".json"
			if s.BanksDir != "" {
				out = filepath.Join(s.BanksDir, out)
			}
		}
		if _, err := os.Stat(out); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", out)
		}

		if avoidFrom != "" {
			cat, _, err := loadCatalog(s)
			if err != nil {
				return err
			}
			def, err := cat.Definition(avoidFrom)
			if err != nil {
				return err
			}
			for _, q := range def.Questions {
				req.Avoid = append(req.Avoid, q.Prompt)
			}
		}

		cfg, err := llm.Resolve()
		if err != nil {
			return err
		}

		st, err := openStore(s)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}

		provider, err := llm.NewProvider(ctx, cfg, st.EventRepo())
		if err != nil {
			return err
		}

		fmt.Printf("Drafting %d questions on %q with %s (%s)...\n", count, topic, provider.Name(), provider.ModelID())
		def, data, err := draft.NewService(provider).Draft(ctx, req)
		if err != nil {
			var trunc *llm.TruncatedError
			if errors.As(err, &trunc) {
				return fmt.Errorf("%w; try a smaller --count", err)
			}
			return err
		}

		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write bank: %w", err)
		}

		fmt.Printf("Wrote %d questions to %s (id %s)\n", len(def.Questions), out, def.ID)
		return nil
	},
}

func init() {
	draftCmd.Flags().String("topic", "", "Topic of the quiz (required)")
	draftCmd.Flags().String("grade", "", "Grade label, e.g. \"Grade 5\"")
	draftCmd.Flags().Int("count", 5, fmt.Sprintf("Number of questions (1-%d)", draft.MaxQuestions))
	draftCmd.Flags().String("id", "", "Bank id (default: derived from grade and topic)")
	draftCmd.Flags().String("out", "", "Output file (default: <id>.json in --banks or the current directory)")
	draftCmd.Flags().Bool("force", false, "Overwrite an existing output file")
	draftCmd.Flags().String("avoid-from", "", "Bank id whose questions must not be repeated")
	_ = draftCmd.MarkFlagRequired("topic")
}
