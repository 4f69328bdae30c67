package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbook/internal/results"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and edit saved quiz results",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved results",
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, done, err := openResults(cmd)
		if err != nil {
			return err
		}
		defer done()

		rows, err := rs.View(cmd.Context())
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("No results saved.")
			return nil
		}

		fmt.Printf("%-4s  %-24s  %-12s  %-14s  %s\n", "#", "Name", "Gender", "Grade", "Score")
		fmt.Println(strings.Repeat("─", 66))
		for _, r := range rows {
			fmt.Printf("%-4d  %-24s  %-12s  %-14s  %s\n", r.Index+1, r.Name, r.Gender, r.Grade, r.Score)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <number>",
	Short: "Delete the result with the given number (as shown by list)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", args[0], err)
		}

		rs, done, err := openResults(cmd)
		if err != nil {
			return err
		}
		defer done()

		ok, err := rs.DeleteAt(cmd.Context(), n-1)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("No result #%d; nothing deleted.\n", n)
			return nil
		}
		fmt.Printf("Deleted result #%d.\n", n)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to clear results without --yes")
		}

		rs, done, err := openResults(cmd)
		if err != nil {
			return err
		}
		defer done()

		if err := rs.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("All results deleted.")
		return nil
	},
}

func init() {
	historyClearCmd.Flags().Bool("yes", false, "Confirm deleting every result")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}

// openResults opens the store and returns the result list over it plus a
// function that closes the store.
func openResults(cmd *cobra.Command) (*results.Store, func(), error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(s)
	if err != nil {
		return nil, nil, err
	}
	return results.New(st.KV()), func() { st.Close() }, nil
}
