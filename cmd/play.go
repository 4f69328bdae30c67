package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [bank-id]",
	Short: "Start a quiz (opens the menu when no bank is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bankID := ""
		if len(args) == 1 {
			bankID = args[0]
		}
		return runApp(cmd, bankID)
	},
}

func init() {
	playCmd.Flags().String("grade", "", "Grade label recorded with each result (default: detected from the bank)")
}
