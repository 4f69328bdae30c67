package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizbook/internal/bank"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List available question banks",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		cat, _, err := loadCatalog(s)
		if err != nil {
			return err
		}

		fmt.Printf("%-28s  %-10s  %-4s  %-36s  %s\n", "ID", "Grade", "Qs", "Title", "Source")
		fmt.Println(strings.Repeat("─", 100))
		for _, info := range cat.List() {
			grade := info.Grade
			if grade == "" {
				grade = bank.DetectGrade(info.ID)
			}
			fmt.Printf("%-28s  %-10s  %-4d  %-36s  %s\n",
				info.ID, grade, info.QuestionCount, info.Title, info.Source)
		}
		return nil
	},
}
