package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [bank-id...]",
	Short: "Check every answer digest round-trips (all banks when none are given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd)
		if err != nil {
			return err
		}
		cat, d, err := loadCatalog(s)
		if err != nil {
			return err
		}

		ids := args
		if len(ids) == 0 {
			for _, info := range cat.List() {
				ids = append(ids, info.ID)
			}
		}

		failed := 0
		for _, id := range ids {
			if err := cat.VerifyOne(cmd.Context(), id, d); err != nil {
				fmt.Printf("✗ %s: %v\n", id, err)
				failed++
				continue
			}
			fmt.Printf("✓ %s\n", id)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d banks failed verification (%s)", failed, len(ids), d.Algorithm())
		}
		fmt.Printf("%d banks verified with %s\n", len(ids), d.Algorithm())
		return nil
	},
}
