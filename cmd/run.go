package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizbook/internal/app"
	"github.com/abhisek/quizbook/internal/bank"
	"github.com/abhisek/quizbook/internal/config"
	"github.com/abhisek/quizbook/internal/results"
	"github.com/abhisek/quizbook/internal/screens/home"
)

// runApp opens the store, loads the banks and launches the TUI. A non-empty
// bankID skips the home menu and opens that quiz directly.
func runApp(cmd *cobra.Command, bankID string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	cat, d, err := loadCatalog(s)
	if err != nil {
		return err
	}
	if bankID != "" && !cat.Has(bankID) {
		return fmt.Errorf("%w: %s", bank.ErrNotFound, bankID)
	}

	st, err := openStore(s)
	if err != nil {
		return err
	}
	defer st.Close()

	grade, _ := cmd.Flags().GetString("grade")
	config.Logger().WithFields(logrus.Fields{
		"db":     s.DBPath,
		"digest": d.Algorithm(),
		"banks":  len(cat.List()),
	}).Info("starting quizbook")

	return app.Run(home.Options{
		Catalog:   cat,
		Digester:  d,
		Results:   results.New(st.KV()),
		Events:    st.EventRepo(),
		Grade:     grade,
		Autostart: bankID,
	}, version)
}
