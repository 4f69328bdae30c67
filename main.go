package main

import (
	"os"

	"github.com/abhisek/quizbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
