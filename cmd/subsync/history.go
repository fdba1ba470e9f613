package main

import (
	"fmt"
	"time"

	"github.com/wahlandcase/subsync/internal/app"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List pull requests opened in the last 24 hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.HistoryPath()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), app.RenderHistory(app.LoadHistory(path, time.Now())))
			return nil
		},
	}
}
