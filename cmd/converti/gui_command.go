package main

import (
	"github.com/spf13/cobra"

	"converti/internal/formats"
	"converti/internal/gui"
)

func newGUICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the converter window",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.startSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.stop()

			s.logger.Info("opening converter window")
			return gui.Run(cmd.Context(), gui.Options{
				Registry: formats.Default(),
				Runner:   s.runner,
				Logger:   s.logger,
			})
		},
	}
}
