package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/envdesk/internal/config"
	"github.com/unkn0wn-root/envdesk/internal/errdef"
)

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file",
		Long:  "Writes the current settings, including --set overrides, to the settings file in the config directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, handle, err := a.loadSettings()
			if err != nil {
				return err
			}
			if handle.Exists && !force {
				return errdef.New(errdef.CodeConfig, "%s already exists (use --force to overwrite)", handle.Path)
			}
			if err := config.SaveSettings(handle, s); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %s\n", handle.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}
