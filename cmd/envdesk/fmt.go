package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/envdesk/internal/envfmt"
)

func newFmtCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a file in canonical env form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withScratch("", func(s *scratch) error {
				doc, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				if write {
					return s.store.Save(ctx, doc.ID)
				}
				_, err = fmt.Fprintln(a.out, envfmt.Env(doc.Entries))
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite FILE in place")
	return cmd
}
