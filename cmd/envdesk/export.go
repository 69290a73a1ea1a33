package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/envdesk/internal/envfmt"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format          string
		output          string
		includeDisabled bool
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a file to another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				s, _, err := a.loadSettings()
				if err != nil {
					return err
				}
				format = s.Editor.DefaultExport
			}
			f, err := envfmt.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := envfmt.Options{IncludeDisabled: includeDisabled}
			ctx := cmd.Context()
			return withScratch(output, func(s *scratch) error {
				doc, err := s.open(ctx, args[0])
				if err != nil {
					return err
				}
				// SaveAs renders with default options.
				if output != "" && !includeDisabled {
					return s.store.SaveAs(ctx, doc.ID, f)
				}
				out, err := s.store.Export(doc.ID, f, opts)
				if err != nil {
					return err
				}
				if output != "" {
					return s.fs.WriteTextFile(ctx, output, out)
				}
				_, err = fmt.Fprintln(a.out, out)
				return err
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "", "env, json, shell or full-json (default from settings)")
	flags.StringVarP(&output, "output", "o", "", "write to this path instead of stdout")
	flags.BoolVar(&includeDisabled, "include-disabled", false, "keep disabled variables in json output")
	return cmd
}
