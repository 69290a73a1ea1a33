package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/envdesk/internal/errdef"
	"github.com/unkn0wn-root/envdesk/internal/prefs"
)

func newLinkedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linked",
		Short: "Manage files remembered between sessions",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show linked files",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withPrefs(func(p prefs.Store) error {
					recs, err := p.ListLinked()
					if err != nil {
						return err
					}
					current, _ := p.GetCurrentView()
					for _, r := range recs {
						mark := " "
						if r.Filepath == current {
							mark = "*"
						}
						state := "closed"
						if r.IsOpen {
							state = "open"
						}
						name := r.DisplayName
						if name == "" {
							name = r.EnvName
						}
						fmt.Fprintf(a.out, "%s %s\t%s\t%s\n", mark, name, state, r.Filepath)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "forget PATH",
			Short: "Stop remembering a file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				return a.withPrefs(func(p prefs.Store) error {
					recs, err := p.ListLinked()
					if err != nil {
						return err
					}
					if _, ok := prefs.Find(recs, path); !ok {
						return errdef.New(errdef.CodeNotFound, "%s is not linked", path)
					}
					return p.RemoveLinked(path)
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Forget every linked file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withPrefs(func(p prefs.Store) error {
					return p.ClearAll()
				})
			},
		},
	)
	return cmd
}

func (a *app) withPrefs(fn func(prefs.Store) error) error {
	s, _, err := a.loadSettings()
	if err != nil {
		return err
	}
	p := a.openPrefs(s, nil)
	defer p.Close()
	return fn(p)
}
