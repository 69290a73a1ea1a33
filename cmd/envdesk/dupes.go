package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/envdesk/internal/envfile"
)

func newDupesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dupes FILE",
		Short: "List keys defined more than once",
		Long:  "Lists enabled keys that repeat, compared case-insensitively. Exits 1 when any are found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []envfile.Entry
			err := withScratch("", func(s *scratch) error {
				doc, err := s.open(cmd.Context(), args[0])
				entries = doc.Entries
				return err
			})
			if err != nil {
				return err
			}
			groups := envfile.DuplicateGroups(entries)
			if len(groups) == 0 {
				fmt.Fprintln(a.out, "no duplicate keys")
				return nil
			}
			for _, g := range groups {
				pos := make([]string, 0, len(g.Entries))
				for _, e := range g.Entries {
					pos = append(pos, strconv.Itoa(envfile.IndexOf(entries, e.ID)+1))
				}
				fmt.Fprintf(a.out, "%s\t%d entries (%s)\n", g.Key, len(g.Entries), strings.Join(pos, ", "))
			}
			return exitError(1)
		},
	}
}
