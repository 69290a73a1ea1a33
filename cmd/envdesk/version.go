package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolvedVersion()
			fmt.Fprintf(a.out, "envdesk %s\n", v)
			fmt.Fprintf(a.out, "  commit: %s\n", c)
			fmt.Fprintf(a.out, "  built:  %s\n", d)
		},
	}
}

// resolvedVersion fills unset linker values from the module build info.
func resolvedVersion() (v, c, d string) {
	v, c, d = version, commit, date
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v, c, d
	}
	if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if c == "unknown" {
				c = s.Value
			}
		case "vcs.time":
			if d == "unknown" {
				d = s.Value
			}
		}
	}
	if len(c) > 12 {
		c = c[:12]
	}
	return v, c, d
}
