package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/tally/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Read()
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, info.String()); err != nil {
				return err
			}
			if info.Revision != "" {
				modified := ""
				if info.Modified {
					modified = " (modified)"
				}
				_, _ = fmt.Fprintf(out, "revision %s%s\n", info.Revision, modified)
			}
			_, err := fmt.Fprintf(out, "built with %s\n", info.GoVersion)
			return err
		},
	}
}
