package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meigma/solid"
)

func newCatCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cat ARCHIVE ENTRY",
		Short: "Write one entry to stdout",
		Long:  "Write one entry to stdout. ENTRY is an entry index or an entry name.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			i, err := resolveEntry(a, args[1])
			if err != nil {
				return err
			}
			n, err := a.Extract(i, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			root.logger.Debug("entry written", "entry", i, "bytes", n)
			return nil
		},
	}
}

// resolveEntry interprets ref as a name first, then as an index.
func resolveEntry(a *solid.Archive, ref string) (int, error) {
	if i, ok := a.Lookup(ref); ok {
		return i, nil
	}
	i, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("no entry named %q", ref)
	}
	if _, err := a.Entry(i); err != nil {
		return 0, err
	}
	return i, nil
}
