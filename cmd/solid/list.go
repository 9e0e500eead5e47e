package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meigma/solid"
)

func newListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list ARCHIVE",
		Aliases: []string{"ls"},
		Short:   "List the entries of an archive",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tSIZE\tTYPE\tCRC32\tMODIFIED\tNAME")
			for i, e := range a.Entries() {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
					i, e.Size(), entryType(e), entryCRC(e), entryModified(e), strconv.Quote(e.Name()))
			}
			return w.Flush()
		},
	}
}

func entryType(e solid.Entry) string {
	if e.IsDir() {
		return "dir"
	}
	return "file"
}

func entryCRC(e solid.Entry) string {
	if sum, ok := e.CRC32(); ok {
		return fmt.Sprintf("%08x", sum)
	}
	return "-"
}

func entryModified(e solid.Entry) string {
	if t, ok := e.Modified(); ok {
		return t.Format(time.RFC3339)
	}
	return "-"
}
