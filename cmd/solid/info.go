package main

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/meigma/solid"
	"github.com/meigma/solid/container"
)

func newInfoCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info ARCHIVE",
		Short: "Summarize an archive's entries and blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.open(args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			entries := make([]solid.Entry, 0, a.Len())
			for _, e := range a.Entries() {
				entries = append(entries, e)
			}
			dirs := lo.CountBy(entries, solid.Entry.IsDir)
			total := lo.SumBy(entries, solid.Entry.Size)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entries:     %d\n", len(entries))
			fmt.Fprintf(out, "files:       %d\n", len(entries)-dirs)
			fmt.Fprintf(out, "directories: %d\n", dirs)
			fmt.Fprintf(out, "total size:  %d\n", total)

			idx, ok := a.Metadata().(*container.Index)
			if !ok {
				return nil
			}
			blocks := idx.Blocks()
			packed := lo.SumBy(blocks, func(b container.BlockInfo) uint64 { return b.PackedSize })
			unpacked := lo.SumBy(blocks, func(b container.BlockInfo) uint64 { return b.UnpackedSize })
			fmt.Fprintf(out, "version:     %d\n", idx.Version())
			fmt.Fprintf(out, "blocks:      %d (%d packed, %d unpacked bytes)\n", len(blocks), packed, unpacked)

			byCodec := lo.CountValuesBy(blocks, func(b container.BlockInfo) string { return b.Codec.String() })
			names := lo.Keys(byCodec)
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %-10s %d\n", name+":", byCodec[name])
			}
			return nil
		},
	}
}
