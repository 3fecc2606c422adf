package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aneroid/ergast-f1db-extra/internal/archive"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [archive]",
		Short: "Unpack the f1db zip into the data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zipPath := a.cfg.Archive
			if len(args) == 1 {
				zipPath = args[0]
			}
			var total uint64
			entries, err := archive.Extract(cmd.Context(), zipPath, a.cfg.DataDir, func(e archive.Entry) {
				fmt.Fprintf(a.out, "Extracted: %s to %s\n", e.Name, e.Path)
				total += uint64(e.Size)
				a.logger.Debug("extracted", "name", e.Name, "size", humanize.Bytes(uint64(e.Size)), "xxh3", fmt.Sprintf("%016x", e.Checksum))
			})
			if err != nil {
				return err
			}
			a.logger.Info("archive extracted", "archive", zipPath, "dir", a.cfg.DataDir,
				"files", len(entries), "size", humanize.Bytes(total))
			return nil
		},
	}
}
