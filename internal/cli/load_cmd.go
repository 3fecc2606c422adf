package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aneroid/ergast-f1db-extra/internal/config"
	"github.com/aneroid/ergast-f1db-extra/internal/datasource/file"
	"github.com/aneroid/ergast-f1db-extra/internal/loader"
	"github.com/aneroid/ergast-f1db-extra/internal/table"
	"github.com/aneroid/ergast-f1db-extra/internal/typeconf"
)

// loadFlags are shared by load and export.
type loadFlags struct {
	typeSet       string
	noStandardize bool
	noSort        bool
	idIndex       bool
	filesFrom     string
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typeSet, "type-set", "", "type set: regular, extension or off (default from config)")
	cmd.Flags().BoolVar(&f.noStandardize, "no-standardize", false, "skip the standardisation hooks")
	cmd.Flags().BoolVar(&f.noSort, "no-sort", false, "keep file row order")
	cmd.Flags().BoolVar(&f.idIndex, "id-index", false, "index tables by their identifier column")
	cmd.Flags().StringVar(&f.filesFrom, "files-from", "", "read file names from a list file")
}

// resolve merges config and flags into loader options and the file list.
func (f *loadFlags) resolve(cmd *cobra.Command, cfg config.LoadConfig, args []string) (loader.Options, []string, error) {
	name := cfg.TypeSet
	if cmd.Flags().Changed("type-set") {
		name = f.typeSet
	}
	set, err := typeconf.ParseTypeSet(name)
	if err != nil {
		return loader.Options{}, nil, err
	}
	opt := loader.Options{
		TypeSet:     set,
		Standardize: cfg.Standardize && !f.noStandardize,
		Sort:        cfg.Sort && !f.noSort,
		UseIDIndex:  cfg.IDIndex || f.idIndex,
	}

	files := args
	if f.filesFrom != "" {
		listed, err := file.ReadList(f.filesFrom)
		if err != nil {
			return loader.Options{}, nil, err
		}
		files = append(files, listed...)
	}
	if len(files) == 0 {
		files = cfg.Files
	}
	return opt, files, nil
}

func (a *app) newLoader() (*loader.Loader, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	return loader.New(a.cfg.DataDir, cat,
		loader.WithLogger(a.logger),
		loader.WithJob(a.cfg.Job),
		loader.WithWorkers(a.cfg.Runtime.Workers),
	), nil
}

func newLoadCmd(a *app) *cobra.Command {
	var (
		lf   loadFlags
		head int
	)
	cmd := &cobra.Command{
		Use:   "load [file...]",
		Short: "Load files and print a summary of each table",
		Long: "Loads the named files (all catalog files when none are given) from the data\n" +
			"directory and prints row counts, column kinds and a content fingerprint.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opt, files, err := lf.resolve(cmd, a.cfg.Load, args)
			if err != nil {
				return err
			}
			l, err := a.newLoader()
			if err != nil {
				return err
			}
			start := time.Now()
			loaded, err := l.LoadAll(cmd.Context(), files, opt)
			if err != nil {
				return err
			}
			for _, ld := range loaded {
				printSummary(a.out, ld.Name, ld.Table)
				if head > 0 {
					printHead(a.out, ld.Table, head)
				}
			}
			a.logger.Info("load finished", "files", len(loaded), "elapsed", time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}
	lf.register(cmd)
	cmd.Flags().IntVar(&head, "head", 0, "print the first N rows of each table")
	return cmd
}

func printSummary(w io.Writer, name string, tbl *table.Table) {
	fmt.Fprintf(w, "%s: rows=%d cols=%d fingerprint=%016x", name, tbl.NumRows(), tbl.NumCols(), tbl.Fingerprint())
	if idx := tbl.IndexColumn(); idx != "" {
		fmt.Fprintf(w, " index=%s", idx)
	}
	fmt.Fprintln(w)
	for _, c := range tbl.Columns() {
		fmt.Fprintf(w, "  %-24s %s\n", c.Name, c.Kind)
	}
}

func printHead(w io.Writer, tbl *table.Table, n int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tbl.ColumnNames(), "\t"))
	for i := 0; i < n && i < tbl.NumRows(); i++ {
		cells := make([]string, tbl.NumCols())
		for j, v := range tbl.RowValues(i) {
			cells[j] = formatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "<NA>"
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}
