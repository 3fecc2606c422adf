package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aneroid/ergast-f1db-extra/internal/storage"
	_ "github.com/aneroid/ergast-f1db-extra/internal/storage/all"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		lf      loadFlags
		kind    string
		dsn     string
		prefix  string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "export [file...]",
		Short: "Load files and write each table to a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := a.cfg.Storage
			if cmd.Flags().Changed("kind") {
				sc.Kind = kind
			}
			if cmd.Flags().Changed("dsn") {
				sc.DB.DSN = dsn
			}
			if cmd.Flags().Changed("prefix") {
				sc.DB.TablePrefix = prefix
			}
			if replace {
				sc.DB.Replace = true
			}
			if sc.Kind == "" {
				return fmt.Errorf("no storage kind configured (set storage.kind or --kind)")
			}

			opt, files, err := lf.resolve(cmd, a.cfg.Load, args)
			if err != nil {
				return err
			}
			l, err := a.newLoader()
			if err != nil {
				return err
			}
			loaded, err := l.LoadAll(cmd.Context(), files, opt)
			if err != nil {
				return err
			}

			repo, err := storage.New(cmd.Context(), storage.Config{Kind: sc.Kind, DSN: sc.DB.DSN})
			if err != nil {
				return err
			}
			defer repo.Close()

			for _, ld := range loaded {
				name := storage.TableName(sc.DB.TablePrefix, ld.Name)
				n, err := storage.Export(cmd.Context(), repo, ld.Table, storage.ExportOptions{
					Table:     name,
					Replace:   sc.DB.Replace,
					BatchSize: a.cfg.Runtime.BatchSize,
					Job:       a.cfg.Job,
					Logger:    a.logger,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Exported: %s to %s (%s rows)\n", ld.Name, name, humanize.Comma(n))
			}
			return nil
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "", "storage kind: sqlite, postgres, mssql or mysql (default from config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "database DSN (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "table name prefix")
	cmd.Flags().BoolVar(&replace, "replace", false, "drop existing tables first")
	return cmd
}
