package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aneroid/ergast-f1db-extra/internal/config"
	"github.com/aneroid/ergast-f1db-extra/internal/typeconf"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and metadata catalog",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			issues := config.ValidateConfig(a.cfg)
			for _, iss := range issues {
				fmt.Fprintf(a.errOut, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
			}
			if config.HasErrors(issues) {
				return fmt.Errorf("configuration has errors")
			}

			cat, err := a.catalog()
			if err != nil {
				return err
			}
			// Every declared type must resolve under both type sets.
			for _, f := range cat.Files() {
				rows, _ := cat.Rows(f)
				for _, set := range []typeconf.TypeSet{typeconf.Regular, typeconf.Extension} {
					if _, err := typeconf.Build(set, rows); err != nil {
						return fmt.Errorf("catalog: %s: %w", set, err)
					}
				}
			}
			fmt.Fprintf(a.out, "Configuration is valid (%d catalog files).\n", len(cat.Files()))
			return nil
		},
	}
}
