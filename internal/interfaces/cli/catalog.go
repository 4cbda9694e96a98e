package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medguard-uz/medguard/internal/domain/catalog"
)

// NewCatalogCmd creates the catalog command group.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Reference catalog inspection",
	}

	cmd.AddCommand(newCatalogShowCmd())
	cmd.AddCommand(newCatalogValidateCmd())

	return cmd
}

func newCatalogShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the installed catalog's drugs and batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			cat := cliCtx.Service.Catalog()
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, cat)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", cat.String())
			rows := make([][]string, 0, len(cat.Drugs))
			for _, d := range cat.Drugs {
				rows = append(rows, []string{
					d.DrugID,
					d.GenericName,
					fmt.Sprintf("%.0f", d.AveragePrice),
					fmt.Sprintf("%.0f", d.MinPrice),
					fmt.Sprintf("%.0f", d.MaxPrice),
				})
			}
			fmt.Fprint(out, FormatTable([]string{"DRUG ID", "NAME", "AVG", "MIN", "MAX"}, rows))
			return nil
		},
	}
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a catalog JSON file without installing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", cat.String())
			return nil
		},
	}
	return cmd
}
