package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewComplaintCmd creates the complaint command group.
func NewComplaintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complaint",
		Short: "Batch complaint registration",
	}

	cmd.AddCommand(newComplaintSubmitCmd())

	return cmd
}

func newComplaintSubmitCmd() *cobra.Command {
	var (
		batchNumber string
		drugID      string
		symptom     string
		severity    string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Register a complaint and show the batch's updated risk",
		Long:  "Register a consumer complaint against a batch, then re-score the batch so\nthe effect of the new report is visible immediately.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			c, err := cliCtx.Service.SubmitComplaint(cmd.Context(), batchNumber, drugID, symptom, severity)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "complaint %s registered for batch %s\n", c.ID, c.BatchNumber)

			res := cliCtx.Service.ScoreBatch(cmd.Context(), batchNumber)
			if cliCtx.OutputFormat == "text" {
				printBatchVerdict(cmd, res)
				return nil
			}
			return PrintResult(cmd, res)
		},
	}

	cmd.Flags().StringVar(&batchNumber, "batch", "", "batch number, e.g. PAR-2024-001 [REQUIRED]")
	cmd.Flags().StringVar(&drugID, "drug-id", "", "drug identifier from the catalog")
	cmd.Flags().StringVar(&symptom, "symptom", "", "reported symptom, e.g. headache [REQUIRED]")
	cmd.Flags().StringVar(&severity, "severity", "moderate", "severity (mild, moderate, severe)")
	cmd.MarkFlagRequired("batch")
	cmd.MarkFlagRequired("symptom")

	return cmd
}
