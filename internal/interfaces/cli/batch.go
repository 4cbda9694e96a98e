package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medguard-uz/medguard/internal/domain/batchrisk"
)

// NewBatchCmd creates the batch command group.
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Batch risk analysis",
		Long:  "Score medication batches from registered complaint patterns and list\nbatches that warrant regulatory attention.",
	}

	cmd.AddCommand(newBatchRiskCmd())
	cmd.AddCommand(newBatchHighRiskCmd())

	return cmd
}

func newBatchRiskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk BATCH_NUMBER",
		Short: "Score a single batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			res := cliCtx.Service.ScoreBatch(cmd.Context(), args[0])
			if cliCtx.OutputFormat == "text" {
				printBatchVerdict(cmd, res)
				return nil
			}
			return PrintResult(cmd, res)
		},
	}
	return cmd
}

func newBatchHighRiskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "high-risk",
		Short: "List batches at or above the potential-risk threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			results := cliCtx.Service.HighRiskBatches(cmd.Context())
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No high-risk batches.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(
				[]string{"BATCH", "DRUG", "LEVEL", "SCORE", "COMPLAINTS", "RECALL PROB"},
				batchRows(results)))
			return nil
		},
	}
	return cmd
}

func batchRows(results []batchrisk.BatchRiskAnalysis) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.BatchNumber,
			r.DrugName,
			string(r.RiskLevel),
			fmt.Sprintf("%.3f", r.RiskScore),
			fmt.Sprintf("%d", r.ComplaintCount),
			fmt.Sprintf("%.0f%%", r.PredictedRecallProbability*100),
		})
	}
	return rows
}

func printBatchVerdict(cmd *cobra.Command, res batchrisk.BatchRiskAnalysis) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "batch %s (%s): %s (score %.3f)\n",
		res.BatchNumber, res.DrugName, res.RiskLevel, res.RiskScore)
	fmt.Fprintf(out, "  complaints: %d, unique symptoms: %d\n",
		res.ComplaintCount, len(res.UniqueSymptoms))
	if res.TrendAnalysis.IsIncreasing {
		fmt.Fprintf(out, "  complaint trend increasing, change rate %.0f%% over %d days\n",
			res.TrendAnalysis.ChangeRate*100, res.TrendAnalysis.DaysMonitored)
	}
	fmt.Fprintf(out, "  predicted recall probability: %.0f%%\n", res.PredictedRecallProbability*100)
	fmt.Fprintf(out, "  %s\n", res.Recommendation)
}
