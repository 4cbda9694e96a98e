package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medguard-uz/medguard/internal/domain/pricing"
)

// NewPriceCmd creates the price command group.
func NewPriceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price anomaly checks",
		Long:  "Check medication offers against the market reference catalog to flag\nsuspiciously cheap or expensive prices.",
	}

	cmd.AddCommand(newPriceCheckCmd())
	cmd.AddCommand(newPriceCompareCmd())

	return cmd
}

func newPriceCheckCmd() *cobra.Command {
	var (
		drugName string
		price    float64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Score a single price offer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if drugName == "" {
				return fmt.Errorf("--drug is required")
			}
			if price < 0 {
				return fmt.Errorf("--price must be non-negative, got %.2f", price)
			}

			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			res := cliCtx.Service.ScorePrice(cmd.Context(), drugName, price)
			if cliCtx.OutputFormat == "text" {
				printPriceVerdict(cmd, drugName, res)
				return nil
			}
			return PrintResult(cmd, res)
		},
	}

	cmd.Flags().StringVar(&drugName, "drug", "", "generic drug name, e.g. Paracetamol [REQUIRED]")
	cmd.Flags().Float64Var(&price, "price", 0, "offer price in UZS [REQUIRED]")
	cmd.MarkFlagRequired("drug")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newPriceCompareCmd() *cobra.Command {
	var (
		drugName string
		offers   []string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Score multiple pharmacy offers side by side",
		Long:  "Score a set of offers for the same drug.  Each --offer takes the form\nPHARMACY=PRICE, e.g. --offer \"OsonApteka=12500\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			if drugName == "" {
				return fmt.Errorf("--drug is required")
			}
			parsed, err := parseOffers(offers)
			if err != nil {
				return err
			}

			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			results := cliCtx.Service.ScoreBulk(cmd.Context(), drugName, parsed)
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, results)
			}
			fmt.Fprint(cmd.OutOrStdout(), FormatTable(
				[]string{"PHARMACY", "PRICE", "RISK", "SCORE", "TYPE"},
				offerRows(results)))
			return nil
		},
	}

	cmd.Flags().StringVar(&drugName, "drug", "", "generic drug name [REQUIRED]")
	cmd.Flags().StringArrayVar(&offers, "offer", nil, "offer as PHARMACY=PRICE (repeatable) [REQUIRED]")
	cmd.MarkFlagRequired("drug")
	cmd.MarkFlagRequired("offer")

	return cmd
}

func parseOffers(raw []string) ([]pricing.Offer, error) {
	out := make([]pricing.Offer, 0, len(raw))
	for _, r := range raw {
		name, priceStr, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("invalid offer %q: expected PHARMACY=PRICE", r)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(priceStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price in offer %q: %w", r, err)
		}
		if price < 0 {
			return nil, fmt.Errorf("negative price in offer %q", r)
		}
		out = append(out, pricing.Offer{Pharmacy: strings.TrimSpace(name), Price: price})
	}
	return out, nil
}

func offerRows(results []pricing.OfferAnalysis) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Pharmacy,
			fmt.Sprintf("%.0f", r.Price),
			string(r.Analysis.RiskLevel),
			fmt.Sprintf("%.3f", r.Analysis.AnomalyScore),
			string(r.Analysis.AnomalyType),
		})
	}
	return rows
}

func printPriceVerdict(cmd *cobra.Command, drugName string, res pricing.PriceAnomalyResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s @ %.0f UZS: %s (%s, score %.3f)\n",
		drugName, res.PriceAnalysis.InputPrice, res.RiskLevel, res.AnomalyType, res.AnomalyScore)
	fmt.Fprintf(out, "  expected range: %.0f to %.0f (avg %.0f)\n",
		res.PriceAnalysis.ExpectedRange.Min, res.PriceAnalysis.ExpectedRange.Max, res.PriceAnalysis.AveragePrice)
	fmt.Fprintf(out, "  %s\n", res.Message)
	if res.Recommendation != "" {
		fmt.Fprintf(out, "  %s\n", res.Recommendation)
	}
}
