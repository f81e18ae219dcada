package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skinsight/diagnosis/backend/internal/application/services"
	"github.com/skinsight/diagnosis/backend/internal/evaluation"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
)

func newEvaluateCommand(root *rootOptions) *cobra.Command {
	var (
		casesPath   string
		k           int
		minAccuracy float64
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure symptom ranking quality against a golden case set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := root.loadCatalog()
			if err != nil {
				return err
			}

			cases, err := evaluation.LoadGoldenCases(casesPath)
			if err != nil {
				return err
			}
			if err := evaluation.ValidateGoldenCases(cases, cat); err != nil {
				return err
			}

			runner := evaluation.NewRunner(services.NewSymptomScorer(cat), k)
			summary, err := runner.Run(cmd.Context(), cases)
			if err != nil {
				return err
			}

			observability.GetLogger().Info().
				Int("cases", summary.TotalCases).
				Float64("top1_accuracy", summary.Top1Accuracy).
				Float64("avg_mrr", summary.AvgMRRAtK).
				Msg("Evaluation complete")

			if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
				return err
			}
			if summary.Top1Accuracy < minAccuracy {
				return fmt.Errorf("top-1 accuracy %.3f is below the required %.3f", summary.Top1Accuracy, minAccuracy)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&casesPath, "cases", "", "JSON file of golden cases")
	cmd.Flags().IntVar(&k, "k", evaluation.DefaultK, "ranking depth for recall and MRR")
	cmd.Flags().Float64Var(&minAccuracy, "min-accuracy", 0, "fail when top-1 accuracy falls below this value")
	_ = cmd.MarkFlagRequired("cases")

	return cmd
}
