package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shelfmatch/backend/internal/infrastructure/catalog"
	"github.com/shelfmatch/backend/internal/usecase"
)

var (
	evalSourcePath  string
	evalTargetPath  string
	evalTruthPath   string
	evalRetailer    string
	evalPrefsPath   string
	evalOutputPath  string
	evalThreshold   int
	evalLocalOracle bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Replay matching against a ground-truth mapping and report accuracy",
	Long: `Run the full matching pipeline over the source catalog, then compare
every decision against a hand-verified source-to-target URL mapping. Misses
are split between data-coverage gaps, where the expected target is absent
from the catalog, and genuine algorithmic misses.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evalSourcePath, "source", "", "source catalog file, CSV or JSON (required)")
	evaluateCmd.Flags().StringVar(&evalTargetPath, "targets", "", "target catalog file, CSV or JSON (required)")
	evaluateCmd.Flags().StringVar(&evalTruthPath, "ground-truth", "", "ground-truth CSV of source and target links (required)")
	evaluateCmd.Flags().StringVar(&evalRetailer, "retailer", "thaiwatsadu", "source retailer key for brand preferences")
	evaluateCmd.Flags().StringVar(&evalPrefsPath, "preferences", "", "brand preference table JSON (overrides config)")
	evaluateCmd.Flags().StringVar(&evalOutputPath, "output", "", "optional file for the full JSON report")
	evaluateCmd.Flags().IntVar(&evalThreshold, "threshold", 0, "confidence threshold override, 50-70")
	evaluateCmd.Flags().BoolVar(&evalLocalOracle, "local", false, "force the local adjudicator even when an API key is set")
	evaluateCmd.MarkFlagRequired("source")
	evaluateCmd.MarkFlagRequired("targets")
	evaluateCmd.MarkFlagRequired("ground-truth")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	loader := catalog.NewLoader()
	sources, err := loader.Load(evalSourcePath)
	if err != nil {
		return fmt.Errorf("load source catalog: %w", err)
	}
	targets, err := loader.Load(evalTargetPath)
	if err != nil {
		return fmt.Errorf("load target catalog: %w", err)
	}
	truth, err := loader.LoadGroundTruth(evalTruthPath)
	if err != nil {
		return fmt.Errorf("load ground truth: %w", err)
	}
	if len(truth) == 0 {
		return fmt.Errorf("ground truth %s contains no usable rows", evalTruthPath)
	}

	prefsPath := evalPrefsPath
	if prefsPath == "" {
		prefsPath = cfg.Preferences.TablePath
	}
	prefs, err := loader.LoadPreferenceTable(prefsPath)
	if err != nil {
		return fmt.Errorf("load preference table: %w", err)
	}

	matcher := buildMatcher(cfg, logger, prefs, evalThreshold, evalLocalOracle)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Int("sources", len(sources)).
		Int("targets", len(targets)).
		Int("groundTruth", len(truth)).
		Msg("replaying ground truth")

	decisions, err := matcher.MatchBatch(ctx, sources, targets, evalRetailer)
	if err != nil {
		return fmt.Errorf("batch aborted after %d decisions: %w", len(decisions), err)
	}

	report := usecase.NewEvaluator().Evaluate(sources, targets, decisions, truth)
	printEvaluation(report)

	if evalOutputPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(evalOutputPath, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Full report written to %s\n", evalOutputPath)
	}
	return nil
}

func printEvaluation(report usecase.Evaluation) {
	fmt.Printf("Evaluated:  %d products with ground truth\n", report.Total)
	fmt.Printf("Correct:    %d (%.1f%%)\n", report.Correct, report.Accuracy*100)
	fmt.Printf("Incorrect:  %d\n", report.Incorrect)
	fmt.Printf("Not found:  %d\n", report.NotFound)
	fmt.Printf("Misses:     %d data-coverage, %d algorithmic\n",
		report.DataCoverageMisses, report.AlgorithmicMisses)

	if len(report.Mistakes) == 0 {
		return
	}
	fmt.Println("\nMistakes:")
	for _, m := range report.Mistakes {
		kind := "algorithmic"
		if m.DataCoverage {
			kind = "data-coverage"
		}
		fmt.Printf("  [%d] %s (%s)\n", m.SourceIndex, m.SourceName, kind)
		fmt.Printf("      expected %s\n", m.ExpectedURL)
		if m.GotURL != "" {
			fmt.Printf("      got      %s\n", m.GotURL)
		} else if m.Reason != "" {
			fmt.Printf("      reason   %s\n", m.Reason)
		}
	}
}
