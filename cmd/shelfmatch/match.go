package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shelfmatch/backend/config"
	"github.com/shelfmatch/backend/internal/domain"
	"github.com/shelfmatch/backend/internal/infrastructure/cache"
	"github.com/shelfmatch/backend/internal/infrastructure/catalog"
	"github.com/shelfmatch/backend/internal/infrastructure/oracle"
	"github.com/shelfmatch/backend/internal/usecase"
)

var (
	matchSourcePath  string
	matchTargetPath  string
	matchRetailer    string
	matchPrefsPath   string
	matchOutputPath  string
	matchChunkSize   int
	matchThreshold   int
	matchLocalOracle bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a source catalog against a target catalog",
	Long: `Match every product in the source catalog against the target catalog.
Results are flushed to the output file after every chunk, so an interrupted
run keeps the decisions produced so far.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchSourcePath, "source", "", "source catalog file, CSV or JSON (required)")
	matchCmd.Flags().StringVar(&matchTargetPath, "targets", "", "target catalog file, CSV or JSON (required)")
	matchCmd.Flags().StringVar(&matchRetailer, "retailer", "thaiwatsadu", "source retailer key for brand preferences")
	matchCmd.Flags().StringVar(&matchPrefsPath, "preferences", "", "brand preference table JSON (overrides config)")
	matchCmd.Flags().StringVar(&matchOutputPath, "output", "matches.json", "output file for match results")
	matchCmd.Flags().IntVar(&matchChunkSize, "chunk-size", 25, "number of products between partial-result flushes")
	matchCmd.Flags().IntVar(&matchThreshold, "threshold", 0, "confidence threshold override, 50-70")
	matchCmd.Flags().BoolVar(&matchLocalOracle, "local", false, "force the local adjudicator even when an API key is set")
	matchCmd.MarkFlagRequired("source")
	matchCmd.MarkFlagRequired("targets")
	rootCmd.AddCommand(matchCmd)
}

// matchRecord is one line of the persisted output: the decision plus enough
// catalog context to read the file on its own.
type matchRecord struct {
	domain.MatchDecision
	SourceName  string  `json:"sourceName"`
	SourceURL   string  `json:"sourceUrl,omitempty"`
	SourcePrice float64 `json:"sourcePrice,omitempty"`
	TargetName  string  `json:"targetName,omitempty"`
	TargetURL   string  `json:"targetUrl,omitempty"`
	TargetPrice float64 `json:"targetPrice,omitempty"`
}

type matchReport struct {
	Retailer string        `json:"retailer"`
	Total    int           `json:"total"`
	Matched  int           `json:"matched"`
	Partial  bool          `json:"partial,omitempty"`
	Results  []matchRecord `json:"results"`
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}

	if matchChunkSize <= 0 {
		matchChunkSize = 25
	}

	loader := catalog.NewLoader()
	sources, err := loader.Load(matchSourcePath)
	if err != nil {
		return fmt.Errorf("load source catalog: %w", err)
	}
	targets, err := loader.Load(matchTargetPath)
	if err != nil {
		return fmt.Errorf("load target catalog: %w", err)
	}

	prefsPath := matchPrefsPath
	if prefsPath == "" {
		prefsPath = cfg.Preferences.TablePath
	}
	prefs, err := loader.LoadPreferenceTable(prefsPath)
	if err != nil {
		return fmt.Errorf("load preference table: %w", err)
	}

	matcher := buildMatcher(cfg, logger, prefs, matchThreshold, matchLocalOracle)

	// Ctrl-C flushes what has been decided so far before exiting
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Int("sources", len(sources)).
		Int("targets", len(targets)).
		Str("retailer", matchRetailer).
		Msg("matching catalogs")

	indexed := matcher.IndexTargets(targets)
	bar := progressbar.NewOptions(len(sources),
		progressbar.OptionSetDescription("matching"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)

	report := matchReport{Retailer: matchRetailer}
	interrupted := false

	for i, source := range sources {
		select {
		case <-ctx.Done():
			interrupted = true
		default:
		}
		if interrupted {
			break
		}

		decision := matcher.MatchOne(ctx, i, source, matchRetailer, indexed)
		report.Results = append(report.Results, toRecord(decision, source, targets))
		if decision.Matched {
			report.Matched++
		}
		report.Total++
		_ = bar.Add(1)

		if report.Total%matchChunkSize == 0 {
			report.Partial = true
			if err := writeReport(matchOutputPath, report); err != nil {
				return fmt.Errorf("flush partial results: %w", err)
			}
		}
	}

	report.Partial = interrupted
	if err := writeReport(matchOutputPath, report); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	fmt.Printf("Matched %d of %d products (%.1f%%), results in %s\n",
		report.Matched, report.Total, percentage(report.Matched, report.Total), matchOutputPath)
	if interrupted {
		fmt.Println("Run interrupted; results are partial.")
	}
	return nil
}

// buildMatcher wires the recall pipeline and picks the adjudicator by
// availability: the network oracle when an API key is configured, the local
// similarity fallback otherwise.
func buildMatcher(cfg *config.Config, logger zerolog.Logger, prefs domain.BrandPreferenceTable, thresholdOverride int, forceLocal bool) *usecase.MatchingService {
	normalizer := usecase.NewNormalizer(cache.NewTextLRU(cfg.Cache.Size))
	extractor := usecase.NewExtractor()
	recall := usecase.NewRecallEngine(
		normalizer,
		extractor,
		usecase.NewBrandResolver(),
		usecase.NewScorer(),
		usecase.NewConflictDetector(extractor),
		prefs,
	)

	threshold := cfg.Matching.ConfidenceThreshold
	if thresholdOverride >= 50 && thresholdOverride <= 70 {
		threshold = thresholdOverride
	}

	var adjudicator domain.MatchOracle
	if forceLocal {
		adjudicator = usecase.NewLocalOracle(normalizer)
		threshold = usecase.FallbackThreshold(threshold)
	} else {
		client, err := oracle.NewClient(oracle.Config{
			APIKey:            cfg.Oracle.APIKey,
			BaseURL:           cfg.Oracle.BaseURL,
			Model:             cfg.Oracle.Model,
			RequestsPerSecond: cfg.Oracle.RequestsPerSecond,
			Burst:             cfg.Oracle.Burst,
			Timeout:           cfg.Oracle.Timeout,
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("network oracle unavailable, using local fallback adjudicator")
			adjudicator = usecase.NewLocalOracle(normalizer)
			threshold = usecase.FallbackThreshold(threshold)
		} else {
			logger.Info().Str("model", cfg.Oracle.Model).Msg("network oracle configured")
			adjudicator = client
		}
	}

	return usecase.NewMatchingService(recall, adjudicator, threshold, logger)
}

func toRecord(decision domain.MatchDecision, source domain.Product, targets []domain.Product) matchRecord {
	rec := matchRecord{
		MatchDecision: decision,
		SourceName:    source.Name,
		SourceURL:     source.URL,
		SourcePrice:   source.Price,
	}
	if decision.Matched && decision.TargetIndex >= 0 && decision.TargetIndex < len(targets) {
		target := targets[decision.TargetIndex]
		rec.TargetName = target.Name
		rec.TargetURL = target.URL
		rec.TargetPrice = target.Price
	}
	return rec
}

// writeReport writes atomically so an interrupted flush never truncates the
// previous chunk's file.
func writeReport(path string, report matchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
