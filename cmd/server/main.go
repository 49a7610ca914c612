package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/shelfmatch/backend/config"
	httpDelivery "github.com/shelfmatch/backend/internal/delivery/http"
	"github.com/shelfmatch/backend/internal/domain"
	"github.com/shelfmatch/backend/internal/infrastructure/cache"
	"github.com/shelfmatch/backend/internal/infrastructure/catalog"
	"github.com/shelfmatch/backend/internal/infrastructure/oracle"
	"github.com/shelfmatch/backend/internal/logging"
	"github.com/shelfmatch/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Server.Environment, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting shelfmatch backend v1.0.0")

	// Brand preference table; an empty path yields an empty table
	loader := catalog.NewLoader()
	prefs, err := loader.LoadPreferenceTable(cfg.Preferences.TablePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Preferences.TablePath).Msg("failed to load preference table")
	}

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

	// Oracle selection by availability: the network adjudicator when an API
	// key is configured, the local similarity fallback otherwise. The
	// acceptance threshold drops with the fallback.
	var adjudicator domain.MatchOracle
	threshold := cfg.Matching.ConfidenceThreshold
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

	matcher := usecase.NewMatchingService(recall, adjudicator, threshold, logger)

	handler := httpDelivery.NewHandler(matcher)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
