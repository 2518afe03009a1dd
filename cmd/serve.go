package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/palassaha/SC2-Backend/internal/ai"
	"github.com/palassaha/SC2-Backend/internal/ai/gemini"
	"github.com/palassaha/SC2-Backend/internal/eligibility"
	"github.com/palassaha/SC2-Backend/internal/interview"
	"github.com/palassaha/SC2-Backend/internal/logger"
	"github.com/palassaha/SC2-Backend/internal/planner"
	"github.com/palassaha/SC2-Backend/internal/resume"
	"github.com/palassaha/SC2-Backend/internal/search"
	"github.com/palassaha/SC2-Backend/internal/secrets"
	"github.com/palassaha/SC2-Backend/internal/server"
	"github.com/palassaha/SC2-Backend/internal/summarizer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the placement assistant HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the sc2-backend", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	metrics := server.NewMetrics()
	services := buildServices(ctx, config, metrics, logger)

	srv := server.New(server.Config{
		Debug:   viper.GetBool("debug"),
		Version: version,
	}, services, metrics, logger)

	if err := srv.Run(ctx, config.Listen); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

// buildServices wires the engine and the AI-backed services. A missing or
// broken oracle setup downgrades the server to local rules instead of
// stopping it: eligibility checks must stay available.
func buildServices(ctx context.Context, config *Config, metrics *server.Metrics, log *zap.Logger) server.Services {
	services := server.Services{}
	deps := &eligibility.Deps{Logger: log, Hooks: metrics.EngineHooks()}

	generator, err := newGenerator(ctx, config, log)
	if err != nil {
		log.Warn("skipping the AI oracle, running on local rules only", zap.Error(err))
	} else {
		searcher := newSearcher(config, log)

		deps.Oracle = ai.NewRemoteEvaluator(generator, log, maxLogLength(config))
		services.Resume = resume.New(generator, log)
		services.Interview = interview.New(generator, searcher, log)
		services.Planner = planner.New(generator, searcher, log)
		services.Summarizer = summarizer.New(generator, log)
	}

	services.Engine = eligibility.New(deps)

	return services
}

func newSearcher(config *Config, log *zap.Logger) *search.Client {
	searcher := search.New(log)

	if config.Search == nil {
		return searcher
	}

	if config.Search.Endpoint != "" {
		searcher.Endpoint = config.Search.Endpoint
	}
	if config.Search.Region != "" {
		searcher.Region = config.Search.Region
	}
	if config.Search.MaxResults > 0 {
		searcher.MaxResults = config.Search.MaxResults
	}
	if config.Search.Pause > 0 {
		searcher.Pause = config.Search.Pause
	}

	return searcher
}

func newGenerator(ctx context.Context, config *Config, log *zap.Logger) (*gemini.Generator, error) {
	aiConfig := config.AI
	if aiConfig == nil {
		aiConfig = &AIConfig{Enabled: viper.GetBool("ai.enabled")}
	}

	if !aiConfig.Enabled {
		return nil, errors.New("ai is disabled in the configuration")
	}

	provider := strings.TrimSpace(strings.ToLower(aiConfig.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", aiConfig.Provider)
	}

	geminiConfig := aiConfig.Gemini
	if geminiConfig == nil {
		geminiConfig = &GeminiConfig{}
	}

	apiKeyFile := strings.TrimSpace(geminiConfig.APIKeyFile)
	if apiKeyFile == "" {
		apiKeyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey := strings.TrimSpace(geminiConfig.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(viper.GetString("ai.gemini.api-key"))
	}

	key, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: apiKey,
		File:  apiKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(log, append(
		logger.CommonFields("gemini", geminiConfig.Model),
		zap.Int("ai_retry_attempts", geminiConfig.MaxRetries),
	)...)

	return gemini.NewGenerator(ctx, key, geminiConfig.Model, geminiConfig.MaxRetries, genLogger)
}

func maxLogLength(config *Config) int {
	if config.AI == nil || config.AI.Gemini == nil {
		return 0
	}

	return config.AI.Gemini.MaxLogLength
}
