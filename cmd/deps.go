package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/candidate-matcher/internal/ai"
	"github.com/spigell/candidate-matcher/internal/ai/gemini"
	"github.com/spigell/candidate-matcher/internal/chat"
	"github.com/spigell/candidate-matcher/internal/consultants"
	"github.com/spigell/candidate-matcher/internal/logger"
	"github.com/spigell/candidate-matcher/internal/secrets"
)

// setup builds the logger and reads the configuration shared by every command.
func setup() (*zap.Logger, *Config) {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		l.Fatal("config is required")
	}

	return l, config
}

func newDirectory(config *Config, logger *zap.Logger) *consultants.Directory {
	client := consultants.New(logger.Named("upstream"), consultants.Config{
		ProfilesURL:     config.Upstream.ProfilesURL,
		AvailabilityURL: config.Upstream.AvailabilityURL,
		UserAgent:       config.Upstream.UserAgent,
		Timeout:         config.Upstream.Timeout,
		MaxRetries:      config.Upstream.MaxRetries,
	})

	return consultants.NewDirectory(client, consultants.DirectoryConfig{
		TTL:    config.Cache.TTL,
		Dedupe: config.Cache.Dedupe,
	}, logger.Named("directory"))
}

func newGenerator(ctx context.Context, cfg *AIConfig, l *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != ai.ProviderGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithCommonFields(l, ai.ProviderGemini, cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:       apiKey,
		Model:        cfg.Gemini.Model,
		MaxRetries:   cfg.Gemini.MaxRetries,
		Temperature:  cfg.Gemini.Temperature,
		MaxLogLength: cfg.Gemini.MaxLogLength,
	}, genLogger)
}

func newChatService(ctx context.Context, config *Config, directory chat.Sources, l *zap.Logger) (*chat.Service, error) {
	generator, err := newGenerator(ctx, &config.AI, l)
	if err != nil {
		return nil, fmt.Errorf("building generator: %w", err)
	}

	return chat.NewService(directory, generator, chat.Config{PageSize: config.Ranking.PageSize}, l.Named("chat")), nil
}
