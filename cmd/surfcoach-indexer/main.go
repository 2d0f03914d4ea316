// Command surfcoach-indexer loads forecast documents from a JSON file,
// embeds them, and writes them into the vector index the API serves from.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/findyourwave/surfcoach/internal/config"
	dbRedis "github.com/findyourwave/surfcoach/internal/db/redis"
	"github.com/findyourwave/surfcoach/internal/domain"
	logpkg "github.com/findyourwave/surfcoach/internal/logger"
	forecastrepo "github.com/findyourwave/surfcoach/internal/repository/forecast"
	openaiTransport "github.com/findyourwave/surfcoach/internal/transport/openai"
)

// forecastFile is one entry of the input JSON array.
type forecastFile struct {
	ID       string             `json:"id"`
	Beach    string             `json:"beach"`
	Date     string             `json:"date"`
	Content  string             `json:"content"`
	Tags     map[string]string  `json:"tags,omitempty"`
	Numerics map[string]float64 `json:"numerics,omitempty"`
}

func main() {
	var file string
	flag.StringVar(&file, "file", "", "path to a JSON array of forecast documents")
	flag.Parse()

	if file == "" {
		fmt.Fprintln(os.Stderr, "usage: surfcoach-indexer -file forecasts.json")
		os.Exit(2)
	}

	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	entries, err := readForecasts(file)
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}
	logger.Info("Loaded forecasts", zap.String("file", file), zap.Int("count", len(entries)))

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	embedder := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	indexer := forecastrepo.NewIndexer(store, forecastrepo.Config{
		IndexName: cfg.Retrieval.IndexName,
		KeyPrefix: cfg.Retrieval.KeyPrefix,
	}, cfg.Embedding.Dimensions)

	if err := indexer.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure index", zap.Error(err))
	}

	forecasts := make([]forecastrepo.Forecast, 0, len(entries))
	for i, e := range entries {
		vec, err := embedder.Embed(ctx, e.Content)
		if err != nil {
			logger.Fatal("Failed to embed forecast",
				zap.Int("index", i), zap.String("id", e.ID), zap.Error(err))
		}
		forecasts = append(forecasts, forecastrepo.Forecast{
			Document: domain.Document{
				ID:      e.ID,
				Content: e.Content,
				Metadata: domain.Metadata{
					Beach:    e.Beach,
					Date:     e.Date,
					Tags:     e.Tags,
					Numerics: e.Numerics,
				},
			},
			Vector: vec,
		})
		if (i+1)%50 == 0 {
			logger.Info("Embedding progress", zap.Int("done", i+1), zap.Int("total", len(entries)))
		}
	}

	if err := indexer.Upsert(ctx, forecasts); err != nil {
		logger.Fatal("Failed to write forecasts", zap.Error(err))
	}

	logger.Info("Indexing complete",
		zap.Int("indexed", len(forecasts)),
		zap.String("index", cfg.Retrieval.IndexName),
	)
}

func readForecasts(path string) ([]forecastFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var entries []forecastFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d: id is required", i)
		}
		if e.Content == "" {
			return nil, fmt.Errorf("entry %d (%s): content is required", i, e.ID)
		}
	}
	return entries, nil
}
