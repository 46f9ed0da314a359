// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/hirex"
	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/core"
	"github.com/poiesic/hirex/export"
	"github.com/poiesic/hirex/ingestion"
	"github.com/poiesic/hirex/reembed"
	"github.com/poiesic/hirex/scoring"
	"github.com/poiesic/hirex/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := loadEnv(".env"); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "hirex",
		Usage: "Rank resumes against natural-language recruiter prompts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"HIREX_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Parse, store and index resume text files",
				ArgsUsage: "PATH...",
				Action:    ingestCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of resumes per embedding request",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent embedding requests (0 = half the CPUs)",
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Rank stored candidates against a recruiter prompt",
				ArgsUsage: "PROMPT",
				Action:    queryCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of candidates to return",
						Value:   search.DefaultTopK,
					},
					&cli.StringFlag{
						Name:    "profile",
						Aliases: []string{"p"},
						Usage:   "Scoring profile (" + strings.Join(scoring.Names(), ", ") + ")",
						Value:   scoring.DefaultProfile,
						EnvVars: []string{"HIREX_PROFILE"},
					},
					&cli.StringSliceFlag{
						Name:  "ids",
						Usage: "Only rank these candidate IDs (comma separated)",
					},
					&cli.StringFlag{
						Name:  "xlsx",
						Usage: "Also write the ranking to this spreadsheet",
					},
				),
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored candidate and rebuild the vector index",
				Action: reindexCommand,
				Flags: append(engineFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of candidates to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N candidates",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per batch",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Maximum embedding requests per second (0 = unlimited)",
					},
				),
			},
			{
				Name:   "profiles",
				Usage:  "List the scoring profiles and their weights",
				Action: profilesCommand,
			},
		},
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Data directory holding the candidate store and vector index",
			Value:   "./hirex_data",
			EnvVars: []string{"HIREX_DATA"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "OpenAI-compatible embedding service URL",
			Value:   ai.DefaultHost,
			EnvVars: []string{"HIREX_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   ai.DefaultEmbeddingModel,
			EnvVars: []string{"HIREX_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the embedding service",
			EnvVars: []string{"HIREX_API_KEY", "OPENAI_API_KEY"},
		},
		&cli.IntFlag{
			Name:    "dimension",
			Usage:   "Embedding vector dimension",
			Value:   ai.DefaultDimension,
			EnvVars: []string{"HIREX_DIMENSION"},
		},
	}
}

func openEngine(c *cli.Context) (*hirex.Engine, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithDimension(c.Int("dimension")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := hirex.Open(c.String("data"), hirex.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return engine, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one resume file or directory is required")
	}

	docs, err := ingestion.LoadDocuments(c.Args().Slice()...)
	if err != nil {
		return fmt.Errorf("failed to read resumes: %w", err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No resume files found")
		return nil
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []ingestion.Option{ingestion.WithBatchSize(c.Int("batch-size"))}
	if n := c.Int("workers"); n > 0 {
		opts = append(opts, ingestion.WithPoolSize(n))
	}
	pipeline, err := engine.NewIngestionPipeline(opts...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(c.Context, docs...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	for _, f := range report.Failures {
		fmt.Fprintf(c.App.ErrWriter, "skipped %s: %v\n", f.Source, f.Err)
	}
	fmt.Fprintf(c.App.Writer, "Ingested %d resumes (%d duplicates, %d failed). Index holds %d candidates.\n",
		len(report.Added), report.Duplicates, report.Failed(), engine.Index().Len())
	return nil
}

func queryCommand(c *cli.Context) error {
	prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if prompt == "" {
		return fmt.Errorf("a query prompt is required")
	}
	ids, err := parseIDs(c.StringSlice("ids"))
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	searcher, err := engine.NewSearcher()
	if err != nil {
		return err
	}
	resp, err := searcher.Search(c.Context, search.Request{
		Prompt:       prompt,
		TopK:         c.Int("top-k"),
		Profile:      c.String("profile"),
		CandidateIDs: ids,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if path := c.String("xlsx"); path != "" {
		written, err := export.WriteXLSX(resp, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "Wrote %s\n", written)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func parseIDs(values []string) ([]core.ID, error) {
	var ids []core.ID
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid candidate id %q", v)
		}
		ids = append(ids, core.ID(n))
	}
	return ids, nil
}

func reindexCommand(c *cli.Context) error {
	config := &reembed.Config{
		BatchSize:         c.Int("batch-size"),
		ReportInterval:    c.Int("report-interval"),
		MaxRetries:        c.Int("max-retries"),
		RetryDelay:        c.Duration("retry-delay"),
		MaxRetryDelay:     reembed.DefaultConfig().MaxRetryDelay,
		RequestsPerSecond: c.Float64("rate"),
	}
	if err := config.Validate(); err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	r, err := engine.NewReembedder(config, reembed.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Data directory: %s\n", c.String("data"))
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(c.App.ErrWriter)

	if _, err := r.Run(c.Context); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	return nil
}

func profilesCommand(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%-18s %8s %8s %8s %8s %8s\n", "PROFILE", "SEMANTIC", "EXP", "CGPA", "COLLEGE", "EXTRA")
	for _, p := range scoring.Profiles() {
		name := p.Name
		if name == scoring.DefaultProfile {
			name += " *"
		}
		fmt.Fprintf(c.App.Writer, "%-18s %8.2f %8.2f %8.2f %8.2f %8.2f\n",
			name, p.Semantic, p.Experience, p.GPA, p.Institution, p.Extracurricular)
	}
	return nil
}

// loadEnv adds the variables in path to the environment without
// overriding ones already set. A missing file is not an error.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
