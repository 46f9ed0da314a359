// Command seeder fills a data directory, or a folder of text files, with
// synthetic resumes for demos and load tests.
package main

import (
	"context"
	"fmt"
	"iter"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/hirex"
	"github.com/poiesic/hirex/ai"
	"github.com/poiesic/hirex/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "seeder",
		Usage: "Generate synthetic resumes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "Number of resumes", Value: 50},
			&cli.Uint64Flag{Name: "seed", Usage: "Random seed", Value: 1},
			&cli.StringFlag{Name: "out", Usage: "Write .txt files to this directory instead of ingesting"},
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "Data directory to ingest into", Value: "./hirex_data", EnvVars: []string{"HIREX_DATA"}},
			&cli.StringFlag{Name: "embedding-host", Value: ai.DefaultHost, EnvVars: []string{"HIREX_EMBEDDING_HOST"}},
			&cli.StringFlag{Name: "embedding-model", Value: ai.DefaultEmbeddingModel, EnvVars: []string{"HIREX_EMBEDDING_MODEL"}},
			&cli.IntFlag{Name: "dimension", Value: ai.DefaultDimension, EnvVars: []string{"HIREX_DIMENSION"}},
			&cli.IntFlag{Name: "batch-size", Usage: "Resumes per ingest call", Value: 25},
		},
		Action: seed,
	}
}

func seed(c *cli.Context) error {
	source := resumes(c.Uint64("seed"), c.Int("count"))

	if out := c.String("out"); out != "" {
		n, err := writeFiles(out, source)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Wrote %d resumes to %s\n", n, out)
		return nil
	}

	engine, err := hirex.Open(c.String("data"), hirex.WithAIConfig(ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithDimension(c.Int("dimension")),
	)))
	if err != nil {
		return err
	}
	defer engine.Close()

	pipeline, err := engine.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	added, err := ingestBatched(c.Context, pipeline, source, c.Int("batch-size"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Ingested %d resumes\n", added)
	return nil
}

func writeFiles(dir string, source iter.Seq[ingestion.Document]) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}
	n := 0
	for doc := range source {
		if err := os.WriteFile(filepath.Join(dir, doc.Source), []byte(doc.Text), 0644); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ingestBatched reads from a source iterator and ingests resumes in batches.
func ingestBatched(ctx context.Context, pipeline *ingestion.Pipeline, source iter.Seq[ingestion.Document], batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	batch := make([]ingestion.Document, 0, batchSize)
	added := 0

	flush := func() error {
		report, err := pipeline.Ingest(ctx, batch...)
		if err != nil {
			return err
		}
		added += len(report.Added)
		batch = batch[:0]
		return nil
	}

	for doc := range source {
		batch = append(batch, doc)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return added, err
			}
		}
	}

	// Process any remaining resumes
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return added, err
		}
	}

	return added, nil
}
