package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"stationsummary/chunk"
	"stationsummary/stats"
)

type Result struct {
	Table   *GlobalTable
	Stats   *stats.RunStatistics
	Chunks  int
	Elapsed time.Duration
}

type Pipeline struct {
	config *Config
	logger *slog.Logger
}

func NewPipeline(config *Config) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		config: config,
		logger: config.logger().With("component", "pipeline"),
	}, nil
}

// RunFile opens path as configured and runs the pipeline over it.
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	src, err := chunk.Open(path, p.config.UseMmap)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return p.Run(ctx, src)
}

// Run aggregates src. The first failure of any worker cancels the others
// and is returned; there is no partial result.
func (p *Pipeline) Run(ctx context.Context, src chunk.Source) (*Result, error) {
	start := time.Now()

	chunks, err := chunk.Align(src, src.Size(), p.config.ChunkSize, p.config.Lookback)
	if err != nil {
		return nil, fmt.Errorf("aligning input: %w", err)
	}
	distributor := chunk.NewDistributor(chunks)
	workers := min(p.config.Workers, max(len(chunks), 1))
	p.logger.Info("starting", "bytes", src.Size(), "chunks", len(chunks),
		"workers", workers, "merge", p.config.MergeMode)

	merger := NewMerger(p.config)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return merger.Run(ctx)
	})

	pool, poolCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		worker := NewWorker(i, distributor, src, merger, p.config.logger())
		pool.Go(func() error {
			return worker.Run(poolCtx)
		})
	}
	g.Go(func() error {
		defer merger.Close()
		return pool.Wait()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Table:   merger.Result(),
		Stats:   merger.Stats(),
		Chunks:  len(chunks),
		Elapsed: time.Since(start),
	}
	p.logger.Info("finished", "stations", result.Table.Len(), "records", result.Table.Records(),
		"elapsed", result.Elapsed,
		"records_per_chunk", result.Stats.RecordsStats.Mean(),
		"records_per_chunk_sd", result.Stats.RecordsStats.SD(),
		"parse_seconds_per_chunk", result.Stats.ParseStats.Mean())
	return result, nil
}

// Run is shorthand for NewPipeline(config) followed by Pipeline.Run.
func Run(ctx context.Context, src chunk.Source, config *Config) (*Result, error) {
	p, err := NewPipeline(config)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx, src)
}
