package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"stationsummary/chunk"
	"stationsummary/parse"
	"stationsummary/table"
)

// Worker repeatedly claims a chunk, parses it into a fresh local table and
// reports that table, until the distributor runs dry.
type Worker struct {
	id          int
	distributor *chunk.Distributor
	reader      *chunk.Reader
	parser      *parse.Parser
	merger      Merger
	tableHint   int
	logger      *slog.Logger
}

func NewWorker(id int, distributor *chunk.Distributor, src chunk.Source, merger Merger, logger *slog.Logger) *Worker {
	return &Worker{
		id:          id,
		distributor: distributor,
		reader:      chunk.NewReader(src),
		parser:      parse.NewParser(nil, 0),
		merger:      merger,
		logger:      logger.With("component", "worker", "worker", id),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, ok := w.distributor.Claim()
		if !ok {
			return nil
		}

		start := time.Now()
		local, err := w.process(d)
		if err != nil {
			return fmt.Errorf("worker %d: %w", w.id, err)
		}
		elapsed := time.Since(start)

		if err := w.merger.Report(ctx, Report{Chunk: d, Table: local, Elapsed: elapsed}); err != nil {
			return err
		}
		w.logger.Debug("chunk done", "chunk", d, "records", local.Records(),
			"stations", local.Len(), "elapsed", elapsed)
	}
}

func (w *Worker) process(d chunk.Descriptor) (*table.Table, error) {
	buf, err := w.reader.Read(d)
	if err != nil {
		return nil, err
	}

	// chunks tend to hold the same stations, so size the next table after
	// the largest one seen
	local := table.New(w.tableHint)
	w.parser.Reset(buf, d.Start)
	for key, value, ok := w.parser.Next(); ok; key, value, ok = w.parser.Next() {
		local.Insert(key, value)
	}
	if err := w.parser.Err(); err != nil {
		return nil, err
	}
	w.tableHint = max(w.tableHint, local.Len())
	return local, nil
}
