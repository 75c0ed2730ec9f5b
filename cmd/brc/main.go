// Command brc prints min/max/mean per station for a "station;value" file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/pkg/profile"

	"stationsummary/chunk"
	"stationsummary/core"
	"stationsummary/parse"
	"stationsummary/stats"
	"stationsummary/storage"
)

type options struct {
	dataDir    string
	chunkSize  int64
	lookback   int64
	workers    int
	queue      int
	merge      string
	mmap       bool
	export     string
	lookup     string
	cpuProfile string
	logLevel   string
	timing     bool
}

func parseFlags(args []string, output io.Writer) (*options, []string, error) {
	opts := &options{}
	fs := flag.NewFlagSet("brc", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: brc [flags] <path|name>\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.dataDir, "data-dir", "", "directory bare names are resolved against (<dir>/<name>.txt)")
	fs.Int64Var(&opts.chunkSize, "chunk-size", core.DefaultChunkSize, "target chunk size in bytes")
	fs.Int64Var(&opts.lookback, "lookback", core.DefaultLookback, "bytes searched backwards for a line end at each split point")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of parsing workers")
	fs.IntVar(&opts.queue, "queue", core.QueueSize, "collector queue length")
	fs.StringVar(&opts.merge, "merge", core.MergeCollector.String(), "merge strategy: collector or locked")
	fs.BoolVar(&opts.mmap, "mmap", false, "memory-map the input instead of using positioned reads")
	fs.StringVar(&opts.export, "export", "", "export the result to a Badger store at this directory, or "+storage.InMemory+"; earlier contents are replaced")
	fs.StringVar(&opts.lookup, "lookup", "", "print the entry of one station to stderr")
	fs.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")
	fs.BoolVar(&opts.timing, "timing", false, "print the elapsed time to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, nil, errors.New("expected exactly one input path")
	}
	return opts, fs.Args(), nil
}

// resolvePath turns a bare name such as "measurements" into
// <dataDir>/measurements.txt. Anything that looks like a path is kept.
func resolvePath(dataDir, arg string) string {
	if dataDir == "" || filepath.Base(arg) != arg || filepath.Ext(arg) != "" {
		return arg
	}
	return filepath.Join(dataDir, arg+".txt")
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, chunk.ErrAlignment):
		return "alignment"
	case errors.Is(err, chunk.ErrShortRead):
		return "short read"
	case errors.Is(err, parse.ErrNumericOverflow):
		return "numeric overflow"
	case errors.Is(err, parse.ErrMalformedRecord):
		return "malformed record"
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return "open"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return "internal"
	}
}

func run(ctx context.Context, opts *options, path string, stdout, stderr io.Writer, logger *slog.Logger) error {
	mode, err := core.ParseMergeMode(opts.merge)
	if err != nil {
		return err
	}
	config := core.DefaultConfig()
	config.ChunkSize = opts.chunkSize
	config.Lookback = opts.lookback
	config.Workers = opts.workers
	config.QueueSize = opts.queue
	config.MergeMode = mode
	config.UseMmap = opts.mmap
	config.Logger = logger

	pipeline, err := core.NewPipeline(config)
	if err != nil {
		return err
	}
	result, err := pipeline.RunFile(ctx, path)
	if err != nil {
		return err
	}
	if opts.timing {
		fmt.Fprintf(stderr, "finished in %d ms\n", result.Elapsed.Milliseconds())
	}

	if opts.export != "" {
		return export(opts, config, result, stdout, stderr, logger)
	}
	if err := core.Emit(stdout, result.Table); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if opts.lookup != "" {
		s, ok := result.Table.Get([]byte(opts.lookup))
		return printLookup(stderr, opts.lookup, s, ok)
	}
	return nil
}

func printLookup(w io.Writer, station string, s stats.Statistic, ok bool) error {
	if !ok {
		_, err := fmt.Fprintf(w, "%s: not found\n", station)
		return err
	}
	_, err := w.Write(core.AppendLine(nil, []byte(station), s))
	return err
}

// export writes the result to the store and prints the output from what was
// stored.
func export(opts *options, config *core.Config, result *core.Result, stdout, stderr io.Writer, logger *slog.Logger) error {
	backend, err := storage.NewBadgerBackend(&storage.BadgerBackendConfig{
		Path:   opts.export,
		Logger: storage.NewSlogLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("opening export store: %w", err)
	}
	store, err := core.NewResultStore(backend, config.CacheEnabled)
	if err != nil {
		backend.Close()
		return err
	}
	defer store.Close()

	if err := store.Export(result); err != nil {
		return fmt.Errorf("exporting result: %w", err)
	}
	summary, err := store.RunSummary()
	if err != nil {
		return fmt.Errorf("reading run summary: %w", err)
	}
	logger.Info("exported", "component", "store", "path", opts.export,
		"stations", summary.Stations, "records", summary.Records,
		"chunks", summary.Chunks, "bytes", summary.Bytes)

	if err := core.EmitStore(stdout, store); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if opts.lookup == "" {
		return nil
	}
	s, ok, err := store.Lookup([]byte(opts.lookup))
	if err != nil {
		return err
	}
	return printLookup(stderr, opts.lookup, s, ok)
}

// execute returns the process exit code, so every deferred cleanup runs
// before main exits.
func execute(args []string, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if opts.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuProfile),
			profile.Quiet, profile.NoShutdownHook).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, resolvePath(opts.dataDir, rest[0]), stdout, stderr, logger); err != nil {
		logger.Error("run failed", "kind", failureKind(err), "err", err)
		fmt.Fprintf(stderr, "brc: %s: %v\n", failureKind(err), err)
		return 2
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
