// Package main provides the graphmine discovery driver.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/simon-lentz/graphmine/adapter/graphtext"
	"github.com/simon-lentz/graphmine/diag"
	"github.com/simon-lentz/graphmine/discover"
	"github.com/simon-lentz/graphmine/eval"
	"github.com/simon-lentz/graphmine/graph"
	"github.com/simon-lentz/graphmine/internal/trace"
	"github.com/simon-lentz/graphmine/label"
	"github.com/simon-lentz/graphmine/location"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "graphmine: %v\n", err)
		}
		os.Exit(1)
	}
}

// errReported marks failures whose diagnostics already went to stderr.
var errReported = errors.New("reported")

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("graphmine", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default output; we print usage ourselves

	var (
		beam       = fs.Int("beam", 4, "beam width (>0)")
		nsubs      = fs.Int("nsubs", 3, "number of best patterns to report (>0)")
		limit      = fs.Int("limit", 0, "max candidate expansions per iteration (0 = half the positive edge count)")
		iterations = fs.Int("iterations", 1, "compression iterations (0 = until exhausted)")
		evalFlag   = fs.Int("eval", 1, "evaluation model: 1=mdl 2=size 3=setcover")
		threshold  = fs.Float64("threshold", 0, "inexact match tolerance in [0,1]")
		maxSize    = fs.Int("maxsize", 0, "max pattern vertices (0 = unbounded)")
		minSize    = fs.Int("minsize", 1, "min pattern vertices")
		overlap    = fs.Bool("overlap", false, "allow instances to overlap")
		prune      = fs.Bool("prune", false, "drop extensions scoring below their parent")
		valueBased = fs.Bool("valuebased", false, "value-based beam: keep ties with the last slot")
		undirected = fs.Bool("undirected", false, "treat e edges as undirected")
		recursion  = fs.Bool("recursion", false, "discover recursive patterns")
		psFile     = fs.String("ps", "", "predefined pattern file, compressed out before discovery")
		outFile    = fs.String("out", "", "write discovered patterns to this file")
		compressTo = fs.String("compress", "", "write the final compressed positive graph to this file")
		paramsFile = fs.String("params", "", "JSONC parameter file (flags override it)")
		output     = fs.Int("output", 2, "console verbosity 1..5")
		logLevel   = fs.String("log-level", "", "log level: error|warn|info|debug|trace (overrides -output mapping)")
		logFile    = fs.String("log-file", "", "log file path (empty to log to stderr)")
		showVer    = fs.Bool("version", false, "print version and exit")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: graphmine [options] <graph file>\n\n")
		fmt.Fprintf(stderr, "Discover repeating, compressible patterns in a labeled graph.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.SetOutput(stderr)
		fs.PrintDefaults()
		fs.SetOutput(io.Discard)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
			return nil
		}
		fs.Usage()
		return fmt.Errorf("parse flags: %w", err)
	}
	if *showVer {
		fmt.Fprintf(stdout, "graphmine %s\n", version)
		return nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("exactly one graph file is required")
	}

	logger, closeLog, err := buildLogger(stderr, *output, *logLevel, *logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	collector := diag.NewCollector(diag.NoLimit)
	params := discover.DefaultParams()

	if *paramsFile != "" {
		data, err := os.ReadFile(*paramsFile)
		if err != nil {
			return fmt.Errorf("read parameter file: %w", err)
		}
		if params, _ = discover.ApplyParamsFile(params, data, collector); collector.HasErrors() {
			return reportDiagnostics(stderr, collector)
		}
	}

	// Flags set explicitly on the command line override the file.
	applyFlags(fs, &params, flagValues{
		beam: beam, nsubs: nsubs, limit: limit, iterations: iterations,
		eval: evalFlag, threshold: threshold, maxSize: maxSize, minSize: minSize,
		overlap: overlap, prune: prune, valueBased: valueBased,
		undirected: undirected, recursion: recursion,
	})
	if *output < 1 || *output > 5 {
		collector.Collect(diag.Errorf(diag.CodeParamRange, "output must be in 1..5, got %d", *output))
	}
	if !params.Validate(collector) {
		fs.Usage()
		return reportDiagnostics(stderr, collector)
	}

	reg := label.NewRegistry()
	g, err := parseGraphFile(fs.Arg(0), params.Undirected, reg, collector)
	if err != nil {
		return reportDiagnostics(stderr, collector)
	}

	var predefined []*graph.Graph
	if *psFile != "" {
		predefined, err = parsePatternFile(*psFile, params.Undirected, reg, collector)
		if err != nil {
			return reportDiagnostics(stderr, collector)
		}
	}

	logParams(logger, params, fs.Arg(0))
	results := discover.Run(context.Background(), g, reg, params, predefined,
		discover.WithLogger(logger))

	printResults(stdout, results, reg, *output)

	if *outFile != "" {
		if err := writeFileWith(*outFile, func(w io.Writer) error {
			return results.WriteResults(w, reg, version)
		}); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
	}
	if *compressTo != "" {
		if err := writeFileWith(*compressTo, func(w io.Writer) error {
			return graphtext.WriteGraph(w, results.FinalGraph, reg)
		}); err != nil {
			return fmt.Errorf("write compressed graph: %w", err)
		}
	}
	return nil
}

// flagValues bundles the flag pointers for applyFlags.
type flagValues struct {
	beam, nsubs, limit, iterations, eval, maxSize, minSize *int
	threshold                                              *float64
	overlap, prune, valueBased, undirected, recursion      *bool
}

// applyFlags copies only the flags the user actually set, preserving
// parameter-file values for the rest.
func applyFlags(fs *flag.FlagSet, params *discover.Params, v flagValues) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["beam"] {
		params.BeamWidth = *v.beam
	}
	if set["nsubs"] {
		params.NumBest = *v.nsubs
	}
	if set["limit"] {
		params.Limit = *v.limit
	}
	if set["iterations"] {
		params.Iterations = *v.iterations
	}
	if set["eval"] {
		params.Eval = eval.Model(*v.eval)
	}
	if set["threshold"] {
		params.Threshold = *v.threshold
	}
	if set["maxsize"] {
		params.MaxVertices = *v.maxSize
	}
	if set["minsize"] {
		params.MinVertices = *v.minSize
	}
	if set["overlap"] {
		params.AllowOverlap = *v.overlap
	}
	if set["prune"] {
		params.Prune = *v.prune
	}
	if set["valuebased"] {
		params.ValueBased = *v.valueBased
	}
	if set["undirected"] {
		params.Undirected = *v.undirected
	}
	if set["recursion"] {
		params.Recursion = *v.recursion
	}
}

// buildLogger maps -output onto a log level unless -log-level is given,
// and routes records to stderr or the -log-file.
func buildLogger(stderr io.Writer, output int, levelName, logFile string) (*slog.Logger, func(), error) {
	var level slog.Level
	switch {
	case levelName != "":
		switch strings.ToLower(levelName) {
		case "error":
			level = slog.LevelError
		case "warn":
			level = slog.LevelWarn
		case "info":
			level = slog.LevelInfo
		case "debug":
			level = slog.LevelDebug
		case "trace":
			level = trace.LevelTrace
		default:
			return nil, nil, fmt.Errorf("unknown log level %q", levelName)
		}
	case output >= 5:
		level = trace.LevelTrace
	case output >= 3:
		level = slog.LevelDebug
	case output == 2:
		level = slog.LevelInfo
	default:
		level = slog.LevelWarn
	}

	w := stderr
	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

// logParams echoes every effective parameter at startup.
func logParams(logger *slog.Logger, p discover.Params, input string) {
	logger.Info("parameters",
		slog.String("input", input),
		slog.Int("beam", p.BeamWidth),
		slog.Int("nsubs", p.NumBest),
		slog.Int("limit", p.Limit),
		slog.Int("iterations", p.Iterations),
		slog.String("eval", p.Eval.String()),
		slog.Float64("threshold", p.Threshold),
		slog.Int("minsize", p.MinVertices),
		slog.Int("maxsize", p.MaxVertices),
		slog.Bool("overlap", p.AllowOverlap),
		slog.Bool("prune", p.Prune),
		slog.Bool("valuebased", p.ValueBased),
		slog.Bool("undirected", p.Undirected),
		slog.Bool("recursion", p.Recursion),
	)
}

func parseGraphFile(path string, undirected bool, reg *label.Registry, collector *diag.Collector) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		collector.Collect(diag.Errorf(diag.CodeIORead, "%v", err))
		return nil, errReported
	}
	src, err := location.NewSourceID(path)
	if err != nil {
		collector.Collect(diag.Errorf(diag.CodeIORead, "%v", err))
		return nil, errReported
	}
	return graphtext.ParseGraph(data, src, !undirected, reg, collector)
}

func parsePatternFile(path string, undirected bool, reg *label.Registry, collector *diag.Collector) ([]*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		collector.Collect(diag.Errorf(diag.CodeIORead, "%v", err))
		return nil, errReported
	}
	src, err := location.NewSourceID(path)
	if err != nil {
		collector.Collect(diag.Errorf(diag.CodeIORead, "%v", err))
		return nil, errReported
	}
	return graphtext.ParseSubList(data, src, !undirected, reg, collector)
}

// reportDiagnostics prints the collected issues and signals that the
// failure is already visible to the user.
func reportDiagnostics(stderr io.Writer, collector *diag.Collector) error {
	if r := collector.Result(); r.Len() > 0 {
		fmt.Fprintln(stderr, r.String())
	}
	return errReported
}

// printResults renders the discovery outcome at the chosen verbosity.
func printResults(stdout io.Writer, res *discover.Results, reg *label.Registry, verbosity int) {
	if len(res.Iterations) == 0 {
		fmt.Fprintln(stdout, "no patterns found")
		return
	}
	for _, it := range res.Iterations {
		if verbosity >= 2 {
			fmt.Fprintf(stdout, "iteration %d (graph size %d, edges %d)\n",
				it.Iteration, it.PosSize, it.PosEdges)
		}
		for rank, sub := range it.Best {
			fmt.Fprintf(stdout, "(%d) score %g, %d instances",
				rank+1, sub.Score, sub.Instances.Len())
			if sub.NegInstances != nil {
				fmt.Fprintf(stdout, ", %d negative instances", sub.NegInstances.Len())
			}
			if sub.Recursive {
				fmt.Fprint(stdout, ", recursive")
			}
			fmt.Fprintln(stdout)
			if verbosity >= 2 {
				for _, line := range strings.Split(strings.TrimRight(sub.Canonical(reg), "\n"), "\n") {
					fmt.Fprintf(stdout, "    %s\n", line)
				}
			}
			if verbosity >= 4 {
				for _, in := range sub.Instances.All() {
					fmt.Fprintf(stdout, "    instance vertices %v edges %v\n", in.Vertices, in.Edges)
				}
			}
		}
		if verbosity < 2 {
			break // final best list only
		}
	}
}

// writeFileWith streams w through fn and closes it, propagating the
// first error.
func writeFileWith(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
