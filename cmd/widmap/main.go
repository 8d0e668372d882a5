// Command widmap extracts the field catalog from WID report containers
// into an xlsx workbook, a CSV and an optional database catalog.
//
// Usage (single container):
//
//	widmap quarterly.wid ./out
//
// Usage (directory mode, every *.wid inside, non-recursive):
//
//	widmap ./reports ./out
//
// With destination overrides and a SQLite catalog:
//
//	widmap -overrides dest.yaml -catalog sqlite -dsn file:catalog.db ./reports ./out
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"widmap/internal/catalog"
	"widmap/internal/extract"
	"widmap/internal/mapping"
	"widmap/internal/metrics"
	"widmap/internal/metrics/datadog"
	"widmap/internal/overrides"
	"widmap/internal/report"
	"widmap/internal/wid"

	// register all catalog backends; -catalog selects one at runtime.
	_ "widmap/internal/catalog/all"
)

// backendCloser is the minimal interface used by this command to manage a
// metrics backend.
type backendCloser interface {
	metrics.Backend
	Close() error
}

// deps are external seams for testability.
//
// When to use:
//   - Unit tests: inject a fake metrics backend factory and catalog
//     opener, and capture stdout/stderr.
//   - Alternate runtimes: swap the clock or run id source.
type deps struct {
	Stdout io.Writer
	Stderr io.Writer

	BackendFactory func(ctx context.Context, jobName string, tags []string) (backendCloser, error)
	OpenCatalog    func(ctx context.Context, cfg catalog.Config) (catalog.Store, error)
	Now            func() time.Time
	NewRunID       func() string
}

// runConfig holds the parsed flags and positional arguments for a run.
type runConfig struct {
	Input          string
	OutDir         string
	OverridesPath  string
	CatalogKind    string
	CatalogDSN     string
	MetricsBackend string
	MetricsTags    string
	Summary        bool
	Verbose        bool
}

// main is intentionally small: it wires real dependencies and exits with a code.
func main() {
	code := run(context.Background(), os.Args[1:], deps{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		BackendFactory: func(ctx context.Context, jobName string, tags []string) (backendCloser, error) {
			return datadog.NewBackend(ctx, datadog.Options{
				JobName: jobName,
				Tags:    tags,
			})
		},
		OpenCatalog: catalog.New,
		Now:         time.Now,
		NewRunID:    uuid.NewString,
	})
	os.Exit(code)
}

// run executes the command and returns an exit code.
//
// Exit codes:
//   - 0: success. Directory mode reaches the end even when individual
//     containers fail; those are logged and skipped.
//   - 1: unrecoverable runtime failure (single-file format error, output
//     write failure).
//   - 2: usage or initialization error.
func run(ctx context.Context, args []string, d deps) int {
	if d.Stdout == nil {
		d.Stdout = io.Discard
	}
	if d.Stderr == nil {
		d.Stderr = io.Discard
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewRunID == nil {
		d.NewRunID = uuid.NewString
	}
	if d.OpenCatalog == nil {
		d.OpenCatalog = catalog.New
	}

	logger := log.New(d.Stderr, "", log.LstdFlags)

	cfg, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(d.Stderr, err.Error())
		return 2
	}

	// Metrics backend: flag, then environment, default none.
	backendName := cfg.MetricsBackend
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "datadog":
		if d.BackendFactory == nil {
			fmt.Fprintln(d.Stderr, "internal error: BackendFactory is nil")
			return 2
		}
		tagsCSV := cfg.MetricsTags
		if tagsCSV == "" {
			tagsCSV = os.Getenv("METRICS_TAGS")
		}
		b, err := d.BackendFactory(ctx, "widmap", datadog.ParseTagsCSV(tagsCSV))
		if err != nil {
			logger.Printf("metrics: datadog init failed: %v; metrics disabled", err)
		} else {
			metrics.SetBackend(b)
			defer func() {
				if err := b.Close(); err != nil {
					logger.Printf("metrics: datadog close/flush error: %v", err)
				}
			}()
		}
	case "", "none":
		if cfg.Verbose {
			logger.Printf("metrics: disabled")
		}
	default:
		fmt.Fprintf(d.Stderr, "unknown metrics backend %q\n", backendName)
		return 2
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		fmt.Fprintf(d.Stderr, "create output directory: %v\n", err)
		return 2
	}

	var ov *overrides.Overrides
	if cfg.OverridesPath != "" {
		ov, err = overrides.Load(cfg.OverridesPath)
		if err != nil {
			fmt.Fprintf(d.Stderr, "load overrides: %v\n", err)
			return 2
		}
	}

	var store catalog.Store
	if cfg.CatalogKind != "" {
		dsn := cfg.CatalogDSN
		if dsn == "" {
			dsn = os.Getenv("WIDMAP_DSN")
		}
		store, err = d.OpenCatalog(ctx, catalog.Config{Kind: cfg.CatalogKind, DSN: dsn})
		if err != nil {
			fmt.Fprintf(d.Stderr, "open catalog: %v\n", err)
			return 2
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			fmt.Fprintf(d.Stderr, "catalog schema: %v\n", err)
			return 2
		}
	}

	inputs, dirMode, err := listInputs(cfg.Input)
	if err != nil {
		fmt.Fprintf(d.Stderr, "%v\n", err)
		return 2
	}
	if len(inputs) == 0 {
		logger.Printf("no .wid files in %s", cfg.Input)
		return 0
	}

	r := &runner{
		logger:  logger,
		verbose: cfg.Verbose,
		outDir:  cfg.OutDir,
		over:    ov,
		store:   store,
		run:     catalog.RunInfo{ID: d.NewRunID(), Started: d.Now()},
		now:     d.Now,
	}

	summaries := make([]report.ContainerSummary, 0, len(inputs))
	failed, rows := 0, 0
	for _, in := range inputs {
		start := r.now()
		sum, err := r.processContainer(ctx, in)
		summaries = append(summaries, sum)
		rows += sum.TotalRows

		status := "ok"
		switch {
		case err != nil:
			status = "error"
		case sum.TotalRows == 0:
			status = "empty"
		}
		metrics.IncCounter("wid_containers_total", 1, metrics.Labels{"status": status})
		metrics.ObserveHistogram("wid_container_duration_seconds", r.now().Sub(start).Seconds(), metrics.Labels{"status": status})

		if err != nil {
			if !dirMode {
				fmt.Fprintf(d.Stderr, "%s: %v\n", in, err)
				return 1
			}
			failed++
			logger.Printf("skip %s: %v", filepath.Base(in), err)
		}
	}

	fmt.Fprintf(d.Stdout, "processed %d containers, %d rows, %d failed\n", len(inputs), rows, failed)

	if cfg.Summary {
		rs := report.RunSummary{
			RunID:      r.run.ID,
			Started:    r.run.Started,
			Finished:   d.Now(),
			Containers: summaries,
		}
		if err := report.WriteSummary(cfg.OutDir, rs); err != nil {
			fmt.Fprintf(d.Stderr, "write summary: %v\n", err)
			return 1
		}
	}
	return 0
}

// parseFlags parses command arguments into a runConfig.
//
// Errors:
//   - Returns an error for invalid flags or missing positionals.
//   - Does not exit the process (caller decides exit code).
func parseFlags(args []string) (runConfig, error) {
	fs := flag.NewFlagSet("widmap", flag.ContinueOnError)

	// Capture help/usage text instead of writing to stderr directly.
	var usageBuf strings.Builder
	fs.SetOutput(&usageBuf)
	fs.Usage = func() {
		fmt.Fprintf(&usageBuf, "Usage: %s [flags] <input.wid | directory> <output-directory>\n", fs.Name())
		fs.PrintDefaults()
	}

	var cfg runConfig
	fs.StringVar(&cfg.OverridesPath, "overrides", "", "YAML file with destination table/column overrides")
	fs.StringVar(&cfg.CatalogKind, "catalog", "", "catalog database backend (sqlite, postgres, mssql); empty disables the catalog sink")
	fs.StringVar(&cfg.CatalogDSN, "dsn", "", "catalog DSN (falls back to env WIDMAP_DSN)")
	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", "", "metrics backend (datadog, none; falls back to env METRICS_BACKEND)")
	fs.StringVar(&cfg.MetricsTags, "metrics-tags", "", "extra Datadog tags CSV (falls back to env METRICS_TAGS)")
	fs.BoolVar(&cfg.Summary, "summary", true, "write an index.html run summary into the output directory")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose logging (archive entries, encodings, override counts)")

	if err := fs.Parse(args); err != nil {
		// When -h / -help is passed, flag.Parse returns flag.ErrHelp and
		// the usage text is already in the buffer.
		if errors.Is(err, flag.ErrHelp) {
			return runConfig{}, errors.New(usageBuf.String())
		}
		return runConfig{}, fmt.Errorf("%v\n\n%s", err, usageBuf.String())
	}

	rest := fs.Args()
	if len(rest) != 2 {
		fs.Usage()
		return runConfig{}, errors.New("expected INPUT and OUTDIR arguments\n\n" + usageBuf.String())
	}
	cfg.Input = rest[0]
	cfg.OutDir = rest[1]
	return cfg, nil
}

// listInputs resolves the input argument into the ordered container list.
//
// A directory input lists its *.wid files (case-insensitive match,
// non-recursive), ordered case-insensitively by name so runs are
// deterministic across filesystems.
func listInputs(input string) ([]string, bool, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return nil, false, err
	}
	if !fi.IsDir() {
		return []string{input}, false, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, true, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".wid") {
			continue
		}
		files = append(files, filepath.Join(input, e.Name()))
	}
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i]) < strings.ToLower(files[j])
	})
	return files, true, nil
}

// runner carries the per-invocation wiring shared by every container.
type runner struct {
	logger  *log.Logger
	verbose bool
	outDir  string
	over    *overrides.Overrides
	store   catalog.Store
	run     catalog.RunInfo
	now     func() time.Time
}

// processContainer extracts one container and writes its outputs.
//
// The returned summary is always usable for the run summary page, also
// on failure (Failure carries the error text).
func (r *runner) processContainer(ctx context.Context, path string) (report.ContainerSummary, error) {
	name := filepath.Base(path)
	sum := report.ContainerSummary{Name: name}

	c, err := wid.OpenFile(path)
	if err != nil {
		sum.Failure = err.Error()
		return sum, err
	}

	ext := &extract.Extractor{Logger: r.logger, Verbose: r.verbose}
	res := ext.Run(c)
	records := res.Records

	if n := r.over.Apply(records); n > 0 && r.verbose {
		r.logger.Printf("report: %s: %d override cells applied", name, n)
	}
	report.SortRecords(records)

	sum.Providers = len(res.Providers)
	sum.TotalRows = len(records)
	sum.Calculated = len(report.CalculatedView(records))
	sum.DataRows = len(report.DataFieldView(records))

	metrics.IncCounter("wid_providers_total", float64(len(res.Providers)), nil)
	emitRecordMetrics(records)

	if len(records) == 0 {
		r.logger.Printf("report: %s: no fields found, skipping outputs", name)
		return sum, nil
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	xlsxName := base + "_field_map.xlsx"
	csvName := base + "_field_map.csv"

	if err := report.WriteWorkbook(filepath.Join(r.outDir, xlsxName), records); err != nil {
		sum.Failure = err.Error()
		return sum, fmt.Errorf("write workbook: %w", err)
	}
	if err := report.WriteCSV(filepath.Join(r.outDir, csvName), records); err != nil {
		sum.Failure = err.Error()
		return sum, fmt.Errorf("write csv: %w", err)
	}
	sum.Workbook = xlsxName
	sum.CSV = csvName

	if r.store != nil {
		inserted, err := r.store.InsertRecords(ctx, r.run, name, records)
		if err != nil {
			sum.Failure = err.Error()
			return sum, fmt.Errorf("catalog insert: %w", err)
		}
		if r.verbose {
			r.logger.Printf("catalog: %s: %d new rows", name, inserted)
		}
	}

	r.logger.Printf("report: %s: %d rows (%d calculated, %d data) across %d providers",
		name, sum.TotalRows, sum.Calculated, sum.DataRows, sum.Providers)
	return sum, nil
}

// emitRecordMetrics counts extracted rows per field type tag.
func emitRecordMetrics(records []mapping.Record) {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[fieldTypeTag(rec.FieldType)]++
	}
	for typ, n := range counts {
		metrics.IncCounter("wid_records_total", float64(n), metrics.Labels{"type": typ})
	}
}

// fieldTypeTag converts a Field Type label into a metric tag slug
// ("Calculated Field" becomes "calculated_field").
func fieldTypeTag(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}
