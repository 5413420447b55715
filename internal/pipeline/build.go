// Package pipeline runs the county results build: discover input files,
// classify and tally each one, merge by year and write the output document.
package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Tenjin25/ARRealignment/internal/election"
	"github.com/Tenjin25/ARRealignment/internal/fetcher"
	"github.com/Tenjin25/ARRealignment/internal/lookup"
	"github.com/Tenjin25/ARRealignment/internal/results"
	"github.com/Tenjin25/ARRealignment/internal/source"
)

// Options configures a build.
type Options struct {
	DataDir           string
	Extensions        []string
	YearTokens        []string
	ExcludeYearTokens []string
	InputEncoding     string
	HeuristicsPath    string
	LookupPath        string
	OutputPath        string
	DryRun            bool
	Document          results.DocumentOptions
}

// FileOutcome records what happened to one input file.
type FileOutcome struct {
	Path     string
	Year     string
	Schema   election.SchemaKind
	Contests int
	Err      error
}

// Skipped reports whether the file contributed nothing.
func (o FileOutcome) Skipped() bool { return o.Err != nil }

// Phase is a timed build step.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Report summarizes a build.
type Report struct {
	Files     []FileOutcome
	Processed int
	Skipped   int
	Summary   []results.YearSummary
	Document  *results.Document
	Phases    []Phase
}

var (
	errNoYear     = eris.New("pipeline: could not determine year")
	errNoContests = eris.New("pipeline: no tracked contests")
)

// Build runs the full pipeline. Per-file problems are logged and the file is
// skipped; only setup failures, an empty input set and write failures abort.
func Build(ctx context.Context, opts Options) (*Report, error) {
	log := zap.L().With(zap.String("data_dir", opts.DataDir))
	report := &Report{}

	track := func(name string, fn func() error) error {
		start := time.Now()
		err := fn()
		d := time.Since(start)
		report.Phases = append(report.Phases, Phase{Name: name, Duration: d})
		if err != nil {
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Duration("duration", d), zap.Error(err))
			return err
		}
		log.Debug("pipeline: phase complete", zap.String("phase", name), zap.Duration("duration", d))
		return nil
	}

	var (
		heur  election.Heuristics
		table *lookup.Table
		files []string
		tree  = results.Tree{}
	)

	err := track("setup", func() error {
		var err error
		heur, err = election.LoadHeuristics(opts.HeuristicsPath)
		if err != nil {
			return err
		}
		table, err = loadLookup(opts.LookupPath)
		return err
	})
	if err != nil {
		return report, err
	}

	err = track("discover", func() error {
		var err error
		files, err = source.Discover(ctx, opts.DataDir, source.Options{
			Extensions:    opts.Extensions,
			ExcludeTokens: opts.ExcludeYearTokens,
		})
		return err
	})
	if err != nil {
		return report, err
	}
	log.Info("pipeline: discovered input files", zap.Int("files", len(files)))

	var resolver election.CountyResolver
	if table != nil {
		resolver = table
	}
	proc := election.NewProcessor(heur, resolver)

	err = track("process", func() error {
		for _, path := range files {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "pipeline: cancelled")
			}
			outcome, fr := processFile(proc, path, opts)
			report.Files = append(report.Files, outcome)
			if outcome.Skipped() {
				report.Skipped++
				log.Warn("pipeline: skipping file", zap.String("file", path), zap.Error(outcome.Err))
				continue
			}
			report.Processed++
			tree.Merge(outcome.Year, fr)
			log.Info("pipeline: processed file",
				zap.String("file", path),
				zap.String("year", outcome.Year),
				zap.Stringer("schema", outcome.Schema),
				zap.Int("contests", outcome.Contests),
			)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	if report.Processed == 0 {
		log.Warn("pipeline: every input file was skipped; output will be empty",
			zap.Int("skipped", report.Skipped),
		)
	}

	filtered := tree.FilterContested()
	report.Summary = filtered.Summarize()
	results.LogSummary(report.Summary)

	docOpts := opts.Document
	docOpts.Scale = heur.Scale
	report.Document = results.Build(filtered, docOpts)

	if opts.DryRun {
		log.Info("pipeline: dry run, output not written", zap.String("output", opts.OutputPath))
		return report, nil
	}

	err = track("write", func() error {
		return results.Write(opts.OutputPath, report.Document)
	})
	if err != nil {
		return report, err
	}
	log.Info("pipeline: wrote output", zap.String("output", opts.OutputPath), zap.Int("years", len(report.Summary)))
	return report, nil
}

func processFile(proc *election.Processor, path string, opts Options) (FileOutcome, election.FileResult) {
	outcome := FileOutcome{Path: path}

	rel, err := filepath.Rel(opts.DataDir, path)
	if err != nil {
		rel = path
	}
	outcome.Year = source.ExtractYear(rel, opts.YearTokens)
	if outcome.Year == "" {
		outcome.Err = errNoYear
		return outcome, nil
	}

	tbl, err := fetcher.ReadTable(path, fetcher.TableOptions{Encoding: opts.InputEncoding})
	if err != nil {
		outcome.Err = eris.Wrap(err, "pipeline: read table")
		return outcome, nil
	}

	fr, kind, err := proc.Process(tbl)
	outcome.Schema = kind
	if err != nil {
		outcome.Err = err
		return outcome, nil
	}

	outcome.Contests = fr.Contests()
	if outcome.Contests == 0 {
		outcome.Err = errNoContests
		return outcome, nil
	}
	return outcome, fr
}

// loadLookup returns nil without error when the lookup file does not exist;
// modern-layout files are then skipped.
func loadLookup(path string) (*lookup.Table, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("pipeline: county lookup not found; Location ID files will be skipped", zap.String("path", path))
		return nil, nil
	}
	t, err := lookup.Load(path)
	if err != nil {
		return nil, err
	}
	zap.L().Info("pipeline: loaded county lookup", zap.String("path", path), zap.Int("counties", t.Len()))
	return t, nil
}
