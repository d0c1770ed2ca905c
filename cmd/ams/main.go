// Command ams reconciles address datasets for the city GIS program:
// it compares the city and county address layers, flags duplicates,
// measures spatial drift, reports orphan streets and produces the
// dispatch-service range export.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gpgis-ams/internal/address"
	"github.com/gpgis-ams/internal/cache"
	"github.com/gpgis-ams/internal/config"
	"github.com/gpgis-ams/internal/engine"
	"github.com/gpgis-ams/internal/export"
	"github.com/gpgis-ams/internal/importer"
	"github.com/gpgis-ams/internal/logger"
	"github.com/gpgis-ams/internal/parser"
	"github.com/gpgis-ams/internal/store"
	"github.com/gpgis-ams/internal/symspell"
	"github.com/gpgis-ams/internal/vocab"
	"github.com/gpgis-ams/internal/web"
)

type app struct {
	cfg   *config.Config
	log   *zap.Logger
	vocab *vocab.Vocabulary
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	a := &app{cfg: cfg, log: log}

	rootCmd := &cobra.Command{
		Use:           "ams",
		Short:         "Address management and reconciliation",
		Long:          "Reconciles situs address datasets: classification, duplicates, drift, orphan streets and dispatch range exports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadVocabulary()
		},
	}

	rootCmd.AddCommand(a.createCompareCmd())
	rootCmd.AddCommand(a.createDuplicatesCmd())
	rootCmd.AddCommand(a.createDriftCmd())
	rootCmd.AddCommand(a.createOrphansCmd())
	rootCmd.AddCommand(a.createLexisNexisCmd())
	rootCmd.AddCommand(a.createSaveCmd())
	rootCmd.AddCommand(a.createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// loadVocabulary resolves the vocabulary once for all subcommands.
func (a *app) loadVocabulary() error {
	if a.cfg.Vocab.Path == "" {
		a.vocab = vocab.Default()
		return nil
	}
	v, err := vocab.LoadFile(a.cfg.Vocab.Path)
	if err != nil {
		return err
	}
	a.log.Info("vocabulary loaded", zap.String("path", a.cfg.Vocab.Path))
	a.vocab = v
	return nil
}

func (a *app) newEngine() (*engine.Engine, error) {
	return engine.New(a.vocab, engine.Options{
		Fields:  a.cfg.Engine.FieldNames(),
		Workers: a.cfg.Engine.Workers,
	})
}

// loadDataset reads one dataset in the named format: city, county,
// business, raw or cache.
func (a *app) loadDataset(path, format string) ([]address.Record, error) {
	if format == "cache" {
		records, err := cache.Load(path)
		if err != nil {
			return nil, err
		}
		a.log.Info("dataset loaded from cache",
			zap.String("path", path), zap.Int("records", len(records)))
		return records, nil
	}

	var (
		batch *importer.Batch
		err   error
	)
	switch format {
	case "city":
		batch, err = importer.LoadCity(path)
	case "county":
		batch, err = importer.LoadCounty(path)
	case "business":
		p, perr := parser.New(a.vocab)
		if perr != nil {
			return nil, perr
		}
		batch, err = importer.LoadBusiness(path, p)
	case "raw":
		p, perr := parser.New(a.vocab)
		if perr != nil {
			return nil, perr
		}
		batch, err = importer.LoadRaw(path, "raw", p)
	default:
		return nil, fmt.Errorf("unknown dataset format %q (want city, county, business, raw or cache)", format)
	}
	if err != nil {
		return nil, err
	}

	for _, f := range batch.Failures {
		a.log.Warn("row skipped",
			zap.String("path", path), zap.Int("line", f.Line),
			zap.String("id", f.ID), zap.String("reason", f.Reason))
	}
	a.log.Info("dataset loaded",
		zap.String("path", path), zap.String("format", format),
		zap.Int("records", len(batch.Records)), zap.Int("skipped", len(batch.Failures)))
	return batch.Records, nil
}

// openOutput returns the report destination: a file, or stdout when
// no path was given.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func (a *app) createCompareCmd() *cobra.Command {
	var sourcePath, sourceType, targetPath, targetType, filter, output string
	var archive bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Classify every source address against a target dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.loadDataset(sourcePath, sourceType)
			if err != nil {
				return err
			}
			target, err := a.loadDataset(targetPath, targetType)
			if err != nil {
				return err
			}
			eng, err := a.newEngine()
			if err != nil {
				return err
			}

			start := time.Now()
			report := eng.Reconcile(source, target)
			a.log.Info("reconciliation complete",
				zap.String("run_id", report.RunID.String()),
				zap.Int("matching", report.Summary.Matching),
				zap.Int("divergent", report.Summary.Divergent),
				zap.Int("missing", report.Summary.Missing),
				zap.Duration("elapsed", time.Since(start)))

			if archive {
				if err := a.archiveReport(cmd.Context(), report); err != nil {
					return err
				}
			}

			if filter != "" {
				report, err = report.Filter(filter)
				if err != nil {
					return err
				}
				a.log.Info("results filtered",
					zap.String("filter", filter), zap.Int("kept", len(report.Results)))
			}

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()
			return export.WriteResults(w, report)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Path to source addresses")
	cmd.Flags().StringVarP(&sourceType, "source-type", "k", "city", "Source format: city, county, business, raw or cache")
	cmd.Flags().StringVarP(&targetPath, "target", "t", "", "Path to target addresses")
	cmd.Flags().StringVarP(&targetType, "target-type", "z", "county", "Target format: city, county, business, raw or cache")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Keep only results matching a class or differing-field name")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default stdout)")
	cmd.Flags().BoolVar(&archive, "archive", false, "Archive the full run in Postgres before filtering")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")
	return cmd
}

func (a *app) archiveReport(ctx context.Context, report *engine.Report) error {
	if a.cfg.Database.URL == "" {
		return fmt.Errorf("archiving requires DATABASE_URL")
	}
	st, err := store.Open(ctx, a.cfg.Database.URL)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.SaveReport(ctx, report); err != nil {
		return err
	}
	a.log.Info("run archived", zap.String("run_id", report.RunID.String()))
	return nil
}

func (a *app) createDuplicatesCmd() *cobra.Command {
	var sourcePath, sourceType, output string

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "Report match keys claimed by more than one record",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, err := a.loadDataset(sourcePath, sourceType)
			if err != nil {
				return err
			}
			eng, err := a.newEngine()
			if err != nil {
				return err
			}

			groups := eng.FindDuplicates(dataset)
			a.log.Info("duplicate scan complete",
				zap.Int("records", len(dataset)), zap.Int("groups", len(groups)))

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()
			return export.WriteDuplicates(w, groups)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Path to addresses")
	cmd.Flags().StringVarP(&sourceType, "source-type", "k", "city", "Dataset format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default stdout)")
	cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) createDriftCmd() *cobra.Command {
	var sourcePath, sourceType, targetPath, targetType, output string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Measure coordinate drift between matched records",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.loadDataset(sourcePath, sourceType)
			if err != nil {
				return err
			}
			target, err := a.loadDataset(targetPath, targetType)
			if err != nil {
				return err
			}
			eng, err := a.newEngine()
			if err != nil {
				return err
			}

			report := eng.Reconcile(source, target)
			pairs := engine.MatchedPairs(report, source, target)
			records := eng.ComputeDrift(pairs, threshold)

			exceeding := 0
			for _, d := range records {
				if d.Exceeds {
					exceeding++
				}
			}
			a.log.Info("drift computed",
				zap.Int("pairs", len(pairs)), zap.Int("measured", len(records)),
				zap.Int("exceeding", exceeding), zap.Float64("threshold", threshold))

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()
			return export.WriteDrift(w, records)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Path to source addresses")
	cmd.Flags().StringVarP(&sourceType, "source-type", "k", "city", "Source format")
	cmd.Flags().StringVarP(&targetPath, "target", "t", "", "Path to target addresses")
	cmd.Flags().StringVarP(&targetType, "target-type", "z", "county", "Target format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default stdout)")
	cmd.Flags().Float64Var(&threshold, "threshold", a.cfg.Engine.DriftThreshold, "Drift distance threshold")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")
	return cmd
}

func (a *app) createOrphansCmd() *cobra.Command {
	var sourcePath, sourceType, targetPath, targetType, output string
	var suggest bool

	cmd := &cobra.Command{
		Use:   "orphans",
		Short: "Report streets named in only one dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.loadDataset(sourcePath, sourceType)
			if err != nil {
				return err
			}
			target, err := a.loadDataset(targetPath, targetType)
			if err != nil {
				return err
			}
			eng, err := a.newEngine()
			if err != nil {
				return err
			}

			srcOnly, tgtOnly := eng.FindOrphanStreets(source, target)
			a.log.Info("orphan streets found",
				zap.Int("source_only", len(srcOnly)), zap.Int("target_only", len(tgtOnly)))

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()
			if !suggest {
				return export.WriteOrphans(w, srcOnly, tgtOnly)
			}

			// Annotate each orphan with its nearest spelling in the
			// other dataset; most orphans are typos of a real street.
			srcSuggestions := symspell.SuggestCounterparts(srcOnly, symspell.BuildStreetIndex(target, a.vocab))
			tgtSuggestions := symspell.SuggestCounterparts(tgtOnly, symspell.BuildStreetIndex(source, a.vocab))
			return export.WriteOrphanSuggestions(w, srcSuggestions, tgtSuggestions)
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Path to source addresses")
	cmd.Flags().StringVarP(&sourceType, "source-type", "k", "city", "Source format")
	cmd.Flags().StringVarP(&targetPath, "target", "t", "", "Path to target addresses")
	cmd.Flags().StringVarP(&targetType, "target-type", "z", "county", "Target format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default stdout)")
	cmd.Flags().BoolVar(&suggest, "suggest", true, "Annotate each orphan with its nearest counterpart spelling")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")
	return cmd
}

func (a *app) createLexisNexisCmd() *cobra.Command {
	var includePath, includeType, excludePath, excludeType, output string

	cmd := &cobra.Command{
		Use:   "lexisnexis",
		Short: "Produce the dispatch-service address range export",
		RunE: func(cmd *cobra.Command, args []string) error {
			include, err := a.loadDataset(includePath, includeType)
			if err != nil {
				return err
			}
			var exclude []address.Record
			if excludePath != "" {
				exclude, err = a.loadDataset(excludePath, excludeType)
				if err != nil {
					return err
				}
			}

			rows := export.LexisNexisRanges(include, exclude, a.vocab)
			a.log.Info("ranges derived",
				zap.Int("include", len(include)), zap.Int("exclude", len(exclude)),
				zap.Int("ranges", len(rows)))

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()
			return export.WriteLexisNexis(w, rows)
		},
	}

	cmd.Flags().StringVarP(&includePath, "include", "i", "", "Addresses inside the service area")
	cmd.Flags().StringVarP(&includeType, "include-type", "k", "city", "Include format")
	cmd.Flags().StringVarP(&excludePath, "exclude", "x", "", "Addresses outside the service area")
	cmd.Flags().StringVarP(&excludeType, "exclude-type", "z", "county", "Exclude format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV path (default stdout)")
	cmd.MarkFlagRequired("include")
	return cmd
}

func (a *app) createSaveCmd() *cobra.Command {
	var sourcePath, sourceType, output string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Import a dataset and save it as a binary cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadDataset(sourcePath, sourceType)
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.Cache.Path
			}
			if err := cache.Save(output, records); err != nil {
				return err
			}
			a.log.Info("cache written",
				zap.String("path", output), zap.Int("records", len(records)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Path to addresses")
	cmd.Flags().StringVarP(&sourceType, "source-type", "k", "city", "Dataset format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Cache path (default from configuration)")
	cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve archived runs over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Database.URL == "" {
				return fmt.Errorf("serving requires DATABASE_URL")
			}
			st, err := store.Open(cmd.Context(), a.cfg.Database.URL)
			if err != nil {
				return err
			}
			defer st.Close()

			return web.NewServer(a.cfg.Server, st, a.log).Start()
		},
	}
}
