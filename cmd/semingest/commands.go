package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/semingest/association"
	"github.com/c360studio/semingest/export"
	"github.com/c360studio/semingest/identifier"
	"github.com/c360studio/semingest/omim"
	"github.com/c360studio/semingest/source"
	"github.com/c360studio/semingest/translation"
)

func hashCmd() *cobra.Command {
	var (
		prefix string
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "hash <string>...",
		Short: "Print the deterministic id of each string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range args {
				if raw {
					fmt.Fprintln(out, identifier.HashID(s))
				} else {
					fmt.Fprintln(out, identifier.MakeID(s, prefix))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", identifier.DefaultPrefix, "CURIE prefix of the id")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the hashed local part")
	return cmd
}

func resolveCmd(g *globals) *cobra.Command {
	var (
		name     string
		optional bool
	)
	cmd := &cobra.Command{
		Use:   "resolve <word>...",
		Short: "Resolve source words through the translation tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.app.Resolver(name)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, word := range args {
				term, err := r.Resolve(word, !optional)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", word, term)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "source", "s", omim.Name, "Source whose local table is used")
	cmd.Flags().BoolVar(&optional, "optional", false, "Pass unknown words through instead of failing")
	return cmd
}

func assocIDCmd(g *globals) *cobra.Command {
	var (
		definedBy    string
		subject      string
		relationship string
		object       string
		q            association.Qualifiers
	)
	cmd := &cobra.Command{
		Use:   "assoc-id",
		Short: "Print the id of an association",
		Long: `Print the id of an association. The relationship may be a CURIE or a
label of the global translation table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, ok := identifier.SplitCURIE(relationship); !ok {
				r, err := g.app.Resolver(definedBy)
				if err != nil {
					return err
				}
				if relationship, err = r.Term(relationship); err != nil {
					return err
				}
			}
			id := association.MakeAssociationID(definedBy, subject, relationship, object, q.Ordered()...)
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&definedBy, "definedby", omim.Name, "Source asserting the association")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject id")
	cmd.Flags().StringVar(&relationship, "relationship", "has_phenotype", "Relationship CURIE or label")
	cmd.Flags().StringVar(&object, "object", "", "Object id")
	cmd.Flags().StringVar(&q.Environment, "environment", "", "Environment qualifier")
	cmd.Flags().StringVar(&q.StartStage, "start-stage", "", "Start stage qualifier")
	cmd.Flags().StringVar(&q.EndStage, "end-stage", "", "End stage qualifier")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("object")
	return cmd
}

func datasetCmd(g *globals) *cobra.Command {
	var (
		name string
		so   sourceOptions
	)
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Write the dataset description of a source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := g.app.Source(cmd.Context(), name, so)
			if err != nil {
				return err
			}
			if err := src.Write(cmd.Context()); err != nil {
				return err
			}
			d := src.Dataset()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "summary\t%s\n", d.SummaryCURIE())
			fmt.Fprintf(out, "version\t%s\n", d.VersionCURIE())
			fmt.Fprintf(out, "distribution\t%s\n", d.DistributionCURIE())
			fmt.Fprintf(out, "download\t%s\n", d.DownloadURL())
			fmt.Fprintf(out, "written\t%s\n", src.DatasetPath())
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "source", "s", omim.Name, "Configured source")
	cmd.Flags().StringVar(&so.release, "release", "", "Release version (default: today)")
	cmd.Flags().BoolVar(&so.upload, "upload", false, "Copy the written files to the archive")
	return cmd
}

func fetchCmd(g *globals) *cobra.Command {
	var (
		name  string
		force bool
		so    sourceOptions
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the files of a source and record their retrieval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := g.app.Source(ctx, name, so)
			if err != nil {
				return err
			}
			if err := src.GetFiles(ctx, &source.Downloader{Logger: g.app.logger}, force); err != nil {
				return err
			}
			return src.Write(ctx)
		},
	}
	cmd.Flags().StringVarP(&name, "source", "s", omim.Name, "Configured source")
	cmd.Flags().BoolVar(&force, "force", false, "Download even when the local copy is current")
	cmd.Flags().StringVar(&so.release, "release", "", "Release version (default: today)")
	cmd.Flags().BoolVar(&so.upload, "upload", false, "Copy the written files to the archive")
	return cmd
}

func omimCmd(g *globals) *cobra.Command {
	var (
		idsFile     string
		snapshotDir string
		optional    bool
		so          sourceOptions
	)
	cmd := &cobra.Command{
		Use:   "omim [mim number]...",
		Short: "Type and label OMIM entries from the OMIM API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ids := args
			if idsFile != "" {
				more, err := readIDs(idsFile)
				if err != nil {
					return err
				}
				ids = append(ids, more...)
			}
			if len(ids) == 0 {
				return errors.New("no mim numbers given")
			}
			return runOMIM(ctx, g.app, ids, snapshotDir, optional, so)
		},
	}
	cmd.Flags().StringVar(&idsFile, "ids-file", "", "File with one mim number per line")
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Keep the raw API responses here")
	cmd.Flags().BoolVar(&optional, "optional", false, "Skip batches rejected for the API key")
	cmd.Flags().StringVar(&so.release, "release", "", "Release version (default: today)")
	cmd.Flags().BoolVar(&so.upload, "upload", false, "Copy the written files to the archive")
	return cmd
}

func runOMIM(ctx context.Context, a *App, ids []string, snapshotDir string, optional bool, so sourceOptions) error {
	sc, _ := a.cfg.Source(omim.Name)
	key := sc.APIKey()
	if key == "" {
		return fmt.Errorf("no OMIM API key: set %s", sc.APIKeyEnv)
	}

	src, err := a.Source(ctx, omim.Name, so)
	if err != nil {
		return err
	}
	cache, err := a.OpenCache(ctx)
	if err != nil {
		return err
	}
	defer cache.Close()

	clean, dirty := omim.CleanIDs(ids)
	if dirty > 0 {
		a.logger.Warn("Dropped prefixes from mim numbers", "count", dirty)
	}

	fetcher := omim.NewFetcher(key)
	fetcher.SnapshotDir = snapshotDir
	fetcher.Logger = a.logger
	fetcher.Observer = a.metrics.Metrics.ObserveBatch
	batches, err := fetcher.Fetch(ctx, clean, optional)
	if err != nil {
		return err
	}

	in := omim.NewIngest(src.Graph(), src.Resolver(), cache,
		omim.WithLogger(a.logger), omim.WithMetrics(a.metrics.Metrics))
	n, err := in.ProcessEntries(ctx, batches)
	if err != nil {
		return err
	}
	if err := src.Dataset().SetIngestSource(omim.APIURL, ""); err != nil {
		return err
	}
	if err := src.Dataset().SetIngestSourceFileRetrievedOn(omim.APIURL, time.Now().UTC().Format(time.DateOnly), ""); err != nil {
		return err
	}
	a.logger.Info("Processed OMIM entries", "entries", n, "batches", len(batches))
	return src.Write(ctx)
}

func readIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	return ids, sc.Err()
}

func lintCmd(g *globals) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "lint [pattern]...",
		Short: "Check local translation tables for non-invertible entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = g.app.cfg.Translation.Patterns
			}
			out := cmd.OutOrStdout()
			failed, err := lintOnce(out, patterns, g.app.global)
			if err != nil {
				return err
			}
			if !watch {
				if failed > 0 {
					return fmt.Errorf("%d translation table(s) are not invertible", failed)
				}
				return nil
			}
			return watchTables(cmd.Context(), g.app, out, patterns)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Lint again whenever a table changes")
	return cmd
}

func lintOnce(out io.Writer, patterns []string, global map[string]string) (int, error) {
	paths, err := translation.FindTables(patterns)
	if err != nil {
		return 0, err
	}
	reports, err := translation.Lint(paths, global)
	if err != nil {
		return 0, err
	}
	failed := 0
	for _, r := range reports {
		status := "ok"
		if !r.OK() {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(out, "%s\t%s\t%d entries\n", status, r.Path, r.Entries)
		for _, c := range r.Conflicts {
			fmt.Fprintf(out, "  label %q is the translation of %s\n", c.Label, strings.Join(c.Keys, ", "))
		}
		for _, m := range r.Missing {
			fmt.Fprintf(out, "  label %q has no global term\n", m)
		}
	}
	return failed, nil
}

func watchTables(ctx context.Context, a *App, out io.Writer, patterns []string) error {
	paths, err := translation.FindTables(patterns)
	if err != nil {
		return err
	}
	var dirs []string
	for _, p := range paths {
		if d := filepath.Dir(p); !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		dirs = []string{a.cfg.Translation.LocalDir}
	}

	w, err := translation.NewWatcher(translation.WatcherConfig{Dirs: dirs, Logger: a.logger})
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Start(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-w.Changes():
			a.logger.Info("Translation tables changed", "files", changed)
			if _, err := lintOnce(out, patterns, a.global); err != nil {
				a.logger.Error("Lint failed", "error", err)
			}
		}
	}
}

func (a *App) outputFormat() export.Format {
	return export.Format(a.cfg.Output.Format)
}
