package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"xbrlgraph/pkg/core/pipeline"
	"xbrlgraph/pkg/core/report"
	"xbrlgraph/pkg/core/statements"
	"xbrlgraph/pkg/core/store"
	"xbrlgraph/pkg/core/xbrl"
)

type extractFlags struct {
	instance  string
	linkbases []string
	catalog   string
	roles     []string
	maxDepth  int
	skipCalc  bool
	outDir    string
	html      bool
	persist   bool
}

func newExtractCmd() *cobra.Command {
	var flags extractFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run the extraction pipeline over a local instance document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filing, err := xbrl.LoadInstanceFile(flags.instance)
			if err != nil {
				return err
			}
			for _, path := range flags.linkbases {
				if err := xbrl.LoadLinkbaseFile(filing, path); err != nil {
					return err
				}
			}
			return runPipeline(cmd.Context(), filing, &flags)
		},
	}

	cmd.Flags().StringVarP(&flags.instance, "instance", "i", "", "path to XBRL instance document (required)")
	cmd.Flags().StringArrayVarP(&flags.linkbases, "linkbase", "l", nil, "path to a presentation/calculation linkbase (repeatable)")
	addOutputFlags(cmd, &flags)
	_ = cmd.MarkFlagRequired("instance")
	return cmd
}

func addOutputFlags(cmd *cobra.Command, flags *extractFlags) {
	cmd.Flags().StringVar(&flags.catalog, "catalog", "", "classification catalog file (.yaml or .hjson)")
	cmd.Flags().StringArrayVar(&flags.roles, "role", nil, "arcrole URI to project (repeatable; default presentation+calculation)")
	cmd.Flags().IntVar(&flags.maxDepth, "max-depth", 0, "relationship traversal depth guard")
	cmd.Flags().BoolVar(&flags.skipCalc, "skip-calc-check", false, "skip summation-item consistency checking")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "out", "output directory")
	cmd.Flags().BoolVar(&flags.html, "html", false, "also render an HTML report")
	cmd.Flags().BoolVar(&flags.persist, "store", false, "persist the run to Postgres (DATABASE_URL)")
}

func runPipeline(ctx context.Context, filing *xbrl.Filing, flags *extractFlags) error {
	opts := pipeline.Options{
		Roles:                flags.roles,
		MaxDepth:             flags.maxDepth,
		SkipCalculationCheck: flags.skipCalc,
	}
	if flags.catalog != "" {
		catalog, err := statements.LoadCatalog(flags.catalog)
		if err != nil {
			return err
		}
		opts.Catalog = catalog
	}

	result, err := pipeline.Run(filing, opts)
	if err != nil {
		return err
	}

	if err := writeOutputs(result, flags); err != nil {
		return err
	}
	if flags.persist {
		if err := persistRun(ctx, result); err != nil {
			return err
		}
	}

	for _, d := range result.Diagnostics {
		log.Warn().Str("kind", string(d.Kind)).Str("subject", d.Subject).Msg(d.Message)
	}
	return nil
}

func writeOutputs(result *pipeline.Result, flags *extractFlags) error {
	if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(flags.outDir, "extraction.json"), data, 0o644); err != nil {
		return err
	}

	md := report.Markdown(result)
	if err := os.WriteFile(filepath.Join(flags.outDir, "report.md"), []byte(md), 0o644); err != nil {
		return err
	}

	if flags.html {
		page, err := report.HTML(result)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(flags.outDir, "report.html"), []byte(page), 0o644); err != nil {
			return err
		}
	}

	log.Info().Str("dir", flags.outDir).Msg("outputs written")
	return nil
}

func persistRun(ctx context.Context, result *pipeline.Result) error {
	pool, err := store.Connect(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return err
	}
	defer pool.Close()

	runs := store.NewRunStore(pool)
	if err := runs.EnsureSchema(ctx); err != nil {
		return err
	}
	return runs.SaveRun(ctx, result)
}
