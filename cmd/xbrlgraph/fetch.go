package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"xbrlgraph/pkg/core/ingest"
	"xbrlgraph/pkg/core/xbrl"
)

func newFetchCmd() *cobra.Command {
	var (
		flags     extractFlags
		ticker    string
		cik       string
		form      string
		userAgent string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a filing from SEC EDGAR and run the extraction pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if userAgent == "" {
				userAgent = os.Getenv("SEC_USER_AGENT")
			}
			client := ingest.NewClient(userAgent)

			if cik == "" {
				if ticker == "" {
					return fmt.Errorf("either --ticker or --cik is required")
				}
				resolved, err := client.LookupCIK(ctx, ticker)
				if err != nil {
					return err
				}
				cik = resolved
			}

			ref, err := client.LatestFiling(ctx, cik, form)
			if err != nil {
				return err
			}
			log.Info().Str("form", ref.Form).Str("accession", ref.AccessionNumber).
				Str("filed", ref.FilingDate).Msg("filing located")

			instanceURL, err := client.InstanceDocumentURL(ctx, ref)
			if err != nil {
				return err
			}
			body, err := client.FetchInstance(ctx, instanceURL)
			if err != nil {
				return err
			}

			filing, err := xbrl.LoadInstance(bytes.NewReader(body), instanceURL)
			if err != nil {
				return err
			}
			return runPipeline(ctx, filing, &flags)
		},
	}

	cmd.Flags().StringVar(&ticker, "ticker", "", "company ticker symbol")
	cmd.Flags().StringVar(&cik, "cik", "", "zero-padded CIK (overrides --ticker)")
	cmd.Flags().StringVar(&form, "form", "10-K", "form type to fetch")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "SEC User-Agent header (or SEC_USER_AGENT env)")
	addOutputFlags(cmd, &flags)
	return cmd
}
