package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/pario-ai/cinecache/pkg/models"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	var (
		configPath string
		page       int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a page of popular movies, falling back to the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := a.pipeline(page)
			defer func() { _ = p.Close() }()

			result, err := p.Load(ctx)
			if err != nil {
				return err
			}
			return printPage(os.Stdout, result)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cinecache.yaml", "path to config file")
	cmd.Flags().IntVarP(&page, "page", "p", 0, "page to fetch (defaults to the configured page)")
	return cmd
}

func printPage(out io.Writer, page *models.Page) error {
	if page == nil || len(page.Results) == 0 {
		fmt.Fprintln(out, "No movies found.")
		return nil
	}

	fmt.Fprintf(out, "Page %d\n", page.Page)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tRELEASED\tVOTES\tAVERAGE\tPOPULARITY")
	for _, m := range page.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.1f\t%.2f\n",
			m.ID, m.Title, m.ReleaseDate, m.VoteCount, m.VoteAverage, m.Popularity)
	}
	return w.Flush()
}
