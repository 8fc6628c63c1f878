package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pario-ai/cinecache/pkg/cache"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		interval   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refetch on an interval while keeping the cache tidy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			janitor := cache.StartJanitor(a.local, a.cfg.Cache.JanitorInterval)
			defer func() { _ = janitor.Close() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := a.pipeline(0)
			defer func() { _ = p.Close() }()

			log.Printf("watching page %d every %s", a.cfg.API.Page, interval)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				result, err := p.Load(ctx)
				if err != nil {
					log.Printf("load: %v", err)
				} else {
					fmt.Fprintf(os.Stdout, "%s\n", time.Now().Format("2006-01-02T15:04:05"))
					if err := printPage(os.Stdout, result); err != nil {
						return err
					}
				}

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "cinecache.yaml", "path to config file")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Minute, "refetch interval")
	return cmd
}
