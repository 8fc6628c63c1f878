package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local page cache",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cached page if it is still fresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			page, err := a.local.Load(context.Background())
			if err != nil {
				return err
			}
			return printPage(os.Stdout, page)
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			stats, err := a.local.Stats(context.Background())
			if err != nil {
				return err
			}
			if !stats.Present {
				fmt.Printf("Backend: %s (%s)\nCache is empty.\n", a.cfg.Cache.Backend, a.cfg.Cache.Path)
				return nil
			}
			fmt.Printf("Backend: %s (%s)\nStored:  %s\nAge:     %s\nFresh:   %t\nPage:    %d\nMovies:  %d\n",
				a.cfg.Cache.Backend, a.cfg.Cache.Path,
				stats.Timestamp.Local().Format("2006-01-02T15:04:05"),
				stats.Age.Truncate(time.Second), stats.Fresh, stats.Page, stats.Movies)
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Delete the cache if it is expired or unreadable",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			a.local.Validate(context.Background())
			fmt.Println("Cache validated.")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached page",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.local.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Println("Cache cleared.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cinecache.yaml", "path to config file")
	cmd.AddCommand(showCmd, statsCmd, validateCmd, clearCmd)
	return cmd
}
