package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "cinecache",
		Short:   "Movie catalog client with an offline page cache",
		Version: version,
	}

	root.AddCommand(
		newFetchCmd(),
		newWatchCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
