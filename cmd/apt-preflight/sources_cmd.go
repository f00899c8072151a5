package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/apt-preflight/internal/archive"
	"github.com/open-edge-platform/apt-preflight/internal/index"
	"github.com/open-edge-platform/apt-preflight/internal/utils/logger"
)

// Sources command flags
var (
	sourcesSeries     string
	sourcesComponents []string
	sourcesPockets    []string
	sourcesNoCache    bool
)

// createSourcesCommand creates the sources subcommand
func createSourcesCommand() *cobra.Command {
	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "Fetch the configured sources and summarize their contents",
		Long: `Sources downloads the package lists of every configured component and
pocket and prints how many packages each source publishes for the
selected series and architecture.`,
		Args: cobra.NoArgs,
		RunE: executeSources,
	}

	sourcesCmd.Flags().StringVarP(&sourcesSeries, "series", "s", "",
		"Release series codename (default: config, then host detection)")
	sourcesCmd.Flags().StringSliceVarP(&sourcesComponents, "components", "c", nil,
		"Components to fetch (default: from config)")
	sourcesCmd.Flags().StringSliceVar(&sourcesPockets, "pockets", nil,
		"Pockets to fetch (default: from config)")
	sourcesCmd.Flags().BoolVar(&sourcesNoCache, "no-cache", false,
		"Bypass cached package lists")

	return sourcesCmd
}

// executeSources handles the sources command execution logic
func executeSources(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	series, err := resolveSeries(sourcesSeries)
	if err != nil {
		return err
	}

	sources := archive.Sources(
		pickList(sourcesComponents, cfg.Components),
		pickList(sourcesPockets, cfg.Pockets),
	)

	data, err := fetchSources(series, sources, sourcesNoCache, false)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no package lists available for %s on %s", series, cfg.Mirror)
	}

	ix, warnings := index.Build(cfg.Arch, data)
	for _, warning := range warnings {
		log.Warnf("%s", warning)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s) on %s\n", series, cfg.Arch, cfg.Mirror)
	for _, sc := range ix.SourceCounts() {
		fmt.Fprintf(out, "  %-24s %7d packages %10s\n", sc.Source, sc.Packages, formatBytes(sc.Bytes))
	}
	fmt.Fprintf(out, "  %-24s %7d distinct names\n", "total", ix.Len())
	return nil
}

// formatBytes renders an archive size in binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
