package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-edge-platform/apt-preflight/internal/archive"
	"github.com/open-edge-platform/apt-preflight/internal/config"
	"github.com/open-edge-platform/apt-preflight/internal/index"
	"github.com/open-edge-platform/apt-preflight/internal/report"
	"github.com/open-edge-platform/apt-preflight/internal/resolver"
	"github.com/open-edge-platform/apt-preflight/internal/utils/logger"
)

// defaultPackage is checked when no package argument is given.
const defaultPackage = "linux-generic"

// Check command flags
var (
	checkVersion     string
	checkSeries      string
	checkComponents  []string
	checkPockets     []string
	checkRecursive   bool
	checkNoCache     bool
	checkFormat      string
	checkPretty      bool
	checkWriteReport bool
)

// createCheckCommand creates the check subcommand
func createCheckCommand() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [PACKAGE]",
		Short: "Check that a package and its dependencies are published",
		Long: `Check fetches the package lists of the configured archive sources and
verifies that PACKAGE (default linux-generic) is published for the
selected series and architecture. With --package-version the exact
version must be published; with --recursive every transitively required
dependency must be resolvable as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeCheck,
	}

	checkCmd.Flags().StringVarP(&checkVersion, "package-version", "V", "",
		"Exact version that must be published (default: any version)")
	checkCmd.Flags().StringVarP(&checkSeries, "series", "s", "",
		"Release series codename (default: config, then host detection)")
	checkCmd.Flags().StringSliceVarP(&checkComponents, "components", "c", nil,
		"Components to search (default: from config)")
	checkCmd.Flags().StringSliceVar(&checkPockets, "pockets", nil,
		"Pockets to search (default: from config)")
	checkCmd.Flags().BoolVarP(&checkRecursive, "recursive", "r", false,
		"Check the transitive dependency closure")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false,
		"Bypass cached package lists")
	checkCmd.Flags().StringVar(&checkFormat, "format", "text",
		"Output format: text or json")
	checkCmd.Flags().BoolVar(&checkPretty, "pretty", false,
		"Pretty-print JSON output (only for --format json)")
	checkCmd.Flags().BoolVar(&checkWriteReport, "write-report", false,
		"Write a JSON report file to the reports directory")

	return checkCmd
}

// executeCheck handles the check command execution logic
func executeCheck(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	format := strings.ToLower(checkFormat)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid --format %q (expected text|json)", checkFormat)
	}

	name := defaultPackage
	if len(args) == 1 {
		name = args[0]
	}

	series, err := resolveSeries(checkSeries)
	if err != nil {
		return err
	}

	sources := archive.Sources(
		pickList(checkComponents, cfg.Components),
		pickList(checkPockets, cfg.Pockets),
	)
	log.Infof("checking %s in %s/%s across %d sources", name, series, cfg.Arch, len(sources))

	data, err := fetchSources(series, sources, checkNoCache, format == "json")
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

	res := resolver.Resolve(ix, resolver.Request{
		Name:      name,
		Version:   checkVersion,
		Recursive: checkRecursive,
	})

	rep := report.New(series, cfg.Arch, cfg.Mirror, ix.SourceCounts(), ix.Len(), res)
	rep.Warnings = warnings

	if format == "json" {
		if err := rep.RenderJSON(cmd.OutOrStdout(), checkPretty); err != nil {
			return err
		}
	} else {
		verbose, _ := cmd.Flags().GetBool("verbose")
		rep.RenderText(cmd.OutOrStdout(), verbose)
	}

	if checkWriteReport {
		dir, err := config.NewConfigHelpers(cfg).ReportsDir()
		if err != nil {
			return fmt.Errorf("resolve reports dir: %w", err)
		}
		path, err := rep.WriteFile(dir)
		if err != nil {
			return err
		}
		log.Infof("report written to %s", path)
	}

	if !rep.Satisfied() {
		return report.ErrIssuesDetected
	}
	return nil
}

// resolveSeries prefers the flag, then the configuration, then the
// release of the host itself.
func resolveSeries(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Series != "" {
		return cfg.Series, nil
	}
	return archive.DetectSeries()
}

// pickList returns the override when set, the fallback otherwise.
func pickList(override, fallback []string) []string {
	if len(override) > 0 {
		return override
	}
	return fallback
}

// fetchSources builds a fetcher from the loaded configuration and
// downloads the given sources.
func fetchSources(series string, sources []index.Source, noCache, quiet bool) ([]index.SourceData, error) {
	helpers := config.NewConfigHelpers(cfg)

	fetcher := &archive.Fetcher{
		Mirror:  cfg.Mirror,
		Series:  series,
		Arch:    cfg.Arch,
		Workers: helpers.Workers(),
		Client:  archive.NewHTTPClient(helpers.Timeout(), cfg.Retries),
		Quiet:   quiet,
	}
	if !noCache {
		dir, err := helpers.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		fetcher.Cache = &archive.Cache{Dir: dir}
	}

	return fetcher.Fetch(sources)
}
