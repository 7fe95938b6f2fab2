package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/config"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/logger"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/scraper"
	"github.com/emimontesdeoca/poc-dgt-cameras-scraper/pkg/ui"
)

var (
	// Scrape command flags
	rootURL    string
	outputDir  string
	concurrent int
	rateLimit  int
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch the camera mosaic and download every snapshot",
	Long: `Fetch the camera mosaic page, follow each camera iframe, and download
the snapshot images into the output directory. A camera that fails is
reported and skipped; the run only aborts if the mosaic page itself cannot
be fetched.`,
	Example: `  # Download snapshots with default settings
  camscraper scrape

  # Download into a specific directory
  camscraper scrape --output ./snapshots

  # Point at a mirror and throttle requests
  camscraper scrape --root-url https://mirror.example.org/mosaico.html --rate-limit 30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape()
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&rootURL, "root-url", "", "camera mosaic page URL")
	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for snapshots (default: current directory)")
	scrapeCmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent downloads")
	scrapeCmd.Flags().IntVar(&rateLimit, "rate-limit", -1, "requests per minute (0 disables rate limiting)")

	// Same flags on the root command so `camscraper --output dir` works
	rootCmd.Flags().StringVar(&rootURL, "root-url", "", "camera mosaic page URL")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for snapshots (default: current directory)")
	rootCmd.Flags().IntVar(&concurrent, "concurrent", 0, "number of concurrent downloads")
	rootCmd.Flags().IntVar(&rateLimit, "rate-limit", -1, "requests per minute (0 disables rate limiting)")
}

func runScrape() error {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if rootURL != "" {
		flags["root-url"] = rootURL
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if concurrent > 0 {
		flags["concurrent"] = concurrent
	}
	if rateLimit >= 0 {
		flags["rate-limit"] = rateLimit
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err)
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err)
		return err
	}

	ui.PrintInfo("Camera mosaic", cfg.Scraper.RootURL)
	ui.PrintInfo("Output directory", cfg.Output.Directory)

	s, err := scraper.New(cfg)
	if err != nil {
		ui.PrintError("Failed to initialize scraper", err)
		return err
	}

	summary, err := s.Run()
	if err != nil {
		logger.WithError(err).Error("scrape failed")
		ui.PrintError("Scrape failed", err)
		return err
	}

	if summary.Failed > 0 {
		ui.PrintWarning(fmt.Sprintf("%d of %d cameras failed", summary.Failed, summary.Sources))
	}
	ui.PrintInfo("Snapshots downloaded", fmt.Sprintf("%d", summary.Downloaded))
	ui.PrintSuccess("Download completed.")

	return nil
}
