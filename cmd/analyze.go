/*
 * Copyright 2025 The supermart-insights Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mercadata/supermart-insights/internal/analytics"
	"github.com/mercadata/supermart-insights/internal/config"
	"github.com/mercadata/supermart-insights/internal/fetch"
	"github.com/mercadata/supermart-insights/internal/insights"
	"github.com/mercadata/supermart-insights/internal/loader"
	"github.com/mercadata/supermart-insights/internal/report"
	"github.com/mercadata/supermart-insights/internal/utils"
)

var (
	regionsFlag    string
	categoriesFlag string
	discountMin    float64
	discountMax    float64
	jsonOutput     bool
	outFile        string
	narrative      bool
	contextFiles   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <csv-file-or-url>",
	Short: "Load a sales CSV and compute KPIs, breakdowns and the discount trend",
	Long: `Loads a supermarket sales CSV (detecting its encoding and delimiter),
normalizes its columns, applies the requested filters and computes totals,
profit margin, profit by category and region, and the discount-profit trend.
With --narrative and a Gemini API key it also writes a short conclusions
section.`,
	Example: `./supermart_analyzer analyze vendas.csv --regions "Sul,Sudeste" --discount-max 0.3
./supermart_analyzer analyze https://example.com/sales.csv --json --out_file report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	ctx := cmd.Context()

	tab, err := loadInput(cmd, args[0])
	if err != nil {
		return err
	}

	filter := analytics.Filter{
		Regions:    utils.ParseListFlag(regionsFlag),
		Categories: utils.ParseListFlag(categoriesFlag),
	}
	if cmd.Flags().Changed("discount-min") {
		v := discountMin
		filter.DiscountMin = &v
	}
	if cmd.Flags().Changed("discount-max") {
		v := discountMax
		filter.DiscountMax = &v
	}

	analysis, err := analytics.NewService(logger).Analyze(tab, analytics.AnalyzeParams{Filter: filter})
	if err != nil {
		return err
	}

	if jsonOutput || outFile != "" {
		target := outFile
		if target == "" {
			target = utils.GetDefaultOutputFilePath(args[0], "analyze")
		}
		if err := report.WriteAnalysisJSON(analysis, target); err != nil {
			return err
		}
		logger.Infof("Analysis report written to %s", target)
	}
	if !jsonOutput {
		fmt.Print(report.FormatAnalysisAsText(analysis))
	}

	if !narrative {
		return nil
	}

	if cfg.Gemini.APIKey == "" {
		logger.Warn("No Gemini API key provided. Narrative generation will be skipped.")
		return nil
	}

	client, err := insights.NewClient(ctx, insights.Config{APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model}, logger)
	if err != nil {
		return fmt.Errorf("create insights client: %w", err)
	}
	defer client.Close()

	if err := client.IsAPIKeyValid(ctx); err != nil {
		logger.Warnf("Gemini API key is invalid, narrative generation skipped: %v", err)
		return nil
	}

	businessContext, err := utils.ReadContextFiles(contextFiles)
	if err != nil {
		return fmt.Errorf("failed to read context files: %w", err)
	}

	text, err := client.GenerateNarrative(ctx, report.FormatAnalysisAsText(analysis), businessContext)
	if err != nil {
		return fmt.Errorf("narrative generation failed: %w", err)
	}
	if text == "" {
		logger.Warn("Model returned no narrative.")
		return nil
	}
	fmt.Printf("\n--- Conclusions ---\n%s\n", text)
	return nil
}

// loadInput resolves a path or URL into a loaded canonical table.
func loadInput(cmd *cobra.Command, input string) (*loader.CanonicalTable, error) {
	cfg := config.GetConfig()

	path := input
	if fetch.IsURL(input) {
		dir, err := os.MkdirTemp("", "supermart-*")
		if err != nil {
			return nil, fmt.Errorf("create download dir: %w", err)
		}
		logger.Infof("Downloading %s", fetch.Describe(input))
		if path, err = fetch.Download(cmd.Context(), input, dir); err != nil {
			return nil, err
		}
	}

	l, err := loader.New(loaderOptions(cfg), logger)
	if err != nil {
		return nil, err
	}
	tab, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Infof("Loaded %d rows from %s (encoding=%s delimiter=%q)",
		tab.Nrow(), fetch.Describe(input), tab.Dialect.Encoding, tab.Dialect.Delimiter)
	return tab, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&regionsFlag, "regions", "", "Comma-separated region filter (default: all regions)")
	analyzeCmd.Flags().StringVar(&categoriesFlag, "categories", "", "Comma-separated category filter (default: all categories)")
	analyzeCmd.Flags().Float64Var(&discountMin, "discount-min", 0, "Minimum discount, inclusive")
	analyzeCmd.Flags().Float64Var(&discountMax, "discount-max", 0, "Maximum discount, inclusive")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Write the report as JSON instead of text")
	analyzeCmd.Flags().StringVar(&outFile, "out_file", "", "Write the JSON report to this file")
	analyzeCmd.Flags().BoolVar(&narrative, "narrative", false, "Generate a written conclusions section with Gemini")
	analyzeCmd.Flags().StringVar(&contextFiles, "context", "", "Comma-separated files with extra business context for the narrative")
}
