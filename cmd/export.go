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
	"github.com/mercadata/supermart-insights/internal/database"
	"github.com/mercadata/supermart-insights/internal/utils"
)

var exportOutFile string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <csv-file-or-url>",
	Short: "Generate SQL to load a sales CSV into a database",
	Long: `Loads a sales CSV, then generates a CREATE TABLE statement and batched
INSERTs for the canonical columns. The SQL is written to a file for review. In
dry-run mode (the default) nothing touches the database; with --dry-run=false
the statements are applied in a single transaction after confirmation.`,
	Example: `./supermart_analyzer export vendas.csv --dialect sqlite --database ./sales.db --dry-run=false
./supermart_analyzer export vendas.csv --dialect cloudsqlpostgres --username user --password pass --database mydb --cloudsql-instance-connection-name my-project:my-region:my-instance`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	if err := validateDialect(cfg.Database.Dialect); err != nil {
		return err
	}
	handler, err := database.GetDialectHandler(cfg.Database.Dialect)
	if err != nil {
		return err
	}

	tab, err := loadInput(cmd, args[0])
	if err != nil {
		return err
	}
	if err := analytics.RequireFields(tab); err != nil {
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
	if !filter.IsZero() {
		if tab, err = filter.Apply(tab); err != nil {
			return fmt.Errorf("apply filters: %w", err)
		}
		logger.Infof("Filters keep %d rows for export", tab.Nrow())
	}

	stmts, err := database.BuildExportStatements(handler, cfg.Database.Table, tab, cfg.Database.BatchSize)
	if err != nil {
		return err
	}

	outputFile := exportOutFile
	if outputFile == "" {
		outputFile = utils.GetDefaultOutputFilePath(args[0], "export")
	}
	if err := writeStatements(outputFile, stmts); err != nil {
		return err
	}
	logger.Infof("Export SQL for table %s written to %s (%d statements)",
		cfg.Database.Table, outputFile, len(stmts))

	if dryRun {
		logger.Info("Export completed in dry-run mode. No changes were made to the database.")
		return nil
	}

	if !utils.ConfirmAction(fmt.Sprintf("SQL statements to export %d rows into table %s", tab.Nrow(), cfg.Database.Table)) {
		logger.Info("Export cancelled by user.")
		return nil
	}

	db, err := setupDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ExecuteSQLStatements(cmd.Context(), stmts); err != nil {
		return err
	}
	logger.Infof("Exported %d rows into table %s.", tab.Nrow(), cfg.Database.Table)
	return nil
}

func writeStatements(path string, stmts []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	for _, stmt := range stmts {
		if _, err := file.WriteString(stmt + "\n"); err != nil {
			return fmt.Errorf("failed to write SQL statement to file: %w", err)
		}
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportOutFile, "out_file", "", "Write the generated SQL to this file")
	exportCmd.Flags().StringVar(&regionsFlag, "regions", "", "Comma-separated region filter (default: all regions)")
	exportCmd.Flags().StringVar(&categoriesFlag, "categories", "", "Comma-separated category filter (default: all categories)")
	exportCmd.Flags().Float64Var(&discountMin, "discount-min", 0, "Minimum discount, inclusive")
	exportCmd.Flags().Float64Var(&discountMax, "discount-max", 0, "Maximum discount, inclusive")
}
