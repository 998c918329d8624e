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
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mercadata/supermart-insights/internal/config"
	"github.com/mercadata/supermart-insights/internal/database"
	_ "github.com/mercadata/supermart-insights/internal/database/mysql"
	_ "github.com/mercadata/supermart-insights/internal/database/postgres"
	_ "github.com/mercadata/supermart-insights/internal/database/sqlite"
	"github.com/mercadata/supermart-insights/internal/loader"
)

var (
	cfgFile      string
	verbose      bool
	dryRun       bool
	geminiAPIKey string

	// Database connection flags
	dialect                        string
	host                           string
	port                           int
	username                       string
	password                       string
	dbName                         string
	exportTable                    string
	batchSize                      int
	cloudSQLInstanceConnectionName string
	cloudSQLUsePrivateIP           bool

	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "supermart_analyzer",
	Short: "A tool to analyze supermarket sales CSV exports",
	Long: `supermart_analyzer is a CLI tool that loads supermarket sales CSV files
with automatic encoding and delimiter detection, normalizes their columns to a
canonical schema, and computes sales, profit and discount analytics. Results
can be printed, written as JSON, or exported to a SQL database.`,
	PersistentPreRunE: initFlagsAndConfig,
	SilenceUsage:      true,
}

// initFlagsAndConfig layers command line flags over the file and environment
// configuration. Flags win only when explicitly set.
func initFlagsAndConfig(cmd *cobra.Command, args []string) error {
	var err error
	if logger == nil {
		if logger, err = newLogger(verbose); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dialect") {
		cfg.Database.Dialect = dialect
	}
	if flags.Changed("host") {
		cfg.Database.Host = host
	}
	if flags.Changed("port") {
		cfg.Database.Port = port
	}
	if flags.Changed("username") {
		cfg.Database.User = username
	}
	if flags.Changed("password") {
		cfg.Database.Password = password
	}
	if flags.Changed("database") {
		cfg.Database.DBName = dbName
	}
	if flags.Changed("table") {
		cfg.Database.Table = exportTable
	}
	if flags.Changed("batch-size") {
		cfg.Database.BatchSize = batchSize
	}
	if flags.Changed("cloudsql-instance-connection-name") {
		cfg.Database.CloudSQLInstanceConnectionName = cloudSQLInstanceConnectionName
	}
	if flags.Changed("cloudsql-use-private-ip") {
		cfg.Database.UsePrivateIP = cloudSQLUsePrivateIP
	}

	if geminiAPIKey == "" {
		geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if geminiAPIKey != "" {
		cfg.Gemini.APIKey = geminiAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	config.SetConfig(cfg)
	return nil
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	lg, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return lg.Sugar(), nil
}

// loaderOptions maps the detection configuration onto loader options.
func loaderOptions(cfg *config.Config) loader.Options {
	return loader.Options{
		Encodings:         cfg.Detection.Encodings,
		Delimiters:        cfg.DelimiterRunes(),
		MojibakeMarkers:   cfg.Detection.MojibakeMarkers,
		MojibakeThreshold: cfg.Detection.MojibakeThreshold,
		SampleRows:        cfg.Detection.SampleRows,
		FieldWeight:       cfg.Detection.FieldWeight,
	}
}

func validateDialect(dialect string) error {
	supportedDialects := []string{"postgres", "cloudsqlpostgres", "mysql", "cloudsqlmysql", "sqlite"}
	for _, supportedDialect := range supportedDialects {
		if dialect == supportedDialect {
			return nil
		}
	}
	return fmt.Errorf("unsupported dialect: %s (only %s are supported)", dialect, strings.Join(supportedDialects, ", "))
}

func setupDatabase() (*database.DB, error) {
	cfg := config.GetConfig()
	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: ./supermart.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", true, "Enable dry-run mode (no database modifications)")

	// Database connection flags
	rootCmd.PersistentFlags().StringVar(&dialect, "dialect", "", fmt.Sprintf("Export database dialect (%s)", strings.Join([]string{"postgres", "mysql", "sqlite", "cloudsqlpostgres", "cloudsqlmysql"}, ", ")))
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "Database host")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "Database port")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "Database username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Database password")
	rootCmd.PersistentFlags().StringVar(&dbName, "database", "", "Database name (file path for sqlite)")
	rootCmd.PersistentFlags().StringVar(&exportTable, "table", "", "Export table name")
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", 0, "Rows per INSERT statement on export")
	rootCmd.PersistentFlags().StringVar(&cloudSQLInstanceConnectionName, "cloudsql-instance-connection-name", "", "Cloud SQL instance connection name (for Cloud SQL dialects)")
	rootCmd.PersistentFlags().BoolVar(&cloudSQLUsePrivateIP, "cloudsql-use-private-ip", false, "Use private IP for Cloud SQL connection (Cloud SQL)")

	// Gemini API Key flag
	rootCmd.PersistentFlags().StringVar(&geminiAPIKey, "gemini-api-key", "", "Gemini API key (can also be set via GEMINI_API_KEY environment variable)")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(exportCmd)
}
