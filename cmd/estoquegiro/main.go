package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"estoquegiro/pkg/archiver"
	"estoquegiro/pkg/config"
	"estoquegiro/pkg/layout"
	"estoquegiro/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:   "estoquegiro",
	Short: "Consolidate stock report workbooks into CSVs grouped by PDV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var processCmd = &cobra.Command{
	Use:   "process [path]",
	Short: "Run the full pipeline: extract, consolidate, write CSVs, archive",
	Long: `Process a workbook file, every workbook in a directory, or (with no
argument) the most recently modified workbook in the configured input
directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if noArchive, _ := cmd.Flags().GetBool("no-archive"); noArchive {
			cfg.Archive = false
		}
		if noByPDV, _ := cmd.Flags().GetBool("no-by-pdv"); noByPDV {
			cfg.ByPDV = false
		}

		l, err := loadLayout(cfg.Layout)
		if err != nil {
			return err
		}

		processor := service.NewProcessor(cfg, l, logger)

		if len(args) == 0 {
			return processor.ProcessLatest()
		}

		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", args[0], err)
		}
		if info.IsDir() {
			return processor.ProcessDirectory(args[0])
		}
		return processor.ProcessFile(args[0])
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Preview the records a workbook would yield, without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		layoutFile, _ := cmd.Flags().GetString("layout")
		l, err := loadLayout(layoutFile)
		if err != nil {
			return err
		}

		rows, _ := cmd.Flags().GetInt("rows")
		return runInspect(args[0], l, rows, &cliFilters, logger)
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <file>",
	Short: "Move an already-processed workbook into the archive directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		arch := archiver.New(cfg.ArchiveDir, logger)
		dest, err := arch.Archive(args[0])
		if err != nil {
			return err
		}
		fmt.Println(dest)
		return nil
	},
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "estoquegiro",
	})
}

func loadLayout(path string) (*layout.Layout, error) {
	if path == "" {
		return layout.Default(), nil
	}
	return layout.Load(path)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.pdv, "pdv", "", "Filter by PDV (case insensitive)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.class, "class", "", "Filter by class/curva (case insensitive)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.sku, "sku", "", "Filter by SKU (case insensitive)")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.minStock, "min-stock", 0, "Minimum current stock")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.maxStock, "max-stock", 0, "Maximum current stock")

	// Flags specific to the process subcommand
	processCmd.Flags().String("input", "", "Input directory to pick the latest workbook from")
	processCmd.Flags().StringP("output", "o", "", "Output directory for the CSVs")
	processCmd.Flags().String("archive-dir", "", "Archive directory for processed workbooks")
	processCmd.Flags().String("layout", "", "Worksheet layout file (YAML)")
	processCmd.Flags().String("basename", "", "Consolidated CSV file stem")
	processCmd.Flags().Bool("reports", false, "Also write one xlsx report per PDV")
	processCmd.Flags().Bool("strict-numbers", false, "Fail on non-numeric stock cells instead of coercing to 0")
	processCmd.Flags().Bool("no-archive", false, "Leave the source workbook in place")
	processCmd.Flags().Bool("no-by-pdv", false, "Skip the per-PDV CSVs")

	// Flags specific to the inspect subcommand
	inspectCmd.Flags().String("layout", "", "Worksheet layout file (YAML)")
	inspectCmd.Flags().Int("rows", 10, "Maximum records to print per PDV")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(archiveCmd)
}

func main() {
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
