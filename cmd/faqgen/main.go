package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/skindev/faqgen/internal/catalog"
	"github.com/skindev/faqgen/internal/config"
	"github.com/skindev/faqgen/internal/database"
	"github.com/skindev/faqgen/internal/pipeline"
	"github.com/skindev/faqgen/internal/report"
	"github.com/skindev/faqgen/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "faqgen",
	Short:   "Premium FAQ generation for cosmetics catalogs",
	Long:    "faqgen reads a Shopify product catalog, generates five quality-controlled FAQs per product with an LLM, and writes Matrixify-ready CSV plus quality reports.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// .env is optional; real env vars win over file values.
		_ = godotenv.Load()

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("faqgen", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/faqgen/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the provider, model, and quality thresholds.")
		return nil
	},
}

// --- run command ---

var (
	runLimit int
	runYes   bool
	dryRun   bool
)

var runCmd = &cobra.Command{
	Use:   "run [catalog.csv]",
	Short: "Generate FAQs for the leading catalog rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogPath := args[0]

		limit := runLimit
		if limit <= 0 {
			limit = cfg.Catalog.Limit
		}

		products, err := catalog.Read(catalogPath, limit)
		if err != nil {
			return fmt.Errorf("reading catalog: %w", err)
		}
		if len(products) == 0 {
			return fmt.Errorf("catalog %s has no product rows", catalogPath)
		}

		if dryRun {
			fmt.Printf("[dry-run] %d producto(s) a procesar de %s:\n", len(products), catalogPath)
			for i, p := range products {
				desc := "sin descripción"
				if _, ok := p.Description(); ok {
					desc = "con descripción"
				}
				fmt.Printf("  %2d. %s (%s, %s)\n", i+1, p.Title, p.Vendor, desc)
			}
			return nil
		}

		fmt.Println("GENERADOR PREMIUM DE FAQs")
		fmt.Printf("Productos a procesar: %d\n", len(products))
		fmt.Printf("Costo estimado: $%.2f USD\n", float64(len(products))*report.CostPerProduct)
		fmt.Printf("Tiempo estimado: %d minuto(s)\n", estimatedMinutes(len(products)))

		if !runYes && !confirm("¿Proceder con la generación? [y/N]: ") {
			fmt.Println("Cancelado.")
			return nil
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		runner, err := pipeline.New(cfg, db)
		if err != nil {
			return err
		}

		res, err := runner.Run(context.Background(), catalogPath, limit)
		if err != nil {
			return err
		}

		fmt.Println("\nRESUMEN FINAL:")
		fmt.Printf("  FAQs generadas: %d\n", res.Succeeded)
		fmt.Printf("  Errores: %d\n", res.Failed)
		if res.CSVPath != "" {
			fmt.Printf("  FAQs Premium: %s\n", res.CSVPath)
		}
		fmt.Printf("  Reporte calidad: %s\n", res.ReportPath)
		if res.ErrorsCSVPath != "" {
			fmt.Printf("  Errores CSV: %s\n", res.ErrorsCSVPath)
			fmt.Printf("  Errores detallado: %s\n", res.ErrorsReportPath)
		}
		if res.Succeeded > 0 {
			fmt.Println("  Listo para importar en Shopify")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVarP(&runLimit, "limit", "l", 0, "How many leading rows to process (0 = config default)")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip the interactive confirmation")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be processed without calling the API")
}

func estimatedMinutes(products int) int {
	m := products * report.SecondsPerProduct / 60
	if m < 1 {
		m = 1
	}
	return m
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes" || answer == "s" || answer == "si"
}

// --- status command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show run history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("Runs:")
		fmt.Printf("  Total: %d\n", stats.TotalRuns)
		fmt.Println("\nProducts:")
		fmt.Printf("  Processed: %d\n", stats.TotalProducts)
		fmt.Printf("  Passed: %d\n", stats.PassedProducts)
		fmt.Printf("  Best effort: %d\n", stats.BestEffort)
		fmt.Printf("  Failed: %d\n", stats.FailedProducts)
		fmt.Printf("  Avg attempts: %.2f\n", stats.AvgAttempts)

		if len(stats.TierCounts) > 0 {
			fmt.Println("\nQuality tiers:")
			for _, tier := range []string{"EXCELLENT", "GOOD", "ACCEPTABLE", "INSUFFICIENT"} {
				if n, ok := stats.TierCounts[tier]; ok {
					fmt.Printf("  %-12s %d\n", tier, n)
				}
			}
		}

		latest, err := db.GetLatestRun()
		if err != nil {
			return err
		}
		if latest != nil {
			fmt.Printf("\nLatest run: #%d (%s, %d/%d ok)\n",
				latest.ID, latest.Catalog, latest.Succeeded, latest.Processed)
		}
		return nil
	},
}

// --- report command ---

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Re-emit the report for a stored run (latest when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var run *database.Run
		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run ID: %s", args[0])
			}
			run, err = db.GetRun(id)
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %d not found", id)
			}
		} else {
			run, err = db.GetLatestRun()
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no runs recorded yet")
			}
		}

		products, err := db.GetProductsForRun(run.ID)
		if err != nil {
			return err
		}
		faqs := make(map[int64][]database.ProductFAQ, len(products))
		for _, p := range products {
			f, err := db.GetFAQsForProduct(p.ID)
			if err != nil {
				return err
			}
			faqs[p.ID] = f
		}
		errs, err := db.GetErrorsForRun(run.ID)
		if err != nil {
			return err
		}

		return report.WriteStoredRun(os.Stdout, *run, products, faqs, errs)
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web preview of stored runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (0 = config default)")
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(filepath.Join(dataDir, "faqgen.db"))
}
