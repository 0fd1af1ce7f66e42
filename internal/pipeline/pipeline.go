// Package pipeline orchestrates a batch run: read the catalog, resolve
// each product through the generation loop, persist results to the run
// database and write the output files.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/skindev/faqgen/internal/catalog"
	"github.com/skindev/faqgen/internal/config"
	"github.com/skindev/faqgen/internal/database"
	"github.com/skindev/faqgen/internal/generate"
	"github.com/skindev/faqgen/internal/llm"
	"github.com/skindev/faqgen/internal/prompt"
	"github.com/skindev/faqgen/internal/report"
	"github.com/skindev/faqgen/internal/score"
)

// interProductPause spaces out API calls between products.
const interProductPause = 2 * time.Second

// Runner drives one batch run end to end.
type Runner struct {
	cfg       *config.Config
	db        *database.DB
	generator *generate.Generator
	model     string

	// swappable for tests
	sleep func(time.Duration)
	now   func() time.Time
}

// RunResult summarizes a completed batch run.
type RunResult struct {
	RunID     int64
	Processed int
	Succeeded int
	Failed    int
	Results   []generate.Result

	CSVPath          string
	ReportPath       string
	ErrorsCSVPath    string
	ErrorsReportPath string
}

// New creates a runner from config. It fails when no LLM provider is
// available.
func New(cfg *config.Config, db *database.DB) (*Runner, error) {
	gen := cfg.Generation
	provider := llm.CreateProvider(gen.Provider, gen.OpenAIModel, gen.APIKeyEnv, gen.OllamaModel, gen.OllamaURL)
	if provider == nil {
		return nil, fmt.Errorf("no LLM provider available; set %s or start Ollama", gen.APIKeyEnv)
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewWithProvider(cfg, db, provider, rng), nil
}

// NewWithProvider creates a runner with an explicit provider and random
// source; used by New and by tests.
func NewWithProvider(cfg *config.Config, db *database.DB, provider llm.Provider, rng *rand.Rand) *Runner {
	gen := cfg.Generation
	model := gen.OpenAIModel
	if gen.Provider == "ollama" {
		model = gen.OllamaModel
	}

	generator := generate.New(
		provider,
		prompt.NewBuilder(rng),
		score.NewScorer(score.Criteria{
			MinAnswerLen:  cfg.Quality.MinAnswerLength,
			MaxAnswerLen:  cfg.Quality.MaxAnswerLength,
			BannedWords:   cfg.Quality.BannedWords,
			PassThreshold: cfg.Quality.PassThreshold,
		}),
		gen.MaxAttempts,
		llm.Params{
			Temperature:      gen.Temperature,
			TopP:             gen.TopP,
			PresencePenalty:  gen.PresencePenalty,
			FrequencyPenalty: gen.FrequencyPenalty,
			MaxTokens:        gen.MaxTokens,
		},
	)

	return &Runner{
		cfg:       cfg,
		db:        db,
		generator: generator,
		model:     model,
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

// Model returns the effective model name for the configured provider.
func (r *Runner) Model() string {
	return r.model
}

// SetSleep overrides the pauses between products and attempts; for tests.
func (r *Runner) SetSleep(fn func(time.Duration)) {
	r.sleep = fn
	r.generator.SetSleep(fn)
}

// SetNow overrides the clock used for output file timestamps; for tests.
func (r *Runner) SetNow(fn func() time.Time) {
	r.now = fn
}

// Run processes up to limit catalog rows sequentially. Per-product
// failures accumulate; only an unreadable catalog aborts the run.
func (r *Runner) Run(ctx context.Context, catalogPath string, limit int) (*RunResult, error) {
	products, err := catalog.Read(catalogPath, limit)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	runID, err := r.db.InsertRun(catalogPath, r.model)
	if err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	res := &RunResult{RunID: runID}
	for i, p := range products {
		log.Printf("[%d/%d] %s", i+1, len(products), truncate(p.Title, 50))
		log.Printf("   Marca: %s  Precio: %s", orUnknown(p.Vendor), orUnknown(p.Price))

		out := r.generator.Generate(ctx, p)
		res.Results = append(res.Results, out)
		res.Processed++

		if out.Succeeded() {
			res.Succeeded++
			log.Printf("   FAQs generadas (calidad %s, intento %d)",
				out.Best.Verdict.Tier, out.Best.Number)
			log.Printf("   Preview FAQ 1: %s", out.Best.Set[0].Pregunta)
		} else {
			res.Failed++
			log.Printf("   Sin resultado: %s", report.FailureReason(out))
		}
		r.persist(runID, out)

		if i < len(products)-1 {
			r.sleep(interProductPause)
		}
	}

	if err := r.writeOutputs(catalogPath, res); err != nil {
		return res, err
	}

	var csvPath, reportPath *string
	if res.CSVPath != "" {
		csvPath = &res.CSVPath
	}
	if res.ReportPath != "" {
		reportPath = &res.ReportPath
	}
	if err := r.db.FinishRun(runID, res.Processed, res.Succeeded, res.Failed, csvPath, reportPath); err != nil {
		return res, fmt.Errorf("finishing run: %w", err)
	}
	return res, nil
}

// persist stores one product's terminal result. Storage failures are
// logged, never fatal: the CSV and reports are the primary output.
func (r *Runner) persist(runID int64, out generate.Result) {
	vendor := optional(out.Product.Vendor)
	ptype := optional(string(out.Profile.Type))

	if !out.Succeeded() {
		if _, err := r.db.InsertProduct(runID, out.Product.Handle, out.Product.Title,
			vendor, ptype, string(out.Outcome), nil, 0, out.Attempts); err != nil {
			log.Printf("storing result for %q: %v", out.Product.Handle, err)
		}
		if err := r.db.InsertRunError(runID, out.Product.Handle, out.Product.Title,
			report.FailureReason(out)); err != nil {
			log.Printf("storing error for %q: %v", out.Product.Handle, err)
		}
		return
	}

	tier := string(out.Best.Verdict.Tier)
	productID, err := r.db.InsertProduct(runID, out.Product.Handle, out.Product.Title,
		vendor, ptype, string(out.Outcome), &tier, out.Best.Verdict.Mean, out.Attempts)
	if err != nil {
		log.Printf("storing result for %q: %v", out.Product.Handle, err)
		return
	}
	for i, qa := range out.Best.Set {
		if err := r.db.InsertFAQ(productID, i+1, qa.Pregunta, qa.Respuesta,
			out.Best.Verdict.Pairs[i].Points); err != nil {
			log.Printf("storing faq %d for %q: %v", i+1, out.Product.Handle, err)
		}
	}
}

// writeOutputs writes the CSV and report files into the output dir.
// The errors files are only written when there are failures.
func (r *Runner) writeOutputs(catalogPath string, res *RunResult) error {
	outDir := r.cfg.Output.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	ts := r.now().Format("20060102_150405")

	if res.Succeeded > 0 {
		res.CSVPath = filepath.Join(outDir, fmt.Sprintf("faqs_PREMIUM_%s.csv", ts))
		if err := writeFile(res.CSVPath, func(f *os.File) error {
			return report.WriteFAQCSV(f, res.Results)
		}); err != nil {
			return err
		}
	}

	res.ReportPath = filepath.Join(outDir, fmt.Sprintf("reporte_calidad_%s.txt", ts))
	meta := report.Meta{
		Model:       r.model,
		Catalog:     catalogPath,
		CSVPath:     res.CSVPath,
		GeneratedAt: r.now(),
	}
	if err := writeFile(res.ReportPath, func(f *os.File) error {
		return report.WriteQualityReport(f, meta, res.Results)
	}); err != nil {
		return err
	}

	if res.Failed > 0 {
		res.ErrorsCSVPath = filepath.Join(outDir, fmt.Sprintf("errores_premium_%s.csv", ts))
		if err := writeFile(res.ErrorsCSVPath, func(f *os.File) error {
			return report.WriteErrorsCSV(f, res.Results)
		}); err != nil {
			return err
		}

		res.ErrorsReportPath = filepath.Join(outDir, fmt.Sprintf("errores_detallado_%s.txt", ts))
		if err := writeFile(res.ErrorsReportPath, func(f *os.File) error {
			return report.WriteErrorReport(f, res.Results)
		}); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
