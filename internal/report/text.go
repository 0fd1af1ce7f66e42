package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/skindev/faqgen/internal/generate"
	"github.com/skindev/faqgen/internal/prompt"
)

// CostPerProduct is the rough per-product API cost in USD used for the
// run preamble and report summaries.
const CostPerProduct = 0.006

// SecondsPerProduct is the rough per-product wall time used for the run
// preamble estimate.
const SecondsPerProduct = 3

const exampleCount = 2

// Meta carries the run metadata printed at the top of the reports.
type Meta struct {
	Model       string
	Catalog     string
	CSVPath     string
	GeneratedAt time.Time
}

// lengthStats accumulates min/avg/max over rune lengths.
type lengthStats struct {
	count int
	sum   int
	min   int
	max   int
}

func (s *lengthStats) add(text string) {
	n := utf8.RuneCountInString(text)
	s.count++
	s.sum += n
	if s.count == 1 || n < s.min {
		s.min = n
	}
	if n > s.max {
		s.max = n
	}
}

func (s *lengthStats) avg() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.count)
}

// WriteQualityReport writes the unified human-readable report: run
// metadata, aggregate statistics, tier/attempt/category distributions,
// FAQ examples with per-answer annotations, failures and
// recommendations.
func WriteQualityReport(w io.Writer, meta Meta, results []generate.Result) error {
	var succeeded, failed []generate.Result
	for _, r := range results {
		if r.Succeeded() {
			succeeded = append(succeeded, r)
		} else {
			failed = append(failed, r)
		}
	}

	var b strings.Builder
	b.WriteString("REPORTE DE CALIDAD - FAQs PREMIUM\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Fecha: %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Modelo: %s\n", meta.Model)
	fmt.Fprintf(&b, "Catálogo: %s\n", meta.Catalog)
	if meta.CSVPath != "" {
		fmt.Fprintf(&b, "Archivo generado: %s\n", meta.CSVPath)
	}
	b.WriteString("\n")

	writeSummary(&b, len(succeeded), len(failed))
	writeQualityAnalysis(&b, succeeded)
	writeDistributions(&b, succeeded)
	writeExamples(&b, succeeded)
	writeFailures(&b, failed)
	writeRecommendations(&b, len(succeeded), len(failed))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, succeeded, failed int) {
	b.WriteString("RESUMEN GENERAL\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(b, "Productos procesados exitosamente: %d\n", succeeded)
	fmt.Fprintf(b, "Productos con error: %d\n", failed)
	if total := succeeded + failed; total > 0 {
		fmt.Fprintf(b, "Tasa de éxito: %.1f%%\n", float64(succeeded)/float64(total)*100)
	}
	fmt.Fprintf(b, "Costo estimado: $%.2f USD\n\n", float64(succeeded)*CostPerProduct)
}

func writeQualityAnalysis(b *strings.Builder, succeeded []generate.Result) {
	if len(succeeded) == 0 {
		return
	}

	var questions, answers lengthStats
	for _, r := range succeeded {
		for _, qa := range r.Best.Set {
			questions.add(qa.Pregunta)
			answers.add(qa.Respuesta)
		}
	}

	b.WriteString("ANÁLISIS DE CALIDAD\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	b.WriteString("Longitudes (caracteres):\n")
	fmt.Fprintf(b, "  Preguntas:  promedio %.0f, mínimo %d, máximo %d\n",
		questions.avg(), questions.min, questions.max)
	fmt.Fprintf(b, "  Respuestas: promedio %.0f, mínimo %d, máximo %d\n\n",
		answers.avg(), answers.min, answers.max)
}

func writeDistributions(b *strings.Builder, succeeded []generate.Result) {
	if len(succeeded) == 0 {
		return
	}

	tiers := make(map[string]int)
	attempts := make(map[int]int)
	categories := make(map[prompt.Category]int)
	for _, r := range succeeded {
		tiers[string(r.Best.Verdict.Tier)]++
		attempts[r.Best.Number]++
		for _, c := range r.Best.Categories {
			categories[c]++
		}
	}

	b.WriteString("Distribución por calidad:\n")
	for _, tier := range []string{"EXCELLENT", "GOOD", "ACCEPTABLE", "INSUFFICIENT"} {
		if n := tiers[tier]; n > 0 {
			fmt.Fprintf(b, "  %-12s %d\n", tier, n)
		}
	}

	b.WriteString("\nDistribución por intentos:\n")
	keys := make([]int, 0, len(attempts))
	for k := range attempts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  intento %d: %d producto(s)\n", k, attempts[k])
	}

	b.WriteString("\nDistribución por categorías de preguntas:\n")
	for _, c := range prompt.Categories {
		if n := categories[c]; n > 0 {
			fmt.Fprintf(b, "  %-16s %d\n", c, n)
		}
	}
	b.WriteString("\n")
}

func writeExamples(b *strings.Builder, succeeded []generate.Result) {
	if len(succeeded) == 0 {
		return
	}

	b.WriteString("Ejemplos de FAQs generadas:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for i, r := range succeeded {
		if i >= exampleCount {
			break
		}
		fmt.Fprintf(b, "\nProducto: %s (calidad %s, intento %d)\n",
			r.Product.Handle, r.Best.Verdict.Tier, r.Best.Number)
		qa := r.Best.Set[0]
		pair := r.Best.Verdict.Pairs[0]
		fmt.Fprintf(b, "  P: %s\n", qa.Pregunta)
		fmt.Fprintf(b, "  R: %s\n", qa.Respuesta)
		fmt.Fprintf(b, "     (%d caracteres, %d puntos)\n", pair.AnswerLen, pair.Points)
	}
	b.WriteString("\n")
}

func writeFailures(b *strings.Builder, failed []generate.Result) {
	if len(failed) == 0 {
		return
	}

	b.WriteString("ERRORES\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, r := range failed {
		fmt.Fprintf(b, "- %s (%s): %s\n", r.Product.Handle, r.Product.Title, FailureReason(r))
	}
	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, succeeded, failed int) {
	b.WriteString("RECOMENDACIONES\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	if failed == 0 && succeeded > 0 {
		b.WriteString("- Todos los productos alcanzaron la calidad requerida; listo para importar en Shopify.\n")
		return
	}
	if failed > 0 {
		b.WriteString("- Revisar manualmente los productos con error o reintentarlos con un prompt más específico.\n")
		b.WriteString("- Completar las descripciones cortas del catálogo antes de reintentar.\n")
	}
	if succeeded == 0 {
		b.WriteString("- Ningún producto se procesó con éxito: verificar la clave de API y la conectividad.\n")
	}
}

// WriteErrorReport writes the detailed per-failure report with the
// common-causes checklist.
func WriteErrorReport(w io.Writer, results []generate.Result) error {
	var failed []generate.Result
	for _, r := range results {
		if !r.Succeeded() {
			failed = append(failed, r)
		}
	}

	var b strings.Builder
	b.WriteString("REPORTE DETALLADO DE ERRORES\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Total de errores: %d\n\n", len(failed))

	for i, r := range failed {
		fmt.Fprintf(&b, "Error #%d\n", i+1)
		b.WriteString(strings.Repeat("-", 30) + "\n")
		fmt.Fprintf(&b, "Handle: %s\n", r.Product.Handle)
		fmt.Fprintf(&b, "Título: %s\n", r.Product.Title)
		fmt.Fprintf(&b, "Motivo: %s\n", FailureReason(r))
		b.WriteString("Sugerencia: Revisar manualmente o reintentarlo con un prompt más específico\n\n")
	}

	b.WriteString("\nPOSIBLES CAUSAS COMUNES:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	b.WriteString("1. Descripción del producto muy corta o vacía\n")
	b.WriteString("2. Caracteres especiales que causan problemas en el JSON\n")
	b.WriteString("3. Límite de reintentos alcanzado sin cumplir criterios de calidad\n")
	b.WriteString("4. Timeout o error de conexión con la API\n")

	_, err := io.WriteString(w, b.String())
	return err
}
