package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/skindev/faqgen/internal/catalog"
	"github.com/skindev/faqgen/internal/generate"
	"github.com/skindev/faqgen/internal/llm"
	"github.com/skindev/faqgen/internal/prompt"
	"github.com/skindev/faqgen/internal/score"
)

func passedResult(handle, title string) generate.Result {
	var set llm.FAQSet
	for i := range set {
		set[i] = llm.QA{
			Pregunta:  "¿Cómo debo aplicar este sérum cada noche?",
			Respuesta: strings.Repeat("Aplica 3 gotas sobre la piel limpia. ", 7),
		}
	}
	verdict := score.NewScorer(score.DefaultCriteria()).Score(set)
	return generate.Result{
		Product: catalog.NewProduct(handle, title, "Natura Bissé", "95,00", "serum", nil),
		Outcome: generate.OutcomePass,
		Best: &generate.Attempt{
			Number:     1,
			Set:        set,
			Verdict:    verdict,
			Categories: []prompt.Category{prompt.CategoryApplication, prompt.CategoryResults},
		},
		Attempts: 1,
	}
}

func failedResult(handle, title string, err error) generate.Result {
	return generate.Result{
		Product:  catalog.NewProduct(handle, title, "ACME", "10,00", "", nil),
		Outcome:  generate.OutcomeFailed,
		Attempts: 3,
		Err:      err,
	}
}

func TestWriteFAQCSV(t *testing.T) {
	var buf bytes.Buffer
	results := []generate.Result{
		passedResult("serum-c", "Sérum Vitamina C"),
		failedResult("bad", "Producto Roto", nil),
	}

	if err := WriteFAQCSV(&buf, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("expected UTF-8 BOM prefix")
	}

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	header := records[0]
	if len(header) != 11 {
		t.Fatalf("expected 11 columns, got %d", len(header))
	}
	if header[0] != "Handle" {
		t.Errorf("unexpected first column %q", header[0])
	}
	if header[1] != "faq1question (product.metafields.custom.faq1question)" {
		t.Errorf("unexpected metafield column %q", header[1])
	}
	if header[10] != "faq5answer (product.metafields.custom.faq5answer)" {
		t.Errorf("unexpected last column %q", header[10])
	}
	if records[1][0] != "serum-c" {
		t.Errorf("expected handle in first cell, got %q", records[1][0])
	}
}

func TestWriteFAQCSVSkipsInternalFields(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFAQCSV(&buf, []generate.Result{passedResult("p", "P")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, internal := range []string{"EXCELLENT", "intento", "tier", "score"} {
		if strings.Contains(buf.String(), internal) {
			t.Errorf("CSV should not contain bookkeeping field %q", internal)
		}
	}
}

func TestWriteErrorsCSV(t *testing.T) {
	var buf bytes.Buffer
	results := []generate.Result{
		passedResult("ok", "Bueno"),
		failedResult("bad-1", "Roto Uno", errors.New("timeout de la API")),
		failedResult("bad-2", "Roto Dos", nil),
	}

	if err := WriteErrorsCSV(&buf, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][2] != "timeout de la API" {
		t.Errorf("expected error reason, got %q", records[1][2])
	}
	if records[2][2] != "no se pudo generar con calidad suficiente" {
		t.Errorf("expected default reason, got %q", records[2][2])
	}
}

func TestWriteQualityReport(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{
		Model:       "gpt-4o-mini",
		Catalog:     "products.csv",
		CSVPath:     "out/faqs.csv",
		GeneratedAt: time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
	results := []generate.Result{
		passedResult("serum-c", "Sérum Vitamina C"),
		passedResult("crema-noche", "Crema de Noche"),
		failedResult("bad", "Producto Roto", errors.New("respuesta sin JSON válido")),
	}

	if err := WriteQualityReport(&buf, meta, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"gpt-4o-mini",
		"2026-03-14 10:30:00",
		"Productos procesados exitosamente: 2",
		"Productos con error: 1",
		"Tasa de éxito: 66.7%",
		"Respuestas:",
		"Distribución por calidad:",
		"Distribución por intentos:",
		"Distribución por categorías",
		"Producto: serum-c",
		"respuesta sin JSON válido",
		"RECOMENDACIONES",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteQualityReportEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{Model: "gpt-4o-mini", Catalog: "products.csv", GeneratedAt: time.Now()}

	if err := WriteQualityReport(&buf, meta, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Productos procesados exitosamente: 0") {
		t.Error("expected zero success count")
	}
	if strings.Contains(out, "Tasa de éxito") {
		t.Error("success rate should be omitted for empty runs")
	}
}

func TestWriteErrorReport(t *testing.T) {
	var buf bytes.Buffer
	results := []generate.Result{
		passedResult("ok", "Bueno"),
		failedResult("bad-1", "Roto Uno", errors.New("timeout de la API")),
	}

	if err := WriteErrorReport(&buf, results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Total de errores: 1",
		"Error #1",
		"Handle: bad-1",
		"Motivo: timeout de la API",
		"POSIBLES CAUSAS COMUNES",
		"Descripción del producto muy corta o vacía",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("error report missing %q", want)
		}
	}
	if strings.Contains(out, "ok") && strings.Contains(out, "Handle: ok") {
		t.Error("successful products should not appear in the error report")
	}
}

func TestFailureReasonDefault(t *testing.T) {
	r := failedResult("h", "T", nil)
	if got := FailureReason(r); got != "no se pudo generar con calidad suficiente" {
		t.Errorf("unexpected default reason: %q", got)
	}
}
