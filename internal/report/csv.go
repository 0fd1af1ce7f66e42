// Package report persists the results of a generation run: the
// Matrixify import CSV, the errors CSV, and the human-readable quality
// and error reports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/skindev/faqgen/internal/generate"
)

// utf8BOM makes Excel detect the encoding (utf-8-sig equivalent).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// faqHeader returns the CSV header: Handle followed by the ten
// metafield columns Matrixify expects for a Shopify import.
func faqHeader() []string {
	header := []string{"Handle"}
	for i := 1; i <= 5; i++ {
		header = append(header,
			fmt.Sprintf("faq%dquestion (product.metafields.custom.faq%dquestion)", i, i),
			fmt.Sprintf("faq%danswer (product.metafields.custom.faq%danswer)", i, i),
		)
	}
	return header
}

// WriteFAQCSV writes one row per product that produced a usable FAQ
// set. Internal bookkeeping (tier, attempts, score) is deliberately not
// written; it belongs to the quality report.
func WriteFAQCSV(w io.Writer, results []generate.Result) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(faqHeader()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range results {
		if !r.Succeeded() {
			continue
		}
		row := []string{r.Product.Handle}
		for _, qa := range r.Best.Set {
			row = append(row, qa.Pregunta, qa.Respuesta)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row for %q: %w", r.Product.Handle, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteErrorsCSV writes one row per failed product.
func WriteErrorsCSV(w io.Writer, results []generate.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Handle", "Title", "Error"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range results {
		if r.Succeeded() {
			continue
		}
		if err := cw.Write([]string{r.Product.Handle, r.Product.Title, FailureReason(r)}); err != nil {
			return fmt.Errorf("writing row for %q: %w", r.Product.Handle, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FailureReason describes why a result carries no usable FAQ set.
func FailureReason(r generate.Result) string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return "no se pudo generar con calidad suficiente"
}
