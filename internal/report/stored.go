package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/skindev/faqgen/internal/database"
)

// WriteStoredRun re-emits a report for a run loaded from the database.
// The per-pair scoring detail is reduced to what the store keeps.
func WriteStoredRun(w io.Writer, run database.Run, products []database.RunProduct, faqs map[int64][]database.ProductFAQ, errs []database.RunError) error {
	var b strings.Builder
	fmt.Fprintf(&b, "REPORTE - Run %d\n", run.ID)
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Catálogo: %s\n", run.Catalog)
	fmt.Fprintf(&b, "Modelo: %s\n", run.Model)
	if run.StartedAt != nil {
		fmt.Fprintf(&b, "Inicio: %s\n", *run.StartedAt)
	}
	if run.FinishedAt != nil {
		fmt.Fprintf(&b, "Fin: %s\n", *run.FinishedAt)
	}
	b.WriteString("\n")

	b.WriteString("RESUMEN GENERAL\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Productos procesados: %d\n", run.Processed)
	fmt.Fprintf(&b, "Éxitos: %d\n", run.Succeeded)
	fmt.Fprintf(&b, "Errores: %d\n", run.Failed)
	if run.Processed > 0 {
		fmt.Fprintf(&b, "Tasa de éxito: %.1f%%\n", float64(run.Succeeded)/float64(run.Processed)*100)
	}
	b.WriteString("\n")

	for _, p := range products {
		tier := "-"
		if p.Tier != nil {
			tier = *p.Tier
		}
		fmt.Fprintf(&b, "Producto: %s (%s)\n", p.Title, p.Handle)
		fmt.Fprintf(&b, "  Resultado: %s, calidad %s, %d intento(s), media %.1f\n",
			p.Outcome, tier, p.Attempts, p.MeanScore)
		for _, f := range faqs[p.ID] {
			fmt.Fprintf(&b, "  P%d: %s\n", f.Position, f.Question)
			fmt.Fprintf(&b, "      %s\n", f.Answer)
		}
		b.WriteString("\n")
	}

	if len(errs) > 0 {
		b.WriteString("ERRORES\n")
		b.WriteString(strings.Repeat("-", 30) + "\n")
		for _, e := range errs {
			fmt.Fprintf(&b, "- %s (%s): %s\n", e.Handle, e.Title, e.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
