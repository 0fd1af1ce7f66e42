// Package prompt assembles the generation request for one product and
// one attempt: category selection, description enrichment, and the
// escalating quality instructions for retries.
package prompt

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/skindev/faqgen/internal/analyze"
	"github.com/skindev/faqgen/internal/catalog"
)

// minDescriptionLen is the description length below which the builder
// synthesizes generic sentences from title, price and vendor signals.
const minDescriptionLen = 50

// descriptionPreviewLen caps how much description goes into the prompt.
const descriptionPreviewLen = 600

const systemPrompt = `Eres un dermatólogo experto con 20 años de experiencia en cosmética de lujo.
CRITICAL: Genera FAQs de MÁXIMA CALIDAD con respuestas DETALLADAS de 150-350 caracteres.
Cada respuesta debe ser específica, práctica y profesional.
VARÍA el tipo y orden de preguntas para cada producto.
Responde SOLO con JSON válido.`

// Request is the pair of texts sent to the generation API.
type Request struct {
	System     string
	User       string
	Categories []Category
}

// Builder creates generation requests. The random source drives
// category and template sampling and is injectable for tests.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder creates a builder using the given random source.
func NewBuilder(rng *rand.Rand) *Builder {
	return &Builder{rng: rng}
}

// Build assembles the request for a product. attempt is 0-based; later
// attempts carry stricter instructions.
func (b *Builder) Build(p catalog.Product, profile analyze.Profile, attempt int) Request {
	desc, _ := p.Description()
	desc = EnrichDescription(p.Title, desc, p, profile)
	if utf8.RuneCountInString(desc) > descriptionPreviewLen {
		desc = string([]rune(desc)[:descriptionPreviewLen])
	}

	categories := SelectCategories(p, profile, b.rng)

	var examples []string
	for _, cat := range categories {
		templates := Templates(cat)
		q := templates[b.rng.Intn(len(templates))]
		q = strings.ReplaceAll(q, "{producto}", p.Title)
		q = strings.ReplaceAll(q, "{tipo}", "mixta")
		examples = append(examples, "- "+q)
	}

	var context strings.Builder
	if profile.HasActiveIngredients {
		context.WriteString("\nIMPORTANTE: Incluye preguntas sobre los ingredientes activos mencionados.")
	}
	if profile.IsTreatment {
		context.WriteString("\nIMPORTANTE: Incluye preguntas sobre protocolo de uso y combinación con otros productos.")
	}
	if profile.HighPrice {
		context.WriteString("\nIMPORTANTE: Justifica el valor del producto con beneficios específicos.")
	}

	user := fmt.Sprintf(`Eres un dermatólogo experto y consultor de belleza de lujo con 20 años de experiencia.
Genera 5 FAQs EXCEPCIONALES para este producto cosmético.

PRODUCTO ANALIZADO:
- Nombre: %s
- Marca: %s
- Descripción: %s
- Tipo detectado: %s
- Precio: %s€
- Tags: %s
%s

CRITERIOS DE MÁXIMA CALIDAD:

1. PREGUNTAS (obligatorio):
   - Las que REALMENTE haría un cliente exigente de cosmética premium
   - Específicas para ESTE producto, no genéricas
   - Entre 10-20 palabras cada una
   - Usar "¿" al inicio y "?" al final SIEMPRE

2. RESPUESTAS (obligatorio):
   - Entre 150-350 caracteres (3-5 frases completas y detalladas)
   - CADA respuesta debe incluir AL MENOS 2 de estos elementos:
     * Datos específicos (tiempos, cantidades, porcentajes)
     * Modo de uso detallado
     * Beneficio concreto
     * Consejo profesional
     * Ingrediente clave con su función
   - Tono experto pero accesible
   - NUNCA usar palabras vagas como "etc", "cosa", "algo"
   - Información práctica y accionable

3. VARIABILIDAD:

Crea preguntas inspiradas en estos temas (pero NO copies literalmente):
%s

MEZCLA el orden y tipo de preguntas. NO sigas un patrón predecible.
%s
RESPONDE ÚNICAMENTE con este JSON:
{
    "faq1": {"pregunta": "...", "respuesta": "..."},
    "faq2": {"pregunta": "...", "respuesta": "..."},
    "faq3": {"pregunta": "...", "respuesta": "..."},
    "faq4": {"pregunta": "...", "respuesta": "..."},
    "faq5": {"pregunta": "...", "respuesta": "..."}
}`,
		p.Title, p.Vendor, desc, profile.Type, p.Price, p.Tags,
		context.String(),
		strings.Join(examples, "\n"),
		escalation(attempt),
	)

	return Request{System: systemPrompt, User: user, Categories: categories}
}

// escalation returns extra instructions for retry attempts. The minimum
// answer length demanded rises with each failed attempt.
func escalation(attempt int) string {
	if attempt <= 0 {
		return ""
	}
	minLen := 200 + 25*attempt
	if minLen > 250 {
		minLen = 250
	}
	return fmt.Sprintf(`
ATENCIÓN: El intento anterior NO superó el control de calidad.
Esta vez sé MÁS específico y técnico: incluye cantidades, tiempos y
porcentajes concretos, y escribe respuestas de al menos %d caracteres.
`, minLen)
}

// EnrichDescription appends generic boilerplate when the description is
// under 50 characters, so thin catalog rows still produce a usable
// prompt. Deterministic given its inputs.
func EnrichDescription(title, desc string, p catalog.Product, profile analyze.Profile) string {
	if utf8.RuneCountInString(desc) >= minDescriptionLen {
		return desc
	}

	lower := strings.ToLower(title)
	var extra []string
	switch {
	case strings.Contains(lower, "tónico"):
		extra = append(extra, "Tónico facial para equilibrar y preparar la piel. Uso diario recomendado.")
	case strings.Contains(lower, "serum") || strings.Contains(lower, "sérum"):
		extra = append(extra, "Tratamiento concentrado para el cuidado facial. Aplicar antes de la crema hidratante.")
	case strings.Contains(lower, "contour") || strings.Contains(lower, "contorno"):
		extra = append(extra, "Tratamiento específico para el contorno de ojos. Reduce arrugas y ojeras.")
	case strings.Contains(lower, "cream") || strings.Contains(lower, "crema"):
		extra = append(extra, "Crema facial nutritiva e hidratante. Aplicar mañana y/o noche.")
	}

	if profile.HighPrice {
		extra = append(extra, "Producto de gama alta con activos concentrados.")
	}
	if profile.PremiumBrand {
		extra = append(extra, fmt.Sprintf("Fórmula premium de %s.", p.Vendor))
	}

	if len(extra) == 0 {
		return desc
	}
	if strings.TrimSpace(desc) == "" {
		return strings.Join(extra, " ")
	}
	return desc + " " + strings.Join(extra, " ")
}
