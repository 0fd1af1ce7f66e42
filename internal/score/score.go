// Package score evaluates a generated FAQ set against the quality
// rubric: question format and length, answer length bands, banned vague
// words, and content-richness bonuses. Scoring is deterministic and
// never mutates the generated text.
package score

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/skindev/faqgen/internal/llm"
)

// Tier is the coarse quality bucket for a whole FAQ set.
type Tier string

const (
	TierExcellent    Tier = "EXCELLENT"
	TierGood         Tier = "GOOD"
	TierAcceptable   Tier = "ACCEPTABLE"
	TierInsufficient Tier = "INSUFFICIENT"
)

// Criteria holds the configurable thresholds.
type Criteria struct {
	MinAnswerLen  int
	MaxAnswerLen  int
	BannedWords   []string
	PassThreshold float64
}

// DefaultCriteria matches the shipped quality bar.
func DefaultCriteria() Criteria {
	return Criteria{
		MinAnswerLen:  150,
		MaxAnswerLen:  350,
		BannedWords:   []string{"cosa", "algo", "etc", "etcétera"},
		PassThreshold: 5,
	}
}

// PairScore is the diagnostic detail for one question/answer pair.
type PairScore struct {
	Index      int
	Points     int
	WordCount  int
	AnswerLen  int
	Violations []string
	Bonuses    []string
}

// Verdict is the scorer's output for a whole FAQ set.
type Verdict struct {
	Passed     bool
	Violations []string
	Pairs      [llm.SetSize]PairScore
	Mean       float64
	Tier       Tier
}

// Scorer scores FAQ sets against fixed criteria.
type Scorer struct {
	criteria Criteria
}

// NewScorer creates a scorer. Zero-valued criteria fields fall back to
// the defaults.
func NewScorer(c Criteria) *Scorer {
	def := DefaultCriteria()
	if c.MinAnswerLen <= 0 {
		c.MinAnswerLen = def.MinAnswerLen
	}
	if c.MaxAnswerLen <= 0 {
		c.MaxAnswerLen = def.MaxAnswerLen
	}
	if len(c.BannedWords) == 0 {
		c.BannedWords = def.BannedWords
	}
	if c.PassThreshold <= 0 {
		c.PassThreshold = def.PassThreshold
	}
	return &Scorer{criteria: c}
}

// genericWords disqualify a question from the specificity bonus.
var genericWords = []string{"producto", "esto", "eso", "cosa"}

// quantityPattern matches a number followed by a unit or time word,
// e.g. "0.3%", "2 gotas por 3 semanas", "90 minutos".
var quantityPattern = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:%|mg|ml|gotas?|días?|semanas?|mes(?:es)?|años?|vez|veces|minutos?|horas?|noches?)`)

var (
	technicalWords = []string{
		"retinol", "hialurónico", "colágeno", "niacinamida", "péptidos",
		"antioxidante", "spf", "ph", "encapsulado", "concentración",
		"dermatológicamente", "activos",
	}
	instructionalWords = []string{
		"aplica", "aplicar", "usa", "usar", "espera", "esperar",
		"combina", "combinar", "evita", "evitar", "recomendamos", "recomienda",
	}
	benefitWords = []string{
		"reduce", "mejora", "aumenta", "estimula", "protege", "hidrata", "nutre",
	}
)

// Score evaluates a full FAQ set and returns the verdict.
func (s *Scorer) Score(set llm.FAQSet) Verdict {
	var v Verdict
	total := 0
	for i, qa := range set {
		pair := s.scorePair(i+1, qa)
		v.Pairs[i] = pair
		total += pair.Points
		v.Violations = append(v.Violations, pair.Violations...)
	}

	v.Mean = float64(total) / float64(llm.SetSize)
	switch {
	case v.Mean >= 8:
		v.Tier = TierExcellent
	case v.Mean >= 6:
		v.Tier = TierGood
	case v.Mean >= 4:
		v.Tier = TierAcceptable
	default:
		v.Tier = TierInsufficient
	}
	v.Passed = len(v.Violations) == 0 && v.Mean >= s.criteria.PassThreshold
	return v
}

func (s *Scorer) scorePair(index int, qa llm.QA) PairScore {
	pair := PairScore{
		Index:     index,
		WordCount: len(strings.Fields(qa.Pregunta)),
		AnswerLen: utf8.RuneCountInString(qa.Respuesta),
	}
	violation := func(format string, args ...any) {
		pair.Violations = append(pair.Violations, fmt.Sprintf("FAQ%d: %s", index, fmt.Sprintf(format, args...)))
	}
	bonus := func(points int, name string) {
		pair.Points += points
		pair.Bonuses = append(pair.Bonuses, name)
	}

	// Question format
	if strings.HasPrefix(qa.Pregunta, "¿") && strings.HasSuffix(qa.Pregunta, "?") {
		bonus(1, "formato")
	} else {
		violation("pregunta mal formateada")
	}

	// Question length
	switch {
	case pair.WordCount < 5:
		violation("pregunta demasiado corta (%d palabras)", pair.WordCount)
	case pair.WordCount >= 8 && pair.WordCount <= 15:
		bonus(2, "longitud_pregunta_óptima")
	default:
		bonus(1, "longitud_pregunta")
	}

	// Specificity: no generic filler nouns in the question
	if !containsAnyWord(qa.Pregunta, genericWords) {
		bonus(1, "pregunta_específica")
	}

	// Answer length bands
	switch {
	case pair.AnswerLen < s.criteria.MinAnswerLen:
		violation("respuesta muy corta (%d caracteres)", pair.AnswerLen)
	case pair.AnswerLen >= 200 && pair.AnswerLen <= 300:
		bonus(3, "longitud_respuesta_óptima")
	default:
		bonus(2, "longitud_respuesta")
	}
	if pair.AnswerLen > s.criteria.MaxAnswerLen {
		violation("respuesta muy larga (%d caracteres)", pair.AnswerLen)
	}

	// Banned vague words
	lowerAnswer := strings.ToLower(qa.Respuesta)
	for _, w := range s.criteria.BannedWords {
		if strings.Contains(lowerAnswer, strings.ToLower(w)) {
			violation("contiene palabra vaga %q", w)
			pair.Points--
		}
	}

	// Content richness
	if quantityPattern.MatchString(qa.Respuesta) {
		bonus(2, "datos_cuantitativos")
	}
	if containsAny(lowerAnswer, technicalWords) {
		bonus(1, "vocabulario_técnico")
	}
	if containsAny(lowerAnswer, instructionalWords) {
		bonus(1, "modo_de_uso")
	}
	if containsAny(lowerAnswer, benefitWords) {
		bonus(1, "beneficio_concreto")
	}
	if sentenceCount(qa.Respuesta) >= 3 {
		bonus(1, "varias_frases")
	}

	return pair
}

func sentenceCount(text string) int {
	return strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// containsAnyWord matches whole words, stripping surrounding punctuation.
func containsAnyWord(text string, words []string) bool {
	for _, field := range strings.Fields(strings.ToLower(text)) {
		field = strings.Trim(field, "¿?¡!.,;:\"'()")
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}
