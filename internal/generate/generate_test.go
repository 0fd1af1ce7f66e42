package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/skindev/faqgen/internal/analyze"
	"github.com/skindev/faqgen/internal/catalog"
	"github.com/skindev/faqgen/internal/llm"
	"github.com/skindev/faqgen/internal/prompt"
	"github.com/skindev/faqgen/internal/score"
)

// scriptedProvider returns one scripted response (or error) per call.
type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *scriptedProvider) Generate(_ context.Context, _, _ string, _ llm.Params) (string, error) {
	i := p.calls
	p.calls++
	if i >= len(p.responses) {
		return "", fmt.Errorf("unexpected call %d", i+1)
	}
	if p.errs != nil && p.errs[i] != nil {
		return "", p.errs[i]
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) IsConfigured() bool { return true }

func faqJSON(qa llm.QA) string {
	m := map[string]llm.QA{}
	for i := 1; i <= 5; i++ {
		m[fmt.Sprintf("faq%d", i)] = qa
	}
	b, _ := json.Marshal(m)
	return string(b)
}

// passingJSON scores GOOD or better with zero violations.
func passingJSON() string {
	return faqJSON(llm.QA{
		Pregunta: "¿Cuántas gotas del sérum debo aplicar cada noche exactamente?",
		Respuesta: "Aplica 3 gotas sobre piel limpia cada noche. El retinol encapsulado mejora la textura desde la semana 4. " +
			"Espera 90 segundos antes de la crema hidratante. Complementa siempre con protección solar por las mañanas sin falta.",
	})
}

// shortAnswerJSON carries a too-short answer: parseable but violating.
func shortAnswerJSON() string {
	return faqJSON(llm.QA{
		Pregunta:  "¿Cómo reacciona la piel sensible ante la fórmula nueva?",
		Respuesta: "La piel sensible la tolera bien desde la primera semana de pruebas.",
	})
}

// weakerJSON scores below shortAnswerJSON (malformed question too).
func weakerJSON() string {
	return faqJSON(llm.QA{
		Pregunta:  "Cómo reacciona la piel sensible ante la fórmula nueva",
		Respuesta: "La piel sensible la tolera bien desde la primera semana de pruebas.",
	})
}

func newTestGenerator(p llm.Provider, maxAttempts int) *Generator {
	g := New(p, prompt.NewBuilder(rand.New(rand.NewSource(1))), score.NewScorer(score.DefaultCriteria()), maxAttempts, llm.Params{})
	g.SetSleep(func(time.Duration) {})
	return g
}

func testProduct() catalog.Product {
	return catalog.NewProduct("glow-serum", "Glow Sérum", "ACME", "45", "serum",
		map[string]string{"Body (HTML)": "Sérum facial con vitamina C para dar luminosidad a la piel apagada."})
}

func TestGenerateEarlyStopOnPass(t *testing.T) {
	p := &scriptedProvider{responses: []string{passingJSON(), passingJSON(), passingJSON()}}
	res := newTestGenerator(p, 3).Generate(context.Background(), testProduct())

	if res.Outcome != OutcomePass {
		t.Fatalf("expected pass, got %v (err %v)", res.Outcome, res.Err)
	}
	if res.Attempts != 1 || p.calls != 1 {
		t.Errorf("expected early stop after 1 attempt, got attempts=%d calls=%d", res.Attempts, p.calls)
	}
	if res.Best == nil || res.Best.Number != 1 {
		t.Error("expected best attempt #1")
	}
}

// Malformed JSON on attempts 1 and 2, a valid high-scoring response on
// attempt 3: the product must succeed with the attempt-3 result.
func TestGenerateRecoversOnThirdAttempt(t *testing.T) {
	p := &scriptedProvider{responses: []string{"not json", "```\nstill not json\n```", passingJSON()}}
	res := newTestGenerator(p, 3).Generate(context.Background(), testProduct())

	if res.Outcome != OutcomePass {
		t.Fatalf("expected pass, got %v (err %v)", res.Outcome, res.Err)
	}
	if res.Best == nil || res.Best.Number != 3 {
		t.Fatalf("expected best attempt #3, got %+v", res.Best)
	}
	if res.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", res.Attempts)
	}
}

func TestGenerateBestEffortKeepsHighestScore(t *testing.T) {
	// Attempt order: violating-but-ok, weaker, nothing better. No attempt
	// passes, so the loop exhausts and keeps the best mean.
	p := &scriptedProvider{responses: []string{shortAnswerJSON(), weakerJSON(), weakerJSON()}}
	res := newTestGenerator(p, 3).Generate(context.Background(), testProduct())

	if res.Outcome != OutcomeBestEffort {
		t.Fatalf("expected best effort, got %v", res.Outcome)
	}
	if res.Best == nil || res.Best.Number != 1 {
		t.Fatalf("expected attempt #1 retained as best, got %+v", res.Best)
	}
	if res.Best.Verdict.Passed {
		t.Error("best-effort verdict should not have passed")
	}
}

func TestGenerateBestSoFarMonotonic(t *testing.T) {
	product := testProduct()
	profile := analyze.Analyze(product)
	p := &scriptedProvider{responses: []string{weakerJSON(), shortAnswerJSON(), weakerJSON()}}
	g := newTestGenerator(p, 3)

	var bestSoFar []float64
	kb := retryKeepBest(3, func(i int) (*Attempt, float64, bool, error) {
		att, mean, stop, err := g.runAttempt(context.Background(), product, profile, i)
		if err == nil {
			if len(bestSoFar) == 0 || mean > bestSoFar[len(bestSoFar)-1] {
				bestSoFar = append(bestSoFar, mean)
			} else {
				bestSoFar = append(bestSoFar, bestSoFar[len(bestSoFar)-1])
			}
		}
		return att, mean, stop, err
	}, nil)

	if kb.Best == nil {
		t.Fatal("expected a best attempt")
	}
	for i := 1; i < len(bestSoFar); i++ {
		if bestSoFar[i] < bestSoFar[i-1] {
			t.Errorf("best-so-far mean decreased: %v", bestSoFar)
		}
	}
	if kb.Score != bestSoFar[len(bestSoFar)-1] {
		t.Errorf("kept score %v does not match best-so-far %v", kb.Score, bestSoFar)
	}
	// Attempt #2 scored highest and must be the one retained.
	if kb.Best.Number != 2 {
		t.Errorf("expected attempt #2 retained, got #%d", kb.Best.Number)
	}
}

func TestGenerateAllAttemptsFail(t *testing.T) {
	p := &scriptedProvider{
		responses: []string{"", "", ""},
		errs:      []error{fmt.Errorf("timeout"), fmt.Errorf("timeout"), fmt.Errorf("timeout")},
	}
	res := newTestGenerator(p, 3).Generate(context.Background(), testProduct())

	if res.Outcome != OutcomeFailed {
		t.Fatalf("expected failed, got %v", res.Outcome)
	}
	if res.Err == nil {
		t.Error("failed result must carry an error")
	}
	if res.Best != nil {
		t.Error("failed result must have no best attempt")
	}
	if res.Succeeded() {
		t.Error("failed result must not report success")
	}
}

func TestGenerateNeverExceedsMaxAttempts(t *testing.T) {
	p := &scriptedProvider{responses: []string{"x", "x", "x", "x", "x"}}
	res := newTestGenerator(p, 3).Generate(context.Background(), testProduct())
	if p.calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", p.calls)
	}
	if res.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", res.Attempts)
	}
}

func TestGenerateBacksOffBetweenFailures(t *testing.T) {
	p := &scriptedProvider{responses: []string{"bad", "bad", passingJSON()}}
	g := newTestGenerator(p, 3)

	var waits []time.Duration
	g.SetSleep(func(d time.Duration) { waits = append(waits, d) })
	g.Generate(context.Background(), testProduct())

	if len(waits) != 2 {
		t.Fatalf("expected 2 backoff waits, got %d", len(waits))
	}
	if waits[1] <= waits[0] {
		t.Errorf("backoff should grow after later failures: %v", waits)
	}
}

func TestAttemptParamsMonotonic(t *testing.T) {
	g := newTestGenerator(&scriptedProvider{}, 3)
	prev := g.attemptParams(0)
	for i := 1; i < 3; i++ {
		cur := g.attemptParams(i)
		if cur.Temperature < prev.Temperature ||
			cur.PresencePenalty < prev.PresencePenalty ||
			cur.FrequencyPenalty < prev.FrequencyPenalty {
			t.Errorf("params must be non-decreasing in attempt index: %+v then %+v", prev, cur)
		}
		prev = cur
	}
}

// taintedJSON reaches a GOOD-or-better mean but carries a banned-word
// violation, so it can never stop the loop early.
func taintedJSON() string {
	return faqJSON(llm.QA{
		Pregunta: "¿Cuántas gotas del sérum debo aplicar cada noche exactamente?",
		Respuesta: "Aplica 3 gotas con algo de presión sobre piel limpia cada noche. El retinol encapsulado mejora la textura en 4 semanas. " +
			"Espera 90 segundos antes de la crema hidratante. Complementa siempre con protección solar por las mañanas sin falta.",
	})
}

func TestEarlyStopRequiresZeroViolations(t *testing.T) {
	tainted := taintedJSON()
	p := &scriptedProvider{responses: []string{tainted, tainted, tainted}}
	res := newTestGenerator(p, 3).Generate(context.Background(), testProduct())

	if p.calls != 3 {
		t.Errorf("expected all 3 attempts used, got %d calls", p.calls)
	}
	if res.Outcome != OutcomeBestEffort {
		t.Errorf("expected best effort, got %v", res.Outcome)
	}
}

func TestPassingAttemptBeatsHigherScoringViolator(t *testing.T) {
	// Attempt 1 scores a higher mean but carries a banned-word violation;
	// attempt 2 passes outright. The passing set must win and stop the
	// loop, even though its mean is lower.
	p := &scriptedProvider{responses: []string{taintedJSON(), passingJSON(), passingJSON()}}
	res := newTestGenerator(p, 3).Generate(context.Background(), testProduct())

	if p.calls != 2 {
		t.Errorf("expected early stop after 2 calls, got %d", p.calls)
	}
	if res.Outcome != OutcomePass {
		t.Fatalf("expected pass, got %v", res.Outcome)
	}
	if res.Best == nil || res.Best.Number != 2 {
		t.Fatalf("expected the passing attempt #2, got %+v", res.Best)
	}
	if !res.Best.Verdict.Passed {
		t.Error("returned set must have passed outright")
	}
	if len(res.Best.Verdict.Violations) != 0 {
		t.Errorf("returned set must be violation-free, got %v", res.Best.Verdict.Violations)
	}
}
