// Package generate runs the per-product attempt loop: build a prompt,
// call the provider, parse and score the response, and keep the best
// result across a bounded number of attempts.
package generate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/skindev/faqgen/internal/analyze"
	"github.com/skindev/faqgen/internal/catalog"
	"github.com/skindev/faqgen/internal/llm"
	"github.com/skindev/faqgen/internal/prompt"
	"github.com/skindev/faqgen/internal/score"
)

// Outcome is the terminal state of one product's generation loop.
type Outcome string

const (
	// OutcomePass: an attempt passed quality and stopped the loop early.
	OutcomePass Outcome = "pass"
	// OutcomeBestEffort: attempts exhausted; the best parseable result is kept.
	OutcomeBestEffort Outcome = "best_effort"
	// OutcomeFailed: no attempt ever produced a parseable FAQ set.
	OutcomeFailed Outcome = "failed"
)

// DefaultMaxAttempts bounds the retry loop per product.
const DefaultMaxAttempts = 3

// Attempt is one request/response cycle for a product.
type Attempt struct {
	Number     int // 1-based
	Params     llm.Params
	Set        llm.FAQSet
	Verdict    score.Verdict
	Categories []prompt.Category
}

// Result is the terminal state for one product.
type Result struct {
	Product  catalog.Product
	Profile  analyze.Profile
	Outcome  Outcome
	Best     *Attempt
	Attempts int
	Err      error
}

// Succeeded reports whether the result carries a usable FAQ set.
func (r Result) Succeeded() bool {
	return r.Outcome != OutcomeFailed && r.Best != nil
}

// Generator drives the attempt loop for products.
type Generator struct {
	provider    llm.Provider
	builder     *prompt.Builder
	scorer      *score.Scorer
	maxAttempts int
	baseParams  llm.Params

	// sleep is swappable so tests don't wait out backoffs.
	sleep func(time.Duration)
}

// New creates a generator. maxAttempts <= 0 falls back to the default.
func New(provider llm.Provider, builder *prompt.Builder, scorer *score.Scorer, maxAttempts int, base llm.Params) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if base.MaxTokens <= 0 {
		base.MaxTokens = 1200
	}
	if base.Temperature <= 0 {
		base.Temperature = 0.8
	}
	if base.TopP <= 0 {
		base.TopP = 0.95
	}
	if base.PresencePenalty <= 0 {
		base.PresencePenalty = 0.4
	}
	if base.FrequencyPenalty <= 0 {
		base.FrequencyPenalty = 0.4
	}
	return &Generator{
		provider:    provider,
		builder:     builder,
		scorer:      scorer,
		maxAttempts: maxAttempts,
		baseParams:  base,
		sleep:       time.Sleep,
	}
}

// SetSleep overrides the backoff sleeper; for tests.
func (g *Generator) SetSleep(fn func(time.Duration)) {
	g.sleep = fn
}

// Generate resolves one product through up to maxAttempts cycles.
// Failures never propagate beyond the product: parse errors and API
// errors consume attempts, and quality shortfalls fall back to the
// best-scoring attempt.
func (g *Generator) Generate(ctx context.Context, p catalog.Product) Result {
	profile := analyze.Analyze(p)
	res := Result{Product: p, Profile: profile}

	kb := retryKeepBest(g.maxAttempts,
		func(i int) (*Attempt, float64, bool, error) {
			return g.runAttempt(ctx, p, profile, i)
		},
		func(i int, failed bool) {
			if failed {
				g.sleep(backoffAfterError(i))
			} else {
				g.sleep(retryPause)
			}
		},
	)

	res.Attempts = kb.Attempts
	res.Best = kb.Best
	switch {
	case kb.Stopped:
		res.Outcome = OutcomePass
	case kb.Best != nil:
		res.Outcome = OutcomeBestEffort
	default:
		res.Outcome = OutcomeFailed
		res.Err = kb.LastErr
		if res.Err == nil {
			res.Err = fmt.Errorf("no parseable generation after %d attempts", kb.Attempts)
		}
	}
	return res
}

func (g *Generator) runAttempt(ctx context.Context, p catalog.Product, profile analyze.Profile, i int) (*Attempt, float64, bool, error) {
	req := g.builder.Build(p, profile, i)
	params := g.attemptParams(i)

	raw, err := g.provider.Generate(ctx, req.System, req.User, params)
	if err != nil {
		log.Printf("attempt %d for %q: %v", i+1, p.Handle, err)
		return nil, 0, false, err
	}

	set, err := llm.ParseFAQSet(raw)
	if err != nil {
		log.Printf("attempt %d for %q: %v", i+1, p.Handle, err)
		return nil, 0, false, err
	}

	verdict := g.scorer.Score(*set)
	att := &Attempt{
		Number:     i + 1,
		Params:     params,
		Set:        *set,
		Verdict:    verdict,
		Categories: req.Categories,
	}
	if !verdict.Passed {
		log.Printf("attempt %d for %q below quality bar (mean %.1f, %d violations)",
			i+1, p.Handle, verdict.Mean, len(verdict.Violations))
	}
	return att, verdict.Mean, passesEarly(verdict), nil
}

// attemptParams escalates the sampling knobs with the attempt index to
// diversify retries. Monotonic non-decreasing in i.
func (g *Generator) attemptParams(i int) llm.Params {
	p := g.baseParams
	step := float32(i)
	p.Temperature += 0.05 * step
	if p.Temperature > 1.2 {
		p.Temperature = 1.2
	}
	p.PresencePenalty += 0.1 * step
	p.FrequencyPenalty += 0.1 * step
	return p
}

// passesEarly is the early-stop condition: the verdict must have passed
// outright (zero violations, mean over threshold) and reached at least
// the GOOD tier.
func passesEarly(v score.Verdict) bool {
	return v.Passed && (v.Tier == score.TierExcellent || v.Tier == score.TierGood)
}
