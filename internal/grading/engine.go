package grading

import (
	"fmt"

	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

// Engine scores raw answer sets against the registry's variants. It keeps
// no state between calls and is safe for concurrent use.
type Engine struct {
	reg *variant.Registry
	cfg config
}

// Engine options

type Option func(*config)

type config struct {
	StrictShapes bool // reject answered items whose shape differs from the key
}

// WithStrictShapes upgrades a scalar/list shape mismatch on an answered item
// from "incorrect" to an InvalidSubmission with reason shape_mismatch.
func WithStrictShapes(b bool) Option { return func(c *config) { c.StrictShapes = b } }

// New builds an engine over reg.
func New(reg *variant.Registry, opts ...Option) *Engine {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{reg: reg, cfg: cfg}
}

// Registry exposes the registry the engine scores against.
func (e *Engine) Registry() *variant.Registry { return e.reg }

// Score grades answers against the variant and applies its placement
// policy. It either returns a complete Breakdown or an error, never both.
func (e *Engine) Score(variantID string, answers []variant.AnswerValue) (Breakdown, error) {
	v, err := e.resolve(variantID, answers)
	if err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		VariantID:     v.ID,
		BySubject:     map[variant.Subject]BandCounts{},
		SubjectTotals: map[variant.Subject]int{},
	}
	weighted := v.Weighted()
	weightedTotal := 0.0

	for i, ans := range answers {
		q := v.Question(i + 1)
		b.SubjectTotals[q.Subject]++
		counts := b.BySubject[q.Subject]

		if isCorrect(v.Key.At(i+1), ans) {
			b.TotalCorrect++
			if q.Band == variant.BandBasic {
				b.BasicCorrect++
				counts.Basic++
			} else {
				b.AdvancedCorrect++
				counts.Advanced++
			}
			if weighted && q.Points != nil {
				weightedTotal += *q.Points
			}
		}
		b.BySubject[q.Subject] = counts
	}
	if weighted {
		b.WeightedTotal = &weightedTotal
	}

	p, err := place(v, b)
	if err != nil {
		return Breakdown{}, err
	}
	b.Placement = p
	return b, nil
}

// resolve looks the variant up and checks the answer set's structure.
func (e *Engine) resolve(variantID string, answers []variant.AnswerValue) (*variant.Variant, error) {
	v, err := e.reg.Lookup(variantID)
	if err != nil {
		return nil, err
	}
	if len(answers) != v.QuestionCount {
		return nil, &SubmissionError{
			Reason: ReasonAnswerCount,
			Detail: fmt.Sprintf("got %d answers, variant %s has %d questions", len(answers), v.ID, v.QuestionCount),
		}
	}
	if e.cfg.StrictShapes {
		for i, ans := range answers {
			key := v.Key.At(i + 1)
			if ans.Unanswered() || ans.DontKnow() || ans.Kind() == key.Kind() {
				continue
			}
			return nil, &SubmissionError{
				Reason: ReasonShapeMismatch,
				Detail: fmt.Sprintf("question %d expects a %s answer, got %s", i+1, key.Kind(), ans.Kind()),
			}
		}
	}
	return v, nil
}

// isCorrect applies the equality rule. Valid keys are always in 1..5, so
// the 0 and -1 sentinels never match; lists must match element-wise in
// order and a shape mismatch is simply wrong.
func isCorrect(key, submitted variant.AnswerValue) bool {
	return key.Equal(submitted)
}
