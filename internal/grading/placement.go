package grading

import (
	"fmt"

	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

// place dispatches on the variant's policy kind. Exactly one branch runs.
func place(v *variant.Variant, b Breakdown) (Placement, error) {
	switch p := v.Policy.(type) {
	case variant.ClassPolicy:
		return assignClass(p, b.BasicCorrect, b.AdvancedCorrect), nil
	case variant.GradePolicy:
		score := 0.0
		if b.WeightedTotal != nil {
			score = *b.WeightedTotal
		}
		return Placement{Kind: variant.PolicyGrade, Score: score, Grade: gradeFor(p, score)}, nil
	default:
		// The registry rejects anything else at construction.
		return Placement{}, fmt.Errorf("grading: variant %s has no placement policy", v.ID)
	}
}

// assignClass evaluates the class rules in order:
//
//	advanced >= adv && basic < basicMin -> lower class, exception
//	basic >= basicMin                   -> upper class
//	otherwise                           -> lower class
func assignClass(p variant.ClassPolicy, basic, advanced int) Placement {
	out := Placement{Kind: variant.PolicyClass}
	switch {
	case advanced >= p.AdvancedThreshold && basic < p.BasicThreshold:
		out.AssignedClass = p.LowerClass
		out.IsException = true
	case basic >= p.BasicThreshold:
		out.AssignedClass = p.UpperClass
	default:
		out.AssignedClass = p.LowerClass
	}
	return out
}

// gradeFor returns the grade of the first cutoff whose bar is met. Cutoffs
// are trusted to be in descending order.
func gradeFor(p variant.GradePolicy, score float64) int {
	for _, c := range p.Cutoffs {
		if score >= c.Score {
			return c.Grade
		}
	}
	return p.Worst()
}
