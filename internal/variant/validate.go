package variant

import (
	"fmt"
	"strings"
)

// validate checks the structural invariants of one variant.
func validate(v *Variant) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Variant: v.ID, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(v.ID) == "" {
		add("id", "is required")
	}
	if v.QuestionCount <= 0 {
		add("question_count", "must be positive, got %d", v.QuestionCount)
	}
	if len(v.Questions) != v.QuestionCount {
		add("questions", "has %d entries, question_count is %d", len(v.Questions), v.QuestionCount)
	}
	if len(v.Key) != v.QuestionCount {
		add("answer_key", "has %d entries, question_count is %d", len(v.Key), v.QuestionCount)
	}

	for i, q := range v.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if q.Ordinal != i+1 {
			add(field, "ordinal %d out of sequence, want %d", q.Ordinal, i+1)
		}
		if !q.Subject.Valid() {
			add(field, "unknown subject %q", q.Subject)
		}
		if !q.Band.Valid() {
			add(field, "unknown band %q", q.Band)
		}
		if q.Points != nil && *q.Points <= 0 {
			add(field, "points must be positive, got %v", *q.Points)
		}
	}

	for i, k := range v.Key {
		if !k.validKey() {
			add(fmt.Sprintf("answer_key[%d]", i), "correct answer %s outside %d..%d", k, MinOption, MaxOption)
		}
	}

	switch p := v.Policy.(type) {
	case ClassPolicy:
		if p.AdvancedThreshold < 0 || p.BasicThreshold < 0 {
			add("policy", "thresholds must not be negative")
		}
		if p.AdvancedThreshold > v.BandCount(BandAdvanced) {
			add("policy.advanced_threshold", "%d exceeds the %d advanced items", p.AdvancedThreshold, v.BandCount(BandAdvanced))
		}
		if p.BasicThreshold > v.BandCount(BandBasic) {
			add("policy.basic_threshold", "%d exceeds the %d basic items", p.BasicThreshold, v.BandCount(BandBasic))
		}
		if strings.TrimSpace(p.LowerClass) == "" || strings.TrimSpace(p.UpperClass) == "" {
			add("policy", "lower_class and upper_class are required")
		}
	case GradePolicy:
		if len(p.Cutoffs) == 0 {
			add("policy.cutoffs", "must not be empty")
		}
		for i := 1; i < len(p.Cutoffs); i++ {
			if p.Cutoffs[i].Score >= p.Cutoffs[i-1].Score {
				add(fmt.Sprintf("policy.cutoffs[%d]", i), "score %v is not below %v", p.Cutoffs[i].Score, p.Cutoffs[i-1].Score)
			}
		}
		if !v.Weighted() {
			add("policy", "grade policy needs point values on the questions")
		}
	case nil:
		add("policy", "is required")
	default:
		add("policy", "unsupported kind %q", p.Kind())
	}
	return issues
}
