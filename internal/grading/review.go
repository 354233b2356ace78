package grading

import "github.com/rulemakers-physics/rmleveltest/internal/variant"

// ItemReview is one row of a graded answer sheet.
type ItemReview struct {
	Ordinal   int             `json:"ordinal"`
	Subject   variant.Subject `json:"subject"`
	Level     float64         `json:"level"`
	Band      variant.Band    `json:"band"`
	Points    *float64        `json:"points,omitempty"`
	Submitted string          `json:"submitted"`
	Correct   string          `json:"correct"`
	IsCorrect bool            `json:"isCorrect"`
}

// Review grades each item individually for display. It validates the
// same way Score does.
func (e *Engine) Review(variantID string, answers []variant.AnswerValue) ([]ItemReview, error) {
	v, err := e.resolve(variantID, answers)
	if err != nil {
		return nil, err
	}
	out := make([]ItemReview, 0, len(answers))
	for i, ans := range answers {
		q := v.Question(i + 1)
		key := v.Key.At(i + 1)
		out = append(out, ItemReview{
			Ordinal:   q.Ordinal,
			Subject:   q.Subject,
			Level:     q.Level,
			Band:      q.Band,
			Points:    q.Points,
			Submitted: Display(ans),
			Correct:   Display(key),
			IsCorrect: isCorrect(key, ans),
		})
	}
	return out, nil
}

// Display renders an answer for people.
func Display(a variant.AnswerValue) string {
	switch {
	case a.DontKnow():
		return "don't know"
	case a.Unanswered():
		return "unanswered"
	default:
		return a.String()
	}
}

// CountUnanswered counts items left blank. "Don't know" counts as answered.
func CountUnanswered(answers []variant.AnswerValue) int {
	n := 0
	for _, a := range answers {
		if a.Unanswered() {
			n++
		}
	}
	return n
}
