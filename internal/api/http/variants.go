package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

// variantView is the public shape of a variant. It never carries the
// answer key or policy thresholds.
type variantView struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	QuestionCount int                    `json:"questionCount"`
	PolicyKind    variant.PolicyKind     `json:"policyKind"`
	MaxPoints     *float64               `json:"maxPoints,omitempty"`
	Subjects      []variant.Subject      `json:"subjects"`
	Questions     []variant.QuestionSpec `json:"questions,omitempty"`
}

func viewOf(v *variant.Variant, withQuestions bool) variantView {
	out := variantView{
		ID:            v.ID,
		Title:         v.Title,
		QuestionCount: v.QuestionCount,
		PolicyKind:    v.Policy.Kind(),
		Subjects:      v.SubjectsPresent(),
	}
	if v.Weighted() {
		m := v.MaxPoints()
		out.MaxPoints = &m
	}
	if withQuestions {
		out.Questions = v.Questions
	}
	return out
}

// GET /api/variants
func ListVariantsHandler(reg *variant.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := reg.IDs()
		list := make([]variantView, 0, len(ids))
		for _, id := range ids {
			v, err := reg.Lookup(id)
			if err != nil {
				continue
			}
			list = append(list, viewOf(v, false))
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /api/variants/{variantID}
func GetVariantHandler(reg *variant.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "variantID"))
		v, err := reg.Lookup(id)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, viewOf(v, true))
	}
}

type variantKeyView struct {
	variantView
	AnswerKey variant.AnswerKey `json:"answerKey"`
	Policy    variant.Policy    `json:"policy"`
}

// GET /admin/variants/{variantID}
// Staff view: the public shape plus the answer key and policy thresholds.
func GetVariantKeyHandler(reg *variant.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "variantID"))
		v, err := reg.Lookup(id)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, variantKeyView{
			variantView: viewOf(v, true),
			AnswerKey:   v.Key,
			Policy:      v.Policy,
		})
	}
}
