package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rulemakers-physics/rmleveltest/internal/grading"
	"github.com/rulemakers-physics/rmleveltest/internal/notify"
	"github.com/rulemakers-physics/rmleveltest/internal/results"
)

// GET /admin/results?variant=&limit=&offset=
func ListResultsHandler(store results.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := store.List(r.Context(), results.ListOpts{
			VariantID: strings.TrimSpace(q.Get("variant")),
			Limit:     parseIntDefault(q.Get("limit"), 50),
			Offset:    parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			writeDomainError(w, "list results", err)
			return
		}
		out := make([]results.Summary, 0, len(list))
		for _, rec := range list {
			out = append(out, results.Summarize(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type resultDetail struct {
	Summary results.Summary      `json:"summary"`
	Record  results.Record       `json:"record"`
	Review  []grading.ItemReview `json:"review,omitempty"`
}

// GET /admin/results/{resultID}
func GetResultHandler(store results.Store, eng *grading.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "resultID"))
		rec, err := store.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, "get result", err)
			return
		}
		review, err := eng.Review(rec.Breakdown.VariantID, rec.Answers)
		if err != nil {
			// variant retired or reshaped since the result was stored
			log.Printf("review result %s: %v", id, err)
		}
		writeJSON(w, http.StatusOK, resultDetail{Summary: results.Summarize(rec), Record: rec, Review: review})
	}
}

// POST /admin/results/{resultID}/notify
// Re-sends the staff summary synchronously and reports the outcome.
func ResendNotificationHandler(store results.Store, disp *notify.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !disp.Enabled() {
			writeError(w, http.StatusConflict, "notifications are not configured")
			return
		}
		id := strings.TrimSpace(chi.URLParam(r, "resultID"))
		rec, err := store.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, "resend notification", err)
			return
		}
		if err := disp.Notify(r.Context(), rec); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		rec, err = store.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, "resend notification", err)
			return
		}
		writeJSON(w, http.StatusOK, rec.Notify)
	}
}
