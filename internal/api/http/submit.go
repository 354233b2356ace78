package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rulemakers-physics/rmleveltest/internal/grading"
	"github.com/rulemakers-physics/rmleveltest/internal/notify"
	"github.com/rulemakers-physics/rmleveltest/internal/results"
	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

type submitReq struct {
	TestType       string                `json:"testType"`
	StudentAnswers []variant.AnswerValue `json:"studentAnswers"`
	StudentName    string                `json:"studentName"`
	School         string                `json:"school"`
	Grade          string                `json:"grade"`
}

type resultData struct {
	ID          string    `json:"id"`
	StudentName string    `json:"studentName"`
	School      string    `json:"school"`
	Grade       string    `json:"grade"`
	CreatedAt   time.Time `json:"createdAt"`
	Unanswered  int       `json:"unanswered"`
	grading.Breakdown
}

type submitResp struct {
	Message    string     `json:"message"`
	ResultData resultData `json:"resultData"`
}

// maxSubmissionBytes bounds request bodies; a full answer set is well
// under 2 KB.
const maxSubmissionBytes = 16 << 10

func decodeSubmission(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return grading.Invalid(grading.ReasonMalformed, "bad json: %v", err)
	}
	return nil
}

// POST /api/submit-test
func SubmitTestHandler(eng *grading.Engine, store results.Store, disp *notify.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if err := decodeSubmission(w, r, &req); err != nil {
			writeDomainError(w, "submit", err)
			return
		}
		if strings.TrimSpace(req.TestType) == "" {
			writeDomainError(w, "submit", grading.Invalid(grading.ReasonMissingField, "testType is required"))
			return
		}
		sub := results.Submitter{
			Name:   strings.TrimSpace(req.StudentName),
			School: strings.TrimSpace(req.School),
			Grade:  strings.TrimSpace(req.Grade),
		}
		if err := sub.Validate(); err != nil {
			writeDomainError(w, "submit", err)
			return
		}

		bd, err := eng.Score(req.TestType, req.StudentAnswers)
		if err != nil {
			writeDomainError(w, "submit", err)
			return
		}
		rec, err := store.Put(r.Context(), results.Record{
			Submitter: sub,
			Answers:   req.StudentAnswers,
			Breakdown: bd,
		})
		if err != nil {
			writeDomainError(w, "submit: store result", err)
			return
		}
		disp.Go(rec, nil)

		writeJSON(w, http.StatusOK, submitResp{
			Message: "Test submitted successfully!",
			ResultData: resultData{
				ID:          rec.ID,
				StudentName: sub.Name,
				School:      sub.School,
				Grade:       sub.Grade,
				CreatedAt:   rec.CreatedAt,
				Unanswered:  grading.CountUnanswered(req.StudentAnswers),
				Breakdown:   bd,
			},
		})
	}
}

// POST /api/score  { "testType": "...", "studentAnswers": [...] }
// Scores without storing or notifying.
func ScoreHandler(eng *grading.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if err := decodeSubmission(w, r, &req); err != nil {
			writeDomainError(w, "score", err)
			return
		}
		bd, err := eng.Score(req.TestType, req.StudentAnswers)
		if err != nil {
			writeDomainError(w, "score", err)
			return
		}
		writeJSON(w, http.StatusOK, bd)
	}
}
