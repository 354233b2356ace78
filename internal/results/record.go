package results

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rulemakers-physics/rmleveltest/internal/grading"
	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

var ErrNotFound = errors.New("result not found")

// Notification states.
const (
	NotifyPending = "pending"
	NotifyOK      = "ok"
	NotifyFailed  = "failed"
)

// Submitter identifies who took the test.
type Submitter struct {
	Name   string `json:"studentName" bson:"studentName"`
	School string `json:"school" bson:"school"`
	Grade  string `json:"grade" bson:"grade"` // school year / cohort
}

// Validate requires every identity field.
func (s Submitter) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "studentName")
	}
	if strings.TrimSpace(s.School) == "" {
		missing = append(missing, "school")
	}
	if strings.TrimSpace(s.Grade) == "" {
		missing = append(missing, "grade")
	}
	if len(missing) > 0 {
		return grading.Invalid(grading.ReasonMissingField, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// NotifyStatus tracks delivery of the summary notification.
type NotifyStatus struct {
	State     string `json:"state,omitempty"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"lastError,omitempty"`
}

// Record is a scored attempt enriched with submitter identity and a
// creation timestamp.
type Record struct {
	ID        string                `json:"id"`
	Submitter Submitter             `json:"submitter"`
	Answers   []variant.AnswerValue `json:"answers"`
	Breakdown grading.Breakdown     `json:"breakdown"`
	CreatedAt time.Time             `json:"createdAt"`
	Notify    NotifyStatus          `json:"notify"`
}

type ListOpts struct {
	VariantID string // optional filter
	Limit     int
	Offset    int
}

func (o ListOpts) normalized() ListOpts {
	if o.Limit <= 0 || o.Limit > 500 {
		o.Limit = 50
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// Store persists result records.
type Store interface {
	// Put assigns ID and CreatedAt when empty and stores the record.
	Put(ctx context.Context, rec Record) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	// List returns records newest first.
	List(ctx context.Context, opts ListOpts) ([]Record, error)

	MarkNotifyPending(ctx context.Context, id string) error
	MarkNotifyOK(ctx context.Context, id string) error
	MarkNotifyFailed(ctx context.Context, id, lastErr string) error
}

const placeholder = "N/A"

// Summary is the admin listing row. Absent legacy fields are shown as "N/A".
type Summary struct {
	ID            string    `json:"id"`
	VariantID     string    `json:"variantId"`
	StudentName   string    `json:"studentName"`
	School        string    `json:"school"`
	Grade         string    `json:"grade"`
	TotalCorrect  int       `json:"totalCorrect"`
	QuestionCount int       `json:"questionCount"`
	Placement     string    `json:"placement"`
	IsException   bool      `json:"isException"`
	CreatedAt     time.Time `json:"createdAt"`
	NotifyState   string    `json:"notifyState"`
}

// Summarize builds the listing row. It only touches presentation.
func Summarize(rec Record) Summary {
	s := Summary{
		ID:            rec.ID,
		VariantID:     orPlaceholder(rec.Breakdown.VariantID),
		StudentName:   orPlaceholder(rec.Submitter.Name),
		School:        orPlaceholder(rec.Submitter.School),
		Grade:         orPlaceholder(rec.Submitter.Grade),
		TotalCorrect:  rec.Breakdown.TotalCorrect,
		QuestionCount: len(rec.Answers),
		IsException:   rec.Breakdown.Placement.IsException,
		CreatedAt:     rec.CreatedAt,
		NotifyState:   orPlaceholder(rec.Notify.State),
	}
	switch rec.Breakdown.Placement.Kind {
	case variant.PolicyClass:
		s.Placement = orPlaceholder(rec.Breakdown.Placement.AssignedClass)
	case variant.PolicyGrade:
		s.Placement = "grade " + strconv.Itoa(rec.Breakdown.Placement.Grade)
	default:
		s.Placement = placeholder
	}
	return s
}

func orPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
