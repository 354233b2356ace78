package grading

import (
	"encoding/json"
	"fmt"

	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

// BandCounts is the number of correct answers per difficulty band.
type BandCounts struct {
	Basic    int `json:"basic"`
	Advanced int `json:"advanced"`
}

// Total is Basic + Advanced.
func (c BandCounts) Total() int { return c.Basic + c.Advanced }

// Breakdown is the complete, self-describing result of one scoring call.
type Breakdown struct {
	VariantID       string                         `json:"variantId"`
	TotalCorrect    int                            `json:"totalCorrect"`
	WeightedTotal   *float64                       `json:"weightedTotal,omitempty"` // weighted variants only
	BasicCorrect    int                            `json:"basicCorrect"`
	AdvancedCorrect int                            `json:"advancedCorrect"`
	BySubject       map[variant.Subject]BandCounts `json:"bySubject"`
	SubjectTotals   map[variant.Subject]int        `json:"subjectTotals"`
	Placement       Placement                      `json:"placement"`
}

// Placement is the decision of the variant's policy. Kind selects which
// fields are meaningful: AssignedClass/IsException for class, Score/Grade
// for grade.
type Placement struct {
	Kind          variant.PolicyKind
	AssignedClass string
	IsException   bool
	Score         float64
	Grade         int
}

type classPlacementJSON struct {
	Kind          variant.PolicyKind `json:"kind"`
	AssignedClass string             `json:"assignedClass"`
	IsException   bool               `json:"isException"`
}

type gradePlacementJSON struct {
	Kind  variant.PolicyKind `json:"kind"`
	Score float64            `json:"score"`
	Grade int                `json:"grade"`
}

func (p Placement) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case variant.PolicyClass:
		return json.Marshal(classPlacementJSON{Kind: p.Kind, AssignedClass: p.AssignedClass, IsException: p.IsException})
	case variant.PolicyGrade:
		return json.Marshal(gradePlacementJSON{Kind: p.Kind, Score: p.Score, Grade: p.Grade})
	default:
		return nil, fmt.Errorf("placement: unknown kind %q", p.Kind)
	}
}

func (p *Placement) UnmarshalJSON(b []byte) error {
	var head struct {
		Kind variant.PolicyKind `json:"kind"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	switch head.Kind {
	case variant.PolicyClass:
		var c classPlacementJSON
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		*p = Placement{Kind: c.Kind, AssignedClass: c.AssignedClass, IsException: c.IsException}
	case variant.PolicyGrade:
		var g gradePlacementJSON
		if err := json.Unmarshal(b, &g); err != nil {
			return err
		}
		*p = Placement{Kind: g.Kind, Score: g.Score, Grade: g.Grade}
	default:
		return fmt.Errorf("placement: unknown kind %q", head.Kind)
	}
	return nil
}
