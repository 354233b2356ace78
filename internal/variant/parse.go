package variant

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the YAML shape of one variant table.
type document struct {
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	QuestionCount int           `yaml:"question_count"`
	BasicMaxLevel *float64      `yaml:"basic_max_level"` // derives band when a question omits it
	Questions     []questionDoc `yaml:"questions"`
	AnswerKey     []AnswerValue `yaml:"answer_key"`
	Policy        policyDoc     `yaml:"policy"`
}

type questionDoc struct {
	N       int      `yaml:"n"`
	Subject string   `yaml:"subject"`
	Level   float64  `yaml:"level"`
	Band    string   `yaml:"band"`
	Points  *float64 `yaml:"points"`
}

type policyDoc struct {
	Kind string `yaml:"kind"`

	AdvancedThreshold *int   `yaml:"advanced_threshold"`
	BasicThreshold    *int   `yaml:"basic_threshold"`
	LowerClass        string `yaml:"lower_class"`
	UpperClass        string `yaml:"upper_class"`

	Cutoffs []cutoffDoc `yaml:"cutoffs"`
}

type cutoffDoc struct {
	Score float64 `yaml:"score"`
	Grade int     `yaml:"grade"`
}

// Parse decodes a single YAML variant document. Unknown fields and
// multiple documents are rejected.
func Parse(name string, data []byte) (Variant, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Variant{}, &DefectError{Issues: []Issue{{Variant: name, Field: "yaml", Message: err.Error()}}}
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		msg := "multiple YAML documents are not supported"
		if err != nil {
			msg = err.Error()
		}
		return Variant{}, &DefectError{Issues: []Issue{{Variant: name, Field: "yaml", Message: msg}}}
	}

	v, issues := doc.build()
	if len(issues) > 0 {
		return Variant{}, &DefectError{Issues: issues}
	}
	return v, nil
}

func (doc document) build() (Variant, []Issue) {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{Variant: doc.ID, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	v := Variant{
		ID:            strings.TrimSpace(doc.ID),
		Title:         doc.Title,
		QuestionCount: doc.QuestionCount,
		Questions:     make([]QuestionSpec, 0, len(doc.Questions)),
		Key:           AnswerKey(doc.AnswerKey),
	}
	for _, q := range doc.Questions {
		band := Band(q.Band)
		if band == "" && doc.BasicMaxLevel != nil {
			band = BandAdvanced
			if q.Level <= *doc.BasicMaxLevel {
				band = BandBasic
			}
		}
		v.Questions = append(v.Questions, QuestionSpec{
			Ordinal: q.N,
			Subject: Subject(q.Subject),
			Level:   q.Level,
			Band:    band,
			Points:  q.Points,
		})
	}

	switch PolicyKind(doc.Policy.Kind) {
	case PolicyClass:
		if doc.Policy.AdvancedThreshold == nil || doc.Policy.BasicThreshold == nil {
			add("policy", "class policy needs advanced_threshold and basic_threshold")
			break
		}
		if len(doc.Policy.Cutoffs) > 0 {
			add("policy.cutoffs", "not allowed for class policy")
		}
		v.Policy = ClassPolicy{
			AdvancedThreshold: *doc.Policy.AdvancedThreshold,
			BasicThreshold:    *doc.Policy.BasicThreshold,
			LowerClass:        doc.Policy.LowerClass,
			UpperClass:        doc.Policy.UpperClass,
		}
	case PolicyGrade:
		if doc.Policy.AdvancedThreshold != nil || doc.Policy.BasicThreshold != nil {
			add("policy", "thresholds not allowed for grade policy")
		}
		cut := make([]Cutoff, len(doc.Policy.Cutoffs))
		for i, c := range doc.Policy.Cutoffs {
			cut[i] = Cutoff{Score: c.Score, Grade: c.Grade}
		}
		v.Policy = GradePolicy{Cutoffs: cut}
	case "":
		add("policy.kind", "is required")
	default:
		add("policy.kind", "unsupported kind %q", doc.Policy.Kind)
	}
	return v, issues
}
