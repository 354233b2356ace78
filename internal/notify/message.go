package notify

import (
	"fmt"
	"strconv"

	"github.com/rulemakers-physics/rmleveltest/internal/results"
	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

// Message is a Slack incoming-webhook payload using Block Kit.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Fields   []Text `json:"fields,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

type Text struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func mrkdwn(format string, args ...any) Text {
	return Text{Type: "mrkdwn", Text: fmt.Sprintf(format, args...)}
}

var subjectLabels = map[variant.Subject]string{
	variant.Biology:    "Biology",
	variant.Earth:      "Earth science",
	variant.Chemistry:  "Chemistry",
	variant.Physics:    "Physics",
	variant.Integrated: "Integrated science",
}

var bandLabels = map[variant.Band]string{
	variant.BandBasic:    "Basic",
	variant.BandAdvanced: "Advanced",
}

// Compose renders the staff summary of a stored result. v must be the
// variant the record was scored against.
func Compose(rec results.Record, v *variant.Variant) Message {
	sum := results.Summarize(rec)
	bd := rec.Breakdown

	headline := fmt.Sprintf("Level test result: %s %s %s", sum.School, sum.Grade, sum.StudentName)
	msg := Message{Text: headline}
	msg.Blocks = append(msg.Blocks,
		Block{Type: "section", Text: ptr(mrkdwn("*%s*", v.Title))},
	)

	head := []Text{
		mrkdwn("*Student:* %s (%s / %s)", sum.StudentName, sum.School, sum.Grade),
		mrkdwn("*Correct:* %d / %d", bd.TotalCorrect, v.QuestionCount),
	}
	switch bd.Placement.Kind {
	case variant.PolicyClass:
		flag := ""
		if bd.Placement.IsException {
			flag = " :rotating_light:"
		}
		head = append(head, mrkdwn("*Class:* *%s*%s", bd.Placement.AssignedClass, flag))
	case variant.PolicyGrade:
		head = append(head,
			mrkdwn("*Score:* %s / %s", trimFloat(bd.Placement.Score), trimFloat(v.MaxPoints())),
			mrkdwn("*Grade:* *%d*", bd.Placement.Grade),
		)
	}
	msg.Blocks = append(msg.Blocks, Block{Type: "section", Fields: head}, Block{Type: "divider"})

	limits := bandMax(v)
	for _, band := range []variant.Band{variant.BandBasic, variant.BandAdvanced} {
		got := bd.BasicCorrect
		if band == variant.BandAdvanced {
			got = bd.AdvancedCorrect
		}
		var fields []Text
		for _, s := range v.SubjectsPresent() {
			m := limits[s][band]
			if m == 0 {
				continue
			}
			c := bd.BySubject[s]
			n := c.Basic
			if band == variant.BandAdvanced {
				n = c.Advanced
			}
			fields = append(fields, mrkdwn("*%s:* %d / %d", subjectLabels[s], n, m))
		}
		msg.Blocks = append(msg.Blocks, Block{
			Type:   "section",
			Text:   ptr(mrkdwn("*%s items (%d / %d)*", bandLabels[band], got, v.BandCount(band))),
			Fields: fields,
		})
	}

	note := "none"
	if bd.Placement.IsException {
		note = ":rotating_light: advanced items outscored basic items; follow up with the student"
	}
	msg.Blocks = append(msg.Blocks,
		Block{Type: "divider"},
		Block{Type: "context", Elements: []Text{mrkdwn("*Notes:* %s", note)}},
	)
	return msg
}

// bandMax counts items per subject and band.
func bandMax(v *variant.Variant) map[variant.Subject]map[variant.Band]int {
	out := map[variant.Subject]map[variant.Band]int{}
	for _, q := range v.Questions {
		if out[q.Subject] == nil {
			out[q.Subject] = map[variant.Band]int{}
		}
		out[q.Subject][q.Band]++
	}
	return out
}

func trimFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func ptr[T any](v T) *T { return &v }
