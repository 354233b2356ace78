package variant

// Subject is a question's subject code, drawn from a closed set.
type Subject string

const (
	Biology    Subject = "bio"
	Earth      Subject = "earth"
	Chemistry  Subject = "chem"
	Physics    Subject = "phys"
	Integrated Subject = "comm"
)

// Subjects lists the closed set in canonical display order.
var Subjects = []Subject{Biology, Earth, Chemistry, Physics, Integrated}

func (s Subject) Valid() bool {
	for _, k := range Subjects {
		if s == k {
			return true
		}
	}
	return false
}

// Band is the coarse difficulty classification of an item.
type Band string

const (
	BandBasic    Band = "basic"
	BandAdvanced Band = "advanced"
)

func (b Band) Valid() bool { return b == BandBasic || b == BandAdvanced }

// QuestionSpec is one item's metadata.
type QuestionSpec struct {
	Ordinal int      `json:"ordinal"`
	Subject Subject  `json:"subject"`
	Level   float64  `json:"level"`
	Band    Band     `json:"band"`
	Points  *float64 `json:"points,omitempty"` // weighted variants only
}

// PolicyKind tags the placement policy payload.
type PolicyKind string

const (
	PolicyClass PolicyKind = "class"
	PolicyGrade PolicyKind = "grade"
)

// Policy is the placement policy payload of a variant. It is implemented
// only by ClassPolicy and GradePolicy.
type Policy interface {
	Kind() PolicyKind
	isPolicy()
}

// ClassPolicy assigns a class from basic/advanced band totals.
type ClassPolicy struct {
	AdvancedThreshold int    `json:"advanced_threshold"`
	BasicThreshold    int    `json:"basic_threshold"`
	LowerClass        string `json:"lower_class"`
	UpperClass        string `json:"upper_class"`
}

func (ClassPolicy) Kind() PolicyKind { return PolicyClass }
func (ClassPolicy) isPolicy()        {}

// Cutoff is one row of a grade cutoff table.
type Cutoff struct {
	Score float64 `json:"score"`
	Grade int     `json:"grade"`
}

// GradePolicy maps a weighted total to a grade. Cutoffs are sorted by
// Score descending; the registry guarantees it.
type GradePolicy struct {
	Cutoffs []Cutoff `json:"cutoffs"`
}

func (GradePolicy) Kind() PolicyKind { return PolicyGrade }
func (GradePolicy) isPolicy()        {}

// Worst is the grade of the lowest bar in the table.
func (g GradePolicy) Worst() int { return g.Cutoffs[len(g.Cutoffs)-1].Grade }

// Variant is one immutable test configuration. Values handed out by a
// Registry are shared and must be treated as read-only.
type Variant struct {
	ID            string
	Title         string
	QuestionCount int
	Questions     []QuestionSpec // index i is ordinal i+1
	Key           AnswerKey
	Policy        Policy
}

// Question returns the QuestionSpec for a 1-based ordinal.
func (v *Variant) Question(ordinal int) QuestionSpec { return v.Questions[ordinal-1] }

// Weighted reports whether any item carries a point value.
func (v *Variant) Weighted() bool {
	for _, q := range v.Questions {
		if q.Points != nil {
			return true
		}
	}
	return false
}

// MaxPoints sums every item's point value.
func (v *Variant) MaxPoints() float64 {
	total := 0.0
	for _, q := range v.Questions {
		if q.Points != nil {
			total += *q.Points
		}
	}
	return total
}

// SubjectsPresent returns the subjects used by the variant in canonical order.
func (v *Variant) SubjectsPresent() []Subject {
	seen := map[Subject]bool{}
	for _, q := range v.Questions {
		seen[q.Subject] = true
	}
	out := make([]Subject, 0, len(seen))
	for _, s := range Subjects {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// BandCount returns how many items fall into a band.
func (v *Variant) BandCount(b Band) int {
	n := 0
	for _, q := range v.Questions {
		if q.Band == b {
			n++
		}
	}
	return n
}
