package variant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinels carried by scalar answers. Valid options are 1..MaxOption.
const (
	Unanswered = 0
	DontKnow   = -1

	MinOption = 1
	MaxOption = 5
)

// AnswerKind discriminates the two answer shapes.
type AnswerKind uint8

const (
	KindScalar AnswerKind = iota // single option
	KindList                     // ordered per-part selections
)

func (k AnswerKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// AnswerValue is either a single option or an ordered list of per-part
// options. The zero value is an unanswered scalar.
type AnswerValue struct {
	kind   AnswerKind
	scalar int
	list   []int
}

// Scalar builds a single-option answer.
func Scalar(v int) AnswerValue { return AnswerValue{kind: KindScalar, scalar: v} }

// List builds a multi-part answer. The slice is copied.
func List(v ...int) AnswerValue {
	out := make([]int, len(v))
	copy(out, v)
	return AnswerValue{kind: KindList, list: out}
}

func (a AnswerValue) Kind() AnswerKind { return a.kind }

// Parts returns a copy of the list selections; nil for scalar answers.
func (a AnswerValue) Parts() []int {
	if a.kind != KindList {
		return nil
	}
	out := make([]int, len(a.list))
	copy(out, a.list)
	return out
}

// Equal reports exact equality: same shape and, for lists, the same
// elements in the same order.
func (a AnswerValue) Equal(b AnswerValue) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == KindScalar {
		return a.scalar == b.scalar
	}
	if len(a.list) != len(b.list) {
		return false
	}
	for i := range a.list {
		if a.list[i] != b.list[i] {
			return false
		}
	}
	return true
}

// Unanswered reports a scalar 0, an empty list, or a list with any 0 part.
func (a AnswerValue) Unanswered() bool {
	if a.kind == KindScalar {
		return a.scalar == Unanswered
	}
	if len(a.list) == 0 {
		return true
	}
	for _, p := range a.list {
		if p == Unanswered {
			return true
		}
	}
	return false
}

// DontKnow reports the explicit "don't know" scalar.
func (a AnswerValue) DontKnow() bool { return a.kind == KindScalar && a.scalar == DontKnow }

// validKey reports whether the value can serve as a correct answer.
func (a AnswerValue) validKey() bool {
	if a.kind == KindScalar {
		return a.scalar >= MinOption && a.scalar <= MaxOption
	}
	if len(a.list) == 0 {
		return false
	}
	for _, p := range a.list {
		if p < MinOption || p > MaxOption {
			return false
		}
	}
	return true
}

// String renders "3" or "[1, 4]".
func (a AnswerValue) String() string {
	if a.kind == KindScalar {
		return strconv.Itoa(a.scalar)
	}
	parts := make([]string, len(a.list))
	for i, p := range a.list {
		parts[i] = strconv.Itoa(p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if a.kind == KindList {
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	}
	return json.Marshal(a.scalar)
}

// UnmarshalJSON accepts an integer, an array of integers, or null (unanswered).
func (a *AnswerValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = Scalar(Unanswered)
		return nil
	case b[0] == '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("answer list: %w", err)
		}
		*a = List(parts...)
		return nil
	default:
		var v int
		if err := json.Unmarshal(b, &v); err != nil {
			return fmt.Errorf("answer: %w", err)
		}
		*a = Scalar(v)
		return nil
	}
}

func (a *AnswerValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v int
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: answer: %w", node.Line, err)
		}
		*a = Scalar(v)
		return nil
	case yaml.SequenceNode:
		var parts []int
		if err := node.Decode(&parts); err != nil {
			return fmt.Errorf("line %d: answer list: %w", node.Line, err)
		}
		*a = List(parts...)
		return nil
	default:
		return fmt.Errorf("line %d: answer must be an integer or a list of integers", node.Line)
	}
}

// AnswerKey holds the correct answer per ordinal; index i is ordinal i+1.
type AnswerKey []AnswerValue

// At returns the correct answer for a 1-based ordinal.
func (k AnswerKey) At(ordinal int) AnswerValue { return k[ordinal-1] }
