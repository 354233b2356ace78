package variant_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rulemakers-physics/rmleveltest/internal/variant"
)

func TestDefault_LoadsEmbeddedTables(t *testing.T) {
	reg, err := variant.Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	if got := strings.Join(reg.IDs(), ","); got != "high,middle" {
		t.Fatalf("ids = %q", got)
	}

	mid, err := reg.Lookup("middle")
	if err != nil {
		t.Fatalf("lookup middle: %v", err)
	}
	if mid.QuestionCount != 40 || len(mid.Key) != 40 {
		t.Fatalf("middle: %d questions, %d keys", mid.QuestionCount, len(mid.Key))
	}
	if n := mid.BandCount(variant.BandBasic); n != 24 {
		t.Fatalf("middle basic items = %d, want 24", n)
	}
	if n := mid.BandCount(variant.BandAdvanced); n != 16 {
		t.Fatalf("middle advanced items = %d, want 16", n)
	}
	if !mid.Key.At(20).Equal(variant.List(1, 4)) {
		t.Fatalf("middle key 20 = %s", mid.Key.At(20))
	}
	if q := mid.Question(21); q.Subject != variant.Earth || q.Band != variant.BandBasic {
		t.Fatalf("middle q21 = %+v", q)
	}
	if mid.Weighted() {
		t.Fatalf("middle must not be weighted")
	}
	cp, ok := mid.Policy.(variant.ClassPolicy)
	if !ok || cp.AdvancedThreshold != 10 || cp.BasicThreshold != 19 {
		t.Fatalf("middle policy = %#v", mid.Policy)
	}

	high, err := reg.Lookup("high")
	if err != nil {
		t.Fatalf("lookup high: %v", err)
	}
	if high.QuestionCount != 25 || !high.Weighted() {
		t.Fatalf("high: count=%d weighted=%v", high.QuestionCount, high.Weighted())
	}
	if got := high.MaxPoints(); got != 50 {
		t.Fatalf("high max points = %v, want 50", got)
	}
	gp, ok := high.Policy.(variant.GradePolicy)
	if !ok || len(gp.Cutoffs) != 9 || gp.Worst() != 9 {
		t.Fatalf("high policy = %#v", high.Policy)
	}
	if q := high.Question(2); q.Subject != variant.Integrated || q.Band != variant.BandBasic {
		t.Fatalf("high q2 = %+v", q)
	}
	if q := high.Question(13); q.Band != variant.BandAdvanced {
		t.Fatalf("high q13 band = %s", q.Band)
	}
}

func TestLookup_UnknownVariant(t *testing.T) {
	reg := variant.MustDefault()
	_, err := reg.Lookup("elementary")
	if !errors.Is(err, variant.ErrUnknownVariant) {
		t.Fatalf("want ErrUnknownVariant, got %v", err)
	}
}

const tinyClass = `
id: tiny
title: Tiny
question_count: 3
basic_max_level: 1
questions:
  - {n: 1, subject: bio, level: 1}
  - {n: 2, subject: chem, level: 1}
  - {n: 3, subject: phys, level: 2}
answer_key: [1, [2, 3], 5]
policy:
  kind: class
  advanced_threshold: 1
  basic_threshold: 2
  lower_class: lower
  upper_class: upper
`

func TestParse_Valid(t *testing.T) {
	v, err := variant.Parse("tiny.yaml", []byte(tinyClass))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	reg, err := variant.New(v)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, _ := reg.Lookup("tiny")
	if got.Question(3).Band != variant.BandAdvanced {
		t.Fatalf("q3 band = %s", got.Question(3).Band)
	}
	if got.Key.At(2).Kind() != variant.KindList {
		t.Fatalf("key 2 kind = %s", got.Key.At(2).Kind())
	}
}

func TestParse_Defects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", strings.Replace(tinyClass, "title: Tiny", "titel: Tiny", 1), "yaml"},
		{"missing thresholds", strings.Replace(tinyClass, "  basic_threshold: 2\n", "", 1), "advanced_threshold and basic_threshold"},
		{"unknown kind", strings.Replace(tinyClass, "kind: class", "kind: curve", 1), "unsupported kind"},
		{"two documents", tinyClass + "---\nid: other\n", "multiple YAML documents"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := variant.Parse("tiny.yaml", []byte(tc.doc))
			var de *variant.DefectError
			if !errors.As(err, &de) {
				t.Fatalf("want *DefectError, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestNew_StructuralInvariants(t *testing.T) {
	base := func() variant.Variant {
		v, err := variant.Parse("tiny.yaml", []byte(tinyClass))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		return v
	}
	pts := 2.0

	cases := []struct {
		name   string
		mutate func(v *variant.Variant)
		want   string
	}{
		{"short key", func(v *variant.Variant) { v.Key = v.Key[:2] }, "answer_key"},
		{"gap in ordinals", func(v *variant.Variant) { v.Questions[1].Ordinal = 5 }, "out of sequence"},
		{"bad subject", func(v *variant.Variant) { v.Questions[0].Subject = "math" }, "unknown subject"},
		{"key out of range", func(v *variant.Variant) { v.Key[0] = variant.Scalar(6) }, "outside 1..5"},
		{"zero in list key", func(v *variant.Variant) { v.Key[1] = variant.List(2, 0) }, "outside 1..5"},
		{"threshold too high", func(v *variant.Variant) {
			v.Policy = variant.ClassPolicy{AdvancedThreshold: 2, BasicThreshold: 2, LowerClass: "l", UpperClass: "u"}
		}, "advanced_threshold"},
		{"ascending cutoffs", func(v *variant.Variant) {
			v.Questions[0].Points = &pts
			v.Policy = variant.GradePolicy{Cutoffs: []variant.Cutoff{{Score: 1, Grade: 2}, {Score: 3, Grade: 1}}}
		}, "not below"},
		{"grade policy without points", func(v *variant.Variant) {
			v.Policy = variant.GradePolicy{Cutoffs: []variant.Cutoff{{Score: 0, Grade: 1}}}
		}, "point values"},
		{"no policy", func(v *variant.Variant) { v.Policy = nil }, "policy: is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := base()
			tc.mutate(&v)
			_, err := variant.New(v)
			var de *variant.DefectError
			if !errors.As(err, &de) {
				t.Fatalf("want *DefectError, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestNew_DuplicateID(t *testing.T) {
	v, err := variant.Parse("tiny.yaml", []byte(tinyClass))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := variant.New(v, v); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("want duplicate error, got %v", err)
	}
}

func TestLoad_CollectsDefectsAcrossFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"t/a.yaml": {Data: []byte(strings.Replace(tinyClass, "kind: class", "kind: curve", 1))},
		"t/b.yaml": {Data: []byte("id: [")},
	}
	_, err := variant.Load(fsys, "t")
	var de *variant.DefectError
	if !errors.As(err, &de) {
		t.Fatalf("want *DefectError, got %v", err)
	}
	if len(de.Issues) != 2 {
		t.Fatalf("issues = %d, want 2: %v", len(de.Issues), err)
	}
}

func TestMustDefault_DoesNotPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustDefault panicked: %v", r)
		}
	}()
	_ = variant.MustDefault()
}
